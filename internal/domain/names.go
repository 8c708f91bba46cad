package domain

import (
	"fmt"
	"math/rand/v2"
)

var (
	nameAdjectives = []string{
		"amber", "brave", "calm", "clever", "cosmic", "crisp", "daring", "eager",
		"gentle", "golden", "humble", "jolly", "keen", "lively", "lucky", "mellow",
		"nimble", "proud", "quiet", "rapid", "shiny", "silent", "splendid", "steady",
		"sunny", "swift", "tidy", "vivid", "witty", "zesty",
	}
	nameVerbs = []string{
		"baking", "building", "chasing", "climbing", "crafting", "dancing", "drawing",
		"dreaming", "exploring", "floating", "gliding", "growing", "humming", "jumping",
		"mapping", "painting", "planning", "roaming", "sailing", "singing", "sketching",
		"soaring", "spinning", "tinkering", "wandering", "watching", "weaving", "writing",
	}
	nameNouns = []string{
		"anchor", "beacon", "canyon", "comet", "compass", "falcon", "forest", "galaxy",
		"garden", "harbor", "island", "lantern", "meadow", "mountain", "nebula", "ocean",
		"orchard", "otter", "pebble", "phoenix", "prairie", "quasar", "river", "rocket",
		"summit", "thunder", "valley", "willow",
	}
)

// GeneratePlanName returns a random adjective-verbing-noun.md file name
func GeneratePlanName() string {
	return fmt.Sprintf("%s-%s-%s.md",
		nameAdjectives[rand.IntN(len(nameAdjectives))],
		nameVerbs[rand.IntN(len(nameVerbs))],
		nameNouns[rand.IntN(len(nameNouns))],
	)
}
