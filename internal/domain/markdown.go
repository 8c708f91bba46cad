package domain

import (
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultTitle is used when a plan has no H1 heading
const DefaultTitle = "Untitled"

// DefaultPreviewLength is the preview size used when none is configured
const DefaultPreviewLength = 200

var (
	frontmatterPattern    = regexp.MustCompile(`\A---\r?\n([\s\S]*?)\r?\n---[ \t]*(?:\r?\n|\z)`)
	titlePattern          = regexp.MustCompile(`(?m)^#[ \t]+(.+?)[ \t]*$`)
	sectionPattern        = regexp.MustCompile(`(?m)^##[ \t]+(.+?)[ \t]*$`)
	whitespacePattern     = regexp.MustCompile(`\s+`)
	relatedProjectPattern = []*regexp.Regexp{
		regexp.MustCompile("プロジェクト[：:][ \t]*`?([^\n`]+)`?"),
		regexp.MustCompile("(?i)project[：:][ \t]*`?([^\n`]+)`?"),
		regexp.MustCompile("(?i)path[：:][ \t]*`?([^\n`]+)`?"),
	}
)

// Frontmatter holds the legacy YAML header values that can seed metadata
type Frontmatter struct {
	Assignee    string     `yaml:"assignee"`
	DueDate     string     `yaml:"dueDate"`
	Estimate    string     `yaml:"estimate"`
	Priority    string     `yaml:"priority"`
	ProjectPath string     `yaml:"projectPath"`
	SessionID   string     `yaml:"sessionId"`
	Status      string     `yaml:"status"`
	Tags        StringList `yaml:"tags"`
}

// StringList accepts a YAML sequence or a comma-separated scalar
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler
func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		*l = items
		return nil
	}
	*l = SplitList(node.Value)
	return nil
}

// SplitFrontmatter separates a leading YAML frontmatter block from the body.
// Malformed YAML yields an empty Frontmatter, the block is still stripped.
func SplitFrontmatter(content string) (Frontmatter, string) {
	var fm Frontmatter
	loc := frontmatterPattern.FindStringSubmatchIndex(content)
	if loc == nil {
		return fm, content
	}
	if err := yaml.Unmarshal([]byte(content[loc[2]:loc[3]]), &fm); err != nil {
		fm = Frontmatter{}
	}
	return fm, content[loc[1]:]
}

// StripFrontmatter returns content without its frontmatter block
func StripFrontmatter(content string) string {
	_, body := SplitFrontmatter(content)
	return body
}

// ExtractTitle returns the first H1 heading, or fallback
func ExtractTitle(content, fallback string) string {
	if m := titlePattern.FindStringSubmatch(content); m != nil {
		if title := strings.TrimSpace(m[1]); title != "" {
			return title
		}
	}
	return fallback
}

// ExtractSections returns every H2 heading in document order
func ExtractSections(content string) []string {
	matches := sectionPattern.FindAllStringSubmatch(content, -1)
	sections := make([]string, 0, len(matches))
	for _, m := range matches {
		sections = append(sections, strings.TrimSpace(m[1]))
	}
	return sections
}

// ExtractPreview flattens the prose after the first H1 into a single line of
// at most length characters, skipping headings, tables, code fences and lists
func ExtractPreview(content string, length int) string {
	if length <= 0 {
		length = DefaultPreviewLength
	}

	lines := strings.Split(content, "\n")
	start := 0
	for i, line := range lines {
		if titlePattern.MatchString(line) {
			start = i + 1
			break
		}
	}

	var kept []string
	for _, line := range lines[start:] {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || isStructuralLine(trimmed) {
			continue
		}
		kept = append(kept, trimmed)
	}

	preview := strings.TrimSpace(whitespacePattern.ReplaceAllString(strings.Join(kept, " "), " "))
	runes := []rune(preview)
	if len(runes) > length {
		return string(runes[:length]) + "..."
	}
	return preview
}

func isStructuralLine(line string) bool {
	for _, prefix := range []string{"#", "|", "```", "-", "*"} {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// ExtractRelatedProject looks for a "Project:" or "path:" line and returns
// its value, or "" when none is present
func ExtractRelatedProject(content string) string {
	for _, pattern := range relatedProjectPattern {
		if m := pattern.FindStringSubmatch(content); m != nil {
			if value := strings.TrimSpace(m[1]); value != "" {
				return value
			}
		}
	}
	return ""
}

// ProjectName returns the last path element of a working directory
func ProjectName(cwd string) string {
	cwd = strings.TrimRight(strings.TrimSpace(cwd), `/\`)
	if cwd == "" {
		return ""
	}
	return cwd[strings.LastIndexAny(cwd, `/\`)+1:]
}

// SplitList splits a comma-separated list, trimming blanks
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
