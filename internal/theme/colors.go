package theme

import "github.com/charmbracelet/lipgloss"

// Color is an alias for lipgloss.Color for convenience
type Color = lipgloss.Color

// Brand colors
const (
	ColorPrimary   Color = "99" // Purple - titles
	ColorSecondary Color = "86" // Cyan - section headings
)

// UI semantic colors
const (
	ColorError  Color = "196" // Bright red
	ColorMuted  Color = "241" // Gray - secondary text
	ColorNormal Color = "250" // Default text
	ColorSubtle Color = "245" // Light gray - labels
)

// Plan state colors
const (
	ColorBlocked  Color = "1"   // Red - waiting on another plan
	ColorDone     Color = "2"   // Green - completed subtask
	ColorReadOnly Color = "141" // Purple - virtual plan
)

// DefaultStatusColors is the default palette for todo, in_progress, review, completed
var DefaultStatusColors = []string{"245", "33", "214", "46"}
