//go:build !windows

package editor

// Terminal editors first; plans are edited in place from the shell
var defaultEditors = []string{
	"nvim",
	"vim",
	"vi",
	"nano",
}
