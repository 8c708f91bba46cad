package editor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpener(env map[string]string, installed ...string) *Opener {
	return &Opener{
		getenv: func(key string) string { return env[key] },
		lookPath: func(name string) (string, error) {
			for _, bin := range installed {
				if bin == name {
					return "/usr/bin/" + name, nil
				}
			}
			return "", errors.New("not found")
		},
	}
}

func TestFindEditor(t *testing.T) {
	tests := []struct {
		name      string
		cliEditor string
		env       map[string]string
		installed []string
		want      []string
	}{
		{
			name:      "flag wins over environment",
			cliEditor: "hx",
			env:       map[string]string{EnvEditor: "micro", "EDITOR": "vim"},
			want:      []string{"hx"},
		},
		{
			name: "own variable before VISUAL",
			env:  map[string]string{EnvEditor: "micro", "VISUAL": "emacs"},
			want: []string{"micro"},
		},
		{
			name: "VISUAL before EDITOR",
			env:  map[string]string{"VISUAL": "emacs", "EDITOR": "vim"},
			want: []string{"emacs"},
		},
		{
			name: "arguments are kept",
			env:  map[string]string{"EDITOR": "code --wait"},
			want: []string{"code", "--wait"},
		},
		{
			name: "blank values are skipped",
			env:  map[string]string{EnvEditor: "  ", "EDITOR": "vim"},
			want: []string{"vim"},
		},
		{
			name:      "platform default when nothing is set",
			installed: []string{defaultEditors[len(defaultEditors)-1]},
			want:      []string{defaultEditors[len(defaultEditors)-1]},
		},
		{
			name: "nothing available",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opener := newTestOpener(tt.env, tt.installed...)
			assert.Equal(t, tt.want, opener.findEditor(tt.cliEditor))
		})
	}
}

func TestOpen_Errors(t *testing.T) {
	opener := newTestOpener(nil)

	err := opener.Open(context.Background(), "", "")
	require.Error(t, err)

	err = opener.Open(context.Background(), filepath.Join(t.TempDir(), "missing.md"), "vim")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path does not exist")

	path := filepath.Join(t.TempDir(), "plan.md")
	require.NoError(t, writeFile(path))
	err = opener.Open(context.Background(), path, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no suitable editor found")
}

func writeFile(path string) error {
	return os.WriteFile(path, []byte("# Plan\n"), 0644)
}
