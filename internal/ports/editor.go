package ports

import "context"

// EditorOpener opens plan files in an external editor
type EditorOpener interface {
	// Open blocks until the editor exits.
	// cliEditor is the editor specified via CLI flag (takes precedence)
	Open(ctx context.Context, path string, cliEditor string) error
}
