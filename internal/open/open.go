package open

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/google/shlex"
	"github.com/noborus/ov/oviewer"
)

// Opener resolves a confirmed selection: hand the file to the configured
// editor, or page it in place when preview mode is on. Errors here are the
// one part of the pipeline that is surfaced to the user; the session has
// already closed, so a failure never reopens it.
type Opener struct {
	editorCommand string
	preview       bool
}

// New creates an opener. An empty editor command falls back to $EDITOR,
// then to vi.
func New(editorCommand string, preview bool) *Opener {
	return &Opener{editorCommand: editorCommand, preview: preview}
}

// OpenFile opens the resolved path for the user.
func (o *Opener) OpenFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("cannot open %s: %w", path, err)
	}
	if o.preview {
		return o.page(path)
	}
	return o.edit(path)
}

// edit launches the editor attached to the caller's terminal.
func (o *Opener) edit(path string) error {
	command := o.editorCommand
	if command == "" {
		command = os.Getenv("EDITOR")
	}
	if command == "" {
		command = "vi"
	}

	argv, err := shlex.Split(command)
	if err != nil || len(argv) == 0 {
		return fmt.Errorf("invalid editor command %q", command)
	}
	argv = append(argv, path)

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor failed for %s: %w", path, err)
	}
	return nil
}

// page shows the file in the embedded pager.
func (o *Opener) page(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot open %s: %w", path, err)
	}
	defer f.Close()

	root, err := oviewer.NewRoot(f)
	if err != nil {
		return fmt.Errorf("failed to start pager: %w", err)
	}

	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}
