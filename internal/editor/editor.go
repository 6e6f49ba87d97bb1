// Package editor opens the operator's text editor on a JSON document.
//
// The add and edit flows hand a record to the editor and read back what the
// operator saved. The editor command resolves from damngood configuration,
// then $EDITOR, then the first of nano, vim, or vi found on PATH.
package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	clierrors "github.com/5LV10/damngood/internal/errors"
)

// Service edits a document and returns the saved bytes.
// A cancellation (editor exited non-zero) is reported as EditorCanceled.
type Service interface {
	Edit(initial []byte) ([]byte, error)
}

var fallbackEditors = []string{"nano", "vim", "vi"}

// Resolve picks the editor command. configured comes from the tool's own
// config and wins over $EDITOR.
func Resolve(configured string) (string, error) {
	if cmd := strings.TrimSpace(configured); cmd != "" {
		return cmd, nil
	}

	if cmd := strings.TrimSpace(os.Getenv("EDITOR")); cmd != "" {
		return cmd, nil
	}

	for _, cmd := range fallbackEditors {
		if _, err := exec.LookPath(cmd); err == nil {
			return cmd, nil
		}
	}

	return "", clierrors.EditorUnavailable()
}

// Command invokes an external editor attached to the terminal.
type Command struct {
	Editor string
}

// New returns a Service for the resolved editor command.
func New(configured string) (*Command, error) {
	cmd, err := Resolve(configured)
	if err != nil {
		return nil, err
	}

	return &Command{Editor: cmd}, nil
}

// Edit writes initial to a temp .json file, runs the editor on it, and
// returns the file's contents after the editor exits cleanly.
func (c *Command) Edit(initial []byte) ([]byte, error) {
	tmp, err := os.CreateTemp("", "damngood-*.json")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}

	path := tmp.Name()
	defer os.Remove(path)

	if _, err := tmp.Write(initial); err != nil {
		_ = tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	// The editor command may carry arguments ("code --wait").
	parts := strings.Fields(c.Editor)
	args := append(parts[1:], path)

	cmd := exec.Command(parts[0], args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return nil, clierrors.EditorCanceled()
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read edited file: %w", err)
	}

	return edited, nil
}
