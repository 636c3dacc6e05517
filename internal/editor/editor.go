// Package editor provides the interactive $EDITOR flow for composing todos.
package editor

import (
	"fmt"
	"os"
	"os/exec"

	"golang.org/x/term"
)

// IsInteractive returns true if stdin is a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Edit opens path in the user's editor and waits for it to exit.
func Edit(path string) error {
	cmd := exec.Command(editorCommand(), path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if exitErr, ok := err.(*exec.ExitError); ok {
		return fmt.Errorf("editor exited with status %d", exitErr.ExitCode())
	}
	if err != nil {
		return fmt.Errorf("failed to run editor: %w", err)
	}
	return nil
}

// editorCommand picks $VISUAL over $EDITOR, falling back to vi.
func editorCommand() string {
	for _, name := range []string{"VISUAL", "EDITOR"} {
		if value := os.Getenv(name); value != "" {
			return value
		}
	}
	return "vi"
}
