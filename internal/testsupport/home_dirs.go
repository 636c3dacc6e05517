package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// StateDirUnder returns the default gtd state directory under homeDir.
func StateDirUnder(homeDir string) string {
	return filepath.Join(homeDir, ".local", "state", "grouptodo")
}

// EnsureHomeDirs creates the default state directory under homeDir.
func EnsureHomeDirs(homeDir string) error {
	if err := os.MkdirAll(StateDirUnder(homeDir), 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	return nil
}

// SetupTestHome points HOME at a fresh temp directory with the state
// directory already present, and returns it.
func SetupTestHome(t testing.TB) string {
	t.Helper()

	homeDir := t.TempDir()
	if err := EnsureHomeDirs(homeDir); err != nil {
		t.Fatalf("setup home dir: %v", err)
	}
	t.Setenv("HOME", homeDir)
	return homeDir
}
