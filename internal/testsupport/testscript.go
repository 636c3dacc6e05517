// Package testsupport holds helpers shared by CLI and end-to-end tests.
package testsupport

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

var (
	buildOnce sync.Once
	gtdPath   string
	buildErr  error
)

// BuildGtd builds the gtd binary once and returns its path.
func BuildGtd(t testing.TB) string {
	t.Helper()

	buildOnce.Do(func() {
		moduleRoot, err := findModuleRoot()
		if err != nil {
			buildErr = err
			return
		}

		binDir, err := os.MkdirTemp("", "gtd-bin-")
		if err != nil {
			buildErr = err
			return
		}

		gtdPath = filepath.Join(binDir, "gtd")
		cmd := exec.Command("go", "build", "-o", gtdPath, "./cmd/gtd")
		cmd.Dir = moduleRoot
		output, err := cmd.CombinedOutput()
		if err != nil {
			buildErr = fmt.Errorf("build gtd: %w: %s", err, strings.TrimSpace(string(output)))
		}
	})

	if buildErr != nil {
		t.Fatalf("%v", buildErr)
	}

	return gtdPath
}

func findModuleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found above %s", dir)
		}
		dir = parent
	}
}

// SetupScriptEnv configures common environment variables for testscript. The
// backend URL is taken from apiURL; credentials are seeded with token so
// scripts start logged in.
func SetupScriptEnv(t testing.TB, env *testscript.Env, apiURL, token string) error {
	t.Helper()

	env.Setenv("GTD", BuildGtd(t))
	env.Setenv("GROUPTODO_API_URL", apiURL)

	homeDir := filepath.Join(env.WorkDir, "home")
	if err := EnsureHomeDirs(homeDir); err != nil {
		return err
	}
	env.Setenv("HOME", homeDir)

	if token != "" {
		if err := SeedCredentials(StateDirUnder(homeDir), token); err != nil {
			return err
		}
	}
	return nil
}

// SeedCredentials writes a credentials file holding token, as if a login had
// already happened.
func SeedCredentials(stateDir, token string) error {
	state := map[string]any{
		"accessToken": token,
		"user":        map[string]any{"id": 1, "nickname": "scripter", "email": "scripter@example.com"},
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(stateDir, "credentials.json"), data, 0o600)
}

// SeedSessionCookie writes a cookie file holding the session-refresh cookie
// for host, as the jar would after a login.
func SeedSessionCookie(stateDir, host, name, value string) error {
	cookies := map[string]map[string]map[string]string{
		host: {name: {"name": name, "value": value}},
	}
	data, err := json.MarshalIndent(cookies, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(stateDir, "cookies.json"), data, 0o600)
}

// CmdEnvSet stores the trimmed contents of a file in an env var.
func CmdEnvSet(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("envset does not support negation")
	}
	if len(args) != 2 {
		ts.Fatalf("usage: envset VAR FILE")
	}

	value := strings.TrimSpace(ts.ReadFile(args[1]))
	ts.Setenv(args[0], value)
}
