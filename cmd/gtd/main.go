// Package main implements the gtd CLI, a terminal client for the grouptodo
// backend.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/grouptodo/gtd/api"
	"github.com/grouptodo/gtd/internal/config"
	"github.com/grouptodo/gtd/internal/credentials"
	"github.com/grouptodo/gtd/internal/paths"
	"github.com/grouptodo/gtd/internal/ui"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr interface{ ExitCode() int }
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "gtd",
	Short:         "grouptodo - shared todos for small groups",
	SilenceUsage:  true,
	SilenceErrors: false,
}

var (
	rootAPIURL   string
	rootStateDir string
	rootColor    string
	rootVerbose  bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&rootAPIURL, "api-url", "", "Backend URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&rootStateDir, "state-dir", "", "Directory for credentials and cookies")
	rootCmd.PersistentFlags().StringVar(&rootColor, "color", "", "Color output: auto, always, never")
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Log request diagnostics to stderr")
}

// loadConfig merges config files, environment, and root flags.
func loadConfig() (*config.Config, error) {
	workDir, err := paths.WorkingDir()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(workDir)
	if err != nil {
		return nil, err
	}
	if rootAPIURL != "" {
		cfg.API.URL = rootAPIURL
	}
	if rootColor != "" {
		cfg.Output.Color = rootColor
	}
	return cfg, nil
}

func stateDir() (string, error) {
	dir, err := paths.ResolveWithDefault(rootStateDir, paths.DefaultStateDir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create state dir: %w", err)
	}
	return dir, nil
}

// newClient builds an API client from config and the local credential store.
func newClient() (*api.Client, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	ui.SetColorMode(cfg.Output.Color)

	dir, err := stateDir()
	if err != nil {
		return nil, nil, err
	}

	jar, err := credentials.OpenJar(dir)
	if err != nil {
		return nil, nil, err
	}

	var logWriter io.Writer = io.Discard
	if rootVerbose {
		logWriter = os.Stderr
	}

	client, err := api.NewClient(api.Options{
		BaseURL:     cfg.API.URL,
		Credentials: credentials.NewStore(dir),
		Jar:         jar,
		Logger:      log.New(logWriter, "gtd: ", 0),
	})
	if err != nil {
		return nil, nil, err
	}
	return client, cfg, nil
}
