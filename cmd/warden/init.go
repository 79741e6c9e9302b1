package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/wardenhq/warden/pkg/presenter"
	"github.com/wardenhq/warden/pkg/scan"
)

type sessionsConfigYAML struct {
	Store string `yaml:"store"`
	Dir   string `yaml:"dir,omitempty"`
}

type counterConfigYAML struct {
	Interval int `yaml:"interval"`
	Limit    int `yaml:"limit"`
}

type scanConfigYAML struct {
	Markers  []string `yaml:"markers"`
	Excludes []string `yaml:"excludes"`
}

type patternsConfigYAML struct {
	MinMessages   int    `yaml:"min_messages"`
	CandidatesDir string `yaml:"candidates_dir,omitempty"`
}

type configYAML struct {
	LogLevel  string             `yaml:"log_level"`
	LogFormat string             `yaml:"log_format"`
	Sessions  sessionsConfigYAML `yaml:"sessions"`
	Counter   counterConfigYAML  `yaml:"counter"`
	Scan      scanConfigYAML     `yaml:"scan"`
	Patterns  patternsConfigYAML `yaml:"patterns"`
}

func defaultConfigYAML() configYAML {
	return configYAML{
		LogLevel:  "warn",
		LogFormat: "fmt",
		Sessions:  sessionsConfigYAML{Store: "json"},
		Counter:   counterConfigYAML{Interval: 50, Limit: 200},
		Scan: scanConfigYAML{
			Markers:  scan.DefaultMarkers,
			Excludes: scan.DefaultExcludes,
		},
		Patterns: patternsConfigYAML{MinMessages: 10},
	}
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file to ~/.warden/config.yaml",
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return errors.Wrap(err, "failed to get user home directory")
		}

		configDir := filepath.Join(home, ".warden")
		configPath := filepath.Join(configDir, "config.yaml")

		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(configPath); err == nil && !force {
			presenter.Info(fmt.Sprintf("Config already exists at %s (use --force to overwrite)", configPath))
			return nil
		}

		if err := os.MkdirAll(configDir, 0o755); err != nil {
			return errors.Wrap(err, "failed to create config directory")
		}

		data, err := yaml.Marshal(defaultConfigYAML())
		if err != nil {
			return errors.Wrap(err, "failed to marshal default config")
		}

		header := []byte("# warden configuration. Every key is overridable via WARDEN_* env vars.\n")
		if err := os.WriteFile(configPath, append(header, data...), 0o644); err != nil {
			return errors.Wrapf(err, "failed to write %s", configPath)
		}

		presenter.Success(fmt.Sprintf("Wrote default config to %s", configPath))
		return nil
	},
}

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")
}
