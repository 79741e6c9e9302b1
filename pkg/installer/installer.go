// Package installer merges warden's hook entries into the assistant
// host's settings document. The settings file is owned by the user and
// may carry unrelated configuration and hooks from other tools, so every
// write preserves keys and entries the installer does not recognize as
// its own. Installation is idempotent.
package installer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

const commandFallback = "warden"

// hookHandler is one command the host runs when an event fires.
type hookHandler struct {
	Type    string `json:"type"`
	Command string `json:"command"`
	Timeout int    `json:"timeout,omitempty"`
}

// hookEntry is a matcher group within one host event.
type hookEntry struct {
	Matcher string        `json:"matcher,omitempty"`
	Hooks   []hookHandler `json:"hooks"`
}

// hookSubcommands are the warden hook entry points, keyed by the host
// event that triggers them.
var hookSubcommands = map[string]string{
	"PreToolUse":  "pre-tool-use",
	"PostToolUse": "post-edit",
	"PreCompact":  "pre-compact",
	"Stop":        "stop",
	"SessionEnd":  "session-end",
}

// Options configures where hooks are installed.
type Options struct {
	// SettingsPath is the host settings document. Empty means the
	// user-global default.
	SettingsPath string
	// Executable overrides the warden binary path written into hook
	// commands. Empty resolves the current executable.
	Executable string
}

// Result reports what an install or uninstall changed, per host event.
type Result struct {
	Path      string   `json:"path"`
	Installed []string `json:"installed,omitempty"`
	Updated   []string `json:"updated,omitempty"`
	Skipped   []string `json:"skipped,omitempty"`
	Removed   []string `json:"removed,omitempty"`
}

// DefaultSettingsPath returns the user-global host settings document.
func DefaultSettingsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get user home directory")
	}
	return filepath.Join(home, ".claude", "settings.json"), nil
}

// ProjectSettingsPath returns the repo-local host settings document.
func ProjectSettingsPath() string {
	wd, err := os.Getwd()
	if err != nil {
		return filepath.Join(".", ".claude", "settings.json")
	}
	return filepath.Join(wd, ".claude", "settings.json")
}

func (o *Options) settingsPath() (string, error) {
	if o.SettingsPath != "" {
		return o.SettingsPath, nil
	}
	return DefaultSettingsPath()
}

func (o *Options) executable() string {
	if o.Executable != "" {
		return o.Executable
	}
	exe, err := os.Executable()
	if err != nil || strings.TrimSpace(exe) == "" {
		return commandFallback
	}
	return exe
}

func buildHookCommand(executable, subcommand string) string {
	if executable == commandFallback {
		return fmt.Sprintf("warden hook %s", subcommand)
	}
	return fmt.Sprintf("%q hook %s", executable, subcommand)
}

// wardenHooks builds the hook entries to install, one per host event.
func wardenHooks(executable string) map[string]hookEntry {
	entries := make(map[string]hookEntry, len(hookSubcommands))
	for eventName, subcommand := range hookSubcommands {
		entry := hookEntry{
			Hooks: []hookHandler{{
				Type:    "command",
				Command: buildHookCommand(executable, subcommand),
				Timeout: 5000,
			}},
		}
		// The post-edit scan only cares about file-writing tools.
		if eventName == "PostToolUse" {
			entry.Matcher = "Edit|Write|MultiEdit|NotebookEdit"
		}
		entries[eventName] = entry
	}
	return entries
}

func eventNames() []string {
	names := make([]string, 0, len(hookSubcommands))
	for name := range hookSubcommands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsWardenHookCommand reports whether a settings command string invokes
// one of warden's hook entry points. Used to tell our entries apart from
// other tools' hooks when merging.
func IsWardenHookCommand(command string) bool {
	parts := strings.Fields(strings.TrimSpace(command))
	if len(parts) < 3 {
		return false
	}
	execToken := strings.Trim(parts[0], "\"'")
	if filepath.Base(execToken) != "warden" {
		return false
	}
	if parts[1] != "hook" {
		return false
	}
	for _, subcommand := range hookSubcommands {
		if parts[2] == subcommand {
			return true
		}
	}
	return false
}

func readSettings(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, errors.Wrapf(err, "failed to read settings %s", path)
	}

	var settings map[string]any
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, errors.Wrapf(err, "failed to parse settings %s", path)
	}
	return settings, nil
}

func writeSettings(path string, settings map[string]any) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal settings")
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create settings directory")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write settings %s", path)
	}
	return nil
}

func entryHasWardenHook(entry map[string]any) bool {
	hooks, ok := entry["hooks"].([]any)
	if !ok {
		return false
	}
	for _, h := range hooks {
		hMap, ok := h.(map[string]any)
		if !ok {
			continue
		}
		command, _ := hMap["command"].(string)
		if IsWardenHookCommand(command) {
			return true
		}
	}
	return false
}

func entriesEqual(a, b map[string]any) bool {
	aj, _ := json.Marshal(a)
	bj, _ := json.Marshal(b)
	return string(aj) == string(bj)
}

type outcome int

const (
	outcomeInstalled outcome = iota
	outcomeUpdated
	outcomeSkipped
)

// upsert replaces any prior warden entry in the event's group list with
// the new one, keeping every foreign entry untouched.
func upsert(existing []any, newEntry map[string]any) ([]any, outcome) {
	var kept []any
	hadWarden := false
	unchanged := false

	for _, current := range existing {
		entryMap, ok := current.(map[string]any)
		if !ok || !entryHasWardenHook(entryMap) {
			kept = append(kept, current)
			continue
		}
		hadWarden = true
		if entriesEqual(entryMap, newEntry) {
			unchanged = true
		}
	}

	kept = append(kept, newEntry)
	switch {
	case unchanged:
		return kept, outcomeSkipped
	case hadWarden:
		return kept, outcomeUpdated
	default:
		return kept, outcomeInstalled
	}
}

// Install merges warden's hook entries into the settings document.
func Install(opts Options) (*Result, error) {
	path, err := opts.settingsPath()
	if err != nil {
		return nil, err
	}

	settings, err := readSettings(path)
	if err != nil {
		return nil, err
	}

	hooksObj, _ := settings["hooks"].(map[string]any)
	if hooksObj == nil {
		hooksObj = map[string]any{}
	}

	result := &Result{Path: path}
	for eventName, entry := range wardenHooks(opts.executable()) {
		existing, _ := hooksObj[eventName].([]any)

		entryJSON, err := json.Marshal(entry)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal hook entry")
		}
		var entryMap map[string]any
		if err := json.Unmarshal(entryJSON, &entryMap); err != nil {
			return nil, errors.Wrap(err, "failed to normalize hook entry")
		}

		entries, o := upsert(existing, entryMap)
		hooksObj[eventName] = entries

		switch o {
		case outcomeInstalled:
			result.Installed = append(result.Installed, eventName)
		case outcomeUpdated:
			result.Updated = append(result.Updated, eventName)
		case outcomeSkipped:
			result.Skipped = append(result.Skipped, eventName)
		}
	}

	settings["hooks"] = hooksObj
	if err := writeSettings(path, settings); err != nil {
		return nil, err
	}

	sort.Strings(result.Installed)
	sort.Strings(result.Updated)
	sort.Strings(result.Skipped)
	return result, nil
}

// Uninstall removes warden's hook entries from the settings document,
// leaving foreign hooks and all unrelated settings intact.
func Uninstall(opts Options) (*Result, error) {
	path, err := opts.settingsPath()
	if err != nil {
		return nil, err
	}

	settings, err := readSettings(path)
	if err != nil {
		return nil, err
	}

	result := &Result{Path: path}
	hooksObj, _ := settings["hooks"].(map[string]any)
	if hooksObj == nil {
		return result, nil
	}

	for _, eventName := range eventNames() {
		entries, ok := hooksObj[eventName].([]any)
		if !ok {
			continue
		}

		var kept []any
		for _, entry := range entries {
			entryMap, ok := entry.(map[string]any)
			if ok && entryHasWardenHook(entryMap) {
				continue
			}
			kept = append(kept, entry)
		}

		if len(kept) != len(entries) {
			result.Removed = append(result.Removed, eventName)
		}
		if len(kept) == 0 {
			delete(hooksObj, eventName)
		} else {
			hooksObj[eventName] = kept
		}
	}

	settings["hooks"] = hooksObj
	if err := writeSettings(path, settings); err != nil {
		return nil, err
	}

	sort.Strings(result.Removed)
	return result, nil
}
