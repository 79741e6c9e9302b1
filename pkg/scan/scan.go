// Package scan detects leftover debug markers (console.log and friends) in
// source files touched during a session. Marker strings and exclusion globs
// are configuration, not constants, so projects can tune the policy without
// rebuilding.
package scan

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// DefaultMarkers are the debug markers flagged when none are configured.
var DefaultMarkers = []string{"console.log"}

// DefaultExcludes skip test, fixture, and config files where debug output
// is usually intentional.
var DefaultExcludes = []string{
	"**/*_test.*",
	"**/*.test.*",
	"**/*.spec.*",
	"**/test/**",
	"**/tests/**",
	"**/testdata/**",
	"**/*.config.*",
	"**/*.lock",
	"**/node_modules/**",
}

// Finding is one marker occurrence in a scanned file.
type Finding struct {
	Path   string
	Line   int
	Text   string
	Marker string
}

// Scanner scans files for configured debug markers.
type Scanner struct {
	markers  []string
	excludes []string
}

// NewScanner creates a Scanner; empty markers or excludes fall back to the
// package defaults.
func NewScanner(markers, excludes []string) *Scanner {
	if len(markers) == 0 {
		markers = DefaultMarkers
	}
	if excludes == nil {
		excludes = DefaultExcludes
	}
	return &Scanner{markers: markers, excludes: excludes}
}

// Excluded reports whether the path matches any exclusion glob.
func (s *Scanner) Excluded(path string) bool {
	slashed := filepath.ToSlash(path)
	for _, pattern := range s.excludes {
		if ok, err := doublestar.Match(pattern, slashed); err == nil && ok {
			return true
		}
	}
	return false
}

// ScanFile scans a single file and returns marker findings with line
// numbers. Excluded paths yield no findings.
func (s *Scanner) ScanFile(path string) ([]Finding, error) {
	if s.Excluded(path) {
		return nil, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()

	var findings []Finding
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := scanner.Text()
		for _, marker := range s.markers {
			if strings.Contains(text, marker) {
				findings = append(findings, Finding{
					Path:   path,
					Line:   lineNo,
					Text:   strings.TrimSpace(text),
					Marker: marker,
				})
				break
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return findings, errors.Wrapf(err, "failed to scan %s", path)
	}

	return findings, nil
}

// ScanAll scans every path and aggregates findings. Per-file failures
// (deleted files, permission errors) are collected into a multierror and
// never abort the remaining paths.
func (s *Scanner) ScanAll(paths []string) ([]Finding, error) {
	var findings []Finding
	var errs *multierror.Error

	for _, path := range paths {
		found, err := s.ScanFile(path)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		findings = append(findings, found...)
	}

	return findings, errs.ErrorOrNil()
}
