package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestScanFile_FindsMarkersWithLineNumbers(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "app.js", "const x = 1;\nconsole.log(x);\nreturn x;\nconsole.log('done');\n")

	s := NewScanner(nil, []string{})
	findings, err := s.ScanFile(path)
	require.NoError(t, err)

	require.Len(t, findings, 2)
	assert.Equal(t, 2, findings[0].Line)
	assert.Equal(t, 4, findings[1].Line)
	assert.Equal(t, "console.log", findings[0].Marker)
	assert.Equal(t, "console.log(x);", findings[0].Text)
}

func TestScanFile_NoMarkers(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "clean.js", "const x = 1;\nreturn x;\n")

	s := NewScanner(nil, []string{})
	findings, err := s.ScanFile(path)
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestScanFile_CustomMarkers(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.go", "fmt.Println(\"debug\")\nlog.Printf(\"ok\")\n")

	s := NewScanner([]string{"fmt.Println"}, []string{})
	findings, err := s.ScanFile(path)
	require.NoError(t, err)

	require.Len(t, findings, 1)
	assert.Equal(t, 1, findings[0].Line)
}

func TestExcluded_DefaultPatterns(t *testing.T) {
	s := NewScanner(nil, nil)

	assert.True(t, s.Excluded("/repo/pkg/foo_test.go"))
	assert.True(t, s.Excluded("/repo/src/app.test.js"))
	assert.True(t, s.Excluded("/repo/tests/helper.js"))
	assert.True(t, s.Excluded("/repo/jest.config.js"))
	assert.True(t, s.Excluded("/repo/node_modules/lib/index.js"))
	assert.False(t, s.Excluded("/repo/src/app.js"))
}

func TestScanFile_ExcludedPathYieldsNothing(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "app_test.go", "console.log('in test')\n")

	s := NewScanner(nil, nil)
	findings, err := s.ScanFile(path)
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestScanAll_AggregatesAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.js", "console.log(1)\n")
	b := writeFile(t, dir, "b.js", "clean\n")
	c := writeFile(t, dir, "c.js", "console.log(3)\n")

	s := NewScanner(nil, []string{})
	findings, err := s.ScanAll([]string{a, b, c})
	require.NoError(t, err)
	assert.Len(t, findings, 2)
}

func TestScanAll_MissingFilesCollectedNotFatal(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.js", "console.log(1)\n")
	missing := filepath.Join(dir, "gone.js")

	s := NewScanner(nil, []string{})
	findings, err := s.ScanAll([]string{missing, a})

	assert.Error(t, err)
	assert.Len(t, findings, 1)
}
