package detect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte{}, 0o644))
}

func TestDetect_LockfilePrecedence(t *testing.T) {
	tests := []struct {
		name    string
		files   []string
		want    string
		wantRun string
	}{
		{"pnpm beats npm", []string{"pnpm-lock.yaml", "package-lock.json", "package.json"}, "pnpm", "pnpm run"},
		{"bun beats everything js", []string{"bun.lockb", "yarn.lock", "package.json"}, "bun", "bun run"},
		{"yarn", []string{"yarn.lock", "package.json"}, "yarn", "yarn run"},
		{"bare package.json is npm", []string{"package.json"}, "npm", "npm run"},
		{"uv beats pip", []string{"uv.lock", "requirements.txt"}, "uv", "uv run"},
		{"poetry", []string{"poetry.lock"}, "poetry", "poetry run"},
		{"cargo", []string{"Cargo.toml"}, "cargo", "cargo run"},
		{"bundler", []string{"Gemfile"}, "bundler", "bundle exec"},
		{"maven", []string{"pom.xml"}, "maven", "mvn"},
		{"make", []string{"Makefile"}, "make", "make"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, f := range tt.files {
				touch(t, dir, f)
			}

			tool, err := Primary(dir)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tool.Name)
			assert.Equal(t, tt.wantRun, tool.RunCommand)
		})
	}
}

func TestDetect_MultipleEcosystems(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "go.mod")
	touch(t, dir, "pnpm-lock.yaml")
	touch(t, dir, "Makefile")

	tools, err := Detect(dir)
	require.NoError(t, err)
	require.Len(t, tools, 3)

	names := []string{tools[0].Name, tools[1].Name, tools[2].Name}
	assert.Equal(t, []string{"pnpm", "go", "make"}, names)
}

func TestDetect_EmptyDir(t *testing.T) {
	tools, err := Detect(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, tools)

	_, err = Primary(t.TempDir())
	assert.Error(t, err)
}

func TestDetect_MissingDir(t *testing.T) {
	_, err := Detect(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
