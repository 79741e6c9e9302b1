// Package detect identifies which build or package tool a project uses
// by inspecting well-known marker files in the project directory. Within
// one ecosystem the most specific lockfile wins, so a repo with both a
// pnpm and an npm lockfile reports pnpm.
package detect

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Tool describes one detected build or package tool.
type Tool struct {
	Name       string `json:"name"`
	Ecosystem  string `json:"ecosystem"`
	Marker     string `json:"marker"`
	RunCommand string `json:"run_command"`
}

type marker struct {
	file string
	tool Tool
}

// Marker precedence within an ecosystem is the slice order; the first
// match wins and the rest of that ecosystem is skipped.
var ecosystems = [][]marker{
	{
		{file: "bun.lockb", tool: Tool{Name: "bun", Ecosystem: "javascript", RunCommand: "bun run"}},
		{file: "bun.lock", tool: Tool{Name: "bun", Ecosystem: "javascript", RunCommand: "bun run"}},
		{file: "pnpm-lock.yaml", tool: Tool{Name: "pnpm", Ecosystem: "javascript", RunCommand: "pnpm run"}},
		{file: "yarn.lock", tool: Tool{Name: "yarn", Ecosystem: "javascript", RunCommand: "yarn run"}},
		{file: "package-lock.json", tool: Tool{Name: "npm", Ecosystem: "javascript", RunCommand: "npm run"}},
		{file: "package.json", tool: Tool{Name: "npm", Ecosystem: "javascript", RunCommand: "npm run"}},
	},
	{
		{file: "go.mod", tool: Tool{Name: "go", Ecosystem: "go", RunCommand: "go run"}},
	},
	{
		{file: "Cargo.toml", tool: Tool{Name: "cargo", Ecosystem: "rust", RunCommand: "cargo run"}},
	},
	{
		{file: "uv.lock", tool: Tool{Name: "uv", Ecosystem: "python", RunCommand: "uv run"}},
		{file: "poetry.lock", tool: Tool{Name: "poetry", Ecosystem: "python", RunCommand: "poetry run"}},
		{file: "Pipfile.lock", tool: Tool{Name: "pipenv", Ecosystem: "python", RunCommand: "pipenv run"}},
		{file: "requirements.txt", tool: Tool{Name: "pip", Ecosystem: "python", RunCommand: "python"}},
	},
	{
		{file: "Gemfile.lock", tool: Tool{Name: "bundler", Ecosystem: "ruby", RunCommand: "bundle exec"}},
		{file: "Gemfile", tool: Tool{Name: "bundler", Ecosystem: "ruby", RunCommand: "bundle exec"}},
	},
	{
		{file: "pom.xml", tool: Tool{Name: "maven", Ecosystem: "java", RunCommand: "mvn"}},
		{file: "build.gradle", tool: Tool{Name: "gradle", Ecosystem: "java", RunCommand: "gradle"}},
		{file: "build.gradle.kts", tool: Tool{Name: "gradle", Ecosystem: "java", RunCommand: "gradle"}},
	},
	{
		{file: "Makefile", tool: Tool{Name: "make", Ecosystem: "make", RunCommand: "make"}},
	},
}

// Detect returns every tool found in the directory, one per matched
// ecosystem. An empty result means no marker file was recognized.
func Detect(dir string) ([]Tool, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, errors.Wrapf(err, "failed to inspect project directory %s", dir)
	}

	var tools []Tool
	for _, ecosystem := range ecosystems {
		for _, m := range ecosystem {
			if _, err := os.Stat(filepath.Join(dir, m.file)); err != nil {
				continue
			}
			tool := m.tool
			tool.Marker = m.file
			tools = append(tools, tool)
			break
		}
	}

	return tools, nil
}

// Primary returns the single highest-precedence tool for the directory.
func Primary(dir string) (*Tool, error) {
	tools, err := Detect(dir)
	if err != nil {
		return nil, err
	}
	if len(tools) == 0 {
		return nil, errors.Errorf("no recognized build tool in %s", dir)
	}
	return &tools[0], nil
}
