package prompts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAsset(t *testing.T, root, kind, file, content string) {
	t.Helper()
	dir := filepath.Join(root, kind)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(content), 0o644))
}

func TestDiscoverAssets(t *testing.T) {
	root := t.TempDir()
	writeAsset(t, root, "commands", "review.md", `---
name: review
description: Review the current diff
---
Review the staged changes.
`)
	writeAsset(t, root, "agents", "planner.md", `---
name: planner
description: Break work into steps
---
Plan the task.
`)

	discovery, err := NewDiscovery(WithDirs(root, ""))
	require.NoError(t, err)

	assets, err := discovery.DiscoverAssets()
	require.NoError(t, err)
	require.Len(t, assets, 2)

	// Sorted by kind, then name.
	assert.Equal(t, "planner", assets[0].Name)
	assert.Equal(t, "agents", assets[0].Kind)
	assert.Equal(t, "review", assets[1].Name)
	assert.Equal(t, "Review the current diff", assets[1].Description)
	assert.Equal(t, "project", assets[1].Source)
}

func TestDiscoverAssets_ProjectShadowsUser(t *testing.T) {
	project := t.TempDir()
	user := t.TempDir()
	writeAsset(t, project, "commands", "deploy.md", `---
name: deploy
description: Project deploy command
---
`)
	writeAsset(t, user, "commands", "deploy.md", `---
name: deploy
description: User deploy command
---
`)
	writeAsset(t, user, "commands", "release.md", `---
name: release
description: User release command
---
`)

	discovery, err := NewDiscovery(WithDirs(project, user))
	require.NoError(t, err)

	assets, err := discovery.DiscoverAssets()
	require.NoError(t, err)
	require.Len(t, assets, 2)

	deploy, err := discovery.GetAsset("commands", "deploy")
	require.NoError(t, err)
	assert.Equal(t, "Project deploy command", deploy.Description)
	assert.Equal(t, "project", deploy.Source)
}

func TestDiscoverAssets_SkipsInvalidFrontmatter(t *testing.T) {
	root := t.TempDir()
	writeAsset(t, root, "rules", "good.md", `---
name: good
description: A valid rule
---
`)
	writeAsset(t, root, "rules", "no-description.md", `---
name: bad
---
`)
	writeAsset(t, root, "rules", "no-frontmatter.md", "just markdown\n")
	writeAsset(t, root, "rules", "notes.txt", "not markdown")

	discovery, err := NewDiscovery(WithDirs(root, ""))
	require.NoError(t, err)

	assets, err := discovery.DiscoverAssets()
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, "good", assets[0].Name)
}

func TestDiscoverAssets_NameDefaultsToFilename(t *testing.T) {
	root := t.TempDir()
	writeAsset(t, root, "commands", "lint.md", `---
description: Run the linter
---
`)

	discovery, err := NewDiscovery(WithDirs(root, ""))
	require.NoError(t, err)

	asset, err := discovery.GetAsset("commands", "lint")
	require.NoError(t, err)
	assert.Equal(t, "Run the linter", asset.Description)
}

func TestGetAsset_NotFound(t *testing.T) {
	discovery, err := NewDiscovery(WithDirs(t.TempDir(), ""))
	require.NoError(t, err)

	_, err = discovery.GetAsset("commands", "missing")
	assert.Error(t, err)
}
