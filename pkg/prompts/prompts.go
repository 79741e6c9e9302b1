// Package prompts discovers the markdown prompt assets a project ships
// for its assistant host: slash commands, sub-agent definitions, and
// rules. Assets are plain markdown files with YAML frontmatter, looked
// up repo-local first and user-global second.
package prompts

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
)

// Kinds are the asset categories, each living in its own subdirectory.
var Kinds = []string{"commands", "agents", "rules"}

// Asset is one discovered prompt file.
type Asset struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Kind        string `json:"kind"`
	Path        string `json:"path"`
	Source      string `json:"source"` // "project" or "user"
}

type assetDir struct {
	dir    string
	source string
}

// Discovery handles prompt asset discovery from configured directories
type Discovery struct {
	dirs []assetDir
}

// Option is a function that configures a Discovery
type Option func(*Discovery) error

// WithDirs sets explicit project and user root directories (each is
// expected to contain the per-kind subdirectories).
func WithDirs(projectRoot, userRoot string) Option {
	return func(d *Discovery) error {
		d.dirs = nil
		if projectRoot != "" {
			d.dirs = append(d.dirs, assetDir{dir: projectRoot, source: "project"})
		}
		if userRoot != "" {
			d.dirs = append(d.dirs, assetDir{dir: userRoot, source: "user"})
		}
		return nil
	}
}

// WithDefaultDirs initializes the default lookup roots, repo-local first.
func WithDefaultDirs() Option {
	return func(d *Discovery) error {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return errors.Wrap(err, "failed to get user home directory")
		}
		d.dirs = []assetDir{
			{dir: "./.warden", source: "project"},
			{dir: filepath.Join(homeDir, ".warden"), source: "user"},
		}
		return nil
	}
}

// NewDiscovery creates a new prompt asset discovery instance
func NewDiscovery(opts ...Option) (*Discovery, error) {
	d := &Discovery{}

	if len(opts) == 0 {
		if err := WithDefaultDirs()(d); err != nil {
			return nil, err
		}
	} else {
		for _, opt := range opts {
			if err := opt(d); err != nil {
				return nil, err
			}
		}
	}

	return d, nil
}

// DiscoverAssets finds all prompt assets across the configured roots.
// When the same kind/name exists in more than one root, the earlier root
// wins, so repo-local assets shadow user-global ones.
func (d *Discovery) DiscoverAssets() ([]Asset, error) {
	seen := make(map[string]Asset)

	for _, root := range d.dirs {
		for _, kind := range Kinds {
			d.discoverFromDir(filepath.Join(root.dir, kind), kind, root.source, seen)
		}
	}

	assets := make([]Asset, 0, len(seen))
	for _, asset := range seen {
		assets = append(assets, asset)
	}
	sort.Slice(assets, func(i, j int) bool {
		if assets[i].Kind != assets[j].Kind {
			return assets[i].Kind < assets[j].Kind
		}
		return assets[i].Name < assets[j].Name
	})

	return assets, nil
}

func (d *Discovery) discoverFromDir(dir, kind, source string, seen map[string]Asset) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		asset, err := loadAsset(path)
		if err != nil {
			continue
		}
		asset.Kind = kind
		asset.Source = source

		key := kind + "/" + asset.Name
		if _, exists := seen[key]; !exists {
			seen[key] = *asset
		}
	}
}

// GetAsset returns a specific asset by kind and name.
func (d *Discovery) GetAsset(kind, name string) (*Asset, error) {
	assets, err := d.DiscoverAssets()
	if err != nil {
		return nil, err
	}

	for _, asset := range assets {
		if asset.Kind == kind && asset.Name == name {
			return &asset, nil
		}
	}

	return nil, errors.Errorf("%s asset '%s' not found", kind, name)
}

// loadAsset parses one markdown file's YAML frontmatter.
func loadAsset(path string) (*Asset, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read asset file")
	}

	md := goldmark.New(
		goldmark.WithExtensions(meta.Meta),
	)

	var buf bytes.Buffer
	pctx := parser.NewContext()

	if err := md.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return nil, errors.Wrap(err, "failed to parse markdown")
	}

	metaData := meta.Get(pctx)
	if metaData == nil {
		return nil, errors.New("missing frontmatter")
	}

	name, _ := metaData["name"].(string)
	description, _ := metaData["description"].(string)

	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), ".md")
	}
	if description == "" {
		return nil, errors.New("asset description is required in frontmatter")
	}

	return &Asset{
		Name:        name,
		Description: description,
		Path:        path,
	}, nil
}
