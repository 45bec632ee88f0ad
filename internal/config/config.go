// Package config handles loading configuration for ghlinks (.ghlinks.yaml)
// and pkgfiles (.pkgfiles.yaml or .pkgfiles.toml).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Default configuration file names.
const (
	LinksFileName       = ".ghlinks.yaml"
	PackageFileName     = ".pkgfiles.yaml"
	PackageTOMLFileName = ".pkgfiles.toml"
)

// Defaults for ghlinks.
const (
	DefaultHost      = "https://github.com"
	DefaultUsername  = "lj1218"
	DefaultInsertion = "raw/master"
	DefaultFormat    = "markdown"
)

// DefaultLinkSuffixes are the file suffixes ghlinks matches out of the box.
var DefaultLinkSuffixes = []string{".pdf", ".epub", ".rar", ".zip", ".7z"}

// Defaults for pkgfiles.
const (
	DefaultSrcRoot = "test-data"
	DefaultDstRoot = "../test-data"
)

// DefaultPackageSuffixes are the file suffixes pkgfiles copies out of the box.
var DefaultPackageSuffixes = []string{".index", ".data", ".plan"}

// LinksConfig is the ghlinks configuration.
type LinksConfig struct {
	// Host is the scheme and host of the git remote, e.g. "https://github.com".
	Host string `yaml:"host" toml:"host"`

	// Username owns the repository on the remote.
	Username string `yaml:"username" toml:"username"`

	// Insertion is the URL segment between project name and file path
	// that points at raw content of a branch, e.g. "raw/master".
	Insertion string `yaml:"insertion" toml:"insertion"`

	Suffixes       []string `yaml:"suffixes" toml:"suffixes"`
	Ignore         []string `yaml:"ignore" toml:"ignore"`
	IgnorePatterns []string `yaml:"ignore_patterns" toml:"ignore_patterns"`

	// Format is the output format used when none is given on the command line.
	Format string `yaml:"format" toml:"format"`
}

// PackageConfig is the pkgfiles configuration.
type PackageConfig struct {
	SrcRoot string   `yaml:"src_root" toml:"src_root"`
	DstRoot string   `yaml:"dst_root" toml:"dst_root"`
	SubDirs []string `yaml:"sub_dirs" toml:"sub_dirs"`

	Suffixes       []string `yaml:"suffixes" toml:"suffixes"`
	Ignore         []string `yaml:"ignore" toml:"ignore"`
	IgnorePatterns []string `yaml:"ignore_patterns" toml:"ignore_patterns"`

	// Compress packs the destination into <dst>.tar.gz and removes the tree.
	Compress bool `yaml:"compress" toml:"compress"`

	// Symlinks is the traversal symlink policy: follow, skip or error.
	Symlinks string `yaml:"symlinks" toml:"symlinks"`
}

// DefaultLinks returns the built-in ghlinks configuration.
func DefaultLinks() *LinksConfig {
	return &LinksConfig{
		Host:      DefaultHost,
		Username:  DefaultUsername,
		Insertion: DefaultInsertion,
		Suffixes:  append([]string(nil), DefaultLinkSuffixes...),
		Format:    DefaultFormat,
	}
}

// DefaultPackage returns the built-in pkgfiles configuration.
func DefaultPackage() *PackageConfig {
	return &PackageConfig{
		SrcRoot:  DefaultSrcRoot,
		DstRoot:  DefaultDstRoot,
		Suffixes: append([]string(nil), DefaultPackageSuffixes...),
		Symlinks: "follow",
	}
}

// LoadLinksFrom reads a ghlinks configuration file on top of the defaults.
// Returns the defaults if the file doesn't exist (not an error).
// Returns an error only if the file exists but cannot be parsed.
func LoadLinksFrom(path string) (*LinksConfig, error) {
	cfg := DefaultLinks()
	if err := decodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.normalize()
	return cfg, nil
}

// FindLinks searches for .ghlinks.yaml starting from the given directory
// and walking up to parent directories until it finds one or reaches root.
func FindLinks(startDir string) (*LinksConfig, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		configPath := filepath.Join(dir, LinksFileName)
		if _, err := os.Stat(configPath); err == nil {
			return LoadLinksFrom(configPath)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return DefaultLinks(), nil
		}
		dir = parent
	}
}

// LoadPackageFrom reads a pkgfiles configuration file on top of the defaults.
// The decoder is picked by extension: .toml uses TOML, anything else YAML.
// Returns the defaults if the file doesn't exist.
func LoadPackageFrom(path string) (*PackageConfig, error) {
	cfg := DefaultPackage()
	if err := decodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.normalize()
	return cfg, nil
}

// LoadPackage reads .pkgfiles.yaml, or failing that .pkgfiles.toml, from dir.
func LoadPackage(dir string) (*PackageConfig, error) {
	for _, name := range []string{PackageFileName, PackageTOMLFileName} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return LoadPackageFrom(p)
		}
	}
	return DefaultPackage(), nil
}

// decodeFile unmarshals path into v. A missing file leaves v untouched.
func decodeFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
		return nil
	}

	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func (c *LinksConfig) normalize() {
	c.Host = strings.TrimRight(strings.TrimSpace(c.Host), "/")
	c.Username = strings.Trim(strings.TrimSpace(c.Username), "/")
	c.Insertion = strings.Trim(strings.TrimSpace(c.Insertion), "/")
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
}

func (c *PackageConfig) normalize() {
	if c.SrcRoot != "" {
		c.SrcRoot = filepath.Clean(c.SrcRoot)
	}
	if c.DstRoot != "" {
		c.DstRoot = filepath.Clean(c.DstRoot)
	}
	c.Symlinks = strings.ToLower(strings.TrimSpace(c.Symlinks))
}
