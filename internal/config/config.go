package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/go-homedir"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/schaermu/localesync/internal/match"
	"github.com/schaermu/localesync/internal/project"
)

// Defaults applied to zero-value fields after decoding.
const (
	DefaultBranch     = "main"
	DefaultGitTimeout = 300 * time.Second
)

var (
	DefaultExtensions     = []string{".json"}
	DefaultIgnore         = []string{"node_modules", ".git"}
	DefaultUsageExtension = []string{".vue", ".js", ".ts"}

	// DefaultMirrorPaths is the list of sub-paths copied between sibling
	// front-end projects by the mirror command.
	DefaultMirrorPaths = []string{
		"src/clientData",
		"src/components",
		"src/app/[locale]/(dashboard)/system",
		"src/serverData/system",
		"src/hooks",
		"src/lib",
		"src/providers",
	}
)

// Config represents the complete localesync configuration
type Config struct {
	BasePath string            `yaml:"base_path" toml:"base_path"`
	Projects []project.Project `yaml:"projects" toml:"projects"`
	Sync     SyncConfig        `yaml:"sync" toml:"sync"`
	Git      GitConfig         `yaml:"git" toml:"git"`
	Compare  CompareConfig     `yaml:"compare" toml:"compare"`
	Mirror   MirrorConfig      `yaml:"mirror" toml:"mirror"`
	KeyUsage KeyUsageConfig    `yaml:"key_usage" toml:"key_usage"`
}

// SyncConfig configures the JSON sync
type SyncConfig struct {
	// GitRefresh is a pointer so an omitted field defaults to true.
	GitRefresh *bool    `yaml:"git_refresh" toml:"git_refresh"`
	Extensions []string `yaml:"extensions" toml:"extensions"`
	Ignore     []string `yaml:"ignore" toml:"ignore"`
}

// GitConfig configures the refresh of source repositories
type GitConfig struct {
	DefaultBranch string        `yaml:"default_branch" toml:"default_branch"`
	Timeout       time.Duration `yaml:"timeout" toml:"timeout"`
	ForceCheckout bool          `yaml:"force_checkout" toml:"force_checkout"`
	ShowOutput    bool          `yaml:"show_output" toml:"show_output"`
	SSHKeyFile    string        `yaml:"ssh_key_file" toml:"ssh_key_file"`
}

// CompareConfig lists the documents compared by common-keys
type CompareConfig struct {
	Files []CompareFile `yaml:"files" toml:"files"`
}

// CompareFile is one named translation document
type CompareFile struct {
	Name string `yaml:"name" toml:"name"`
	Path string `yaml:"path" toml:"path"`
}

// MirrorConfig configures the folder mirror between sibling projects
type MirrorConfig struct {
	BasePath string   `yaml:"base_path" toml:"base_path"`
	Projects []string `yaml:"projects" toml:"projects"`
	Paths    []string `yaml:"paths" toml:"paths"`
}

// KeyUsageConfig configures the key usage scan
type KeyUsageConfig struct {
	LocaleFile string   `yaml:"locale_file" toml:"locale_file"`
	PagesDir   string   `yaml:"pages_dir" toml:"pages_dir"`
	Extensions []string `yaml:"extensions" toml:"extensions"`
	Output     string   `yaml:"output" toml:"output"`
}

// Load reads and parses the configuration file. A non-empty basePath
// replaces the configured base_path before relative paths are resolved.
func Load(path, basePath string) (*Config, error) {
	// Expand environment variables and ~ in path
	path, err := expandPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, err
	}

	if basePath != "" {
		cfg.BasePath = basePath
	}

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Parse decodes raw configuration. ext selects the format: ".toml" for
// TOML, ".yaml", ".yml" and ".json" for YAML (JSON is valid YAML).
func Parse(data []byte, ext string) (*Config, error) {
	var cfg Config

	switch strings.ToLower(ext) {
	case ".yaml", ".yml", ".json":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q (use .yaml, .yml, .json or .toml)", ext)
	}

	return &cfg, nil
}

// Finalize expands paths, applies defaults, resolves relative paths
// against BasePath and validates.
func (c *Config) Finalize() error {
	if err := c.expandPaths(); err != nil {
		return fmt.Errorf("failed to expand paths: %w", err)
	}

	c.applyDefaults()
	c.resolvePaths()

	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return nil
}

// expandPaths expands environment variables and ~ in all path fields
func (c *Config) expandPaths() error {
	fields := []*string{
		&c.BasePath,
		&c.Git.SSHKeyFile,
		&c.Mirror.BasePath,
		&c.KeyUsage.LocaleFile,
		&c.KeyUsage.PagesDir,
		&c.KeyUsage.Output,
	}
	for i := range c.Projects {
		fields = append(fields, &c.Projects[i].SourcePath, &c.Projects[i].TargetPath)
	}
	for i := range c.Compare.Files {
		fields = append(fields, &c.Compare.Files[i].Path)
	}

	var errs error
	for _, f := range fields {
		expanded, err := expandPath(*f)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		*f = expanded
	}
	return errs
}

// applyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) applyDefaults() {
	if c.Sync.GitRefresh == nil {
		enabled := true
		c.Sync.GitRefresh = &enabled
	}
	if len(c.Sync.Extensions) == 0 {
		c.Sync.Extensions = append([]string(nil), DefaultExtensions...)
	}
	if c.Sync.Ignore == nil {
		c.Sync.Ignore = append([]string(nil), DefaultIgnore...)
	}
	if c.Git.DefaultBranch == "" {
		c.Git.DefaultBranch = DefaultBranch
	}
	if c.Git.Timeout == 0 {
		c.Git.Timeout = DefaultGitTimeout
	}
	if c.Mirror.BasePath == "" {
		c.Mirror.BasePath = c.BasePath
	}
	if len(c.Mirror.Paths) == 0 {
		c.Mirror.Paths = append([]string(nil), DefaultMirrorPaths...)
	}
	if len(c.KeyUsage.Extensions) == 0 {
		c.KeyUsage.Extensions = append([]string(nil), DefaultUsageExtension...)
	}
	for i := range c.Projects {
		if c.Projects[i].SourcePath == "" {
			c.Projects[i].SourcePath = c.Projects[i].Name
		}
	}
}

// resolvePaths makes relative source and compare paths absolute under
// BasePath. Target paths are left as configured.
func (c *Config) resolvePaths() {
	for i := range c.Projects {
		c.Projects[i].SourcePath = c.Resolve(c.Projects[i].SourcePath)
	}
	for i := range c.Compare.Files {
		c.Compare.Files[i].Path = c.Resolve(c.Compare.Files[i].Path)
	}
}

// Resolve joins a relative path onto BasePath. Absolute paths and an
// empty BasePath leave p unchanged.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.BasePath == "" {
		return p
	}
	return filepath.Join(c.BasePath, p)
}

// Validate checks the configuration for errors and reports all of them.
func (c *Config) Validate() error {
	var errs error

	if c.BasePath == "" {
		errs = multierr.Append(errs, fmt.Errorf("base_path is required"))
	}

	seen := make(map[string]bool)
	for i, p := range c.Projects {
		if p.Name == "" {
			errs = multierr.Append(errs, fmt.Errorf("projects[%d].name is required", i))
			continue
		}
		key := strings.ToLower(p.Name)
		if seen[key] {
			errs = multierr.Append(errs, fmt.Errorf("projects[%d]: duplicate project name %q", i, p.Name))
		}
		seen[key] = true
		if p.TargetPath == "" {
			errs = multierr.Append(errs, fmt.Errorf("projects[%d] (%s): target_path is required", i, p.Name))
		}
	}

	if c.Git.Timeout < 0 {
		errs = multierr.Append(errs, fmt.Errorf("git.timeout must be positive: %s", c.Git.Timeout))
	}

	if _, err := match.New(c.Sync.Extensions, c.Sync.Ignore); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("sync: %w", err))
	}

	for i, f := range c.Compare.Files {
		if f.Name == "" || f.Path == "" {
			errs = multierr.Append(errs, fmt.Errorf("compare.files[%d]: name and path are required", i))
		}
	}

	for i, p := range c.Mirror.Paths {
		if filepath.IsAbs(p) {
			errs = multierr.Append(errs, fmt.Errorf("mirror.paths[%d] must be relative: %s", i, p))
		}
	}

	return errs
}

// CheckBasePath verifies that BasePath exists and is a directory.
func (c *Config) CheckBasePath() error {
	info, err := os.Stat(c.BasePath)
	if err != nil {
		return fmt.Errorf("base path %s: %w", c.BasePath, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("base path %s is not a directory", c.BasePath)
	}
	return nil
}

// GitRefreshEnabled reports whether sources are refreshed before syncing.
func (c *Config) GitRefreshEnabled() bool {
	return c.Sync.GitRefresh == nil || *c.Sync.GitRefresh
}

// Filter builds the file filter for the JSON sync.
func (c *Config) Filter() (*match.Filter, error) {
	return match.New(c.Sync.Extensions, c.Sync.Ignore)
}

// DefaultPath returns $HOME/.config/localesync/config.yaml.
func DefaultPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".config", "localesync", "config.yaml"), nil
}

func expandPath(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	return homedir.Expand(os.ExpandEnv(p))
}
