package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pb33f/gqlific/motor/model"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

const (
	// DirPermissions is the permission mode for the config directory
	DirPermissions = 0755
	// FilePermissions is the permission mode for a written config file
	FilePermissions = 0644

	// TokenPlaceholder in a quick header value expands to the active environment token
	TokenPlaceholder = "{{token}}"

	defaultHistoryLimit = 50
)

// SampleQuery is the operation a fresh workbench opens with.
const SampleQuery = `query GetUsersWithPosts {
  users {
    id
    name
    email
    posts {
      id
      title
    }
  }
}`

// Config is the workbench configuration file.
type Config struct {
	Active       string                `yaml:"active" json:"active"`
	Environments []model.Environment   `yaml:"environments" json:"environments"`
	Defaults     Defaults              `yaml:"defaults" json:"defaults"`
	QuickHeaders []model.NameValuePair `yaml:"quickHeaders" json:"quickHeaders"`
	Collections  []model.Collection    `yaml:"collections" json:"collections"`
	HistoryLimit int                   `yaml:"historyLimit" json:"historyLimit"`
}

// Defaults seed a new workbench.
type Defaults struct {
	Query     string `yaml:"query" json:"query"`
	Variables string `yaml:"variables" json:"variables"`
	Headers   string `yaml:"headers" json:"headers"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Active: "mock",
		Environments: []model.Environment{
			{Name: "mock", URL: "mock://local", Color: "201"},
		},
		Defaults: Defaults{
			Query:     SampleQuery,
			Variables: "{}",
			Headers:   `{"Content-Type": "application/json"}`,
		},
		QuickHeaders: []model.NameValuePair{
			{Name: "Authorization", Value: "Bearer " + TokenPlaceholder},
			{Name: "Content-Type", Value: "application/json"},
			{Name: "Accept", Value: "application/graphql-response+json"},
		},
		HistoryLimit: defaultHistoryLimit,
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/gqlific/config.yaml or its platform equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, "gqlific", "config.yaml"), nil
}

// Load reads the file at path. A missing file yields Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes configuration bytes. ext selects the format: .json and .jsonc are
// read as JSON with comments, anything else as YAML. Unset fields keep their defaults.
func Parse(data []byte, ext string) (*Config, error) {
	cfg := Default()
	cfg.Environments = nil
	cfg.QuickHeaders = nil

	switch strings.ToLower(ext) {
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), cfg); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
	}

	if len(cfg.Environments) == 0 {
		cfg.Environments = Default().Environments
		if cfg.Active == "" {
			cfg.Active = Default().Active
		}
	}
	if cfg.QuickHeaders == nil {
		cfg.QuickHeaders = Default().QuickHeaders
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = defaultHistoryLimit
	}
	if cfg.Active == "" {
		cfg.Active = cfg.Environments[0].Name
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML, creating the directory if needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), DirPermissions); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, data, FilePermissions); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// Validate checks that names are present and unique and that the active environment exists.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Environments))
	for i, env := range c.Environments {
		if env.Name == "" {
			return fmt.Errorf("environment %d has no name", i)
		}
		if env.URL == "" {
			return fmt.Errorf("environment %q has no url", env.Name)
		}
		if seen[env.Name] {
			return fmt.Errorf("environment %q is defined more than once", env.Name)
		}
		seen[env.Name] = true
	}

	if c.Active != "" && !seen[c.Active] {
		return fmt.Errorf("active environment %q is not defined", c.Active)
	}

	for i, h := range c.QuickHeaders {
		if h.Name == "" {
			return fmt.Errorf("quick header %d has no name", i)
		}
	}

	for _, col := range c.Collections {
		if col.Name == "" {
			return fmt.Errorf("collection %q has no name", col.ID)
		}
		for j, item := range col.Queries {
			if strings.TrimSpace(item.Query) == "" {
				return fmt.Errorf("collection %q item %d (%s) has no query", col.Name, j, item.Name)
			}
		}
	}

	return nil
}

// Environment returns the named environment.
func (c *Config) Environment(name string) (model.Environment, bool) {
	for _, env := range c.Environments {
		if env.Name == name {
			return env, true
		}
	}
	return model.Environment{}, false
}

// ActiveEnvironment returns the active environment, falling back to the first one.
func (c *Config) ActiveEnvironment() model.Environment {
	if env, ok := c.Environment(c.Active); ok {
		return env
	}
	if len(c.Environments) > 0 {
		return c.Environments[0]
	}
	return model.Environment{}
}

// ExpandQuickHeader resolves TokenPlaceholder against env. ok is false when the value
// needs a token and env has none.
func ExpandQuickHeader(h model.NameValuePair, env model.Environment) (value string, ok bool) {
	if !strings.Contains(h.Value, TokenPlaceholder) {
		return h.Value, true
	}
	if env.Token == "" {
		return h.Value, false
	}
	return strings.ReplaceAll(h.Value, TokenPlaceholder, env.Token), true
}
