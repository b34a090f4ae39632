// Package cli holds the ambient CLI support the audiostego binary shares
// across its subcommands: persistent defaults, filesystem layout, and
// human-readable formatting helpers.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

const (
	// DefaultBaseDir is the base configuration directory name.
	DefaultBaseDir = ".audiostego"
	// DefaultConfigFile is the default configuration filename.
	DefaultConfigFile = "config.yaml"
)

// Config holds persisted defaults for the audiostego CLI: a default hiding
// method and its default parameters, read before CLI flags are applied so
// that `-k` on the command line always wins over a stored default, which in
// turn wins over a method's own built-in default.
type Config struct {
	// DefaultMethod is stored and loaded with the file; embed and extract
	// do not read it and always require -m.
	DefaultMethod string `yaml:"default_method,omitempty"`

	// MethodParams holds default -k parameters per method name.
	MethodParams map[string]map[string]string `yaml:"method_params,omitempty"`

	configPath string
}

// Load loads or creates the audiostego configuration file.
func Load() (*Config, error) {
	return LoadFromPath("")
}

// LoadFromPath loads configuration from a custom path, or the default
// location (~/.audiostego/config.yaml) when path is empty.
func LoadFromPath(path string) (*Config, error) {
	configPath := path
	if configPath == "" {
		paths, err := NewPaths("")
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = paths.ConfigFile()
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	cfg := &Config{
		MethodParams: make(map[string]map[string]string),
		configPath:   configPath,
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, cfg.Save()
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.MethodParams == nil {
		cfg.MethodParams = make(map[string]map[string]string)
	}
	cfg.configPath = configPath
	return cfg, nil
}

// Save persists the configuration to disk.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(c.configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Path returns the config file path.
func (c *Config) Path() string { return c.configPath }

// Dir returns the config directory path.
func (c *Config) Dir() string { return filepath.Dir(c.configPath) }

// Merge layers CLI-supplied key/value parameters over this config's stored
// defaults for method, so -k always overrides a stored default.
func (c *Config) Merge(method string, cliParams map[string]string) map[string]string {
	merged := make(map[string]string)
	for k, v := range c.MethodParams[method] {
		merged[k] = v
	}
	for k, v := range cliParams {
		merged[k] = v
	}
	return merged
}

// Set stores a default parameter value for method and persists it.
func (c *Config) Set(method, key, value string) error {
	if c.MethodParams == nil {
		c.MethodParams = make(map[string]map[string]string)
	}
	if c.MethodParams[method] == nil {
		c.MethodParams[method] = make(map[string]string)
	}
	c.MethodParams[method][key] = value
	return c.Save()
}

// Get returns a stored default parameter value for method, and whether it
// was set.
func (c *Config) Get(method, key string) (string, bool) {
	params, ok := c.MethodParams[method]
	if !ok {
		return "", false
	}
	v, ok := params[key]
	return v, ok
}
