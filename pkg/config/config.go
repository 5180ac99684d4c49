package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultStoreURL       = "http://localhost:8000"
	DefaultTimeoutSeconds = 10
	DefaultModel          = "gemini-1.5-flash"
)

type ExplainConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
}

type Config struct {
	StoreURL       string        `yaml:"store_url"`
	RootID         string        `yaml:"root_id,omitempty"`
	TimeoutSeconds int           `yaml:"timeout_seconds"`
	NoColor        bool          `yaml:"no_color"`
	Explain        ExplainConfig `yaml:"explain"`
}

func Default() *Config {
	return &Config{
		StoreURL:       DefaultStoreURL,
		TimeoutSeconds: DefaultTimeoutSeconds,
		Explain: ExplainConfig{
			Provider: "gemini",
			Model:    DefaultModel,
		},
	}
}

// GetConfigPath returns $NORMTREE_CONFIG or ~/.normtree/config.yaml
func GetConfigPath() (string, error) {
	if p := os.Getenv("NORMTREE_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".normtree", "config.yaml"), nil
}

// LoadEnvFile loads KEY=VALUE pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	err := godotenv.Load(path)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// LoadConfig reads the config file (defaults when it does not exist) and
// applies NORMTREE_* environment overrides. The result is for reading;
// commands that save the config start from LoadFile.
func LoadConfig() (*Config, error) {
	cfg, err := LoadFile()
	if err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadFile reads only the config file, without environment overrides
func LoadFile() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return loadFile(path)
}

func loadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if cfg.StoreURL == "" {
		cfg.StoreURL = DefaultStoreURL
	}
	return cfg, nil
}

func applyEnvOverrides(c *Config) {
	if v := os.Getenv("NORMTREE_STORE_URL"); v != "" {
		c.StoreURL = v
	}
	if v := os.Getenv("NORMTREE_ROOT_ID"); v != "" {
		c.RootID = v
	}
	if v := os.Getenv("NORMTREE_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("NORMTREE_NO_COLOR"); v != "" {
		c.NoColor = strings.ToLower(v) == "true" || v == "1"
	}
	if v := os.Getenv("NORMTREE_EXPLAIN_MODEL"); v != "" {
		c.Explain.Model = v
	}
	if c.Explain.APIKey == "" {
		c.Explain.APIKey = os.Getenv("GOOGLE_API_KEY")
	}
}

// SaveConfig writes cfg to the config path as is. Pass a Config from
// LoadFile so environment values are not written to disk.
func SaveConfig(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	// 0600: the file may hold an API key
	return os.WriteFile(path, data, 0600)
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c *Config) SetAPIKey(key string) {
	c.Explain.APIKey = key
}
