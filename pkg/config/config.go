// Package config loads the ai-pptx configuration file.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	json5 "github.com/yosuke-furukawa/json5/encoding/json5"
	"go.mau.fi/util/configupgrade"
	"gopkg.in/yaml.v3"

	"github.com/beeper/ai-pptx/pkg/security"
	"github.com/beeper/ai-pptx/pkg/textfs"
)

//go:embed example-config.yaml
var ExampleConfig string

type Config struct {
	Server   ServerConfig    `yaml:"server" json:"server"`
	Security security.Config `yaml:"security" json:"security"`
	PPTX     PptxConfig      `yaml:"pptx" json:"pptx"`
	Logging  LoggingConfig   `yaml:"logging" json:"logging"`
}

type ServerConfig struct {
	Name string `yaml:"name" json:"name"`
}

type PptxConfig struct {
	MaxConcurrent  int    `yaml:"max_concurrent" json:"max_concurrent"`
	EstimateTokens bool   `yaml:"estimate_tokens" json:"estimate_tokens"`
	TokenizerModel string `yaml:"tokenizer_model" json:"tokenizer_model"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Pretty bool   `yaml:"pretty" json:"pretty"`
}

func upgradeConfig(helper configupgrade.Helper) {
	helper.Copy(configupgrade.Str, "server", "name")

	helper.Copy(configupgrade.Str, "security", "workspace_dir")
	helper.Copy(configupgrade.Bool, "security", "workspace_only")
	helper.Copy(configupgrade.List, "security", "allowed_roots")
	helper.Copy(configupgrade.List, "security", "forbidden_paths")
	helper.Copy(configupgrade.Int, "security", "max_actions_per_hour")
	helper.Copy(configupgrade.Int, "security", "max_actions_per_budget")
	helper.Copy(configupgrade.Str, "security", "budget_reset")
	helper.Copy(configupgrade.Str, "security", "ledger_path")

	helper.Copy(configupgrade.Int, "pptx", "max_concurrent")
	helper.Copy(configupgrade.Bool, "pptx", "estimate_tokens")
	helper.Copy(configupgrade.Str, "pptx", "tokenizer_model")

	helper.Copy(configupgrade.Str, "logging", "level")
	helper.Copy(configupgrade.Bool, "logging", "pretty")
}

// Upgrade merges a user YAML config onto the example config, so keys missing
// from the user's file get their documented defaults. Unknown keys are
// dropped.
func Upgrade(data []byte) ([]byte, error) {
	var base, cfg yaml.Node
	if err := yaml.Unmarshal([]byte(ExampleConfig), &base); err != nil {
		return nil, fmt.Errorf("parse example config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Kind == 0 {
		// Empty file.
		return []byte(ExampleConfig), nil
	}
	upgradeConfig(configupgrade.NewHelper(&base, &cfg))
	return yaml.Marshal(&base)
}

// Default returns the configuration described by the example config.
func Default() *Config {
	var cfg Config
	if err := yaml.Unmarshal([]byte(ExampleConfig), &cfg); err != nil {
		panic(fmt.Errorf("embedded example config is invalid: %w", err))
	}
	return &cfg
}

// Load reads the config at path. YAML files (.yaml, .yml) are upgraded onto
// the example config; JSON5 files (.json, .json5) are overlaid on Default().
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		cfg := Default()
		return cfg, cfg.Validate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg *Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		upgraded, err := Upgrade(data)
		if err != nil {
			return nil, err
		}
		cfg = &Config{}
		if err := yaml.Unmarshal(upgraded, cfg); err != nil {
			return nil, fmt.Errorf("decode config: %w", err)
		}
	case ".json", ".json5":
		cfg = Default()
		if err := json5.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("decode config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q (use .yaml or .json5)", filepath.Ext(path))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate normalizes the config and rejects values the runtime cannot use.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Name) == "" {
		c.Server.Name = "ai-pptx"
	}
	if strings.TrimSpace(c.Security.WorkspaceDir) == "" {
		return fmt.Errorf("security.workspace_dir is required")
	}
	c.Security.WorkspaceDir = textfs.ExpandHome(c.Security.WorkspaceDir)
	if c.Security.LedgerPath != "" {
		c.Security.LedgerPath = textfs.ExpandHome(c.Security.LedgerPath)
	}
	if c.Security.MaxActionsPerHour < 0 {
		return fmt.Errorf("security.max_actions_per_hour must not be negative")
	}
	if c.Security.MaxActionsPerBudget < 0 {
		return fmt.Errorf("security.max_actions_per_budget must not be negative")
	}
	if err := security.ValidateSchedule(c.Security.BudgetReset); err != nil {
		return fmt.Errorf("security.budget_reset: %w", err)
	}
	if c.PPTX.MaxConcurrent < 0 {
		return fmt.Errorf("pptx.max_concurrent must not be negative")
	}
	if c.Logging.Level == "" {
		c.Logging.Level = zerolog.InfoLevel.String()
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.Logging.Level)); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}

// LogLevel returns the parsed logging level, defaulting to info.
func (c *Config) LogLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(c.Logging.Level))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
