package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/caarlos0/env/v11"
)

// Defaults applied when the settings file does not say otherwise
const (
	DefaultModelAlias    = "deepseek-chat"
	DefaultEndpoint      = "https://api.deepseek.com/chat/completions"
	DefaultSystemMessage = "You are a helpful assistant."
	DefaultMaxTokens     = 100
	DefaultTemperature   = 0.7
)

// ErrModelNotFound is returned when an alias has no entry in the models map
var ErrModelNotFound = errors.New("model not found in settings")

// ModelConfig describes one named endpoint/model entry in the settings file
type ModelConfig struct {
	// Name is the API model identifier; defaults to the map alias
	Name        string         `json:"name,omitempty"`
	Description string         `json:"description,omitempty"`
	URL         string         `json:"url,omitempty"`
	APIKey      string         `json:"api_key,omitempty"`
	MaxTokens   int            `json:"max_tokens,omitempty"`
	Temperature *float64       `json:"temperature,omitempty"`
	Stream      bool           `json:"stream,omitempty"`
	Extra       map[string]any `json:"extra,omitempty"`
}

// Config holds all application configuration
type Config struct {
	Models          map[string]ModelConfig `json:"models,omitempty"`
	DefaultModel    string                 `json:"default_model,omitempty"`
	SystemMessage   string                 `json:"system_message,omitempty"`
	LastActiveModel string                 `json:"last_active_model,omitempty"`
}

// envOverrides are applied on top of the settings file at resolve time
type envOverrides struct {
	APIKey        string `env:"DEEPCHAT_API_KEY"`
	Model         string `env:"DEEPCHAT_MODEL"`
	URL           string `env:"DEEPCHAT_URL"`
	SystemMessage string `env:"DEEPCHAT_SYSTEM_MESSAGE"`
}

var (
	configDir  string
	configFile string
	current    *Config
)

func init() {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	configDir = filepath.Join(home, ".config", "deepchat")
	configFile = filepath.Join(configDir, "config.json")
}

func defaultConfig() *Config {
	return &Config{
		Models: map[string]ModelConfig{
			DefaultModelAlias: {URL: DefaultEndpoint},
		},
		DefaultModel:  DefaultModelAlias,
		SystemMessage: DefaultSystemMessage,
	}
}

// Load reads the config from disk
func Load() (*Config, error) {
	if current != nil {
		return current, nil
	}

	current = defaultConfig()

	data, err := os.ReadFile(configFile)
	if err != nil {
		if os.IsNotExist(err) {
			return current, nil // Return default config
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := json.Unmarshal(data, current); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if current.DefaultModel == "" {
		current.DefaultModel = DefaultModelAlias
	}
	if current.SystemMessage == "" {
		current.SystemMessage = DefaultSystemMessage
	}
	if current.Models == nil {
		current.Models = map[string]ModelConfig{}
	}

	return current, nil
}

// Save writes the config to disk
func Save(cfg *Config) error {
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	current = cfg
	return nil
}

// Get returns the current config, loading if necessary
func Get() *Config {
	if current == nil {
		_, _ = Load()
	}
	return current
}

// Resolved is the effective per-session request configuration for one model
type Resolved struct {
	Alias         string
	Model         ModelConfig
	SystemMessage string
}

// Resolve picks the model entry for alias (or the last active / default
// model when alias is empty), fills defaults, and applies env overrides.
func Resolve(alias string) (*Resolved, error) {
	cfg := Get()

	var overrides envOverrides
	if err := env.Parse(&overrides); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if alias == "" {
		alias = overrides.Model
	}
	if alias == "" {
		alias = cfg.LastActiveModel
	}
	if alias == "" {
		alias = cfg.DefaultModel
	}

	model, ok := cfg.Models[alias]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrModelNotFound, alias)
	}

	if model.Name == "" {
		model.Name = alias
	}
	if model.MaxTokens <= 0 {
		model.MaxTokens = DefaultMaxTokens
	}
	if model.Temperature == nil {
		temp := DefaultTemperature
		model.Temperature = &temp
	}
	if overrides.APIKey != "" {
		model.APIKey = overrides.APIKey
	}
	if overrides.URL != "" {
		model.URL = overrides.URL
	}
	if model.URL == "" {
		model.URL = DefaultEndpoint
	}

	systemMessage := cfg.SystemMessage
	if overrides.SystemMessage != "" {
		systemMessage = overrides.SystemMessage
	}

	return &Resolved{Alias: alias, Model: model, SystemMessage: systemMessage}, nil
}

// ModelAliases returns the configured model aliases in sorted order
func ModelAliases() []string {
	cfg := Get()
	aliases := make([]string, 0, len(cfg.Models))
	for alias := range cfg.Models {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}

// SetLastActiveModel persists the model chosen with /model so the next
// session starts with it, matching the original plugin behavior.
func SetLastActiveModel(alias string) error {
	cfg := Get()
	if _, ok := cfg.Models[alias]; !ok {
		return fmt.Errorf("%w: %q", ErrModelNotFound, alias)
	}
	cfg.LastActiveModel = alias
	return Save(cfg)
}

// Set updates a config value by key. Model-scoped keys apply to the
// default model's entry.
func Set(key, value string) error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	switch key {
	case "default_model", "model":
		cfg.DefaultModel = value
	case "system_message":
		cfg.SystemMessage = value
	case "api_key":
		model := cfg.Models[cfg.DefaultModel]
		model.APIKey = value
		cfg.Models[cfg.DefaultModel] = model
	case "url":
		model := cfg.Models[cfg.DefaultModel]
		model.URL = value
		cfg.Models[cfg.DefaultModel] = model
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}

	return Save(cfg)
}

// Delete removes a config value
func Delete(key string) error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	switch key {
	case "default_model", "model":
		cfg.DefaultModel = DefaultModelAlias
	case "system_message":
		cfg.SystemMessage = DefaultSystemMessage
	case "last_model":
		cfg.LastActiveModel = ""
	case "api_key":
		model := cfg.Models[cfg.DefaultModel]
		model.APIKey = ""
		cfg.Models[cfg.DefaultModel] = model
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}

	return Save(cfg)
}

// ListKeys returns the configured values, API keys masked for display
func ListKeys() map[string]string {
	cfg := Get()
	result := make(map[string]string)

	result["default_model"] = cfg.DefaultModel
	result["system_message"] = cfg.SystemMessage
	if cfg.LastActiveModel != "" {
		result["last_active_model"] = cfg.LastActiveModel
	}

	for alias, model := range cfg.Models {
		if model.APIKey != "" {
			result[alias+".api_key"] = maskKey(model.APIKey)
		}
		if model.URL != "" {
			result[alias+".url"] = model.URL
		}
	}

	if key := os.Getenv("DEEPCHAT_API_KEY"); key != "" {
		result["api_key"] = maskKey(key) + " (env)"
	}

	return result
}

// maskKey shows only first 4 and last 4 characters
func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return configFile
}

// ScriptPaths returns the directories searched for chat scripts:
// project-local .deepchat/scripts/ first, then the global config dir.
// Project scripts shadow global ones with the same name.
func ScriptPaths() []string {
	paths := []string{}

	cwd, err := os.Getwd()
	if err == nil {
		paths = append(paths, filepath.Join(cwd, ".deepchat", "scripts"))
	}

	paths = append(paths, filepath.Join(configDir, "scripts"))

	return paths
}
