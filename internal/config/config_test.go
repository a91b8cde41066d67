package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// redirect the config file into a temp dir for the duration of a test
func useTempConfig(t *testing.T) {
	t.Helper()
	tmpDir := t.TempDir()

	oldConfigDir := configDir
	oldConfigFile := configFile
	configDir = tmpDir
	configFile = filepath.Join(tmpDir, "config.json")
	current = nil
	t.Cleanup(func() {
		configDir = oldConfigDir
		configFile = oldConfigFile
		current = nil
	})
}

func TestMaskKey(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		expected string
	}{
		{name: "short key", key: "abc", expected: "****"},
		{name: "exactly 8 chars", key: "12345678", expected: "****"},
		{name: "long key", key: "sk-1234567890abcdef", expected: "sk-1...cdef"},
		{name: "empty key", key: "", expected: "****"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := maskKey(tt.key)
			if result != tt.expected {
				t.Errorf("maskKey(%q) = %q, want %q", tt.key, result, tt.expected)
			}
		})
	}
}

func TestConfigLoadSave(t *testing.T) {
	useTempConfig(t)

	// Loading a non-existent config returns defaults
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DefaultModel != DefaultModelAlias {
		t.Errorf("default model = %q, want %q", cfg.DefaultModel, DefaultModelAlias)
	}
	if cfg.SystemMessage != DefaultSystemMessage {
		t.Errorf("system message = %q, want default", cfg.SystemMessage)
	}

	cfg.Models["deepseek-chat"] = ModelConfig{
		URL:    DefaultEndpoint,
		APIKey: "test-key-12345",
	}
	cfg.DefaultModel = "deepseek-chat"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Reset cache and reload
	current = nil
	cfg2, err := Load()
	if err != nil {
		t.Fatalf("Load() after save error = %v", err)
	}
	if cfg2.Models["deepseek-chat"].APIKey != "test-key-12345" {
		t.Errorf("APIKey = %q, want %q", cfg2.Models["deepseek-chat"].APIKey, "test-key-12345")
	}
}

func TestConfigSet(t *testing.T) {
	useTempConfig(t)

	tests := []struct {
		key   string
		value string
		check func(*Config) bool
	}{
		{
			key:   "model",
			value: "deepseek-reasoner",
			check: func(c *Config) bool { return c.DefaultModel == "deepseek-reasoner" },
		},
		{
			key:   "system_message",
			value: "You are terse.",
			check: func(c *Config) bool { return c.SystemMessage == "You are terse." },
		},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if err := Set(tt.key, tt.value); err != nil {
				t.Fatalf("Set(%q, %q) error = %v", tt.key, tt.value, err)
			}
			if !tt.check(Get()) {
				t.Errorf("Set(%q, %q) did not update config correctly", tt.key, tt.value)
			}
		})
	}

	// api_key applies to the default model entry
	if err := Set("model", DefaultModelAlias); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := Set("api_key", "sk-test123"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if Get().Models[DefaultModelAlias].APIKey != "sk-test123" {
		t.Errorf("api_key not applied to default model entry")
	}

	if err := Set("unknown_key", "value"); err == nil {
		t.Error("Set() with unknown key should return error")
	}
}

// Set("model", ...) changes the default alias but never creates a models
// entry, so an unknown name cannot be resolved afterwards.
func TestSetModelDoesNotCreateEntry(t *testing.T) {
	useTempConfig(t)

	before := len(Get().Models)
	if err := Set("model", "no-such-entry"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if got := len(Get().Models); got != before {
		t.Errorf("models entries = %d, want %d", got, before)
	}
	if _, err := Resolve("no-such-entry"); !errors.Is(err, ErrModelNotFound) {
		t.Errorf("Resolve() error = %v, want ErrModelNotFound", err)
	}
}

func TestConfigDelete(t *testing.T) {
	useTempConfig(t)

	if err := Set("api_key", "sk-test123"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := Delete("api_key"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if Get().Models[DefaultModelAlias].APIKey != "" {
		t.Error("APIKey should be empty after delete")
	}

	if err := Delete("unknown_key"); err == nil {
		t.Error("Delete() with unknown key should return error")
	}
}

func TestResolve(t *testing.T) {
	useTempConfig(t)

	cfg := Get()
	temp := 1.3
	cfg.Models["reasoner"] = ModelConfig{
		Name:        "deepseek-reasoner",
		URL:         "https://api.deepseek.com/chat/completions",
		APIKey:      "sk-abc",
		MaxTokens:   4096,
		Temperature: &temp,
		Stream:      true,
	}
	if err := Save(cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	t.Run("explicit alias", func(t *testing.T) {
		resolved, err := Resolve("reasoner")
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if resolved.Alias != "reasoner" {
			t.Errorf("Alias = %q, want %q", resolved.Alias, "reasoner")
		}
		if resolved.Model.Name != "deepseek-reasoner" {
			t.Errorf("Model.Name = %q, want %q", resolved.Model.Name, "deepseek-reasoner")
		}
		if !resolved.Model.Stream {
			t.Error("Stream = false, want true")
		}
	})

	t.Run("defaults applied", func(t *testing.T) {
		resolved, err := Resolve(DefaultModelAlias)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if resolved.Model.Name != DefaultModelAlias {
			t.Errorf("Model.Name = %q, want the alias", resolved.Model.Name)
		}
		if resolved.Model.MaxTokens != DefaultMaxTokens {
			t.Errorf("MaxTokens = %d, want %d", resolved.Model.MaxTokens, DefaultMaxTokens)
		}
		if resolved.Model.Temperature == nil || *resolved.Model.Temperature != DefaultTemperature {
			t.Errorf("Temperature = %v, want %v", resolved.Model.Temperature, DefaultTemperature)
		}
	})

	t.Run("unknown alias", func(t *testing.T) {
		if _, err := Resolve("nope"); !errors.Is(err, ErrModelNotFound) {
			t.Errorf("Resolve() error = %v, want ErrModelNotFound", err)
		}
	})

	t.Run("last active model wins over default", func(t *testing.T) {
		if err := SetLastActiveModel("reasoner"); err != nil {
			t.Fatalf("SetLastActiveModel() error = %v", err)
		}
		resolved, err := Resolve("")
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if resolved.Alias != "reasoner" {
			t.Errorf("Alias = %q, want the last active model", resolved.Alias)
		}
	})
}

func TestResolveEnvOverrides(t *testing.T) {
	useTempConfig(t)

	t.Setenv("DEEPCHAT_API_KEY", "env-test-key")
	t.Setenv("DEEPCHAT_SYSTEM_MESSAGE", "Answer in French.")

	resolved, err := Resolve("")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if resolved.Model.APIKey != "env-test-key" {
		t.Errorf("APIKey = %q, want the env override", resolved.Model.APIKey)
	}
	if resolved.SystemMessage != "Answer in French." {
		t.Errorf("SystemMessage = %q, want the env override", resolved.SystemMessage)
	}

	// A configured key loses to the env override
	if err := Set("api_key", "config-test-key"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	resolved, err = Resolve("")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if resolved.Model.APIKey != "env-test-key" {
		t.Errorf("APIKey = %q, env override should win", resolved.Model.APIKey)
	}
}

func TestSetLastActiveModelUnknown(t *testing.T) {
	useTempConfig(t)

	if err := SetLastActiveModel("missing"); !errors.Is(err, ErrModelNotFound) {
		t.Errorf("SetLastActiveModel() error = %v, want ErrModelNotFound", err)
	}
}

func TestModelAliases(t *testing.T) {
	useTempConfig(t)

	cfg := Get()
	cfg.Models["zeta"] = ModelConfig{}
	cfg.Models["alpha"] = ModelConfig{}

	aliases := ModelAliases()
	if len(aliases) != 3 {
		t.Fatalf("ModelAliases() returned %d entries, want 3", len(aliases))
	}
	if aliases[0] != "alpha" || aliases[2] != "zeta" {
		t.Errorf("ModelAliases() = %v, want sorted order", aliases)
	}
}

func TestConfigPath(t *testing.T) {
	if ConfigPath() == "" {
		t.Error("ConfigPath() returned empty string")
	}
}

func TestScriptPaths(t *testing.T) {
	paths := ScriptPaths()
	if len(paths) == 0 {
		t.Fatal("ScriptPaths() returned no paths")
	}
	cwd, _ := os.Getwd()
	if paths[0] != filepath.Join(cwd, ".deepchat", "scripts") {
		t.Errorf("first path = %q, want the project-local scripts dir", paths[0])
	}
}
