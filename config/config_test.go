package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/doomspork/luagents/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "luagents.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNew_Defaults(t *testing.T) {
	cfg := New()
	assert.Equal(t, 10, cfg.Agent.MaxIterations)
	assert.Equal(t, ProviderAnthropic, cfg.LLM.Provider)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, `
[agent]
name = "calc"
max_iterations = 4

[llm]
provider = "ollama"
model = "llama3.2"
base_url = "http://localhost:11434/v1/"
temperature = 0.2

[logging]
level = "debug"
format = "json"
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "calc", cfg.Agent.Name)
	assert.Equal(t, 4, cfg.Agent.MaxIterations)
	assert.Equal(t, ProviderOllama, cfg.LLM.Provider)
	assert.Equal(t, "llama3.2", cfg.LLM.Model)
	assert.Equal(t, 0.2, cfg.LLM.Temperature)
	// Untouched keys keep their defaults.
	assert.Equal(t, 4096, cfg.LLM.MaxTokens)
	assert.NoError(t, cfg.Validate())

	lc := cfg.LoggerConfig()
	assert.Equal(t, logging.LogLevelDebug, lc.Level)
	assert.Equal(t, "json", lc.Format)
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = LoadFile(writeFile(t, `[agent`))
	assert.ErrorContains(t, err, "failed to parse config")

	_, err = LoadFile(writeFile(t, "[agent]\nmax_iteration = 3\n"))
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.ErrorContains(t, err, "agent.max_iteration")
}

func TestLoadDefault_MissingFile(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := LoadDefault()
	require.NoError(t, err)
	assert.Equal(t, New(), cfg)
}

func TestLoad_AppliesEnv(t *testing.T) {
	path := writeFile(t, "[llm]\nprovider = \"anthropic\"\n")
	t.Setenv(EnvProvider, "openai")
	t.Setenv(EnvModel, "gpt-4o")
	t.Setenv(EnvMaxIterations, "7")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.Equal(t, 7, cfg.Agent.MaxIterations)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{EnvMaxIterations: "lots", EnvModel: ""}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := New()
	err := cfg.ApplyEnv(lookup)
	assert.ErrorIs(t, err, ErrConfiguration)
	// Empty values do not override.
	assert.Equal(t, "", cfg.LLM.Model)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{name: "iterations", mutate: func(c *Config) { c.Agent.MaxIterations = 0 }, want: "max_iterations"},
		{name: "tool calls", mutate: func(c *Config) { c.Agent.MaxToolCalls = -1 }, want: "max_tool_calls"},
		{name: "provider", mutate: func(c *Config) { c.LLM.Provider = "bard" }, want: `"bard"`},
		{name: "ollama model", mutate: func(c *Config) { c.LLM.Provider = ProviderOllama }, want: "required for ollama"},
		{name: "temperature", mutate: func(c *Config) { c.LLM.Temperature = 3 }, want: "temperature"},
		{name: "max tokens", mutate: func(c *Config) { c.LLM.MaxTokens = 0 }, want: "max_tokens"},
		{name: "log level", mutate: func(c *Config) { c.Logging.Level = "loud" }, want: "loud"},
		{name: "log format", mutate: func(c *Config) { c.Logging.Format = "xml" }, want: "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			assert.ErrorIs(t, err, ErrConfiguration)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := New()
	cfg.Agent.MaxIterations = 0
	cfg.LLM.MaxTokens = 0

	err := cfg.Validate()
	assert.ErrorContains(t, err, "max_iterations")
	assert.ErrorContains(t, err, "max_tokens")
}

func TestGetAPIKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "default-key")
	t.Setenv("CUSTOM_KEY", "custom-key")

	cfg := New()
	assert.Equal(t, "default-key", cfg.GetAPIKey())

	cfg.LLM.APIKeyEnv = "CUSTOM_KEY"
	assert.Equal(t, "custom-key", cfg.GetAPIKey())

	cfg.LLM.APIKeyEnv = ""
	cfg.LLM.Provider = ProviderOllama
	assert.Equal(t, "", cfg.GetAPIKey())
}
