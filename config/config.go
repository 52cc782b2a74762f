// Package config provides configuration loading for the luagents CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/doomspork/luagents/logging"
)

// ErrConfiguration is returned by Validate for an unusable configuration.
var ErrConfiguration = errors.New("invalid configuration")

// DefaultFile is the config file LoadDefault looks for.
const DefaultFile = "luagents.toml"

// Environment variables that override file settings.
const (
	EnvProvider      = "LUAGENTS_PROVIDER"
	EnvModel         = "LUAGENTS_MODEL"
	EnvMaxIterations = "LUAGENTS_MAX_ITERATIONS"
)

// Supported providers.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderOllama    = "ollama"
)

// Config represents the application configuration.
type Config struct {
	Agent   AgentConfig   `toml:"agent"`
	LLM     LLMConfig     `toml:"llm"`
	Logging LoggingConfig `toml:"logging"`
}

// AgentConfig contains control loop settings.
type AgentConfig struct {
	Name          string `toml:"name"`
	MaxIterations int    `toml:"max_iterations"`
	MaxToolCalls  int    `toml:"max_tool_calls"` // Per script, 0 = unlimited
	Stream        bool   `toml:"stream"`
}

// LLMConfig contains LLM provider settings.
type LLMConfig struct {
	Provider    string  `toml:"provider"` // anthropic | openai | ollama
	Model       string  `toml:"model"`
	APIKeyEnv   string  `toml:"api_key_env"`
	BaseURL     string  `toml:"base_url"` // Custom API endpoint (Ollama, LiteLLM, proxies)
	Temperature float64 `toml:"temperature"`
	MaxTokens   int     `toml:"max_tokens"`
}

// LoggingConfig contains log output settings.
type LoggingConfig struct {
	Level  string `toml:"level"`  // debug | info | warn | error
	Format string `toml:"format"` // text | json
}

// New creates a new config with defaults.
func New() *Config {
	return &Config{
		Agent: AgentConfig{
			Name:          "luagent",
			MaxIterations: 10,
		},
		LLM: LLMConfig{
			Provider:    ProviderAnthropic,
			Temperature: 0.7,
			MaxTokens:   4096,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadFile loads configuration from a TOML file on top of the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := New()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: unknown keys: %s", ErrConfiguration, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// LoadDefault loads DefaultFile from the current directory, falling back to
// the defaults when it does not exist.
func LoadDefault() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}

	path := filepath.Join(cwd, DefaultFile)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return New(), nil
	}
	return LoadFile(path)
}

// Load reads path, or the default file when path is empty, then applies
// environment overrides.
func Load(path string) (*Config, error) {
	var (
		cfg *Config
		err error
	)
	if path == "" {
		cfg, err = LoadDefault()
	} else {
		cfg, err = LoadFile(path)
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides settings from the environment. lookup is usually
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvProvider); ok && v != "" {
		c.LLM.Provider = v
	}
	if v, ok := lookup(EnvModel); ok && v != "" {
		c.LLM.Model = v
	}
	if v, ok := lookup(EnvMaxIterations); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a number", ErrConfiguration, EnvMaxIterations, v)
		}
		c.Agent.MaxIterations = n
	}
	return nil
}

// Validate reports every problem found, joined into one error wrapping
// ErrConfiguration.
func (c *Config) Validate() error {
	var problems []string

	if c.Agent.MaxIterations < 1 {
		problems = append(problems, "agent.max_iterations must be at least 1")
	}
	if c.Agent.MaxToolCalls < 0 {
		problems = append(problems, "agent.max_tool_calls must not be negative")
	}
	switch c.LLM.Provider {
	case ProviderAnthropic, ProviderOpenAI, ProviderOllama:
	default:
		problems = append(problems, fmt.Sprintf("llm.provider %q is not one of anthropic, openai, ollama", c.LLM.Provider))
	}
	if c.LLM.Provider == ProviderOllama && c.LLM.Model == "" {
		problems = append(problems, "llm.model is required for ollama")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		problems = append(problems, "llm.temperature must be between 0 and 2")
	}
	if c.LLM.MaxTokens < 1 {
		problems = append(problems, "llm.max_tokens must be positive")
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		problems = append(problems, err.Error())
	}
	if f := c.Logging.Format; f != "text" && f != "json" {
		problems = append(problems, fmt.Sprintf("logging.format %q must be text or json", f))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrConfiguration, strings.Join(problems, "; "))
	}
	return nil
}

// GetAPIKey returns the API key from the configured environment variable.
// If api_key_env is not set, uses the default env var for the provider.
func (c *Config) GetAPIKey() string {
	envVar := c.LLM.APIKeyEnv
	if envVar == "" {
		envVar = DefaultAPIKeyEnv(c.LLM.Provider)
	}
	if envVar == "" {
		return ""
	}
	return os.Getenv(envVar)
}

// DefaultAPIKeyEnv returns the default environment variable name for a provider.
func DefaultAPIKeyEnv(provider string) string {
	switch provider {
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	default:
		return ""
	}
}

// LoggerConfig converts the logging section into a logging.Config. An
// unparsable level falls back to info; Validate reports it.
func (c *Config) LoggerConfig() *logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level, _ = logging.ParseLevel(c.Logging.Level)
	cfg.Format = c.Logging.Format
	return cfg
}
