// Package luagents lets a language model solve tasks by writing Lua scripts
// that call Go tools.
//
// Most applications build a tool set, pick a model and call Run:
//
//	add := tool.New("add", "Add two numbers",
//		[]tool.Parameter{
//			tool.Required("a", "", tool.TypeNumber),
//			tool.Required("b", "", tool.TypeNumber),
//		},
//		func(_ context.Context, args tool.Args) (core.Value, error) {
//			return core.Number(args.Number(0) + args.Number(1)), nil
//		})
//
//	answer, err := luagents.Run(ctx, anthropic.NewModel(), "What is 2 + 3?",
//		agent.WithTools(add))
//
// Use New for an agent that keeps its conversation and Lua globals across
// several tasks. The agent, sandbox, tool and model packages hold the
// details.
package luagents

import (
	"context"
	"fmt"

	"github.com/doomspork/luagents/agent"
	"github.com/doomspork/luagents/config"
	"github.com/doomspork/luagents/model"
	"github.com/doomspork/luagents/model/anthropic"
	"github.com/doomspork/luagents/model/openai"
)

// Version is the library version reported by the CLI.
const Version = "0.1.0"

// New creates an agent backed by m. It is a shorthand for agent.New.
func New(m model.Model, opts ...agent.Option) (*agent.Agent, error) {
	return agent.New(m, opts...)
}

// Run solves a single task with a throwaway agent and returns the final
// answer.
func Run(ctx context.Context, m model.Model, task string, opts ...agent.Option) (string, error) {
	a, err := agent.New(m, opts...)
	if err != nil {
		return "", err
	}
	defer a.Close()

	return a.Run(ctx, task)
}

// NewModel builds the model described by the llm section of cfg.
func NewModel(cfg *config.Config) (model.Model, error) {
	llm := cfg.LLM
	apiKey := cfg.GetAPIKey()

	switch llm.Provider {
	case config.ProviderAnthropic:
		return anthropic.NewModel(func(o *anthropic.Options) {
			o.Model = llm.Model
			o.Temperature = llm.Temperature
			o.MaxTokens = int64(llm.MaxTokens)
			o.APIKey = apiKey
			o.BaseURL = llm.BaseURL
		}), nil
	case config.ProviderOpenAI:
		return openai.NewModel(func(o *openai.Options) {
			o.Model = llm.Model
			o.Temperature = llm.Temperature
			o.MaxCompletionTokens = int64(llm.MaxTokens)
			o.APIKey = apiKey
			o.BaseURL = llm.BaseURL
		}), nil
	case config.ProviderOllama:
		return openai.NewOllamaModel(llm.Model, llm.BaseURL, func(o *openai.Options) {
			o.Temperature = llm.Temperature
			o.MaxCompletionTokens = int64(llm.MaxTokens)
		}), nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", config.ErrConfiguration, llm.Provider)
	}
}

// AgentOptions translates the agent section of cfg into agent options.
func AgentOptions(cfg *config.Config) []agent.Option {
	return []agent.Option{
		agent.WithName(cfg.Agent.Name),
		agent.WithMaxIterations(cfg.Agent.MaxIterations),
		agent.WithMaxToolCalls(cfg.Agent.MaxToolCalls),
		agent.WithStreaming(cfg.Agent.Stream),
	}
}
