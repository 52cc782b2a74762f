// Command luagents runs a Lua scripting agent against a configured LLM.
//
//	luagents run "What is 17 * 23 minus 4?"
//	luagents run --provider ollama --model llama3.2 "Shout hello"
//	luagents tools
package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/doomspork/luagents"
	"github.com/doomspork/luagents/agent"
	"github.com/doomspork/luagents/config"
	"github.com/doomspork/luagents/logging"
	"github.com/doomspork/luagents/model"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// ModelFactory builds the model for a run. Tests inject a mock.
type ModelFactory func(cfg *config.Config) (model.Model, error)

type runFlags struct {
	config        string
	provider      string
	model         string
	maxIterations int
	verbose       bool
}

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	if err := newRootCmd(luagents.NewModel).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(factory ModelFactory) *cobra.Command {
	root := &cobra.Command{
		Use:          "luagents",
		Short:        "luagents - LLM agents that act by writing Lua",
		SilenceUsage: true,
	}
	root.AddCommand(newRunCmd(factory), newToolsCmd(), newVersionCmd())
	return root
}

func newRunCmd(factory ModelFactory) *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run [task]",
		Short: "Solve a task with the demo tool set",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTask(cmd, f, factory, strings.Join(args, " "))
		},
	}

	cmd.Flags().StringVarP(&f.config, "config", "c", "", "config file (default ./"+config.DefaultFile+")")
	cmd.Flags().StringVarP(&f.provider, "provider", "p", "", "LLM provider: anthropic, openai or ollama")
	cmd.Flags().StringVarP(&f.model, "model", "m", "", "model name")
	cmd.Flags().IntVarP(&f.maxIterations, "max-iterations", "n", 0, "iteration budget")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "debug logging")
	return cmd
}

func runTask(cmd *cobra.Command, f runFlags, factory ModelFactory, task string) error {
	cfg, err := config.Load(f.config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyFlags(cmd, cfg, f)
	if err := cfg.Validate(); err != nil {
		return err
	}

	lc := cfg.LoggerConfig()
	lc.Output = cmd.ErrOrStderr()
	logger := logging.New(lc)

	m, err := factory(cfg)
	if err != nil {
		return fmt.Errorf("create model: %w", err)
	}

	opts := append(luagents.AgentOptions(cfg),
		agent.WithTools(demoTools()...),
		agent.WithLogger(logger),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	answer, err := luagents.Run(ctx, m, task, opts...)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), answer)
	return err
}

// applyFlags lets explicit flags win over file and environment settings.
func applyFlags(cmd *cobra.Command, cfg *config.Config, f runFlags) {
	if f.provider != "" {
		cfg.LLM.Provider = f.provider
	}
	if f.model != "" {
		cfg.LLM.Model = f.model
	}
	if cmd.Flags().Changed("max-iterations") {
		cfg.Agent.MaxIterations = f.maxIterations
	}
	if f.verbose {
		cfg.Logging.Level = "debug"
	}
}

func newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the demo tools available to scripts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listTools(cmd.OutOrStdout())
		},
	}
}

func listTools(w io.Writer) error {
	for _, t := range demoTools() {
		if _, err := fmt.Fprintf(w, "%-34s %s\n", t.Signature(), t.Description); err != nil {
			return err
		}
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "luagents", luagents.Version)
		},
	}
}
