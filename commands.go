package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"thinkchain/config"
	"thinkchain/model"
	"thinkchain/provider"
	"thinkchain/reasoning"
	"thinkchain/ui"
)

// app is what every model-facing command needs.
type app struct {
	cfg      *config.Config
	provider model.Provider
	gateway  *reasoning.Gateway
}

func loadApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	// Initialize debug logging after config is loaded
	config.InitDebugLog(cfg.DataDir())

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	p, err := provider.FromConfig(cfg)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:      cfg,
		provider: p,
		gateway:  reasoning.NewGateway(p, reasoning.GatewayConfigFrom(cfg)),
	}, nil
}

// sessionOptions applies the step ceiling, letting --max-steps override the
// configured one.
func (a *app) sessionOptions(cmd *cobra.Command) []reasoning.Option {
	maxSteps := a.cfg.Reasoning.MaxSteps
	if f := cmd.Flags().Lookup("max-steps"); f != nil && f.Changed {
		maxSteps, _ = cmd.Flags().GetInt("max-steps")
	}
	return []reasoning.Option{reasoning.WithMaxSteps(maxSteps)}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "thinkchain [query]",
		Short: "Reasoning chains over a chat model",
		Long: `thinkchain answers a query by asking a chat model for one labeled
reasoning step at a time, then for a final answer.

Without a subcommand it opens the interactive view. A query given as
arguments is submitted right away.`,
		Version:      Version,
		SilenceUsage: true,
		RunE:         runInteractive,
	}
	rootCmd.SetVersionTemplate(fmt.Sprintf("thinkchain %s (%s)\n", Version, License))
	rootCmd.Flags().Int("max-steps", 0, "Step ceiling for the session (0 = unbounded; default from config)")

	rootCmd.AddCommand(newAskCmd(), newModelsCmd(), newPingCmd(), newConfigCmd())
	return rootCmd
}

func runInteractive(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		showStartupError(err)
		return nil
	}

	view := ui.NewAppView(ui.AppViewConfig{
		Gateway:        a.gateway,
		ProviderName:   a.cfg.Provider,
		ModelName:      a.provider.GetModel(),
		SessionOptions: a.sessionOptions(cmd),
		InitialQuery:   strings.Join(args, " "),
	})

	p := tea.NewProgram(view, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run thinkchain: %w", err)
	}
	return nil
}

func showStartupError(err error) {
	if config.DebugLog != nil {
		config.DebugLog.Printf("[Main] Startup failed: %v", err)
	}

	msg := err.Error() + "\n\nConfig file: " + config.GetConfigFilePath()
	p := tea.NewProgram(ui.NewErrorModal("Configuration Error", msg), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}

func newAskCmd() *cobra.Command {
	var (
		jsonOutput bool
		timings    bool
	)

	askCmd := &cobra.Command{
		Use:   "ask <query>",
		Short: "Run one session and print its steps",
		Long: `Runs a reasoning session without the interactive view. Each step is
printed as soon as it arrives, followed by the final answer and the total
thinking time. With --json the whole result is printed once at the end.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			query := strings.Join(args, " ")
			opts := a.sessionOptions(cmd)

			if jsonOutput {
				result := reasoning.Reason(ctx, a.gateway, query, opts...)
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(result); err != nil {
					return fmt.Errorf("failed to encode result: %w", err)
				}
				return nil
			}

			reporter := ui.NewPlainReporter(cmd.OutOrStdout())
			reporter.Timings = timings
			return reporter.Run(ctx, reasoning.NewSession(a.gateway, query, opts...))
		},
	}

	askCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the session result as JSON")
	askCmd.Flags().BoolVar(&timings, "timings", false, "Show each call's duration next to its step")
	askCmd.Flags().Int("max-steps", 0, "Step ceiling for the session (0 = unbounded; default from config)")
	return askCmd
}

func newModelsCmd() *cobra.Command {
	var filter string

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "List the models of the configured provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			models, err := a.provider.ListModels(ctx)
			if err != nil {
				return fmt.Errorf("failed to list models: %w", err)
			}

			models = ui.FilterModels(models, filter)
			if len(models) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No models found")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), ui.RenderModelList(models, a.provider.GetModel()))
			return nil
		},
	}

	modelsCmd.Flags().StringVarP(&filter, "filter", "f", "", "Fuzzy filter on model names")
	return modelsCmd
}

func newPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the configured provider is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			start := time.Now()
			if err := a.provider.Ping(ctx); err != nil {
				return fmt.Errorf("%s is not reachable: %w", a.cfg.Provider, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s reachable (model %s) in %v\n",
				a.cfg.Provider, a.provider.GetModel(), time.Since(start).Round(time.Millisecond))
			return nil
		},
	}
}

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), config.GetConfigFilePath())
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the commented default configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.GetConfigFilePath()
			if config.FileExists(path) {
				if !force {
					return fmt.Errorf("%s already exists (use --force to overwrite)", path)
				}
				if err := os.Remove(path); err != nil {
					return fmt.Errorf("failed to remove existing config: %w", err)
				}
			}
			if err := config.CreateDefaultConfig(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration (API keys are never shown)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromFile(config.GetConfigFilePath())
			if err != nil {
				return err
			}
			if err := toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg.FileConfig); err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "\n# configuration is incomplete: %v\n", err)
			}
			return nil
		},
	}

	configCmd.AddCommand(pathCmd, initCmd, showCmd)
	return configCmd
}
