// Package command contains CLI command implementations.
package command

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/medsupply/catadmin/internal/api"
	"github.com/medsupply/catadmin/internal/catalog"
	"github.com/medsupply/catadmin/internal/config"
	"github.com/medsupply/catadmin/internal/logger"
	"github.com/medsupply/catadmin/internal/notify"
	"github.com/medsupply/catadmin/internal/output"
)

// Command group ids
const (
	GroupCatalog = "catalog"
	GroupConsole = "console"
)

type rootFlags struct {
	apiURL  string
	timeout time.Duration
	debug   bool
	format  string
	quiet   bool
	logFile string
}

// NewRootCommand creates the catadmin root command with every subcommand
func NewRootCommand(version string) *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "catadmin",
		Short: "catadmin - medical-supply catalog administration",
		Long: `catadmin manages the brands, categories, providers, sanitary registries
and products of a medical-supply catalog through its HTTP API.

Use the catalog commands for scripting, or "catadmin ui" for the
interactive console.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			app, err := flags.buildApp(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(WithApp(ctx, app))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&flags.apiURL, "api-url", "",
		fmt.Sprintf("Catalog API base URL (default: $%s or %s)", config.EnvAPIBaseURL, config.DefaultAPIBaseURL))
	cmd.PersistentFlags().DurationVar(&flags.timeout, "timeout", 0,
		fmt.Sprintf("Per-request timeout (default: $%s or %s)", config.EnvTimeout, config.DefaultTimeout))
	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Enable debug output")
	cmd.PersistentFlags().StringVarP(&flags.format, "format", "o", "table", "Output format (table, json, yaml)")
	cmd.PersistentFlags().BoolVarP(&flags.quiet, "quiet", "q", false, "Suppress non-error output")
	cmd.PersistentFlags().StringVar(&flags.logFile, "log-file", "", "Also write log messages to this file")

	cmd.AddGroup(&cobra.Group{
		ID:    GroupCatalog,
		Title: "Catalog Commands:",
	})
	cmd.AddGroup(&cobra.Group{
		ID:    GroupConsole,
		Title: "Console Commands:",
	})

	cmd.AddCommand(
		NewBrandCommand(GroupCatalog),
		NewCategoryCommand(GroupCatalog),
		NewProviderCommand(GroupCatalog),
		NewRegistryCommand(GroupCatalog),
		NewProductCommand(GroupCatalog),

		NewDashboardCommand(GroupConsole),
		NewUICommand(GroupConsole),
	)

	cmd.SetVersionTemplate("catadmin version {{.Version}}\n")

	return cmd
}

// buildApp resolves configuration (flags over environment over defaults)
// and wires the client, catalog and printer
func (f *rootFlags) buildApp(cmd *cobra.Command) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if f.apiURL != "" {
		cfg.APIBaseURL = f.apiURL
	}
	if f.timeout != 0 {
		cfg.Timeout = f.timeout
	}
	if f.debug {
		cfg.LogLevel = logger.DEBUG
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	format, err := output.ParseFormat(f.format)
	if err != nil {
		return nil, err
	}

	log := logger.NewLogger(cfg.LogLevel)
	// The console owns the terminal, so it logs only to --log-file.
	if cmd.Name() != "ui" {
		log.AddOutput(cfg.LogLevel, cmd.ErrOrStderr())
	}
	if f.logFile != "" {
		if err := log.AddFileOutput(cfg.LogLevel, f.logFile); err != nil {
			return nil, err
		}
	}

	client := api.NewClient(cfg.APIBaseURL, cfg.Timeout, api.WithLogger(log.With("api")))
	notifier := notify.New(cfg.NoticeTTL)

	log.Debug("using API at %s (timeout %s)", cfg.APIBaseURL, cfg.Timeout)

	return &App{
		Config:   cfg,
		Client:   client,
		Catalog:  catalog.New(client, notifier, log),
		Notifier: notifier,
		Printer:  output.NewPrinterWithWriter(cmd.OutOrStdout(), format, f.quiet),
		Log:      log,
	}, nil
}
