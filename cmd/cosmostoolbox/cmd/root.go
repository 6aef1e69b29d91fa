package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/philbennett94/planet-express/pkg/config"
	"github.com/philbennett94/planet-express/pkg/console"
	"github.com/philbennett94/planet-express/pkg/workflows"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	configFlag string

	cfg       *config.Config
	logger    zerolog.Logger
	palette   *console.Palette
	formatter *console.Formatter
)

var rootCmd = &cobra.Command{
	Use:   "cosmostoolbox",
	Short: "Planet Express: automation tools for Azure Cosmos DB",
	Long: `Planet Express - manage Azure Cosmos DB accounts, databases and collections.

Run without a subcommand to start the interactive shell. Accounts, databases,
collections (graphs, tables) and bulk inserts are all reachable from its menus.

Configuration is read from defaults, the --config YAML file, COSMOSTOOLBOX_*
environment variables and flags, in that order.`,
	PersistentPreRunE: initialize,
	RunE:              runShell,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFlag, "config", "", "Path to a YAML configuration file")
	flags.String("auth-file", "", "Path to an azureauth.properties file (env: AZURE_AUTH_LOCATION)")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	flags.Bool("no-color", false, "Disable colored output")
	flags.Duration("timeout", 15*time.Minute, "Time limit for each operation")
	flags.StringP("output", "o", "table", "Output format: table, json, yaml")

	rootCmd.AddCommand(accountsCmd)
	rootCmd.AddCommand(versionCmd)
}

// initialize loads configuration and sets up logging and output before each command.
func initialize(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load(configFlag, cmd.Flags())
	if err != nil {
		return err
	}
	if cfg.NoColor {
		color.NoColor = true
	}
	logger = cfg.NewLogger(os.Stderr)
	palette = console.NewPalette(cfg.NoColor)

	format, err := console.ParseOutputFormat(cfg.Output)
	if err != nil {
		return err
	}
	formatter = console.NewFormatter(format, cmd.OutOrStdout())
	return nil
}

// startupContext bounds the calls made before the shell takes over.
func startupContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, cfg.Timeout)
}

func runShell(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	prompter := console.NewPrompter(cmd.InOrStdin(), out, cfg.ConfirmInput, palette)

	console.Banner(out, palette)
	authFile := cfg.AuthFile
	if authFile == "" {
		var err error
		authFile, err = prompter.AskOptional("Please enter the file path to your azureauth.properties file (if you don't know what that is press enter and you will be directed to a setup guide)")
		if err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "Checking for required environment variable %s@Location %s...\n", config.AuthLocationEnv, authFile)
	creds, err := config.LoadAuth(authFile)
	if err != nil {
		console.AuthGuidance(out, palette)
		return err
	}

	startCtx, cancel := startupContext(ctx)
	env, err := openEnvironment(startCtx, creds, true)
	cancel()
	if err != nil {
		return err
	}
	defer func() {
		if err := env.Close(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("Failed to close account managers.")
		}
	}()

	// The interactive shell always renders tables.
	tables := console.NewFormatter(console.OutputTable, out)
	accountWF, err := workflows.NewAccountWorkflows(env.accounts, env.toolbox, prompter, tables, logger)
	if err != nil {
		return err
	}
	resourceWF, err := workflows.NewResourceWorkflows(env.toolbox, prompter, tables, logger, workflows.ResourceWorkflowsOptions{
		DefaultThroughput:  cfg.DefaultThroughput,
		DefaultEntityCount: cfg.DefaultEntityCount,
	})
	if err != nil {
		return err
	}
	shell, err := workflows.NewShell(prompter, accountWF, resourceWF, logger, cfg.Timeout)
	if err != nil {
		return err
	}
	return shell.Run(ctx)
}
