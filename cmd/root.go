package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"opsinstall/internal/config"
	"opsinstall/internal/logger"
	"opsinstall/internal/prompt"
	"opsinstall/internal/shell"
)

var (
	// debug enables debug logging via `--debug`.
	debug bool
	// configPath is an optional YAML config file passed with `--config`.
	configPath string
	// assumeYes accepts every confirmation and default value.
	assumeYes bool

	// cfg is loaded once before any subcommand runs.
	cfg config.Config
)

// rootCmd is the base command for the CLI tool `opsinstall`.
var rootCmd = &cobra.Command{
	Use:   "opsinstall",
	Short: "Install products into pyenv environments and register Lmod modulefiles",
	Long: `opsinstall installs a product (a package spec, a git repository or a
distribution archive) into its own pyenv virtualenv and registers a Lua
modulefile that activates it. set-version promotes a registered version
to the product's default.`,
	SilenceUsage:  true,
	SilenceErrors: true,

	// PersistentPreRunE initializes logging and loads the configuration.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.Init(debug)

		var err error
		if cfg, err = config.LoadConfig(configPath); err != nil {
			return err
		}
		logger.Debug("[DEBUG] Config: %+v\n", cfg)
		return nil
	},
}

// Execute runs the CLI and exits non-zero on any error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		logger.Error("[ERROR] %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "Accept default values")

	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(setVersionCmd)
	rootCmd.AddCommand(listCmd)
}

// newPrompter returns yes-mode with --yes, a terminal prompter otherwise.
func newPrompter() (prompt.Prompter, error) {
	if assumeYes {
		return prompt.Yes{}, nil
	}
	p, err := prompt.NewTerminal()
	if err != nil {
		return nil, err
	}
	return p, nil
}

// newRunner returns the shell runner for external tools, sourcing the site
// init script when the configured observatory has one.
func newRunner() shell.Runner {
	if script := cfg.SiteInitScript(); script != "" {
		logger.Debug("[DEBUG] Sourcing %s before external commands\n", script)
	}
	return shell.Bash{InitScript: cfg.SiteInitScript()}
}
