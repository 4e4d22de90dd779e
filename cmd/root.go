package cmd

import (
	"fmt"
	"os"

	"github.com/kayz/personas/internal/config"
	"github.com/kayz/personas/internal/logger"
	"github.com/spf13/cobra"
)

var (
	logLevel     string
	settingsPath string

	// settings is loaded before any command runs.
	settings = config.DefaultConfig()
)

var rootCmd = &cobra.Command{
	Use:   "personas",
	Short: "Collect persona resource restrictions into a JSON file",
	Long: `personas asks for the resource restrictions of a persona (an isolated
execution profile) one question at a time and writes the result as JSON.

  personas                  Run the interactive questionnaire (default)
  personas configure        Same as above
  personas init             Write a default settings file
  personas version          Print the version

Answers can be prefilled with --set key=value, for example:
  personas --set personas_id=3 --set cpu.percent=50`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runConfigure,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadSettings(cmd); err != nil {
			return err
		}
		return applyLogLevel(cmd, settings.Logging.Level)
	},
}

// loadSettings reads --config when given, else the default settings path.
func loadSettings(cmd *cobra.Command) error {
	var (
		cfg *config.Config
		err error
	)
	if cmd.Flags().Changed("config") {
		cfg, err = config.LoadFromPath(settingsPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	settings = cfg
	logger.Trace("settings loaded from %s", settingsPath)
	return nil
}

// applyLogLevel sets the log level, preferring an explicit --log flag.
func applyLogLevel(cmd *cobra.Command, levelName string) error {
	if cmd.Flags().Changed("log") {
		levelName = logLevel
	}
	level, err := logger.ParseLevel(levelName)
	if err != nil {
		return err
	}
	logger.SetLevel(level)
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info",
		"Log level: trace, debug, info, warn, error, fatal, panic")
	rootCmd.PersistentFlags().StringVar(&settingsPath, "config", config.ConfigPath(),
		"Settings file")

	addConfigureFlags(rootCmd)
}

func Execute() {
	defer logger.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		logger.Sync()
		os.Exit(1)
	}
}
