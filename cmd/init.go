package cmd

import (
	"fmt"
	"os"

	"github.com/kayz/personas/internal/config"
	"github.com/spf13/cobra"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default settings file",
	Long: `Write a settings file with the default values to the path given by
--config (default .personas.yaml in the current directory).`,
	// The settings file may be the thing being repaired, so it is not read.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return applyLogLevel(cmd, config.DefaultConfig().Logging.Level)
	},
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing settings file")
}

func runInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(settingsPath); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", settingsPath)
	}
	if err := config.DefaultConfig().Save(settingsPath); err != nil {
		return fmt.Errorf("failed to write %s: %w", settingsPath, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Settings written to %s\n", settingsPath)
	return nil
}
