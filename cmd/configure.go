package cmd

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/kayz/personas/internal/hostinfo"
	"github.com/kayz/personas/internal/logger"
	"github.com/kayz/personas/internal/persona"
	"github.com/kayz/personas/internal/prompt"
	"github.com/spf13/cobra"
)

var (
	configureOutput           string
	configureSetValues        []string
	configureNonInteractive   bool
	configureIOBlankUnlimited bool
	configureCheckHost        bool
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Interactively collect a persona configuration",
	Long: `Interactively collect a persona configuration.

Questions are asked in a fixed order: persona ID, CPU, memory, I/O limits,
filesystem isolation, device access and path restrictions. Invalid answers
are rejected and asked again. The result overwrites the output file.`,
	RunE: runConfigure,
}

func init() {
	rootCmd.AddCommand(configureCmd)
	addConfigureFlags(configureCmd)
}

func addConfigureFlags(c *cobra.Command) {
	c.Flags().StringVarP(&configureOutput, "output", "o", "", "Output file (default from settings, else config.json)")
	c.Flags().StringArrayVar(&configureSetValues, "set", nil, "Pre-fill answers as key=value (repeatable); path_restriction.list is comma-separated, so enter paths containing commas interactively")
	c.Flags().BoolVar(&configureNonInteractive, "non-interactive", false, "Fail if answers are missing instead of prompting")
	c.Flags().BoolVar(&configureIOBlankUnlimited, "io-blank-unlimited", false, "Accept a blank I/O answer as no limit")
	c.Flags().BoolVar(&configureCheckHost, "check-host", false, "Warn when limits exceed host capacity")
}

type configureOptions struct {
	output           string
	prefill          map[string]string
	nonInteractive   bool
	ioBlankUnlimited bool
	checkHost        bool
}

func runConfigure(cmd *cobra.Command, args []string) error {
	opts, err := resolveConfigureOptions(cmd)
	if err != nil {
		return err
	}
	return collectAndSave(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), opts)
}

// resolveConfigureOptions merges flags over settings. Flags win only when
// set explicitly.
func resolveConfigureOptions(cmd *cobra.Command) (configureOptions, error) {
	prefill, err := parseSetValues(configureSetValues)
	if err != nil {
		return configureOptions{}, err
	}

	opts := configureOptions{
		output:           settings.Output,
		prefill:          prefill,
		nonInteractive:   configureNonInteractive,
		ioBlankUnlimited: settings.IOBlankUnlimited,
		checkHost:        settings.CheckHost,
	}
	if cmd.Flags().Changed("output") {
		opts.output = configureOutput
	}
	if cmd.Flags().Changed("io-blank-unlimited") {
		opts.ioBlankUnlimited = configureIOBlankUnlimited
	}
	if cmd.Flags().Changed("check-host") {
		opts.checkHost = configureCheckHost
	}
	if strings.TrimSpace(opts.output) == "" {
		opts.output = persona.DefaultOutput
	}
	return opts, nil
}

func collectAndSave(ctx context.Context, in io.Reader, out io.Writer, opts configureOptions) error {
	p := prompt.New(in, out,
		prompt.WithPrefill(opts.prefill),
		prompt.WithNonInteractive(opts.nonInteractive),
	)

	cfg, err := persona.Collect(p, persona.Options{IOBlankUnlimited: opts.ioBlankUnlimited})
	if err != nil {
		return fmt.Errorf("collect persona config: %w", err)
	}

	if opts.checkHost {
		checkHost(ctx, cfg)
	}

	if err := persona.Save(cfg, opts.output); err != nil {
		return err
	}
	logger.Info("persona %d written to %s", cfg.PersonasID, opts.output)

	fmt.Fprintf(out, "Configuration saved to %s.\n", opts.output)
	return nil
}

var detectHost = hostinfo.Detect

func checkHost(ctx context.Context, cfg *persona.Config) {
	capacity, err := detectHost(ctx)
	if err != nil {
		logger.Warn("host check skipped: %v", err)
		return
	}
	logger.Debug("host has %d MB memory and %d logical CPUs", capacity.MemoryMB, capacity.LogicalCPUs)
	if msg := capacity.MemoryWarning(cfg.Memory); msg != "" {
		logger.Warn("%s", msg)
	}
}

func parseSetValues(raw []string) (map[string]string, error) {
	known := persona.Keys()
	out := make(map[string]string, len(raw))
	for _, item := range raw {
		parts := strings.SplitN(item, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid --set value %q, expected key=value", item)
		}
		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])
		if key == "" {
			return nil, fmt.Errorf("invalid --set value %q, empty key", item)
		}
		if !slices.Contains(known, key) {
			return nil, fmt.Errorf("invalid --set value %q, unknown key (known: %s)", item, strings.Join(known, ", "))
		}
		out[key] = val
	}
	return out, nil
}
