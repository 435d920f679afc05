// Package cmd provides the command-line interface of gl-smartsort.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nmdp-bioinformatics/gl-smartsort/internal/adapter/outbound/output"
	"github.com/nmdp-bioinformatics/gl-smartsort/internal/application/common/logging"
	"github.com/nmdp-bioinformatics/gl-smartsort/internal/application/common/slogger"
	"github.com/nmdp-bioinformatics/gl-smartsort/internal/application/service"
	"github.com/nmdp-bioinformatics/gl-smartsort/internal/config"

	"github.com/spf13/cobra"
)

// flagBindings maps configuration keys to the flags that override them.
//
//nolint:gochecknoglobals // Read-only lookup table.
var flagBindings = map[string]string{
	"log.level":        "log-level",
	"log.format":       "log-format",
	"output.format":    "format",
	"batch.workers":    "workers",
	"batch.chunk_size": "chunk-size",
	"nats.url":         "nats-url",
	"nats.subject":     "subject",
	"nats.queue_group": "queue-group",
}

// rootCmd represents the base command when called without any subcommands
//
//nolint:gochecknoglobals // Standard Cobra CLI pattern
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gl-smartsort [GL]",
		Short: "Smart-sort GL Strings into a canonical order",
		Long: `gl-smartsort rewrites GL Strings into a canonical order so that two
strings describing the same genotype list compare equal.

Every delimiter level (^ | + ~ /) is sorted recursively: by locus name
first, then numerically by allele fields, so A*01:11 sorts before A*01:103.

With a GL string argument, its canonical form is printed. Without one,
GL strings are read from standard input, one per line, and each is
written back canonicalized on its own line.`,
		Example: `  gl-smartsort 'A*01:103+A*01:11'
  gl-smartsort --workers 8 < genotypes.txt > canonical.txt
  gl-smartsort --format json < genotypes.txt`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSort(cmd, args)
		},
	}

	// Global flags
	cmd.PersistentFlags().String("config", "", "config file (default: ./configs/config.yaml)")
	cmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("log-format", "json", "Log format (json, text)")

	cmd.Flags().StringP("format", "f", config.FormatText, "Output format (text, json, yaml)")
	cmd.Flags().IntP("workers", "w", 1, "Number of GL strings canonicalized concurrently")
	cmd.Flags().Int("chunk-size", 1024, "Number of input lines read per batch")
	cmd.Flags().BoolP("version", "v", false, "Show version information and exit")

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// loadConfig builds the configuration for cmd from defaults, the config file,
// the environment and any flags given on the command line, then configures
// the global logger from it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfgFile, _ := cmd.Flags().GetString("config")

	v, err := config.NewViper(cfgFile)
	if err != nil {
		return nil, err
	}

	for key, name := range flagBindings {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, fmt.Errorf("bind flag --%s: %w", name, err)
		}
	}

	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}

	if err := slogger.Configure(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}); err != nil {
		return nil, err
	}

	return cfg, nil
}

// runSort canonicalizes the single argument, or every line of stdin.
func runSort(cmd *cobra.Command, args []string) error {
	if showVersion, _ := cmd.Flags().GetBool("version"); showVersion {
		return runVersion(cmd, false)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	w, err := output.NewWriter(cfg.Output.Format, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	if len(args) == 1 {
		if err := w.Write(service.NewResult(args[0])); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
		return w.Flush()
	}

	ctx := logging.NewCorrelationID(cmd.Context())
	svc := service.NewBatchCanonicalizer(cfg.Batch)

	stats, err := svc.Stream(ctx, cmd.InOrStdin(), w)
	if err != nil {
		slogger.ErrorWithError(ctx, err, "Failed to canonicalize input", slogger.Fields{"lines": stats.Lines})
		return err
	}

	slogger.Debug(ctx, "Canonicalized standard input", slogger.Fields{
		"lines":   stats.Lines,
		"changed": stats.Changed,
	})
	return nil
}
