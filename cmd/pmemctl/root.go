package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	// Global flags
	verbose         bool
	quiet           bool
	jsonOut         bool
	configPath      string
	sysfsRoot       string
	metricsTextfile string

	// current is set up by the root command's pre-run hook and released by run.
	current *app
)

var rootCmd = &cobra.Command{
	Use:   "pmemctl",
	Short: "Enforce and inspect deep durability of persistent-memory mappings",
	Long: `pmemctl maps regular files on DAX file systems and device DAX character
devices, reports the flush granularity the platform provides for them, and
runs deep syncs that push data through the platform's write buffers so it
survives power loss.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		current, err = newApp(cfg)
		return err
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/pmemkit/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output and debug logging")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&sysfsRoot, "sysfs-root", "", "Directory sysfs paths are resolved against (default /)")
	rootCmd.PersistentFlags().StringVar(&metricsTextfile, "metrics-textfile", "", "Write Prometheus metrics to this file after the command")
}

// run executes the root command and then releases the app, whether or not
// the command succeeded. Cobra skips post-run hooks when RunE fails, so the
// metrics textfile and log output are handled here instead.
func run() error {
	err := rootCmd.Execute()
	if current != nil {
		err = errors.Join(err, current.Close())
		current = nil
	}
	return err
}

func execute() {
	if err := run(); err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

var printer = message.NewPrinter(language.English)

// formatBytes renders n with digit grouping and, above 1 KiB, a binary-unit
// approximation, e.g. "8,388,608 bytes (8.0 MiB)".
func formatBytes(n int64) string {
	exact := printer.Sprintf("%d bytes", n)
	switch {
	case n < 1024:
		return exact
	case n < 1<<20:
		return fmt.Sprintf("%s (%.1f KiB)", exact, float64(n)/(1<<10))
	case n < 1<<30:
		return fmt.Sprintf("%s (%.1f MiB)", exact, float64(n)/(1<<20))
	default:
		return fmt.Sprintf("%s (%.1f GiB)", exact, float64(n)/(1<<30))
	}
}
