package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/joshuapare/ptkit/pkg/contenttype"
	"github.com/joshuapare/ptkit/pkg/printer"
	"github.com/joshuapare/ptkit/pkg/ptf"
)

var (
	// Global flags
	verbose bool
	quiet   bool
	jsonOut bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "ptfctl",
	Short: "Inspect and compare Pro Tools session files",
	Long: `ptfctl decodes obfuscated Pro Tools session files (.ptf, .ptx) into
their block tree. It can dump the cleartext, print and verify the block
structure, report session facts, diff two revisions of a session and keep
numbered archive copies of a session as it changes.

Given only a session file, ptfctl behaves like "ptfctl unxor".`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return runUnxor(args)
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

// setupLogging routes diagnostics to stderr. User-facing output never goes
// through the logger.
func setupLogging() {
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !colorEnabled(os.Stderr),
	})
	switch {
	case quiet:
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case verbose:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// colorEnabled reports whether f should receive ANSI colors.
func colorEnabled(f *os.File) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd())
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

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// printerOptions builds printer options from the global flags.
func printerOptions() printer.Options {
	opts := printer.DefaultOptions()
	if jsonOut {
		opts.Format = printer.FormatJSON
	}
	opts.Color = colorEnabled(os.Stdout)
	return opts
}

// openSession opens the session at path.
func openSession(path string, opts ...ptf.Option) (*ptf.Reader, error) {
	log.Debug().Str("path", path).Msg("opening session")
	r, err := ptf.Open(path, opts...)
	if err != nil {
		return nil, err
	}
	log.Debug().
		Str("variant", r.Variant().Name).
		Uint8("seed", r.Header().Seed).
		Int("size", len(r.Raw())).
		Msg("session header decoded")
	return r, nil
}

// parseTagFlags converts repeated -b values into content type tags.
func parseTagFlags(values []string) ([]uint16, error) {
	tags, err := contenttype.ParseTags(values)
	if err != nil {
		return nil, fmt.Errorf("invalid block type: %w", err)
	}
	return tags, nil
}
