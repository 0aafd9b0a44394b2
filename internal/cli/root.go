package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/cepmath/internal/extension"
	"github.com/roach88/cepmath/internal/mathfn"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text" | "yaml"

	// TraceIDs generates trace IDs for JSON/YAML responses.
	// Defaults to UUIDv7Generator.
	TraceIDs IDGenerator

	// Logger receives structured logs. Nil discards them.
	Logger *slog.Logger

	registry *extension.Registry
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

// NewRootCommand creates the root command for the cepmath CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{TraceIDs: UUIDv7Generator{}}

	cmd := &cobra.Command{
		Use:   "cepmath",
		Short: "cepmath - math extension functions for CEP queries",
		Long:  "Declare, validate, and evaluate math extension functions the way a host CEP engine loads them.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			level := slog.LevelWarn
			if opts.Verbose {
				level = slog.LevelDebug
			}
			opts.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text|yaml)")

	// Add subcommands
	cmd.AddCommand(NewDescribeCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewEvalCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// Registry returns the function registry, building it with the math
// namespace on first use.
func (o *RootOptions) Registry() (*extension.Registry, error) {
	if o.registry != nil {
		return o.registry, nil
	}
	reg := extension.NewRegistry(o.logger())
	if err := mathfn.Register(reg); err != nil {
		return nil, err
	}
	o.registry = reg
	return reg, nil
}

func (o *RootOptions) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.Logger
}

func (o *RootOptions) traceID() string {
	if o.TraceIDs == nil {
		return ""
	}
	return o.TraceIDs.Generate()
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
