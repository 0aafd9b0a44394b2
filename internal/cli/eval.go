package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/cepmath/internal/extension"
	"github.com/roach88/cepmath/internal/ir"
)

// EvalOptions holds flags for the eval command.
type EvalOptions struct {
	*RootOptions
	Args []string
}

// EvalResult is the structured payload of a successful evaluation.
type EvalResult struct {
	Function   string   `json:"function" yaml:"function"`
	Args       []string `json:"args" yaml:"args"`
	ReturnType string   `json:"return_type" yaml:"return_type"`
	Result     string   `json:"result" yaml:"result"`
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "eval <namespace:name>",
		Short: "Validate argument kinds and evaluate a function once",
		Long: `Validate argument kinds and evaluate a function once.

Each --arg is "kind:value". Kinds are validated first, exactly as a host
does at query-compile time, then the function is evaluated on the values.
A value of "null" is passed as an absent input.

Example:
  cepmath eval math:power --arg double:5.6 --arg double:3.0`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Args, "arg", nil, "argument as kind:value (repeatable, in order)")

	return cmd
}

func runEval(opts *EvalOptions, function string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	if formatter.Structured() {
		formatter.TraceID = opts.traceID()
	}

	ref, err := ir.ParseFunctionRef(function)
	if err != nil {
		return outputCommandError(formatter, ExitCommandError, ErrCodeBadArgument, err.Error(), nil)
	}

	types, args, err := parseEvalArgs(opts.Args)
	if err != nil {
		return outputCommandError(formatter, ExitCommandError, ErrCodeBadArgument, err.Error(), nil)
	}

	reg, err := opts.Registry()
	if err != nil {
		return outputCommandError(formatter, ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}

	formatter.VerboseLog("Binding %s%s", ref, formatTypes(types))
	bound, err := reg.Bind(ref, types)
	if err != nil {
		return outputFunctionError(formatter, err)
	}

	result, err := bound.Call(args)
	if err != nil {
		return outputFunctionError(formatter, err)
	}

	out := ir.FormatDouble(result.Widen())
	if !formatter.Structured() {
		fmt.Fprintln(formatter.Writer, out)
		return nil
	}

	rendered := make([]string, len(args))
	for i, a := range args {
		rendered[i] = a.String()
	}
	return formatter.Success(EvalResult{
		Function:   ref.String(),
		Args:       rendered,
		ReturnType: bound.ReturnType().String(),
		Result:     out,
	})
}

// parseEvalArgs parses every --arg. Non-numeric kinds are kept with an
// absent value so the function itself rejects them during validation.
func parseEvalArgs(raw []string) ([]ir.AttrType, []ir.Arg, error) {
	types := make([]ir.AttrType, 0, len(raw))
	args := make([]ir.Arg, 0, len(raw))
	for _, s := range raw {
		kind, _, ok := strings.Cut(s, ":")
		if !ok {
			return nil, nil, fmt.Errorf("invalid argument %q, expected format \"kind:value\"", s)
		}
		t, err := ir.ParseAttrType(kind)
		if err != nil {
			return nil, nil, err
		}
		if !t.IsNumeric() {
			types = append(types, t)
			args = append(args, ir.Absent())
			continue
		}
		t, arg, err := ir.ParseArg(s)
		if err != nil {
			return nil, nil, err
		}
		types = append(types, t)
		args = append(args, arg)
	}
	return types, args, nil
}

func formatTypes(types []ir.AttrType) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return "(" + strings.Join(names, ", ") + ")"
}

// outputFunctionError reports a configuration or runtime error raised by
// the function. Both are evaluation failures (exit code 1).
func outputFunctionError(formatter *OutputFormatter, err error) error {
	code := extension.ErrorCode(err)
	if code == "" {
		return outputCommandError(formatter, ExitFailure, ErrCodeGeneric, err.Error(), nil)
	}

	var ce *extension.ConfigurationError
	var re *extension.RuntimeError
	switch {
	case errors.As(err, &ce):
		return outputCommandError(formatter, ExitFailure, code, ce.Message, map[string]interface{}{
			"function": ce.Function,
			"position": ce.Position,
			"expected": ce.Expected,
			"actual":   ce.Actual,
		})
	case errors.As(err, &re):
		return outputCommandError(formatter, ExitFailure, code, re.Message, map[string]interface{}{
			"function": re.Function,
			"argument": re.Argument,
		})
	}
	return outputCommandError(formatter, ExitFailure, code, err.Error(), nil)
}

func outputCommandError(formatter *OutputFormatter, exitCode int, code, message string, details interface{}) error {
	_ = formatter.Error(code, message, details)
	return NewExitError(exitCode, fmt.Sprintf("%s: %s", code, message))
}
