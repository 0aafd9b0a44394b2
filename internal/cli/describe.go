package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/cepmath/internal/extension"
	"github.com/roach88/cepmath/internal/ir"
)

// NewDescribeCommand creates the describe command.
func NewDescribeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe [namespace:name]",
		Short: "Show function declarations",
		Long: `Show the declaration metadata of registered functions: parameters,
accepted kinds, return kind, and usage examples.

Without an argument every registered function is listed.

Examples:
  cepmath describe
  cepmath describe math:power --format yaml`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return runDescribe(rootOpts, name, cmd)
		},
	}

	return cmd
}

func runDescribe(opts *RootOptions, name string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	reg, err := opts.Registry()
	if err != nil {
		return outputCommandError(formatter, ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}

	var decls []ir.FunctionDecl
	if name == "" {
		for _, fn := range reg.Functions() {
			decls = append(decls, fn.Declaration())
		}
	} else {
		ref, err := ir.ParseFunctionRef(name)
		if err != nil {
			return outputCommandError(formatter, ExitCommandError, ErrCodeBadArgument, err.Error(), nil)
		}
		fn, ok := reg.Lookup(ref)
		if !ok {
			return outputCommandError(formatter, ExitFailure, string(extension.ErrCodeUnknownFunction),
				fmt.Sprintf("no function registered as %s", ref), nil)
		}
		decls = append(decls, fn.Declaration())
	}

	if formatter.Structured() {
		if name != "" {
			return formatter.Success(decls[0])
		}
		return formatter.Success(decls)
	}

	for i, d := range decls {
		if i > 0 {
			fmt.Fprintln(formatter.Writer)
		}
		writeDeclaration(formatter.Writer, d)
	}
	return nil
}

func writeDeclaration(w io.Writer, d ir.FunctionDecl) {
	params := make([]string, len(d.Parameters))
	for i, p := range d.Parameters {
		params[i] = p.Name
	}
	fmt.Fprintf(w, "%s(%s) -> %s\n", d.Ref(), strings.Join(params, ", "), joinTypes(d.Return.Types))
	fmt.Fprintf(w, "  %s\n", d.Description)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Parameters:")
	for _, p := range d.Parameters {
		fmt.Fprintf(w, "  %s (%s)\n", p.Name, joinTypes(p.Types))
		fmt.Fprintf(w, "      %s\n", p.Description)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Returns: %s\n", joinTypes(d.Return.Types))
	fmt.Fprintf(w, "  %s\n", d.Return.Description)

	for _, ex := range d.Examples {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Example:")
		for _, line := range strings.Split(ex.Syntax, "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
		fmt.Fprintf(w, "  -- %s\n", ex.Description)
	}
}

func joinTypes(types []ir.AttrType) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return strings.Join(names, "|")
}
