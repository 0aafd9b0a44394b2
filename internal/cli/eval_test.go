package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cepmath/internal/ir"
	"github.com/roach88/cepmath/internal/testutil"
)

func runEvalCommand(t *testing.T, opts *RootOptions, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewEvalCommand(opts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestEvalText(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"fractional_base", []string{"--arg", "double:5.6", "--arg", "double:3.0"}, "175.61599999999996\n"},
		{"int_args", []string{"--arg", "int:2", "--arg", "int:10"}, "1024.0\n"},
		{"zero_to_zero", []string{"--arg", "double:0", "--arg", "double:0"}, "1.0\n"},
		{"negative_fractional", []string{"--arg", "double:-2", "--arg", "double:0.5"}, "NaN\n"},
		{"overflow", []string{"--arg", "double:10", "--arg", "long:400"}, "Infinity\n"},
		{"mixed", []string{"--arg", "long:3", "--arg", "float:0.5"}, "1.7320508075688772\n"},
		{"whole_numeral_int", []string{"--arg", "int:2.0", "--arg", "int:3"}, "8.0\n"},
		{"million", []string{"--arg", "int:10", "--arg", "int:6"}, "1000000.0\n"},
		{"scientific", []string{"--arg", "int:10", "--arg", "int:7"}, "1.0E7\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runEvalCommand(t, &RootOptions{Format: "text"}, append([]string{"math:power"}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestEvalJSONCarriesTraceID(t *testing.T) {
	opts := &RootOptions{Format: "json", TraceIDs: testutil.NewFixedIDGenerator("trace-abc")}

	out, err := runEvalCommand(t, opts, "math:power", "--arg", "int:2", "--arg", "double:0.5")
	require.NoError(t, err)

	var resp struct {
		Status  string     `json:"status"`
		Data    EvalResult `json:"data"`
		TraceID string     `json:"trace_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "trace-abc", resp.TraceID)
	assert.Equal(t, "math:power", resp.Data.Function)
	assert.Equal(t, []string{"int:2", "double:0.5"}, resp.Data.Args)
	assert.Equal(t, "DOUBLE", resp.Data.ReturnType)
	assert.Equal(t, "1.4142135623730951", resp.Data.Result)
}

func TestEvalTextHasNoTraceID(t *testing.T) {
	opts := &RootOptions{Format: "text", TraceIDs: testutil.NewSequenceIDGenerator()}

	// An exhausted sequence would panic if text output asked for an ID
	out, err := runEvalCommand(t, opts, "math:power", "--arg", "int:3", "--arg", "int:2")
	require.NoError(t, err)
	assert.Equal(t, "9.0\n", out)
}

func TestEvalNullInput(t *testing.T) {
	out, err := runEvalCommand(t, &RootOptions{Format: "json"}, "math:power", "--arg", "double:null", "--arg", "double:4.0")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NULL_INPUT", resp.Error.Code)
	assert.Equal(t, "Input to the math:power() function cannot be null", resp.Error.Message)
	details, ok := resp.Error.Details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "value", details["argument"])
}

func TestEvalNullExponent(t *testing.T) {
	out, err := runEvalCommand(t, &RootOptions{Format: "text"}, "math:power", "--arg", "int:2", "--arg", "long:null")
	require.Error(t, err)
	assert.Contains(t, out, "Error [NULL_INPUT]")
}

func TestEvalArgumentCount(t *testing.T) {
	out, err := runEvalCommand(t, &RootOptions{Format: "text"}, "math:power",
		"--arg", "int:1", "--arg", "int:2", "--arg", "int:3")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "INVALID_ARGUMENT_COUNT")
	assert.Contains(t, out, "required 2, but found 3")
}

func TestEvalNonNumericKind(t *testing.T) {
	out, err := runEvalCommand(t, &RootOptions{Format: "json"}, "math:power",
		"--arg", "string:abc", "--arg", "double:2")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_ARGUMENT_TYPE", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "first argument")
	assert.Contains(t, resp.Error.Message, "but found STRING")
}

func TestEvalUnknownFunction(t *testing.T) {
	out, err := runEvalCommand(t, &RootOptions{Format: "text"}, "math:cube", "--arg", "int:2")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "UNKNOWN_FUNCTION")
}

func TestEvalMalformedInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad_ref", []string{"power", "--arg", "int:2", "--arg", "int:2"}},
		{"missing_kind", []string{"math:power", "--arg", "2", "--arg", "int:2"}},
		{"unknown_kind", []string{"math:power", "--arg", "decimal:2", "--arg", "int:2"}},
		{"bad_value", []string{"math:power", "--arg", "int:two", "--arg", "int:2"}},
		{"int_overflow", []string{"math:power", "--arg", "int:3000000000", "--arg", "int:2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runEvalCommand(t, &RootOptions{Format: "text"}, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, out, ErrCodeBadArgument)
		})
	}
}

func TestParseEvalArgs(t *testing.T) {
	types, args, err := parseEvalArgs([]string{"int:2", "bool:true", "double:null"})
	require.NoError(t, err)
	assert.Equal(t, []ir.AttrType{ir.TypeInt, ir.TypeBool, ir.TypeDouble}, types)
	require.Len(t, args, 3)

	n, ok := args[0].Value()
	require.True(t, ok)
	assert.Equal(t, ir.Int(2), n)
	assert.True(t, args[1].IsAbsent())
	assert.True(t, args[2].IsAbsent())
}
