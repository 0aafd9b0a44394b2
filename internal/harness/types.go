package harness

import (
	"bytes"
	"fmt"
	"strings"
)

// CaseResult is the outcome of one case.
type CaseResult struct {
	Name string `json:"name"`

	// Args are the converted arguments in "kind:value" form.
	Args []string `json:"args"`

	// Output is the printed result; empty when the call failed.
	Output string `json:"output,omitempty"`

	// ErrorCode is the code of the returned error, if any.
	ErrorCode string `json:"error_code,omitempty"`

	Pass    bool   `json:"pass"`
	Message string `json:"message,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	Scenario string `json:"scenario"`
	Function string `json:"function"`

	// Types are the bound argument kinds.
	Types []string `json:"types"`

	// Binding is "ok" or the configuration error code from binding.
	Binding string `json:"binding"`

	Cases []CaseResult `json:"cases"`

	// Pass indicates overall success: binding behaved as expected and
	// every case matched.
	Pass bool `json:"pass"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult(scenario, function string) *Result {
	return &Result{
		Scenario: scenario,
		Function: function,
		Cases:    []CaseResult{},
		Pass:     true,
		Errors:   []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Passed returns the number of passing cases.
func (r *Result) Passed() int {
	n := 0
	for _, c := range r.Cases {
		if c.Pass {
			n++
		}
	}
	return n
}

// Trace renders the result as stable, line-oriented text for golden files.
//
//	scenario power_basics
//	bind math:power(DOUBLE, DOUBLE) ok
//	case fractional_base (double:5.6, double:3) -> 175.61599999999996 pass
//	case null_base (null, double:4) -> error NULL_INPUT pass
func (r *Result) Trace() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "scenario %s\n", r.Scenario)
	fmt.Fprintf(&buf, "bind %s(%s) %s\n", r.Function, strings.Join(r.Types, ", "), r.Binding)
	for _, c := range r.Cases {
		outcome := c.Output
		if c.ErrorCode != "" {
			outcome = "error " + c.ErrorCode
		}
		status := "pass"
		if !c.Pass {
			status = "FAIL"
		}
		fmt.Fprintf(&buf, "case %s (%s) -> %s %s\n", c.Name, strings.Join(c.Args, ", "), outcome, status)
	}
	return buf.Bytes()
}
