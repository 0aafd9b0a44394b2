// Package harness provides conformance testing for cepmath functions.
//
// A scenario binds one function to a list of declared argument kinds, the
// way a host binds it at query-compile time, then evaluates a set of cases
// against that single binding.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: power_basics
//	description: "What this scenario validates"
//	function: math:power
//	types: [double, double]
//	cases:
//	  - name: fractional_base
//	    args: [5.6, 3.0]
//	    expect:
//	      result: "175.61599999999996"
//	  - name: null_base
//	    args: [null, 4.0]
//	    expect:
//	      error: NULL_INPUT
//
// A scenario that expects the binding itself to be rejected sets bind_error
// and lists no cases:
//
//	name: power_arity
//	description: "Three arguments are rejected at compile time"
//	function: math:power
//	types: [int, int, int]
//	bind_error: INVALID_ARGUMENT_COUNT
//
// # Results
//
// Expected results are compared in their printed form (see ir.FormatDouble),
// so NaN and Infinity can be asserted like any other value. Expected errors
// are compared by code.
//
// Cases run concurrently; results always come back in case order so traces
// are stable for golden comparison.
package harness
