// Package ir provides the shared types for cepmath: host attribute kinds,
// numeric argument values, function declarations, and the query-binding IR
// produced by the compiler.
//
// This package contains type definitions and small conversions only. All
// other internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Numeric arguments are a sealed sum type (Int, Long, Float, Double)
//   - An absent argument is an explicit state of Arg, never a zero number
//   - Every numeric kind widens to float64 through its own method
//   - All JSON tags use snake_case
package ir
