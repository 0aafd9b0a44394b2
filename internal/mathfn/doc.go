// Package mathfn implements the math namespace of scalar extension functions.
//
// Functions here are stateless values: validation stores nothing, and every
// evaluation is a pure function of its arguments, so a single instance may
// be shared across goroutines without coordination.
package mathfn

import "github.com/roach88/cepmath/internal/extension"

// Namespace is the host namespace of every function in this package.
const Namespace = "math"

// Register installs the math functions into reg.
func Register(reg *extension.Registry) error {
	return reg.Register(Power{})
}
