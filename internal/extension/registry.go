package extension

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/roach88/cepmath/internal/ir"
)

// Function is a scalar extension function loadable by the host.
type Function interface {
	// Declaration returns the static metadata of the function.
	Declaration() ir.FunctionDecl

	// ReturnType returns the declared return kind.
	ReturnType() ir.AttrType

	// Validate checks the resolved argument kinds. It is called once per
	// query compile and must return a *ConfigurationError on rejection.
	Validate(argTypes []ir.AttrType) error

	// Call evaluates the function for one event. It must be safe for
	// concurrent use and return a *RuntimeError on bad input.
	Call(args []ir.Arg) (ir.Number, error)
}

// Registry holds the functions available to the host, keyed by namespace:name.
//
// Registration is expected to finish before Bind or Lookup are reachable;
// the lock only keeps late registration from racing with readers.
type Registry struct {
	mu     sync.RWMutex
	fns    map[ir.FunctionRef]Function
	logger *slog.Logger
}

// NewRegistry creates an empty registry. A nil logger discards output.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Registry{
		fns:    make(map[ir.FunctionRef]Function),
		logger: logger,
	}
}

// Register adds fn under its declared namespace:name.
// Registering the same reference twice is an error.
func (r *Registry) Register(fn Function) error {
	decl := fn.Declaration()
	ref, err := ir.ParseFunctionRef(decl.Ref().String())
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.fns[ref]; exists {
		return fmt.Errorf("register: function %s already registered", ref)
	}
	r.fns[ref] = fn

	r.logger.Debug("function registered",
		"function", ref.String(),
		"params", len(decl.Parameters),
		"returns", fn.ReturnType(),
	)
	return nil
}

// Lookup returns the function registered under ref.
func (r *Registry) Lookup(ref ir.FunctionRef) (Function, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.fns[ref]
	return fn, ok
}

// Functions returns all registered functions ordered by namespace:name.
func (r *Registry) Functions() []Function {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fns := make([]Function, 0, len(r.fns))
	for _, fn := range r.fns {
		fns = append(fns, fn)
	}
	slices.SortFunc(fns, func(a, b Function) int {
		return strings.Compare(a.Declaration().Ref().String(), b.Declaration().Ref().String())
	})
	return fns
}

// Bind resolves ref and validates argTypes against it. This is the
// query-compile step: on success the returned handle may be called for
// every matching event without further checks.
func (r *Registry) Bind(ref ir.FunctionRef, argTypes []ir.AttrType) (*Validated, error) {
	fn, ok := r.Lookup(ref)
	if !ok {
		return nil, &ConfigurationError{
			Function: ref.String(),
			Code:     ErrCodeUnknownFunction,
			Actual:   ref.String(),
			Message:  fmt.Sprintf("no function registered as %s", ref),
		}
	}

	if err := fn.Validate(argTypes); err != nil {
		r.logger.Debug("function rejected arguments",
			"function", ref.String(),
			"arg_types", argTypes,
			"error", err,
		)
		return nil, err
	}

	return &Validated{
		Ref:      ref,
		ArgTypes: slices.Clone(argTypes),
		fn:       fn,
	}, nil
}

// Validated is a function bound to argument kinds it has accepted.
// It holds no mutable state and is safe for concurrent use.
type Validated struct {
	Ref      ir.FunctionRef
	ArgTypes []ir.AttrType
	fn       Function
}

// Call evaluates the bound function for one event. Every present value
// must carry the kind it was bound with; absent values and the argument
// count are left to the function.
func (v *Validated) Call(args []ir.Arg) (ir.Number, error) {
	for i, arg := range args {
		if i >= len(v.ArgTypes) {
			break
		}
		n, ok := arg.Value()
		if !ok || n.Type() == v.ArgTypes[i] {
			continue
		}
		return nil, &RuntimeError{
			Function: v.Ref.String(),
			Code:     ErrCodeTypeMismatch,
			Argument: v.paramName(i),
			Message: fmt.Sprintf("%s argument of %s() is %s, but it was bound as %s",
				PositionName(i+1), v.Ref, n.Type(), v.ArgTypes[i]),
		}
	}
	return v.fn.Call(args)
}

func (v *Validated) paramName(i int) string {
	params := v.fn.Declaration().Parameters
	if i < len(params) {
		return params[i].Name
	}
	return fmt.Sprintf("args[%d]", i)
}

// ReturnType returns the declared return kind of the bound function.
func (v *Validated) ReturnType() ir.AttrType {
	return v.fn.ReturnType()
}
