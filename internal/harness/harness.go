package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/cepmath/internal/extension"
	"github.com/roach88/cepmath/internal/ir"
)

// Harness is the scenario execution engine.
// It holds no per-scenario state and may run scenarios concurrently.
type Harness struct {
	registry *extension.Registry
	logger   *slog.Logger
	workers  int
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the harness logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = logger
	}
}

// WithWorkers limits the number of cases evaluated at once.
func WithWorkers(n int) Option {
	return func(h *Harness) {
		if n > 0 {
			h.workers = n
		}
	}
}

// New creates a harness over the functions in reg.
// Logs are discarded unless WithLogger is given.
func New(reg *extension.Registry, opts ...Option) *Harness {
	h := &Harness{
		registry: reg,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
		workers:  runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes a scenario with a default harness.
func Run(ctx context.Context, reg *extension.Registry, scenario *Scenario) (*Result, error) {
	return New(reg).Run(ctx, scenario)
}

// Run executes a scenario and returns the result.
//
// Execution flow:
// 1. Bind the function to the declared kinds (query-compile step)
// 2. If binding fails, compare against bind_error and stop
// 3. Evaluate every case concurrently against the single binding
// 4. Compare each outcome with its expectation, in case order
//
// A returned error means the scenario could not be executed at all
// (malformed scenario, cancelled context); failed expectations are reported
// in the Result.
func (h *Harness) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	ref, err := scenario.Ref()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	types, err := scenario.ArgTypes()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	result := NewResult(scenario.Name, ref.String())
	for _, t := range types {
		result.Types = append(result.Types, t.String())
	}

	bound, err := h.registry.Bind(ref, types)
	if err != nil {
		code := extension.ErrorCode(err)
		if code == "" {
			return nil, fmt.Errorf("scenario %s: bind: %w", scenario.Name, err)
		}
		result.Binding = code
		if scenario.BindError != code {
			result.AddError(fmt.Sprintf("bind: expected %s, got %v", expectedBinding(scenario), err))
		}
		h.logger.Info("scenario finished",
			"scenario", scenario.Name,
			"binding", code,
			"pass", result.Pass,
		)
		return result, nil
	}

	result.Binding = "ok"
	if scenario.BindError != "" {
		result.AddError(fmt.Sprintf("bind: expected %s, got ok", scenario.BindError))
		return result, nil
	}

	cases := make([]CaseResult, len(scenario.Cases))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.workers)
	for i := range scenario.Cases {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			cases[i] = runCase(bound, types, scenario.Cases[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	result.Cases = cases
	for _, c := range cases {
		if !c.Pass {
			result.AddError(fmt.Sprintf("case %s: %s", c.Name, c.Message))
		}
	}

	h.logger.Info("scenario finished",
		"scenario", scenario.Name,
		"function", ref.String(),
		"cases", len(cases),
		"passed", result.Passed(),
	)
	return result, nil
}

func expectedBinding(s *Scenario) string {
	if s.BindError == "" {
		return "ok"
	}
	return s.BindError
}

// runCase converts the case arguments, calls the bound function, and
// compares the outcome.
func runCase(bound *extension.Validated, types []ir.AttrType, c Case) CaseResult {
	res := CaseResult{Name: c.Name, Args: []string{}}

	if len(c.Args) != len(types) {
		res.Message = fmt.Sprintf("got %d args for %d declared types", len(c.Args), len(types))
		return res
	}

	args := make([]ir.Arg, len(c.Args))
	for i, v := range c.Args {
		arg, err := ir.ArgFromAny(v, types[i])
		if err != nil {
			res.Message = fmt.Sprintf("args[%d]: %v", i, err)
			return res
		}
		args[i] = arg
		res.Args = append(res.Args, arg.String())
	}

	out, err := bound.Call(args)
	if err != nil {
		res.ErrorCode = extension.ErrorCode(err)
		if res.ErrorCode == "" {
			res.ErrorCode = "UNKNOWN"
		}
		if c.Expect.Error != res.ErrorCode {
			res.Message = fmt.Sprintf("expected %s, got error %v", describe(c.Expect), err)
			return res
		}
		res.Pass = true
		return res
	}

	res.Output = ir.FormatDouble(out.Widen())
	if c.Expect.Result != res.Output {
		res.Message = fmt.Sprintf("expected %s, got %s", describe(c.Expect), res.Output)
		return res
	}
	res.Pass = true
	return res
}

func describe(e Expect) string {
	if e.Error != "" {
		return "error " + e.Error
	}
	return e.Result
}
