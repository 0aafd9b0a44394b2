package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/cepmath/internal/ir"
)

// CompileQuery walks the top-level "stream" and "select" structs of a CUE
// value and compiles every entry. All compile errors are collected.
//
//	stream: InValueStream: {
//		inValue1: "double"
//		inValue2: "double"
//	}
//	select: powerValue: {
//		from: "InValueStream"
//		call: "math:power"
//		args: ["inValue1", "inValue2"]
//	}
func CompileQuery(v cue.Value) (*ir.Query, []error) {
	if err := v.Err(); err != nil {
		return nil, []error{formatCUEError(err)}
	}

	q := &ir.Query{}
	var errs []error

	streamsVal := v.LookupPath(cue.ParsePath("stream"))
	if streamsVal.Exists() {
		iter, err := streamsVal.Fields()
		if err != nil {
			errs = append(errs, formatCUEError(err))
		} else {
			for iter.Next() {
				stream, err := CompileStream(iter.Value())
				if err != nil {
					errs = append(errs, err)
					continue
				}
				q.Streams = append(q.Streams, *stream)
			}
		}
	}

	selectVal := v.LookupPath(cue.ParsePath("select"))
	if selectVal.Exists() {
		iter, err := selectVal.Fields()
		if err != nil {
			errs = append(errs, formatCUEError(err))
		} else {
			for iter.Next() {
				proj, err := CompileProjection(iter.Value())
				if err != nil {
					errs = append(errs, err)
					continue
				}
				q.Projections = append(q.Projections, *proj)
			}
		}
	}

	return q, errs
}

// CompileStream parses one stream definition. The stream name is the struct
// label; each field is an attribute whose value is its type name.
func CompileStream(v cue.Value) (*ir.StreamDef, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	stream := &ir.StreamDef{Name: lastLabel(v)}

	iter, err := v.Fields()
	if err != nil {
		return nil, &CompileError{
			Field:   "stream",
			Message: fmt.Sprintf("stream %q must be a struct of attribute: type", stream.Name),
			Pos:     v.Pos(),
		}
	}

	for iter.Next() {
		name := iter.Label()
		typeStr, err := iter.Value().String()
		if err != nil {
			return nil, &CompileError{
				Field:   "type",
				Message: fmt.Sprintf("attribute %q type must be a string", name),
				Pos:     iter.Value().Pos(),
			}
		}
		typ, err := ir.ParseAttrType(typeStr)
		if err != nil {
			return nil, &CompileError{
				Field:   "type",
				Message: fmt.Sprintf("attribute %q: %v", name, err),
				Pos:     iter.Value().Pos(),
			}
		}
		stream.Attributes = append(stream.Attributes, ir.Attribute{Name: name, Type: typ})
	}

	if len(stream.Attributes) == 0 {
		return nil, &CompileError{
			Field:   "stream",
			Message: fmt.Sprintf("stream %q must declare at least one attribute", stream.Name),
			Pos:     v.Pos(),
		}
	}

	return stream, nil
}

// CompileProjection parses one select entry. The alias is the struct label.
func CompileProjection(v cue.Value) (*ir.Projection, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	proj := &ir.Projection{Alias: lastLabel(v)}

	from, err := requiredString(v, "from")
	if err != nil {
		return nil, err
	}
	proj.From = from

	call, err := requiredString(v, "call")
	if err != nil {
		return nil, err
	}
	ref, err := ir.ParseFunctionRef(call)
	if err != nil {
		return nil, &CompileError{
			Field:   "call",
			Message: err.Error(),
			Pos:     v.LookupPath(cue.ParsePath("call")).Pos(),
		}
	}
	proj.Function = ref

	// args is optional: a zero-argument call is left for the function to reject
	argsVal := v.LookupPath(cue.ParsePath("args"))
	if argsVal.Exists() {
		iter, err := argsVal.List()
		if err != nil {
			return nil, &CompileError{
				Field:   "args",
				Message: "args must be a list of attribute names",
				Pos:     argsVal.Pos(),
			}
		}
		for iter.Next() {
			name, err := iter.Value().String()
			if err != nil {
				return nil, &CompileError{
					Field:   "args",
					Message: "args must be a list of attribute names",
					Pos:     iter.Value().Pos(),
				}
			}
			proj.Args = append(proj.Args, name)
		}
	}

	return proj, nil
}

func requiredString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", &CompileError{
			Field:   field,
			Message: fmt.Sprintf("%s is required", field),
			Pos:     v.Pos(),
		}
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func lastLabel(v cue.Value) string {
	labels := v.Path().Selectors()
	if len(labels) == 0 {
		return ""
	}
	return labels[len(labels)-1].String()
}

// CompileError represents a compilation error with position info.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
