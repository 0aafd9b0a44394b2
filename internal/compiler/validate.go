package compiler

import (
	"errors"
	"fmt"

	"github.com/roach88/cepmath/internal/extension"
	"github.com/roach88/cepmath/internal/ir"
)

// Validation error codes (E100-E199)
const (
	ErrInvalidFieldType = "E104" // invalid attribute type
	ErrDuplicateName    = "E105" // duplicate stream or alias

	// Projection errors (E120-E129)
	ErrUnknownStream      = "E120" // from references an undefined stream
	ErrUnknownAttribute   = "E121" // argument is not an attribute of the stream
	ErrUnknownFunction    = "E122" // call references an unregistered function
	ErrInvalidArgCount    = "E123" // function rejected the argument count
	ErrInvalidArgType     = "E124" // function rejected an argument kind
	ErrFunctionValidation = "E125" // function rejected the arguments for another reason
)

// ValidationError represents a query-binding validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks every projection of q against its stream and the
// functions in reg. Returns all errors found (does not fail-fast).
//
// A projection passes only when its function accepted the resolved argument
// kinds, i.e. when the host would be allowed to evaluate it.
func Validate(q *ir.Query, reg *extension.Registry) []ValidationError {
	var errs []ValidationError

	streamNames := make(map[string]bool)
	for i, s := range q.Streams {
		if streamNames[s.Name] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("stream[%d]", i),
				Message: fmt.Sprintf("duplicate stream name: %q", s.Name),
				Code:    ErrDuplicateName,
			})
		}
		streamNames[s.Name] = true

		for _, a := range s.Attributes {
			if !a.Type.Valid() {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("stream.%s.%s", s.Name, a.Name),
					Message: fmt.Sprintf("invalid type %q for attribute %q", a.Type, a.Name),
					Code:    ErrInvalidFieldType,
				})
			}
		}
	}

	aliases := make(map[string]bool)
	for _, p := range q.Projections {
		if aliases[p.Alias] {
			errs = append(errs, ValidationError{
				Field:   "select." + p.Alias,
				Message: fmt.Sprintf("duplicate alias: %q", p.Alias),
				Code:    ErrDuplicateName,
			})
		}
		aliases[p.Alias] = true

		errs = append(errs, validateProjection(q, p, reg)...)
	}

	return errs
}

// ResolveArgTypes maps a projection's argument names to the attribute kinds
// of its source stream.
func ResolveArgTypes(q *ir.Query, p ir.Projection) ([]ir.AttrType, []ValidationError) {
	stream, ok := q.Stream(p.From)
	if !ok {
		return nil, []ValidationError{{
			Field:   fmt.Sprintf("select.%s.from", p.Alias),
			Message: fmt.Sprintf("undefined stream %q", p.From),
			Code:    ErrUnknownStream,
		}}
	}

	var errs []ValidationError
	types := make([]ir.AttrType, 0, len(p.Args))
	for i, name := range p.Args {
		attr, ok := stream.Attribute(name)
		if !ok {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("select.%s.args[%d]", p.Alias, i),
				Message: fmt.Sprintf("stream %q has no attribute %q", p.From, name),
				Code:    ErrUnknownAttribute,
			})
			continue
		}
		types = append(types, attr.Type)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return types, nil
}

func validateProjection(q *ir.Query, p ir.Projection, reg *extension.Registry) []ValidationError {
	types, errs := ResolveArgTypes(q, p)
	if len(errs) > 0 {
		return errs
	}

	if _, err := reg.Bind(p.Function, types); err != nil {
		return []ValidationError{bindError(p, err)}
	}
	return nil
}

// bindError maps a function's rejection to a coded validation error.
func bindError(p ir.Projection, err error) ValidationError {
	field := fmt.Sprintf("select.%s.call", p.Alias)

	var ce *extension.ConfigurationError
	if !errors.As(err, &ce) {
		return ValidationError{Field: field, Message: err.Error(), Code: ErrFunctionValidation}
	}

	switch ce.Code {
	case extension.ErrCodeUnknownFunction:
		return ValidationError{Field: field, Message: ce.Message, Code: ErrUnknownFunction}
	case extension.ErrCodeInvalidArgumentCount:
		return ValidationError{Field: field, Message: ce.Message, Code: ErrInvalidArgCount}
	case extension.ErrCodeInvalidArgumentType:
		return ValidationError{
			Field:   fmt.Sprintf("select.%s.args[%d]", p.Alias, ce.Position-1),
			Message: ce.Message,
			Code:    ErrInvalidArgType,
		}
	default:
		return ValidationError{Field: field, Message: ce.Message, Code: ErrFunctionValidation}
	}
}
