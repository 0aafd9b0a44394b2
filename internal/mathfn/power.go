package mathfn

import (
	"fmt"
	"math"

	"github.com/roach88/cepmath/internal/extension"
	"github.com/roach88/cepmath/internal/ir"
)

const (
	powerName     = "power"
	powerFunction = Namespace + ":" + powerName
	powerRef      = powerFunction + "()"

	// Parameter names as they appear in the declaration and in errors.
	ParamValue   = "value"
	ParamToPower = "to.power"
)

// Power raises a value to a given power and returns a DOUBLE.
//
//	math:power(value, to.power)
//
// Both arguments accept INT, LONG, FLOAT, or DOUBLE. Edge cases follow
// math.Pow: 0^0 is 1, a negative base with a fractional exponent is NaN,
// overflow is ±Inf. None of these are errors.
type Power struct{}

var _ extension.Function = Power{}

// Declaration returns the static metadata of math:power.
func (Power) Declaration() ir.FunctionDecl {
	return ir.FunctionDecl{
		Namespace:   Namespace,
		Name:        powerName,
		Description: "This function raises the given value to a given power.",
		Parameters: []ir.ParamDecl{
			{
				Name:        ParamValue,
				Description: "The value that should be raised to the power of 'to.power' input parameter.",
				Types:       ir.NumericTypes,
			},
			{
				Name:        ParamToPower,
				Description: "The power to which the 'value' input parameter should be raised.",
				Types:       ir.NumericTypes,
			},
		},
		Return: ir.ReturnDecl{
			Description: "This returns the 'value' input parameter raised to the power of 'to.power' input parameter.",
			Types:       []ir.AttrType{ir.TypeDouble},
		},
		Examples: []ir.ExampleDecl{{
			Syntax: "define stream InValueStream (inValue1 double, inValue2 double);\n" +
				"from InValueStream\n" +
				"select math:power(inValue1,inValue2) as powerValue\n" +
				"insert into OutMediationStream;",
			Description: "This function raises the 'inValue1' to the power of 'inValue2' and directs " +
				"the output to the output stream, 'OutMediationStream'. For example, (5.6d, 3.0d) " +
				"returns 175.61599999999996.",
		}},
	}
}

// ReturnType is always DOUBLE, whatever the argument kinds.
func (Power) ReturnType() ir.AttrType {
	return ir.TypeDouble
}

// Validate requires exactly two numeric argument kinds.
func (Power) Validate(argTypes []ir.AttrType) error {
	if len(argTypes) != 2 {
		return &extension.ConfigurationError{
			Function: powerFunction,
			Code:     extension.ErrCodeInvalidArgumentCount,
			Expected: "2",
			Actual:   fmt.Sprintf("%d", len(argTypes)),
			Message: fmt.Sprintf("Invalid no of arguments passed to %s function, required 2, but found %d",
				powerRef, len(argTypes)),
		}
	}

	for i, t := range argTypes {
		if t.IsNumeric() {
			continue
		}
		pos := i + 1
		return &extension.ConfigurationError{
			Function: powerFunction,
			Code:     extension.ErrCodeInvalidArgumentType,
			Position: pos,
			Expected: numericKinds,
			Actual:   t.String(),
			Message: fmt.Sprintf("Invalid parameter type found for the %s argument of %s function, required %s, but found %s",
				extension.PositionName(pos), powerRef, numericKinds, t),
		}
	}

	return nil
}

// numericKinds is the "required ..." text of type errors.
var numericKinds = fmt.Sprintf("%s or %s or %s or %s", ir.TypeInt, ir.TypeLong, ir.TypeFloat, ir.TypeDouble)

// Evaluate widens both arguments to float64 and returns base^exponent.
// An absent argument is a *extension.RuntimeError naming the parameter; no
// default is substituted.
func (Power) Evaluate(base, exponent ir.Arg) (float64, error) {
	b, ok := base.Value()
	if !ok {
		return 0, nullInput(ParamValue)
	}
	e, ok := exponent.Value()
	if !ok {
		return 0, nullInput(ParamToPower)
	}
	return Pow(b, e), nil
}

// Call adapts Evaluate to the host's positional calling convention.
func (p Power) Call(args []ir.Arg) (ir.Number, error) {
	if len(args) != 2 {
		return nil, &extension.RuntimeError{
			Function: powerFunction,
			Code:     extension.ErrCodeArityMismatch,
			Message:  fmt.Sprintf("%s expects 2 values, got %d", powerRef, len(args)),
		}
	}
	v, err := p.Evaluate(args[0], args[1])
	if err != nil {
		return nil, err
	}
	return ir.Double(v), nil
}

// Pow computes base^exponent over the widened values.
func Pow(base, exponent ir.Number) float64 {
	return math.Pow(base.Widen(), exponent.Widen())
}

func nullInput(param string) *extension.RuntimeError {
	return &extension.RuntimeError{
		Function: powerFunction,
		Code:     extension.ErrCodeNullInput,
		Argument: param,
		Message:  fmt.Sprintf("Input to the %s function cannot be null", powerRef),
	}
}
