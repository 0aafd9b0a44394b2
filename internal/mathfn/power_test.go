package mathfn

import (
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cepmath/internal/extension"
	"github.com/roach88/cepmath/internal/ir"
)

func TestPowerValidateAcceptsAllNumericPairs(t *testing.T) {
	for _, a := range ir.NumericTypes {
		for _, b := range ir.NumericTypes {
			t.Run(fmt.Sprintf("%s_%s", a, b), func(t *testing.T) {
				assert.NoError(t, Power{}.Validate([]ir.AttrType{a, b}))
			})
		}
	}
}

func TestPowerValidateArity(t *testing.T) {
	for _, n := range []int{0, 1, 3, 4} {
		t.Run(fmt.Sprintf("%d_args", n), func(t *testing.T) {
			types := make([]ir.AttrType, n)
			for i := range types {
				types[i] = ir.TypeInt
			}

			err := Power{}.Validate(types)
			require.Error(t, err)

			var ce *extension.ConfigurationError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, extension.ErrCodeInvalidArgumentCount, ce.Code)
			assert.Equal(t, "2", ce.Expected)
			assert.Equal(t, fmt.Sprintf("%d", n), ce.Actual)
			assert.Zero(t, ce.Position)
		})
	}
}

func TestPowerValidateArityMessage(t *testing.T) {
	err := Power{}.Validate([]ir.AttrType{ir.TypeInt, ir.TypeInt, ir.TypeInt})
	require.Error(t, err)
	assert.Contains(t, err.Error(),
		"Invalid no of arguments passed to math:power() function, required 2, but found 3")
}

func TestPowerValidateRejectsNonNumeric(t *testing.T) {
	bad := []ir.AttrType{ir.TypeString, ir.TypeBool, ir.TypeObject}

	for _, typ := range bad {
		t.Run("first_"+typ.String(), func(t *testing.T) {
			err := Power{}.Validate([]ir.AttrType{typ, ir.TypeDouble})

			var ce *extension.ConfigurationError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, extension.ErrCodeInvalidArgumentType, ce.Code)
			assert.Equal(t, 1, ce.Position)
			assert.Equal(t, typ.String(), ce.Actual)
			assert.Contains(t, ce.Message, "first argument")
		})

		t.Run("second_"+typ.String(), func(t *testing.T) {
			err := Power{}.Validate([]ir.AttrType{ir.TypeLong, typ})

			var ce *extension.ConfigurationError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, 2, ce.Position)
			assert.Contains(t, ce.Message, "second argument")
			assert.Contains(t, ce.Message, "required INT or LONG or FLOAT or DOUBLE, but found "+typ.String())
		})
	}
}

func TestPowerValidateReportsFirstOffender(t *testing.T) {
	err := Power{}.Validate([]ir.AttrType{ir.TypeString, ir.TypeBool})

	var ce *extension.ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 1, ce.Position)
}

func TestPowerEvaluateScenarios(t *testing.T) {
	tests := []struct {
		name     string
		base     ir.Arg
		exponent ir.Arg
		want     string
	}{
		{"fractional base", ir.Present(ir.Double(5.6)), ir.Present(ir.Double(3.0)), "175.61599999999996"},
		{"int operands", ir.Present(ir.Int(2)), ir.Present(ir.Int(10)), "1024.0"},
		{"zero to zero", ir.Present(ir.Double(0)), ir.Present(ir.Double(0)), "1.0"},
		{"negative base fractional exponent", ir.Present(ir.Double(-2)), ir.Present(ir.Double(0.5)), "NaN"},
		{"overflow", ir.Present(ir.Double(10)), ir.Present(ir.Long(400)), "Infinity"},
		{"negative overflow", ir.Present(ir.Double(-10)), ir.Present(ir.Long(401)), "-Infinity"},
		{"negative exponent", ir.Present(ir.Long(2)), ir.Present(ir.Int(-2)), "0.25"},
		{"float operands", ir.Present(ir.Float(0.5)), ir.Present(ir.Float(2)), "0.25"},
		{"million", ir.Present(ir.Int(10)), ir.Present(ir.Int(6)), "1000000.0"},
		{"ten million", ir.Present(ir.Int(10)), ir.Present(ir.Int(7)), "1.0E7"},
		{"two to the twenty-four", ir.Present(ir.Long(2)), ir.Present(ir.Int(24)), "1.6777216E7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Power{}.Evaluate(tt.base, tt.exponent)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ir.FormatDouble(got))
		})
	}
}

func TestPowerEvaluateExactValue(t *testing.T) {
	got, err := Power{}.Evaluate(ir.Present(ir.Double(5.6)), ir.Present(ir.Double(3.0)))
	require.NoError(t, err)
	assert.Equal(t, 175.61599999999996, got)

	got, err = Power{}.Evaluate(ir.Present(ir.Double(-2)), ir.Present(ir.Double(0.5)))
	require.NoError(t, err)
	assert.True(t, math.IsNaN(got))
}

func TestPowerEvaluateMatchesWidenedPow(t *testing.T) {
	values := []ir.Number{
		ir.Int(3), ir.Int(-4),
		ir.Long(7), ir.Long(1<<40 + 3),
		ir.Float(0.1), ir.Float(-1.5),
		ir.Double(2.5), ir.Double(-0.75),
	}

	for _, a := range values {
		for _, b := range values {
			got, err := Power{}.Evaluate(ir.Present(a), ir.Present(b))
			require.NoError(t, err)

			want := math.Pow(a.Widen(), b.Widen())
			if math.IsNaN(want) {
				assert.True(t, math.IsNaN(got), "%v^%v", a, b)
				continue
			}
			assert.Equal(t, want, got, "%v^%v", a, b)
		}
	}
}

func TestPowerEvaluateFloatWidening(t *testing.T) {
	// FLOAT is widened without rounding back to the decimal literal
	got, err := Power{}.Evaluate(ir.Present(ir.Float(0.1)), ir.Present(ir.Int(1)))
	require.NoError(t, err)
	assert.Equal(t, float64(float32(0.1)), got)
	assert.NotEqual(t, 0.1, got)
}

func TestPowerEvaluateAbsentBase(t *testing.T) {
	for _, exp := range []ir.Arg{ir.Present(ir.Double(4.0)), ir.Present(ir.Int(0)), ir.Absent()} {
		_, err := Power{}.Evaluate(ir.Absent(), exp)
		require.Error(t, err)

		var re *extension.RuntimeError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, extension.ErrCodeNullInput, re.Code)
		assert.Equal(t, ParamValue, re.Argument)
		assert.Equal(t, "Input to the math:power() function cannot be null", re.Message)
	}
}

func TestPowerEvaluateAbsentExponent(t *testing.T) {
	_, err := Power{}.Evaluate(ir.Present(ir.Long(2)), ir.Absent())
	require.Error(t, err)

	var re *extension.RuntimeError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, extension.ErrCodeNullInput, re.Code)
	assert.Equal(t, ParamToPower, re.Argument)
	assert.True(t, extension.IsRuntimeError(err))
	assert.False(t, extension.IsConfigurationError(err))
}

func TestPowerCall(t *testing.T) {
	got, err := Power{}.Call([]ir.Arg{ir.Present(ir.Int(2)), ir.Present(ir.Int(10))})
	require.NoError(t, err)
	assert.Equal(t, ir.Double(1024), got)
	assert.Equal(t, ir.TypeDouble, got.Type())

	_, err = Power{}.Call([]ir.Arg{ir.Present(ir.Int(2))})
	var re *extension.RuntimeError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, extension.ErrCodeArityMismatch, re.Code)

	_, err = Power{}.Call([]ir.Arg{ir.Absent(), ir.Present(ir.Double(4))})
	assert.Equal(t, string(extension.ErrCodeNullInput), extension.ErrorCode(err))
}

func TestPowerDeclaration(t *testing.T) {
	decl := Power{}.Declaration()

	assert.Equal(t, "math", decl.Namespace)
	assert.Equal(t, "power", decl.Name)
	require.Len(t, decl.Parameters, 2)
	assert.Equal(t, ParamValue, decl.Parameters[0].Name)
	assert.Equal(t, ParamToPower, decl.Parameters[1].Name)
	for _, p := range decl.Parameters {
		assert.Equal(t, ir.NumericTypes, p.Types)
	}
	assert.Equal(t, []ir.AttrType{ir.TypeDouble}, decl.Return.Types)
	assert.Equal(t, ir.TypeDouble, Power{}.ReturnType())
	require.Len(t, decl.Examples, 1)
	assert.Contains(t, decl.Examples[0].Description, "175.61599999999996")
}

func TestPowerConcurrentEvaluation(t *testing.T) {
	p := Power{}
	require.NoError(t, p.Validate([]ir.AttrType{ir.TypeInt, ir.TypeInt}))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(base int32) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				got, err := p.Evaluate(ir.Present(ir.Int(base)), ir.Present(ir.Int(2)))
				assert.NoError(t, err)
				assert.Equal(t, float64(base*base), got)
			}
		}(int32(i))
	}
	wg.Wait()
}

func TestRegister(t *testing.T) {
	reg := extension.NewRegistry(nil)
	require.NoError(t, Register(reg))

	fn, ok := reg.Lookup(ir.FunctionRef{Namespace: "math", Name: "power"})
	require.True(t, ok)
	assert.Equal(t, "power", fn.Declaration().Name)

	// second registration collides
	assert.Error(t, Register(reg))
}
