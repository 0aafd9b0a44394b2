package ir

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Number is a sealed interface over the four numeric attribute kinds.
// Only Int, Long, Float, and Double implement it, and each one supplies its
// own widening so there is no fallthrough case to forget.
type Number interface {
	number() // Sealed

	// Widen converts the value to float64 using Go's standard conversion.
	Widen() float64

	// Type returns the attribute kind the value carries.
	Type() AttrType
}

// Int is a 32-bit signed integer argument.
type Int int32

func (Int) number() {}
func (n Int) Widen() float64 { return float64(n) }
func (Int) Type() AttrType { return TypeInt }

// Long is a 64-bit signed integer argument.
// Values beyond 2^53 lose precision when widened.
type Long int64

func (Long) number() {}
func (n Long) Widen() float64 { return float64(n) }
func (Long) Type() AttrType { return TypeLong }

// Float is a single-precision argument.
type Float float32

func (Float) number() {}
func (n Float) Widen() float64 { return float64(n) }
func (Float) Type() AttrType { return TypeFloat }

// Double is a double-precision argument.
type Double float64

func (Double) number() {}
func (n Double) Widen() float64 { return float64(n) }
func (Double) Type() AttrType { return TypeDouble }

// Arg is a function argument that is either absent or carries exactly one
// Number. The zero Arg is absent.
type Arg struct {
	num Number
}

// Absent returns an argument with no value.
func Absent() Arg {
	return Arg{}
}

// Present wraps n. A nil n yields an absent argument.
func Present(n Number) Arg {
	return Arg{num: n}
}

// Value returns the carried number and whether one is present.
func (a Arg) Value() (Number, bool) {
	return a.num, a.num != nil
}

// IsAbsent reports whether the argument has no value.
func (a Arg) IsAbsent() bool {
	return a.num == nil
}

func (a Arg) String() string {
	if a.num == nil {
		return "null"
	}
	switch n := a.num.(type) {
	case Int:
		return fmt.Sprintf("int:%d", int32(n))
	case Long:
		return fmt.Sprintf("long:%d", int64(n))
	case Float:
		return "float:" + strconv.FormatFloat(float64(n), 'g', -1, 32)
	case Double:
		return "double:" + strconv.FormatFloat(float64(n), 'g', -1, 64)
	}
	return fmt.Sprintf("%T", a.num)
}

// newNumber builds a Number of kind t from i when isInt is set, else from f.
func newNumber(t AttrType, i int64, f float64, isInt bool) (Number, error) {
	switch t {
	case TypeInt:
		if !isInt {
			return nil, fmt.Errorf("INT value must be an integer, got %v", f)
		}
		if i < math.MinInt32 || i > math.MaxInt32 {
			return nil, fmt.Errorf("value %d out of INT range", i)
		}
		return Int(int32(i)), nil
	case TypeLong:
		if !isInt {
			return nil, fmt.Errorf("LONG value must be an integer, got %v", f)
		}
		return Long(i), nil
	case TypeFloat:
		if isInt {
			return Float(float32(i)), nil
		}
		return Float(float32(f)), nil
	case TypeDouble:
		if isInt {
			return Double(float64(i)), nil
		}
		return Double(f), nil
	default:
		return nil, fmt.Errorf("type %s is not numeric", t)
	}
}

// ArgFromAny converts a decoded JSON or YAML scalar into an Arg of kind t.
// nil becomes an absent argument. Strings are parsed as numerals.
func ArgFromAny(v any, t AttrType) (Arg, error) {
	if !t.IsNumeric() {
		return Arg{}, fmt.Errorf("type %s is not numeric", t)
	}

	var (
		n   Number
		err error
	)
	switch val := v.(type) {
	case nil:
		return Absent(), nil
	case int:
		n, err = newNumber(t, int64(val), 0, true)
	case int32:
		n, err = newNumber(t, int64(val), 0, true)
	case int64:
		n, err = newNumber(t, val, 0, true)
	case uint64:
		if val > math.MaxInt64 {
			return Arg{}, fmt.Errorf("value %d out of range", val)
		}
		n, err = newNumber(t, int64(val), 0, true)
	case float32:
		n, err = fromFloat(t, float64(val))
	case float64:
		n, err = fromFloat(t, val)
	case json.Number:
		return parseNumeral(string(val), t)
	case string:
		return parseNumeral(val, t)
	default:
		return Arg{}, fmt.Errorf("unsupported value %v (%T) for %s", v, v, t)
	}
	if err != nil {
		return Arg{}, err
	}
	return Present(n), nil
}

// fromFloat accepts whole floats for integer kinds, since YAML and JSON
// decoders may hand back 3.0 for an integer literal.
func fromFloat(t AttrType, f float64) (Number, error) {
	if t == TypeInt || t == TypeLong {
		if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, fmt.Errorf("%s value must be an integer, got %v", t, f)
		}
		if f < math.MinInt64 || f >= math.MaxInt64 {
			return nil, fmt.Errorf("value %v out of %s range", f, t)
		}
		return newNumber(t, int64(f), 0, true)
	}
	return newNumber(t, 0, f, false)
}

func parseNumeral(s string, t AttrType) (Arg, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "null") {
		return Absent(), nil
	}
	switch t {
	case TypeInt, TypeLong:
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			n, err := newNumber(t, i, 0, true)
			if err != nil {
				return Arg{}, err
			}
			return Present(n), nil
		}
		// whole numerals such as "2.0", matching what ArgFromAny accepts
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Arg{}, fmt.Errorf("invalid %s value %q", t, s)
		}
		n, err := fromFloat(t, f)
		if err != nil {
			return Arg{}, err
		}
		return Present(n), nil
	case TypeFloat:
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return Arg{}, fmt.Errorf("invalid FLOAT value %q: %w", s, err)
		}
		return Present(Float(float32(f))), nil
	default:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Arg{}, fmt.Errorf("invalid DOUBLE value %q: %w", s, err)
		}
		return Present(Double(f)), nil
	}
}

// ParseArg parses the command-line form "kind:value", e.g. "double:5.6",
// "int:2" or "long:null". The kind is returned even when the value is
// absent, since the host validates kinds before any value is seen.
func ParseArg(s string) (AttrType, Arg, error) {
	kind, value, ok := strings.Cut(s, ":")
	if !ok {
		return "", Arg{}, fmt.Errorf("invalid argument %q, expected format \"kind:value\"", s)
	}
	t, err := ParseAttrType(kind)
	if err != nil {
		return "", Arg{}, err
	}
	if !t.IsNumeric() {
		return "", Arg{}, fmt.Errorf("invalid argument %q: type %s is not numeric", s, t)
	}
	arg, err := parseNumeral(value, t)
	if err != nil {
		return "", Arg{}, err
	}
	return t, arg, nil
}
