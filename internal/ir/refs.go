package ir

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// FunctionRef is a typed reference to an extension function.
// Format: "namespace:name", e.g. "math:power".
type FunctionRef struct {
	Namespace string `json:"namespace" yaml:"namespace"`
	Name      string `json:"name" yaml:"name"`
}

func (r FunctionRef) String() string {
	return r.Namespace + ":" + r.Name
}

// MarshalText implements encoding.TextMarshaler.
func (r FunctionRef) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *FunctionRef) UnmarshalText(text []byte) error {
	ref, err := ParseFunctionRef(string(text))
	if err != nil {
		return err
	}
	*r = ref
	return nil
}

// ParseFunctionRef parses "namespace:name".
// Both parts are trimmed and NFC normalized so that composed and decomposed
// spellings of the same name resolve to one function.
func ParseFunctionRef(s string) (FunctionRef, error) {
	s = norm.NFC.String(strings.TrimSpace(s))
	ns, name, ok := strings.Cut(s, ":")
	if !ok {
		return FunctionRef{}, fmt.Errorf("invalid function reference %q, expected format \"namespace:name\"", s)
	}
	ns = strings.TrimSpace(ns)
	name = strings.TrimSpace(name)
	if ns == "" || name == "" || strings.Contains(name, ":") {
		return FunctionRef{}, fmt.Errorf("invalid function reference %q, expected format \"namespace:name\"", s)
	}
	return FunctionRef{Namespace: ns, Name: name}, nil
}
