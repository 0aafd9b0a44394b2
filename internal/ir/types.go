package ir

import (
	"fmt"
	"strings"
)

// AttrType is an attribute kind as declared by the host engine.
type AttrType string

const (
	TypeInt    AttrType = "INT"
	TypeLong   AttrType = "LONG"
	TypeFloat  AttrType = "FLOAT"
	TypeDouble AttrType = "DOUBLE"
	TypeString AttrType = "STRING"
	TypeBool   AttrType = "BOOL"
	TypeObject AttrType = "OBJECT"
)

// NumericTypes lists the numeric kinds in widening order.
var NumericTypes = []AttrType{TypeInt, TypeLong, TypeFloat, TypeDouble}

// AllTypes lists every attribute kind the host knows about.
var AllTypes = []AttrType{TypeInt, TypeLong, TypeFloat, TypeDouble, TypeString, TypeBool, TypeObject}

// IsNumeric reports whether t is one of INT, LONG, FLOAT, DOUBLE.
func (t AttrType) IsNumeric() bool {
	switch t {
	case TypeInt, TypeLong, TypeFloat, TypeDouble:
		return true
	}
	return false
}

// Valid reports whether t is a known attribute kind.
func (t AttrType) Valid() bool {
	switch t {
	case TypeInt, TypeLong, TypeFloat, TypeDouble, TypeString, TypeBool, TypeObject:
		return true
	}
	return false
}

func (t AttrType) String() string {
	return string(t)
}

// ParseAttrType parses a kind name case-insensitively ("double", "LONG").
func ParseAttrType(s string) (AttrType, error) {
	t := AttrType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown attribute type %q", s)
	}
	return t, nil
}

// FunctionDecl is the static metadata the host reads for query compilation
// and documentation generation.
type FunctionDecl struct {
	Namespace   string        `json:"namespace" yaml:"namespace"`
	Name        string        `json:"name" yaml:"name"`
	Description string        `json:"description" yaml:"description"`
	Parameters  []ParamDecl   `json:"parameters" yaml:"parameters"`
	Return      ReturnDecl    `json:"return" yaml:"return"`
	Examples    []ExampleDecl `json:"examples,omitempty" yaml:"examples,omitempty"`
}

// Ref returns the namespace:name reference of the declaration.
func (d FunctionDecl) Ref() FunctionRef {
	return FunctionRef{Namespace: d.Namespace, Name: d.Name}
}

// ParamDecl describes one positional parameter.
type ParamDecl struct {
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description" yaml:"description"`
	Types       []AttrType `json:"types" yaml:"types"`
}

// Accepts reports whether the parameter allows kind t.
func (p ParamDecl) Accepts(t AttrType) bool {
	for _, allowed := range p.Types {
		if allowed == t {
			return true
		}
	}
	return false
}

// ReturnDecl describes the returned attribute.
type ReturnDecl struct {
	Description string     `json:"description" yaml:"description"`
	Types       []AttrType `json:"types" yaml:"types"`
}

// ExampleDecl is a usage example shipped with the declaration.
type ExampleDecl struct {
	Syntax      string `json:"syntax" yaml:"syntax"`
	Description string `json:"description" yaml:"description"`
}

// StreamDef is a stream schema from a query binding.
// Attributes keep their declared order.
type StreamDef struct {
	Name       string      `json:"name"`
	Attributes []Attribute `json:"attributes"`
}

// Attribute returns the named attribute, if declared.
func (s StreamDef) Attribute(name string) (Attribute, bool) {
	for _, a := range s.Attributes {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// Attribute is a named, typed stream attribute.
type Attribute struct {
	Name string   `json:"name"`
	Type AttrType `json:"type"`
}

// Projection is one "select fn(args) as alias" entry of a query binding.
type Projection struct {
	Alias    string      `json:"alias"`
	From     string      `json:"from"`
	Function FunctionRef `json:"function"`
	Args     []string    `json:"args"` // attribute names on From
}

// Query is the compiled form of a query-binding file set.
type Query struct {
	Streams     []StreamDef  `json:"streams"`
	Projections []Projection `json:"projections"`
}

// Stream returns the named stream definition, if present.
func (q *Query) Stream(name string) (StreamDef, bool) {
	for _, s := range q.Streams {
		if s.Name == name {
			return s, true
		}
	}
	return StreamDef{}, false
}
