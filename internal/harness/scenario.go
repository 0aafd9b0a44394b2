package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/cepmath/internal/ir"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Function is the namespace:name of the function under test.
	Function string `yaml:"function"`

	// Types are the declared argument kinds the function is bound with.
	Types []string `yaml:"types"`

	// BindError is the expected configuration error code, if binding
	// should fail. Scenarios with BindError have no cases.
	BindError string `yaml:"bind_error,omitempty"`

	// Cases are evaluated against the single binding.
	Cases []Case `yaml:"cases,omitempty"`
}

// Case is one evaluation with its expected outcome.
type Case struct {
	// Name identifies the case within the scenario.
	Name string `yaml:"name"`

	// Args are positional values; null means an absent argument.
	// Values are converted to the scenario's declared kinds.
	Args []any `yaml:"args"`

	// Expect is the expected outcome.
	Expect Expect `yaml:"expect"`
}

// Expect holds exactly one of Result or Error.
type Expect struct {
	// Result is the printed DOUBLE, e.g. "1024.0" or "NaN".
	Result string `yaml:"result,omitempty"`

	// Error is the expected runtime error code, e.g. "NULL_INPUT".
	Error string `yaml:"error,omitempty"`
}

// Ref parses the scenario's function reference.
func (s *Scenario) Ref() (ir.FunctionRef, error) {
	return ir.ParseFunctionRef(s.Function)
}

// ArgTypes parses the scenario's declared kinds.
func (s *Scenario) ArgTypes() ([]ir.AttrType, error) {
	types := make([]ir.AttrType, len(s.Types))
	for i, name := range s.Types {
		t, err := ir.ParseAttrType(name)
		if err != nil {
			return nil, fmt.Errorf("types[%d]: %w", i, err)
		}
		types[i] = t
	}
	return types, nil
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field checking.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if _, err := s.Ref(); err != nil {
		return fmt.Errorf("function: %w", err)
	}

	if _, err := s.ArgTypes(); err != nil {
		return err
	}

	if s.BindError != "" {
		if len(s.Cases) > 0 {
			return fmt.Errorf("cases must be empty when bind_error is set")
		}
		return nil
	}

	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	seen := make(map[string]bool)
	for i, c := range s.Cases {
		if c.Name == "" {
			return fmt.Errorf("cases[%d]: name is required", i)
		}
		if seen[c.Name] {
			return fmt.Errorf("cases[%d]: duplicate case name %q", i, c.Name)
		}
		seen[c.Name] = true

		hasResult := c.Expect.Result != ""
		hasError := c.Expect.Error != ""
		if hasResult == hasError {
			return fmt.Errorf("cases[%d].expect: exactly one of result or error is required", i)
		}
	}

	return nil
}
