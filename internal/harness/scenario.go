package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/callir/internal/normalize"
)

// Scenario is a named set of normalization cases loaded from YAML.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// MaxDepth bounds nesting for every case (0 = unbounded).
	MaxDepth int `yaml:"max_depth,omitempty"`

	// RequireCallRoot rejects cases whose root is not a call expression.
	RequireCallRoot bool `yaml:"require_call_root,omitempty"`

	// Cases are run in order.
	Cases []Case `yaml:"cases"`
}

// Case is one AST document with its expected outcome.
type Case struct {
	Name string `yaml:"name"`

	// AST is an ESTree/Babel-shaped node, kept raw so decode errors carry
	// scenario line numbers.
	AST yaml.Node `yaml:"ast"`

	Expect Expect `yaml:"expect"`
}

// Expect lists what a case must produce. Unset fields are not checked.
type Expect struct {
	// Error is the expected normalize error code. Empty means success.
	Error string `yaml:"error,omitempty"`

	// Position is the expected argument position for argument errors.
	Position *int `yaml:"position,omitempty"`

	// Location is the expected error location, e.g. "$.arguments[0]".
	Location string `yaml:"location,omitempty"`

	// Func is the expected callee, dot-joined for paths.
	Func string `yaml:"func,omitempty"`

	// Args is the expected argument count of the root call.
	Args *int `yaml:"args,omitempty"`

	// IR is the expected tagged IR tree.
	IR yaml.Node `yaml:"ir,omitempty"`

	// Eval evaluates the IR against the builtin registry.
	Eval *EvalExpect `yaml:"eval,omitempty"`
}

// EvalExpect describes the expected evaluation of a case's IR.
type EvalExpect struct {
	// Result is compared by canonical JSON, so 6 and 6.0 are equal.
	Result any `yaml:"result,omitempty"`

	// Calls lists callee names in invocation order.
	Calls []string `yaml:"calls,omitempty"`

	// Error is a substring expected in the evaluation error.
	Error string `yaml:"error,omitempty"`
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

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
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
	if s.MaxDepth < 0 {
		return fmt.Errorf("max_depth must be >= 0")
	}
	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	seen := make(map[string]bool, len(s.Cases))
	for i, c := range s.Cases {
		if c.Name == "" {
			return fmt.Errorf("cases[%d]: name is required", i)
		}
		if seen[c.Name] {
			return fmt.Errorf("cases[%d]: duplicate case name %q", i, c.Name)
		}
		seen[c.Name] = true

		if c.AST.Kind == 0 {
			return fmt.Errorf("cases[%d] (%s): ast is required", i, c.Name)
		}
		if err := validateExpect(c.Expect); err != nil {
			return fmt.Errorf("cases[%d] (%s).expect: %w", i, c.Name, err)
		}
	}
	return nil
}

func validateExpect(e Expect) error {
	if e.Error != "" {
		if !isKnownCode(normalize.Code(e.Error)) {
			return fmt.Errorf("unknown error code %q", e.Error)
		}
		if e.Func != "" || e.Args != nil || e.IR.Kind != 0 || e.Eval != nil {
			return fmt.Errorf("error cases cannot also expect func, args, ir or eval")
		}
		return nil
	}
	if e.Position != nil || e.Location != "" {
		return fmt.Errorf("position and location need an error")
	}
	return nil
}

func isKnownCode(c normalize.Code) bool {
	switch c {
	case normalize.ErrUnsupportedNodeKind,
		normalize.ErrUnsupportedCalleeKind,
		normalize.ErrUnsupportedArgumentKind,
		normalize.ErrUnsupportedPathSegment,
		normalize.ErrMissingDispatcherWiring,
		normalize.ErrDepthExceeded,
		normalize.ErrUnsupportedRootKind:
		return true
	}
	return false
}
