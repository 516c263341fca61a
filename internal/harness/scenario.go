package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/pancake/internal/ir"
	"github.com/roach88/pancake/internal/kernel"
)

// Scenario is a conformance test: a list of kernel runs and assertions over
// their results.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario checks.
	Description string `yaml:"description"`

	// Token seeds run identity. Defaults to "test-run".
	Token string `yaml:"token,omitempty"`

	// Runs are executed in order.
	Runs []RunStep `yaml:"runs"`

	// Assertions are evaluated after every run has executed.
	Assertions []Assertion `yaml:"assertions"`
}

// RunStep is one kernel invocation.
type RunStep struct {
	N       int        `yaml:"n"`
	Blocks  int        `yaml:"blocks,omitempty"`
	Workers int        `yaml:"workers,omitempty"`
	Expect  *ir.Expect `yaml:"expect,omitempty"`
}

// Request returns the run request for the step.
func (s RunStep) Request() ir.RunRequest {
	return ir.RunRequest{N: s.N, Blocks: s.Blocks, Workers: s.Workers}
}

// LoadScenario reads and validates a scenario file.
// Unknown YAML fields are rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates scenario YAML.
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

// LoadScenarios loads every *.yaml and *.yml file in dir, sorted by path.
func LoadScenarios(dir string) ([]*Scenario, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		paths = append(paths, matches...)
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Runs) == 0 {
		return fmt.Errorf("runs list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, r := range s.Runs {
		if err := kernel.CheckN(r.N); err != nil {
			return fmt.Errorf("runs[%d]: %w", i, err)
		}
		if r.Blocks < 0 || r.Blocks > kernel.MaxBlocks {
			return fmt.Errorf("runs[%d]: blocks must be in [0, %d]", i, kernel.MaxBlocks)
		}
		if r.Workers < 0 {
			return fmt.Errorf("runs[%d]: workers must be non-negative", i)
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i], len(s.Runs)); err != nil {
			return err
		}
	}
	return nil
}

func validateAssertion(index int, a *Assertion, runs int) error {
	needsRun := func() error {
		if a.Run < 0 || a.Run >= runs {
			return fmt.Errorf("assertions[%d]: run %d out of range (scenario has %d runs)", index, a.Run, runs)
		}
		return nil
	}

	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertResult:
		if a.MaxFlips < 0 {
			return fmt.Errorf("assertions[%d]: max_flips must be non-negative for result", index)
		}
		return needsRun()
	case AssertBlockCount:
		if a.Count < 1 {
			return fmt.Errorf("assertions[%d]: count must be positive for block_count", index)
		}
		return needsRun()
	case AssertMaxFlipsAtLeast:
		return needsRun()
	case AssertInvariant, AssertDeterministic:
		return nil
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
}
