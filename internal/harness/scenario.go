package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Scenario defines one end-to-end run over a fixture folder.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Files are created, empty apart from their name, before the first step.
	// Paths may include a folder, e.g. "superceded/old_A.pdf".
	Files []string `yaml:"files"`

	// Documents are matrix documents written before the first step, keyed
	// by file name. The extension picks the format.
	Documents map[string][][]string `yaml:"documents,omitempty"`

	// Steps run in order. A step that fails unexpectedly stops the scenario.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final folder, documents and step results.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is a single clean or sync action.
type Step struct {
	// Action is "clean" or "sync".
	Action string `yaml:"action"`

	// AddFiles are created just before this step runs.
	AddFiles []string `yaml:"add_files,omitempty"`

	// Patterns are custom filename patterns. Clean steps append them to the
	// built-in grouping patterns; sync steps use them instead of the
	// built-in matrix patterns.
	Patterns    []string `yaml:"patterns,omitempty"`
	CustomFirst bool     `yaml:"custom_first,omitempty"`

	// Extensions restrict the files considered. Empty means the workflow
	// default.
	Extensions []string `yaml:"extensions,omitempty"`

	// Clean parameters.
	HoldingFolder string   `yaml:"holding_folder,omitempty"`
	Prefix        string   `yaml:"prefix,omitempty"`
	Only          []string `yaml:"only,omitempty"`

	// Sync parameters.
	Date     string `yaml:"date,omitempty"`
	Issue    string `yaml:"issue,omitempty"`
	Formats  string `yaml:"formats,omitempty"`
	Document string `yaml:"document,omitempty"`
	Create   bool   `yaml:"create,omitempty"`

	// ExpectError names the error kind the step must fail with:
	// no_recognized_files, header_not_found, no_document or holding_folder.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// Action names.
const (
	ActionClean = "clean"
	ActionSync  = "sync"
)

// Assertion validates the outcome of a scenario.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Files are file names (moved, kept, unrecognized) or relative paths
	// (present, absent).
	Files []string `yaml:"files,omitempty"`

	// Document is the matrix file inspected by columns, meta and revision.
	// Defaults to the default template name.
	Document string `yaml:"document,omitempty"`

	// Labels are the expected issue column labels (columns).
	Labels []string `yaml:"labels,omitempty"`

	// Column is the issue label to inspect (meta, revision).
	Column string `yaml:"column,omitempty"`

	// Drawing is the drawing number to inspect (revision).
	Drawing string `yaml:"drawing,omitempty"`

	// Expect is the expected cell text (meta, revision).
	Expect string `yaml:"expect,omitempty"`
}

// Assertion type constants.
const (
	AssertMoved        = "moved"
	AssertKept         = "kept"
	AssertUnrecognized = "unrecognized"
	AssertPresent      = "present"
	AssertAbsent       = "absent"
	AssertColumns      = "columns"
	AssertMeta         = "meta"
	AssertRevision     = "revision"
)

// stepDateLayout is the layout of Step.Date.
const stepDateLayout = "2006-01-02"

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:"
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

// LoadScenarios loads every .yaml file of dir in name order.
func LoadScenarios(dir string) ([]*Scenario, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no scenario files found in %s", dir)
	}

	scenarios := make([]*Scenario, 0, len(matches))
	for _, path := range matches {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for name := range s.Documents {
		if filepath.Base(name) != name {
			return fmt.Errorf("documents: %q must be a plain file name", name)
		}
	}

	for i, step := range s.Steps {
		switch step.Action {
		case ActionClean:
		case ActionSync:
			if _, err := time.Parse(stepDateLayout, step.Date); err != nil {
				return fmt.Errorf("steps[%d]: date must be YYYY-MM-DD, got %q", i, step.Date)
			}
			if step.Issue == "" || step.Formats == "" {
				return fmt.Errorf("steps[%d]: issue and formats are required", i)
			}
		default:
			return fmt.Errorf("steps[%d]: unknown action %q", i, step.Action)
		}

		switch step.ExpectError {
		case "", errNoRecognizedFiles, errHeaderNotFound, errNoDocument, errHoldingFolder:
		default:
			return fmt.Errorf("steps[%d]: unknown expect_error %q", i, step.ExpectError)
		}
	}

	for i, a := range s.Assertions {
		switch a.Type {
		case AssertMoved, AssertKept, AssertUnrecognized:
		case AssertPresent, AssertAbsent:
			if len(a.Files) == 0 {
				return fmt.Errorf("assertions[%d]: %s requires files", i, a.Type)
			}
		case AssertColumns:
		case AssertMeta:
			if a.Column == "" {
				return fmt.Errorf("assertions[%d]: meta requires column", i)
			}
		case AssertRevision:
			if a.Column == "" || a.Drawing == "" {
				return fmt.Errorf("assertions[%d]: revision requires column and drawing", i)
			}
		default:
			return fmt.Errorf("assertions[%d]: unknown assertion type %q", i, a.Type)
		}
	}

	return nil
}
