package harness

// StepResult is what one step produced.
type StepResult struct {
	Action       string   `json:"action"`
	Moved        []string `json:"moved,omitempty"`
	Kept         []string `json:"kept,omitempty"`
	Unrecognized []string `json:"unrecognized,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every step behaved as declared and all assertions match.
	Pass bool `json:"pass"`

	// Steps holds one entry per executed step.
	Steps []StepResult `json:"steps"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Report is the deterministic text summary compared with golden files.
	Report string `json:"report"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Steps:  []StepResult{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// moved returns every file moved by clean steps.
func (r *Result) moved() []string {
	var out []string
	for _, s := range r.Steps {
		out = append(out, s.Moved...)
	}
	return out
}

// lastClean returns the last clean step, or nil.
func (r *Result) lastClean() *StepResult {
	for i := len(r.Steps) - 1; i >= 0; i-- {
		if r.Steps[i].Action == ActionClean {
			return &r.Steps[i]
		}
	}
	return nil
}

// last returns the last executed step, or nil.
func (r *Result) last() *StepResult {
	if len(r.Steps) == 0 {
		return nil
	}
	return &r.Steps[len(r.Steps)-1]
}
