package workflow

// Committed records a step that finished before the workflow stopped.
type Committed struct {
	Step         string
	Ref          string
	Compensation Compensation
}

// StepError is the failure value of a workflow run.
// Err is the step's own error, left unclassified.
type StepError struct {
	Workflow  string
	Step      string
	Committed []Committed
	Err       error
}

func (e *StepError) Error() string {
	return "workflow " + e.Workflow + ": step " + e.Step + ": " + e.Err.Error()
}

func (e *StepError) Unwrap() error { return e.Err }

// Partial reports whether a committed step's effect outlives the failure.
func (e *StepError) Partial() bool {
	return len(e.Pending()) > 0
}

// Pending returns the committed steps that need manual reconciliation.
func (e *StepError) Pending() []Committed {
	var out []Committed
	for _, c := range e.Committed {
		if c.Compensation == CompensationManual {
			out = append(out, c)
		}
	}
	return out
}
