package service

// CascadeStep is one sub-operation of a sequential cascade.
type CascadeStep struct {
	Name string
	Err  error
}

// Cascade runs a multi-step mutation as an ordered list of independent
// sub-operations. There is no transaction and no rollback: each step's
// outcome is recorded so that a mid-sequence failure can be reported as a
// first-class result instead of a swallowed exception.
type Cascade struct {
	Operation string
	Steps     []CascadeStep
}

// NewCascade starts an empty cascade for the named operation.
func NewCascade(operation string) *Cascade {
	return &Cascade{Operation: operation}
}

// Run executes the next step and records its outcome. Steps after a failure
// still run; the engine never aborts a cascade midway on its own.
func (c *Cascade) Run(name string, fn func() error) {
	c.Steps = append(c.Steps, CascadeStep{Name: name, Err: fn()})
}

// Failed reports whether any recorded step failed.
func (c *Cascade) Failed() bool {
	for _, step := range c.Steps {
		if step.Err != nil {
			return true
		}
	}
	return false
}

// Err returns nil when every step succeeded, otherwise a PartialFailure
// listing the full step record.
func (c *Cascade) Err() error {
	if !c.Failed() {
		return nil
	}
	return &PartialFailure{Operation: c.Operation, Steps: c.Steps}
}
