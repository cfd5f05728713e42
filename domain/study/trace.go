package study

import "fmt"

// Trace accumulates the human-readable arithmetic steps of a calculation in
// the order they were performed. Wording and order are shown to end users, so
// every calculator must build its trace deterministically.
type Trace struct {
	steps []string
}

// Stepf appends one formatted step.
func (t *Trace) Stepf(format string, args ...interface{}) {
	t.steps = append(t.steps, fmt.Sprintf(format, args...))
}

// Lines returns a copy of the recorded steps.
func (t *Trace) Lines() []string {
	out := make([]string, len(t.steps))
	copy(out, t.steps)
	return out
}

// Len returns the number of recorded steps.
func (t *Trace) Len() int { return len(t.steps) }
