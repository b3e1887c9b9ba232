package formskema

import (
	"sync"

	"github.com/reoring/formskema/result"
)

// Report is the outcome of one validation.
type Report struct {
	// Raw is the result tree as the validator produced it, nil when valid.
	Raw result.Node
	// Interpreted groups combinator failures per field.
	Interpreted result.Node
	// Messages maps dotted field paths to their distinct messages; the
	// root's own messages use the empty path.
	Messages map[string][]string

	once   sync.Once
	issues Issues
}

func newReport(raw result.Node) *Report {
	interpreted := result.Interpret(raw)
	return &Report{
		Raw:         raw,
		Interpreted: interpreted,
		Messages:    result.Flatten(interpreted),
	}
}

// Valid reports whether the data satisfied the schema.
func (r *Report) Valid() bool { return r.Interpreted == nil }

// Issues lists every message with its JSON Pointer location.
func (r *Report) Issues() Issues {
	r.once.Do(func() {
		r.issues = collectIssues(r.Interpreted, Root(), nil)
	})
	return r.issues
}

// Err returns the issues as an error, or nil when valid.
func (r *Report) Err() error {
	if r.Valid() {
		return nil
	}
	return r.Issues()
}
