package formskema

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/reoring/formskema/explode"
	"github.com/reoring/formskema/schema"
)

// Issue codes.
const (
	CodeRequired = "required"
	CodeInvalid  = "invalid"
	// CodeDerivation marks a derived field whose formula could not be
	// evaluated to a number.
	CodeDerivation = "derivation"
)

// Configuration errors, re-exported so that callers need a single import.
var (
	ErrInvalidSchema    = schema.ErrInvalidSchema
	ErrUnresolvedRef    = schema.ErrUnresolvedRef
	ErrOneOfUnsupported = explode.ErrOneOfUnsupported
	ErrTooManyVariants  = explode.ErrTooManyVariants
)

// Issue is one validation message at one location.
type Issue struct {
	Path    string `json:"path"` // JSON Pointer, for example /accounts/1/number.
	Code    string `json:"code"` // CodeRequired, CodeInvalid or CodeDerivation.
	Message string `json:"message"`
	// Rule is the combinator (anyOf, allOf, oneOf) the message was reported
	// under, empty for plain constraint failures.
	Rule string `json:"rule,omitempty"`
}

func (i Issue) String() string {
	if i.Rule != "" {
		return fmt.Sprintf("%s: %s (%s)", i.Path, i.Message, i.Rule)
	}
	return fmt.Sprintf("%s: %s", i.Path, i.Message)
}

// Issues is a collection of validation issues that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := min(len(iss), maxShown)
	for i := range lim {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(b, "%s at %s", iss[i].Code, iss[i].Path)
	}
	if len(iss) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(iss))
	}
	return b.String()
}

// At returns the issues reported at path.
func (iss Issues) At(path string) Issues {
	var out Issues
	for _, it := range iss {
		if it.Path == path {
			out = append(out, it)
		}
	}
	return out
}

// AsIssues extracts Issues from an error.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
