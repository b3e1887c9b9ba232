package schema

import "github.com/cockroachdb/errors"

var (
	// ErrInvalidSchema marks structurally invalid schema definitions.
	ErrInvalidSchema = errors.New("schema: invalid definition")
	// ErrUnresolvedRef marks a $ref whose target is not declared.
	ErrUnresolvedRef = errors.New("schema: unresolved $ref")
)

func invalidf(at, format string, args ...any) error {
	err := errors.Newf(format, args...)
	return errors.Mark(errors.Wrapf(err, "schema: at %s", at), ErrInvalidSchema)
}
