package formskema

import (
	"github.com/reoring/formskema/expression"
	"github.com/reoring/formskema/result"
)

// IssueAt creates an Issue at p, choosing the code from the message.
func IssueAt(p PathRef, msg, rule string) Issue {
	code := CodeInvalid
	switch msg {
	case string(result.Required):
		code = CodeRequired
	case expression.ErrorMarker:
		code = CodeDerivation
	}
	return Issue{Path: p.Pointer(), Code: code, Message: msg, Rule: rule}
}

// collectIssues walks an interpreted tree in document order.
func collectIssues(n result.Node, p PathRef, out Issues) Issues {
	switch t := n.(type) {
	case nil:
	case *result.Choice:
		for _, kind := range t.Kinds() {
			for _, msg := range t.Messages(kind) {
				out = append(out, IssueAt(p, msg, kind.String()))
			}
		}
	case *result.Object:
		for _, k := range t.Keys() {
			child, _ := t.Get(k)
			out = collectIssues(child, p.Field(k), out)
		}
	case *result.List:
		out = collectIssues(t.Message, p, out)
		for i, it := range t.Items {
			out = collectIssues(it, p.Index(i), out)
		}
	default:
		if msg, ok := result.Text(t); ok {
			out = append(out, IssueAt(p, msg, ""))
		}
	}
	return out
}
