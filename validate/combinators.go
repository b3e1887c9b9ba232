package validate

import (
	"slices"

	"github.com/reoring/formskema/i18n"
	"github.com/reoring/formskema/result"
	"github.com/reoring/formskema/schema"
)

// anyOf reports the failure of every alternative, but only when none of
// them passed.
func (v *Validator) anyOf(alts []*schema.Schema, f frame) []result.Node {
	out := make([]result.Node, 0, len(alts))
	for _, alt := range alts {
		r := v.validateAll(alt, f, Failures)
		if r == nil {
			return nil
		}
		out = append(out, r)
	}
	return out
}

// allOf reports the failing alternatives.
func (v *Validator) allOf(alts []*schema.Schema, f frame) []result.Node {
	var out []result.Node
	for _, alt := range alts {
		if r := v.validateAll(alt, f, Failures); r != nil {
			out = append(out, r)
		}
	}
	return out
}

// oneOf requires exactly one alternative to hold.
//
// Leaf alternatives are counted by their outcome; when the count is not one,
// every alternative's message is surfaced. Object alternatives are counted
// by their required fields: an alternative is satisfiable when all of them
// are present. When the count is not one, every required field of every
// alternative is reported as REQUIRED so that the caller sees the competing
// groups instead of one arbitrary field. When exactly one alternative is
// satisfiable, only its remaining failures are reported.
func (v *Validator) oneOf(alts []*schema.Schema, f frame) []result.Node {
	results := make([]result.Node, len(alts))
	objects := true
	for i, alt := range alts {
		results[i] = v.validateAll(alt, f, Passes)
		if alt.Resolve().Shape() != schema.ShapeObject {
			objects = false
		}
	}
	if objects {
		return v.exclusiveGroups(alts, results, f)
	}
	return v.exclusiveLeaves(results)
}

func (v *Validator) exclusiveLeaves(results []result.Node) []result.Node {
	valid := 0
	for _, r := range results {
		if !result.Failing(r) {
			valid++
		}
	}
	if valid == 1 {
		return nil
	}
	var out []result.Node
	for _, r := range results {
		if text, ok := result.Text(r); ok && text != "" {
			out = append(out, result.Message(text))
			continue
		}
		if r = settle(r); r != nil {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		// several alternatives hold without saying anything
		out = append(out, result.Message(v.tr.Message(i18n.CodeOneOf, nil)))
	}
	return out
}

func (v *Validator) exclusiveGroups(alts []*schema.Schema, results []result.Node, f frame) []result.Node {
	satisfiable := 0
	chosen := -1
	for i, alt := range alts {
		if groupSatisfied(alt, f) {
			satisfiable++
			chosen = i
		}
	}

	if satisfiable == 1 {
		if r := settle(results[chosen]); r != nil {
			return []result.Node{r}
		}
		return nil
	}

	var out []result.Node
	for i, r := range results {
		if r = demand(alts[i].Resolve().Required(), r); r != nil {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		out = append(out, result.Message(v.tr.Message(i18n.CodeOneOf, nil)))
	}
	return out
}

// groupSatisfied reports whether every required field of alt is present in
// the data.
func groupSatisfied(alt *schema.Schema, f frame) bool {
	for _, name := range alt.Resolve().Required() {
		if f.child(name).missing() {
			return false
		}
	}
	return true
}

// demand marks every required field as REQUIRED, whatever the field's own
// result, and keeps the other failures.
func demand(required []string, r result.Node) result.Node {
	obj, ok := r.(*result.Object)
	if !ok && len(required) == 0 {
		return settle(r)
	}
	out := result.NewObject()
	if ok {
		for _, k := range obj.Keys() {
			n, _ := obj.Get(k)
			if slices.Contains(required, k) {
				out.Set(k, result.Required)
				continue
			}
			if n = settle(n); n != nil {
				out.Set(k, n)
			}
		}
	}
	for _, name := range required {
		out.Set(name, result.Required)
	}
	if out.Len() == 0 {
		return nil
	}
	return out
}

// settle converts outcomes back to failure mode: passed checks disappear,
// failed ones become plain failures.
func settle(r result.Node) result.Node {
	switch t := r.(type) {
	case result.Outcome:
		if !t.Invalid {
			return nil
		}
		if t.Message == string(result.Required) {
			return result.Required
		}
		return result.Message(t.Message)
	case *result.Object:
		out := result.NewObject()
		for _, k := range t.Keys() {
			n, _ := t.Get(k)
			out.Set(k, settle(n))
		}
		if out.Len() == 0 {
			return nil
		}
		return out
	case *result.List:
		out := &result.List{Message: settle(t.Message), Items: t.Items}
		if out.Empty() {
			return nil
		}
		return out
	}
	return r
}
