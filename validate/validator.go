package validate

import (
	"strconv"

	"github.com/reoring/formskema/dataset"
	"github.com/reoring/formskema/expression"
	"github.com/reoring/formskema/i18n"
	"github.com/reoring/formskema/result"
	"github.com/reoring/formskema/schema"
)

// Report selects what leaves carry.
type Report int

const (
	// Failures reports only failed checks.
	Failures Report = iota
	// Passes reports every check as an Outcome, failed or not. Exclusive
	// choice needs it to tell which alternatives were satisfied.
	Passes
)

func (r Report) String() string {
	if r == Passes {
		return "passes"
	}
	return "failures"
}

// Validator evaluates datasets against parsed schemas. It holds no per-call
// state and can be shared.
type Validator struct {
	ev expression.Evaluator
	tr i18n.Translator
}

// Option configures a Validator.
type Option func(*Validator)

// WithEvaluator sets the expression evaluator.
func WithEvaluator(ev expression.Evaluator) Option {
	return func(v *Validator) {
		if ev != nil {
			v.ev = ev
		}
	}
}

// WithTranslator sets the message translator.
func WithTranslator(tr i18n.Translator) Option {
	return func(v *Validator) {
		if tr != nil {
			v.tr = tr
		}
	}
}

// New returns a Validator using expr-lang expressions and the process-wide
// translator unless configured otherwise.
func New(opts ...Option) *Validator {
	v := &Validator{ev: expression.New(), tr: i18n.Current()}
	for _, o := range opts {
		o(v)
	}
	return v
}

// frame locates the value under validation.
type frame struct {
	ds      dataset.Dataset
	path    string
	value   any
	present bool
	owner   any
}

func (f frame) child(key string) frame {
	p := key
	if f.path != "" {
		p = f.path + "." + key
	}
	v, ok := f.ds.Value(p)
	return frame{ds: f.ds, path: p, value: v, present: ok, owner: f.value}
}

// missing reports whether a required value is absent or empty.
func (f frame) missing() bool { return !f.present || isEmpty(f.value) }

func (f frame) scope() expression.Scope {
	return expression.Scope{Root: f.ds.Root(), Owner: f.owner, Value: f.value}
}

// ValidateAll validates the dataset against s and returns the raw result
// tree, or nil when the data is valid.
func (v *Validator) ValidateAll(s *schema.Schema, ds dataset.Dataset, mode Report) result.Node {
	root := ds.Root()
	return v.validateAll(s, frame{ds: ds, value: root, present: true, owner: root}, mode)
}

func (v *Validator) validateAll(s *schema.Schema, f frame, mode Report) result.Node {
	s = s.Resolve()
	if !s.HasCombinators() {
		return v.single(s, f, mode)
	}

	var clauses []result.Clause
	for _, c := range s.Clauses() {
		var results []result.Node
		switch c.Kind {
		case schema.AnyOf:
			results = v.anyOf(c.Alternatives, f)
		case schema.AllOf:
			results = v.allOf(c.Alternatives, f)
		case schema.OneOf:
			results = v.oneOf(c.Alternatives, f)
		}
		if len(results) > 0 {
			clauses = append(clauses, result.Clause{Kind: c.Kind, Results: results})
		}
	}
	if len(clauses) == 0 {
		return nil
	}
	return &result.Combined{Clauses: clauses}
}

func (v *Validator) single(s *schema.Schema, f frame, mode Report) result.Node {
	switch s.Shape() {
	case schema.ShapeObject:
		return v.object(s, f, mode)
	case schema.ShapeArray:
		return v.array(s, f, mode)
	default:
		return v.scalar(s, f, mode)
	}
}

func (v *Validator) object(s *schema.Schema, f frame, mode Report) result.Node {
	out := result.NewObject()
	for _, name := range s.Required() {
		missing := f.child(name).missing()
		switch {
		case mode == Passes:
			out.Set(name, result.Outcome{Message: string(result.Required), Invalid: missing})
		case missing:
			out.Set(name, result.Required)
		}
	}

	for _, name := range s.Properties() {
		ps, _ := s.Property(name)
		c := f.child(name)
		if c.value == nil && ps.Resolve().Shape() == schema.ShapeObject {
			// nothing to descend into; recursive refs end here too
			continue
		}
		r := v.validateAll(ps, c, Failures)
		if r == nil {
			continue
		}
		if prev, ok := out.Get(name); ok && result.Failing(prev) {
			continue
		}
		out.Set(name, r)
	}

	if out.Len() == 0 {
		return nil
	}
	return out
}

func (v *Validator) array(s *schema.Schema, f frame, mode Report) result.Node {
	if isEmpty(f.value) {
		return nil
	}
	elements, ok := dataset.Elements(f.value)
	if !ok {
		return v.report(s, v.tr.Message(i18n.CodeInvalidType, map[string]string{"expected": "array"}), true, mode)
	}

	own := v.report(s, "", false, mode)
	if msg, failed, checked := v.arrayChecks(s, elements); checked {
		own = v.report(s, msg, failed, mode)
	}

	list := &result.List{Message: own}
	if items, ok := s.Items(); ok {
		list.Items = make([]result.Node, len(elements))
		for i := range elements {
			list.Items[i] = v.validateAll(items, f.child(strconv.Itoa(i)), Failures)
		}
	}
	if list.Empty() {
		return nil
	}
	return list
}

// report turns a check into a result leaf. The node's validationMessage
// replaces the text. An empty message with no failure yields nothing.
func (v *Validator) report(s *schema.Schema, msg string, invalid bool, mode Report) result.Node {
	if msg == "" && !invalid {
		return nil
	}
	if override := s.ValidationMessage(); override != "" {
		msg = override
	}
	if mode == Passes {
		return result.Outcome{Message: msg, Invalid: invalid}
	}
	if !invalid {
		return nil
	}
	return result.Message(msg)
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}
