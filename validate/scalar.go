package validate

import (
	"math"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/reoring/formskema/expression"
	"github.com/reoring/formskema/i18n"
	"github.com/reoring/formskema/result"
	"github.com/reoring/formskema/schema"
)

// check is one evaluated constraint.
type check struct {
	msg    string
	failed bool
}

func (v *Validator) scalar(s *schema.Schema, f frame, mode Report) result.Node {
	if s.Kind() == schema.KindExpression {
		return v.derived(s, f, mode)
	}
	if isEmpty(f.value) {
		return nil
	}

	checks := v.scalarChecks(s, f)
	if len(checks) == 0 {
		return nil
	}
	for _, c := range checks {
		if c.failed {
			return v.report(s, c.msg, true, mode)
		}
	}
	return v.report(s, checks[0].msg, false, mode)
}

// derived validates a computed field: the formula must yield a finite
// number.
func (v *Validator) derived(s *schema.Schema, f frame, mode Report) result.Node {
	if s.Expression() == "" {
		return nil
	}
	out := expression.Derive(v.ev, f.scope(), s.Expression())
	if out != expression.ErrorMarker {
		return nil
	}
	if mode == Passes {
		return result.Outcome{Message: expression.ErrorMarker, Invalid: true}
	}
	return result.Message(expression.ErrorMarker)
}

// scalarChecks evaluates every constraint of s in declaration-independent
// order: type, bounds, length, pattern, enum, formulas. A failed type check
// stops evaluation.
func (v *Validator) scalarChecks(s *schema.Schema, f frame) []check {
	var out []check
	value := f.value

	switch s.Kind() {
	case schema.KindInteger, schema.KindNumber:
		n, ok := numeric(value)
		if !ok || (s.Kind() == schema.KindInteger && n != math.Trunc(n)) {
			return []check{{msg: v.typeMessage(s.Kind()), failed: true}}
		}
		out = append(out, v.numberChecks(s, n)...)
	case schema.KindString:
		str, ok := value.(string)
		if !ok {
			return []check{{msg: v.typeMessage(s.Kind()), failed: true}}
		}
		out = append(out, v.stringChecks(s, str)...)
	case schema.KindBoolean:
		switch t := value.(type) {
		case bool:
		case string:
			if t != "true" && t != "false" && t != "True" && t != "False" {
				return []check{{msg: v.typeMessage(s.Kind()), failed: true}}
			}
		default:
			return []check{{msg: v.typeMessage(s.Kind()), failed: true}}
		}
	case schema.KindAny:
		if n, ok := numeric(value); ok {
			out = append(out, v.numberChecks(s, n)...)
		}
		if str, ok := value.(string); ok {
			out = append(out, v.stringChecks(s, str)...)
		}
	}

	if enum := s.Enum(); len(enum) > 0 {
		out = append(out, check{msg: v.tr.Message(i18n.CodeEnum, nil), failed: !inEnum(enum, value)})
	}

	unexpected := v.tr.Message(i18n.CodeUnexpectedValue, nil)
	for _, formula := range []string{s.ValidationExpression(), s.Expression()} {
		if formula == "" {
			continue
		}
		res, err := v.ev.Evaluate(f.scope(), formula)
		out = append(out, check{msg: unexpected, failed: err != nil || !expression.Truthy(res)})
	}
	return out
}

func (v *Validator) numberChecks(s *schema.Schema, n float64) []check {
	var out []check
	if lim, ok := s.Minimum(); ok {
		out = append(out, check{v.limitMessage(i18n.CodeMinimum, lim), n < lim})
	}
	if lim, ok := s.Maximum(); ok {
		out = append(out, check{v.limitMessage(i18n.CodeMaximum, lim), n > lim})
	}
	if lim, ok := s.ExclusiveMinimum(); ok {
		out = append(out, check{v.limitMessage(i18n.CodeExclusiveMinimum, lim), n <= lim})
	}
	if lim, ok := s.ExclusiveMaximum(); ok {
		out = append(out, check{v.limitMessage(i18n.CodeExclusiveMaximum, lim), n >= lim})
	}
	return out
}

func (v *Validator) stringChecks(s *schema.Schema, str string) []check {
	var out []check
	if re := s.Pattern(); re != nil {
		out = append(out, check{v.tr.Message(i18n.CodePattern, nil), !re.MatchString(str)})
	}
	length := utf8.RuneCountInString(str)
	if lim, ok := s.MinLength(); ok {
		out = append(out, check{v.limitMessage(i18n.CodeMinLength, float64(lim)), length < lim})
	}
	if lim, ok := s.MaxLength(); ok {
		out = append(out, check{v.limitMessage(i18n.CodeMaxLength, float64(lim)), length > lim})
	}
	return out
}

// arrayChecks returns the first failing collection constraint, or the first
// declared one when all hold. checked is false when none is declared.
func (v *Validator) arrayChecks(s *schema.Schema, elements []any) (msg string, failed, checked bool) {
	var checks []check
	if lim, ok := s.MinItems(); ok {
		checks = append(checks, check{v.limitMessage(i18n.CodeMinItems, float64(lim)), len(elements) < lim})
	}
	if lim, ok := s.MaxItems(); ok {
		checks = append(checks, check{v.limitMessage(i18n.CodeMaxItems, float64(lim)), len(elements) > lim})
	}
	if s.UniqueItems() {
		repeated := repeatedItems(elements)
		positions := make([]string, len(repeated))
		for i, p := range repeated {
			positions[i] = strconv.Itoa(p)
		}
		msg := v.tr.Message(i18n.CodeUniqueItems, map[string]string{"items": strings.Join(positions, ", ")})
		checks = append(checks, check{msg, len(repeated) > 0})
	}
	if len(checks) == 0 {
		return "", false, false
	}
	for _, c := range checks {
		if c.failed {
			return c.msg, true, true
		}
	}
	return checks[0].msg, false, true
}

// repeatedItems returns the 1-based positions of elements equal to some
// other element.
func repeatedItems(elements []any) []int {
	var out []int
	for i := range elements {
		for k := range elements {
			if i != k && equalValues(elements[i], elements[k]) {
				out = append(out, i+1)
				break
			}
		}
	}
	return out
}

func (v *Validator) limitMessage(code string, lim float64) string {
	return v.tr.Message(code, map[string]string{"limit": strconv.FormatFloat(lim, 'f', -1, 64)})
}

func (v *Validator) typeMessage(k schema.Kind) string {
	return v.tr.Message(i18n.CodeInvalidType, map[string]string{"expected": k.String()})
}

// numeric accepts Go numbers and numeric strings (form input).
func numeric(v any) (float64, bool) {
	if s, ok := v.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return f, err == nil && !math.IsNaN(f)
	}
	if _, ok := v.(bool); ok {
		return 0, false
	}
	return expression.Number(v)
}

func inEnum(enum []schema.EnumItem, v any) bool {
	for _, e := range enum {
		if equalValues(e.Value, v) {
			return true
		}
	}
	return false
}

// equalValues compares decoded values; numbers compare by value whatever
// their Go type.
func equalValues(a, b any) bool {
	if x, ok := expression.Number(a); ok {
		y, ok := expression.Number(b)
		return ok && x == y
	}
	return reflect.DeepEqual(a, b)
}
