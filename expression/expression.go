package expression

import (
	"math"
	"reflect"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ErrorMarker is reported in place of a derived value that could not be
// computed.
const ErrorMarker = "#ERROR#"

// ErrCompile marks expressions that failed to compile.
var ErrCompile = errors.New("expression: compile failed")

// Scope is what an expression can see.
type Scope struct {
	// Root is the whole dataset.
	Root any
	// Owner is the object holding the value under test.
	Owner any
	// Value is the value under test (nil for derived fields).
	Value any
}

// Evaluator runs formula text against a scope.
type Evaluator interface {
	Evaluate(scope Scope, expression string) (any, error)
}

// Expr evaluates expressions with github.com/expr-lang/expr. Compiled
// programs are cached by source text; an Expr is safe for concurrent use.
type Expr struct {
	mu       sync.RWMutex
	programs map[string]*vm.Program
}

// New returns an empty evaluator.
func New() *Expr {
	return &Expr{programs: map[string]*vm.Program{}}
}

// Evaluate compiles (once) and runs the expression. The environment exposes
// value, this (the owning object), root, and every top-level key of the root
// object. Unknown identifiers evaluate to nil.
func (e *Expr) Evaluate(scope Scope, expression string) (any, error) {
	p, err := e.program(expression)
	if err != nil {
		return nil, err
	}
	out, err := expr.Run(p, env(scope))
	if err != nil {
		return nil, errors.Wrapf(err, "expression: run %q", expression)
	}
	return out, nil
}

func (e *Expr) program(src string) (*vm.Program, error) {
	e.mu.RLock()
	p, ok := e.programs[src]
	e.mu.RUnlock()
	if ok {
		return p, nil
	}
	p, err := expr.Compile(src, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "expression: compile %q", src), ErrCompile)
	}
	e.mu.Lock()
	e.programs[src] = p
	e.mu.Unlock()
	return p, nil
}

func env(s Scope) map[string]any {
	out := map[string]any{}
	if m, ok := s.Root.(map[string]any); ok {
		for k, v := range m {
			out[k] = v
		}
	}
	out["root"] = s.Root
	out["this"] = s.Owner
	out["value"] = s.Value
	return out
}

// Truthy reports whether v counts as true in a validity test. Only false,
// nil, zero, NaN and "" are false.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0 && !math.IsNaN(t)
	case float32:
		return t != 0 && !math.IsNaN(float64(t))
	case int:
		return t != 0
	case int64:
		return t != 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0
	case reflect.Slice, reflect.Map:
		return !rv.IsNil()
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}

// Derive evaluates a derived-value formula. Anything other than a finite
// number, including evaluation errors, yields ErrorMarker.
func Derive(ev Evaluator, scope Scope, expression string) any {
	v, err := ev.Evaluate(scope, expression)
	if err != nil {
		return ErrorMarker
	}
	f, ok := Number(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return ErrorMarker
	}
	return f
}

// Number converts any Go numeric value to float64.
func Number(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}
