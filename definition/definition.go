package definition

import (
	"bytes"
	"maps"
	"reflect"
	"slices"

	j "github.com/goccy/go-json"
)

// Definition is one node of a raw schema document. Key order is preserved
// from the source so that properties are visited in declaration order.
//
// A Definition is never modified after construction; every "With" style
// method returns a new node that shares the untouched subtrees.
type Definition struct {
	keys []string
	vals map[string]any
}

// New returns an empty definition.
func New() *Definition {
	return &Definition{vals: map[string]any{}}
}

// FromMap builds a definition from Go literals. Map keys carry no order, so
// they are sorted to keep the result deterministic.
func FromMap(m map[string]any) *Definition {
	d := New()
	for _, k := range slices.Sorted(maps.Keys(m)) {
		d.set(k, normalize(m[k]))
	}
	return d
}

// set appends or replaces a key. Only used while a node is being built.
func (d *Definition) set(key string, v any) {
	if _, ok := d.vals[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.vals[key] = v
}

func (d *Definition) shallowCopy() *Definition {
	out := &Definition{
		keys: slices.Clone(d.keys),
		vals: make(map[string]any, len(d.vals)),
	}
	maps.Copy(out.vals, d.vals)
	return out
}

// Len returns the number of keys.
func (d *Definition) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// Keys returns the keys in document order.
func (d *Definition) Keys() []string {
	if d == nil {
		return nil
	}
	return slices.Clone(d.keys)
}

func (d *Definition) Get(key string) (any, bool) {
	if d == nil {
		return nil, false
	}
	v, ok := d.vals[key]
	return v, ok
}

func (d *Definition) Has(key string) bool {
	_, ok := d.Get(key)
	return ok
}

// String returns the value at key when it is a string.
func (d *Definition) String(key string) (string, bool) {
	v, _ := d.Get(key)
	s, ok := v.(string)
	return s, ok
}

// Number returns the value at key when it is numeric.
func (d *Definition) Number(key string) (float64, bool) {
	v, _ := d.Get(key)
	f, ok := v.(float64)
	return f, ok
}

// Bool returns the value at key when it is a boolean.
func (d *Definition) Bool(key string) (bool, bool) {
	v, _ := d.Get(key)
	b, ok := v.(bool)
	return b, ok
}

// Definition returns the nested definition stored at key.
func (d *Definition) Definition(key string) (*Definition, bool) {
	v, _ := d.Get(key)
	n, ok := v.(*Definition)
	return n, ok
}

// List returns the array stored at key.
func (d *Definition) List(key string) ([]any, bool) {
	v, _ := d.Get(key)
	l, ok := v.([]any)
	return l, ok
}

// Properties returns the "properties" node.
func (d *Definition) Properties() (*Definition, bool) { return d.Definition("properties") }

// Property returns the schema of a single property.
func (d *Definition) Property(name string) (*Definition, bool) {
	props, ok := d.Properties()
	if !ok {
		return nil, false
	}
	return props.Definition(name)
}

// Items returns the "items" node.
func (d *Definition) Items() (*Definition, bool) { return d.Definition("items") }

// With returns a copy of d where key holds v.
func (d *Definition) With(key string, v any) *Definition {
	if d == nil {
		d = New()
	}
	out := d.shallowCopy()
	out.set(key, normalize(v))
	return out
}

// WithProperty returns a copy of d where properties[name] is replaced by p.
func (d *Definition) WithProperty(name string, p *Definition) *Definition {
	props, _ := d.Properties()
	return d.With("properties", props.With(name, p))
}

// Without returns a copy of d lacking the given keys.
func (d *Definition) Without(keys ...string) *Definition {
	if d == nil {
		return New()
	}
	out := &Definition{vals: make(map[string]any, len(d.vals))}
	for _, k := range d.keys {
		if slices.Contains(keys, k) {
			continue
		}
		out.set(k, d.vals[k])
	}
	return out
}

// ToMap converts the definition back into plain Go maps and slices.
func (d *Definition) ToMap() map[string]any {
	if d == nil {
		return nil
	}
	out := make(map[string]any, len(d.keys))
	for _, k := range d.keys {
		out[k] = plain(d.vals[k])
	}
	return out
}

func plain(v any) any {
	switch t := v.(type) {
	case *Definition:
		return t.ToMap()
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = plain(t[i])
		}
		return out
	default:
		return v
	}
}

// Equal reports whether two definitions hold the same content, ignoring key
// order.
func Equal(a, b *Definition) bool {
	return reflect.DeepEqual(a.ToMap(), b.ToMap())
}

// MarshalJSON writes the keys in document order.
func (d *Definition) MarshalJSON() ([]byte, error) {
	if d == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	if err := d.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (d *Definition) writeJSON(buf *bytes.Buffer) error {
	buf.WriteByte('{')
	for i, k := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := j.Marshal(k)
		if err != nil {
			return err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		if err := writeValue(buf, d.vals[k]); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeValue(buf *bytes.Buffer, v any) error {
	switch t := v.(type) {
	case *Definition:
		return t.writeJSON(buf)
	case []any:
		buf.WriteByte('[')
		for i := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeValue(buf, t[i]); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	default:
		b, err := j.Marshal(t)
		if err != nil {
			return err
		}
		buf.Write(b)
		return nil
	}
}

// normalize maps Go literals onto the value set a Definition holds:
// *Definition, []any, string, float64, bool and nil.
func normalize(v any) any {
	switch t := v.(type) {
	case *Definition, string, bool, float64, nil:
		return t
	case map[string]any:
		return FromMap(t)
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, vv := range t {
			if ks, ok := k.(string); ok {
				m[ks] = vv
			}
		}
		return FromMap(m)
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = normalize(t[i])
		}
		return out
	case []string:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = FromMap(t[i])
		}
		return out
	case int:
		return float64(t)
	case int8:
		return float64(t)
	case int16:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case uint:
		return float64(t)
	case uint8:
		return float64(t)
	case uint16:
		return float64(t)
	case uint32:
		return float64(t)
	case uint64:
		return float64(t)
	case float32:
		return float64(t)
	case j.Number:
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	default:
		return t
	}
}
