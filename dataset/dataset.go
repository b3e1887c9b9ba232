package dataset

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	j "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ErrInvalidData marks data documents that could not be decoded.
var ErrInvalidData = errors.New("dataset: invalid data")

// Dataset is read access to the data under validation.
type Dataset interface {
	// Root returns the whole document.
	Root() any
	// Value returns the value at a dotted path ("" is the root).
	Value(path string) (any, bool)
}

// Data is the default Dataset over plain Go values (maps, slices, scalars).
type Data struct {
	root any
}

// New wraps a decoded document.
func New(root any) *Data { return &Data{root: root} }

func (d *Data) Root() any { return d.root }

// Value walks a dotted path. Numeric segments index arrays.
func (d *Data) Value(path string) (any, bool) {
	if path == "" {
		return d.root, true
	}
	cur := d.root
	for _, seg := range strings.Split(path, ".") {
		v, ok := Child(cur, seg)
		if !ok {
			return nil, false
		}
		cur = v
	}
	return cur, true
}

// Child returns the field or element named seg of v.
func Child(v any, seg string) (any, bool) {
	switch t := v.(type) {
	case map[string]any:
		c, ok := t[seg]
		return c, ok
	case []any:
		i, err := strconv.Atoi(seg)
		if err != nil || i < 0 || i >= len(t) {
			return nil, false
		}
		return t[i], true
	case nil:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		c := rv.MapIndex(reflect.ValueOf(seg).Convert(rv.Type().Key()))
		if !c.IsValid() {
			return nil, false
		}
		return c.Interface(), true
	case reflect.Slice, reflect.Array:
		i, err := strconv.Atoi(seg)
		if err != nil || i < 0 || i >= rv.Len() {
			return nil, false
		}
		return rv.Index(i).Interface(), true
	}
	return nil, false
}

// Elements returns the elements of an array value.
func Elements(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case nil:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// DecodeJSON decodes a JSON document into plain values.
func DecodeJSON(data []byte) (*Data, error) {
	var v any
	dec := j.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&v); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "dataset: decode json"), ErrInvalidData)
	}
	return New(v), nil
}

// DecodeYAML decodes a YAML document into plain values. Numbers become
// float64 as they would from JSON.
func DecodeYAML(data []byte) (*Data, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "dataset: decode yaml"), ErrInvalidData)
	}
	return New(normalize(v)), nil
}

// Load reads a data file; .yaml and .yml are YAML, anything else JSON.
func Load(path string) (*Data, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset: read %s", path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeYAML(b)
	default:
		return DecodeJSON(b)
	}
}

func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, c := range t {
			t[k] = normalize(c)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, c := range t {
			out[toString(k)] = normalize(c)
		}
		return out
	case []any:
		for i := range t {
			t[i] = normalize(t[i])
		}
		return t
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case uint64:
		return float64(t)
	}
	return v
}

func toString(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	b, _ := j.Marshal(k)
	return string(b)
}
