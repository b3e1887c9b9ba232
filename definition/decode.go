package definition

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	j "github.com/goccy/go-json"
)

// ErrInvalidDocument marks documents that cannot serve as a schema
// definition (syntax errors, non-object roots).
var ErrInvalidDocument = errors.New("definition: invalid document")

// DecodeJSON reads a JSON document from r. Tokens are consumed one by one so
// that object keys keep their document order.
func DecodeJSON(r io.Reader) (*Definition, error) {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "definition: decoding JSON"), ErrInvalidDocument)
	}
	d, ok := v.(*Definition)
	if !ok {
		return nil, errors.Mark(errors.Newf("definition: document root must be an object, got %T", v), ErrInvalidDocument)
	}
	return d, nil
}

// DecodeJSONBytes is DecodeJSON over a byte slice.
func DecodeJSONBytes(b []byte) (*Definition, error) { return DecodeJSON(bytes.NewReader(b)) }

func decodeValue(dec *j.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
		return nil, errors.Newf("unexpected delimiter %q", rune(v))
	case j.Number:
		return normalize(v), nil
	case float64:
		return v, nil
	case string, bool, nil:
		return v, nil
	}
	return nil, errors.Newf("unexpected token %v", tok)
}

func decodeObject(dec *j.Decoder) (*Definition, error) {
	d := New()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errors.Newf("object key must be a string, got %v", tok)
		}
		if d.Has(key) {
			return nil, errors.Newf("duplicate key %q", key)
		}
		v, err := decodeValue(dec)
		if err != nil {
			return nil, errors.Wrapf(err, "at key %q", key)
		}
		d.set(key, v)
	}
	// closing '}'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return d, nil
}

func decodeArray(dec *j.Decoder) ([]any, error) {
	out := []any{}
	for dec.More() {
		v, err := decodeValue(dec)
		if err != nil {
			return nil, errors.Wrapf(err, "at index %d", len(out))
		}
		out = append(out, v)
	}
	// closing ']'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return out, nil
}

// Load reads a definition from disk. Files ending in .yaml or .yml are read
// as YAML, everything else as JSON.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "definition: reading %s", path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeYAML(data)
	default:
		return DecodeJSONBytes(data)
	}
}
