package result

import (
	"bytes"

	j "github.com/goccy/go-json"
)

func (o Outcome) MarshalJSON() ([]byte, error) {
	return j.Marshal(struct {
		Message string `json:"message"`
		Invalid bool   `json:"invalid"`
	}{o.Message, o.Invalid})
}

// MarshalJSON writes the fields in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, k); err != nil {
			return nil, err
		}
		if err := writeNode(&buf, o.vals[k]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON writes the per-element results as an array. When the array
// itself failed, the shape is {"message": ..., "items": [...]}.
func (l *List) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if l.Message != nil {
		buf.WriteString(`{"message":`)
		if err := writeNode(&buf, l.Message); err != nil {
			return nil, err
		}
		buf.WriteString(`,"items":`)
	}
	if err := writeNodes(&buf, l.Items); err != nil {
		return nil, err
	}
	if l.Message != nil {
		buf.WriteByte('}')
	}
	return buf.Bytes(), nil
}

// MarshalJSON writes {"VALIDATION": [{"anyOf": [...]}, ...]}.
func (c *Combined) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"VALIDATION":[`)
	for i, cl := range c.Clauses {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		if err := writeKey(&buf, cl.Kind.String()); err != nil {
			return nil, err
		}
		if err := writeNodes(&buf, cl.Results); err != nil {
			return nil, err
		}
		buf.WriteByte('}')
	}
	buf.WriteString(`]}`)
	return buf.Bytes(), nil
}

// MarshalJSON writes {"anyOf": [messages...], ...}.
func (c *Choice) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range c.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, e.kind.String()); err != nil {
			return nil, err
		}
		msgs := e.messages
		if msgs == nil {
			msgs = []string{}
		}
		b, err := j.Marshal(msgs)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeKey(buf *bytes.Buffer, k string) error {
	b, err := j.Marshal(k)
	if err != nil {
		return err
	}
	buf.Write(b)
	buf.WriteByte(':')
	return nil
}

func writeNodes(buf *bytes.Buffer, nodes []Node) error {
	buf.WriteByte('[')
	for i, n := range nodes {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeNode(buf, n); err != nil {
			return err
		}
	}
	buf.WriteByte(']')
	return nil
}

func writeNode(buf *bytes.Buffer, n Node) error {
	if n == nil {
		buf.WriteString("null")
		return nil
	}
	b, err := j.Marshal(n)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}
