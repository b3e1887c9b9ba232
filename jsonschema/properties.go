package jsonschema

import (
	"bytes"

	j "github.com/goccy/go-json"
)

// Properties keeps property schemas in declaration order.
type Properties struct {
	names   []string
	schemas map[string]*Schema
}

func (p *Properties) add(name string, s *Schema) {
	if p.schemas == nil {
		p.schemas = map[string]*Schema{}
	}
	if _, ok := p.schemas[name]; !ok {
		p.names = append(p.names, name)
	}
	p.schemas[name] = s
}

// Names returns the property names in order.
func (p *Properties) Names() []string { return p.names }

// Get returns the schema of one property.
func (p *Properties) Get(name string) (*Schema, bool) {
	s, ok := p.schemas[name]
	return s, ok
}

// MarshalJSON writes the properties in declaration order.
func (p *Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range p.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := j.Marshal(name)
		if err != nil {
			return nil, err
		}
		v, err := j.Marshal(p.schemas[name])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
