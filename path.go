package formskema

import (
	"strconv"
	"strings"
)

// PathRef builds JSON Pointer paths in a chain-safe way.
type PathRef interface {
	Field(name string) PathRef
	Index(i int) PathRef
	Pointer() string
}

// Root returns the pointer to the whole document.
func Root() PathRef { return pathRef{} }

// At parses a JSON Pointer or a dotted field path. Numeric segments are kept
// as they are.
func At(path string) PathRef {
	sep := "."
	if strings.HasPrefix(path, "/") {
		sep = "/"
	}
	var p PathRef = pathRef{}
	for _, part := range strings.Split(path, sep) {
		if part == "" {
			continue
		}
		if sep == "/" {
			part = strings.ReplaceAll(strings.ReplaceAll(part, "~1", "/"), "~0", "~")
		}
		p = p.Field(part)
	}
	return p
}

type pathRef struct {
	parts []string
}

func (p pathRef) Field(name string) PathRef {
	if name == "" {
		return p
	}
	// RFC 6901: '~' -> '~0', '/' -> '~1'
	esc := strings.ReplaceAll(strings.ReplaceAll(name, "~", "~0"), "/", "~1")
	return pathRef{parts: append(append([]string{}, p.parts...), esc)}
}

func (p pathRef) Index(i int) PathRef {
	return pathRef{parts: append(append([]string{}, p.parts...), strconv.Itoa(i))}
}

func (p pathRef) Pointer() string {
	if len(p.parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(p.parts, "/")
}
