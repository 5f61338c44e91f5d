// Package xmltree holds the parsed element tree consumed by the map
// assembler, and the document providers that produce it.
package xmltree

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	ErrDocumentNotFound = errors.New("xmltree: document not found")
	ErrParse            = errors.New("xmltree: parse error")
)

// Element is one node of a parsed XML document. Attribute names are local
// names; namespaces are dropped.
type Element struct {
	Name     string
	Attrs    map[string]string
	Children []*Element
	// Text is the concatenated character data directly inside the element.
	Text string
}

// Parse reads a whole document and returns its root element.
func Parse(r io.Reader) (*Element, error) {
	d := xml.NewDecoder(r)
	var stack []*Element
	var root *Element
	var text [][]byte
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{Name: t.Name.Local, Attrs: make(map[string]string, len(t.Attr))}
			for _, a := range t.Attr {
				el.Attrs[a.Name.Local] = a.Value
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			} else if root == nil {
				root = el
			}
			stack = append(stack, el)
			text = append(text, nil)
		case xml.EndElement:
			n := len(stack) - 1
			stack[n].Text = string(text[n])
			stack = stack[:n]
			text = text[:n]
		case xml.CharData:
			if n := len(text); n > 0 {
				text[n-1] = append(text[n-1], t...)
			}
		}
	}
	if root == nil {
		return nil, fmt.Errorf("%w: empty document", ErrParse)
	}
	return root, nil
}

// Attr returns the named attribute and whether it was present.
func (e *Element) Attr(name string) (string, bool) {
	if e == nil {
		return "", false
	}
	v, ok := e.Attrs[name]
	return v, ok
}

// AttrOr returns the named attribute or def when absent.
func (e *Element) AttrOr(name, def string) string {
	if v, ok := e.Attr(name); ok {
		return v
	}
	return def
}

// Int parses an integer attribute. Absent attributes yield def.
func (e *Element) Int(name string, def int) (int, error) {
	v, ok := e.Attr(name)
	if !ok || strings.TrimSpace(v) == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def, fmt.Errorf("<%s %s=%q>: %w", e.Name, name, v, err)
	}
	return n, nil
}

// Uint32 parses an unsigned 32-bit attribute. Absent attributes yield def.
func (e *Element) Uint32(name string, def uint32) (uint32, error) {
	v, ok := e.Attr(name)
	if !ok || strings.TrimSpace(v) == "" {
		return def, nil
	}
	n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 32)
	if err != nil {
		return def, fmt.Errorf("<%s %s=%q>: %w", e.Name, name, v, err)
	}
	return uint32(n), nil
}

// Float parses a float attribute. Absent attributes yield def.
func (e *Element) Float(name string, def float64) (float64, error) {
	v, ok := e.Attr(name)
	if !ok || strings.TrimSpace(v) == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return def, fmt.Errorf("<%s %s=%q>: %w", e.Name, name, v, err)
	}
	return f, nil
}

// Bool parses a boolean attribute with ParseBool. Absent attributes yield def.
func (e *Element) Bool(name string, def bool) (bool, error) {
	v, ok := e.Attr(name)
	if !ok {
		return def, nil
	}
	b, err := ParseBool(v)
	if err != nil {
		return def, fmt.Errorf("<%s %s=%q>: %w", e.Name, name, v, err)
	}
	return b, nil
}

// Child returns the first child with the given name, or nil.
func (e *Element) Child(name string) *Element {
	if e == nil {
		return nil
	}
	for _, c := range e.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns every child with the given name in document order.
func (e *Element) ChildrenNamed(name string) []*Element {
	if e == nil {
		return nil
	}
	var out []*Element
	for _, c := range e.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// ParseBool accepts the spellings Tiled and hand-edited maps use. Only the
// first character matters: 1/y/t are true, -/0/n/f are false, empty is false.
func ParseBool(s string) (bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return false, nil
	}
	switch strings.ToLower(s[:1]) {
	case "1", "y", "t":
		return true, nil
	case "-", "0", "n", "f":
		return false, nil
	}
	return false, fmt.Errorf("cannot parse %q as bool", s)
}
