// Package props holds typed Tiled custom properties and merges them.
package props

import (
	"errors"
	"fmt"
	"image/color"
	"maps"
	"strconv"
	"strings"

	"github.com/milk9111/tiledmap/xmltree"
)

var (
	ErrNotFound     = errors.New("props: property not found")
	ErrTypeMismatch = errors.New("props: property type mismatch")
)

// Type is the declared type attribute of a <property>.
type Type string

const (
	TypeString Type = "string"
	TypeInt    Type = "int"
	TypeFloat  Type = "float"
	TypeBool   Type = "bool"
	TypeColor  Type = "color"
	TypeFile   Type = "file"
	TypeObject Type = "object"
	TypeClass  Type = "class"
)

// Value is one typed property value. The zero Value is an empty string.
type Value struct {
	Type Type
	// Raw is the text as written in the document. Empty for class values.
	Raw string
	v   any
}

// NewValue converts raw according to t. An empty type means string.
func NewValue(t Type, raw string) (Value, error) {
	if t == "" {
		t = TypeString
	}
	val := Value{Type: t, Raw: raw}
	var err error
	switch t {
	case TypeString, TypeFile:
		val.v = raw
	case TypeInt, TypeObject:
		var n int
		if strings.TrimSpace(raw) != "" {
			n, err = strconv.Atoi(strings.TrimSpace(raw))
		}
		val.v = n
	case TypeFloat:
		var f float64
		if strings.TrimSpace(raw) != "" {
			f, err = strconv.ParseFloat(strings.TrimSpace(raw), 64)
		}
		val.v = f
	case TypeBool:
		val.v, err = xmltree.ParseBool(raw)
	case TypeColor:
		var c color.NRGBA
		if strings.TrimSpace(raw) != "" {
			c, err = ParseColor(raw)
		}
		val.v = c
	case TypeClass:
		val.v = Properties{}
	default:
		return Value{}, fmt.Errorf("props: unknown type %q", t)
	}
	if err != nil {
		return Value{}, fmt.Errorf("props: %s value %q: %w", t, raw, err)
	}
	return val, nil
}

// ClassValue wraps nested members as a class-typed value.
func ClassValue(members Properties) Value {
	if members == nil {
		members = Properties{}
	}
	return Value{Type: TypeClass, v: members}
}

// Interface returns the converted Go value: string, int, float64, bool,
// color.NRGBA or Properties.
func (v Value) Interface() any {
	if v.v == nil {
		return v.Raw
	}
	return v.v
}

func (v Value) String() string {
	if v.Type == TypeClass {
		return fmt.Sprint(v.v)
	}
	return v.Raw
}

// Properties maps property names to values.
type Properties map[string]Value

// Merge returns a new mapping holding every key of base and override. On a
// shared key the override value and type win. Neither argument is modified.
func Merge(base, override Properties) Properties {
	out := make(Properties, len(base)+len(override))
	maps.Copy(out, base)
	maps.Copy(out, override)
	return out
}

// Clone returns a shallow copy.
func (p Properties) Clone() Properties {
	return maps.Clone(p)
}

// Has reports whether name is present.
func (p Properties) Has(name string) bool {
	_, ok := p[name]
	return ok
}

// Get returns the value stored under name.
func (p Properties) Get(name string) (Value, error) {
	v, ok := p[name]
	if !ok {
		return Value{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return v, nil
}

func (p Properties) typed(name string, t Type) (Value, error) {
	v, err := p.Get(name)
	if err != nil {
		return Value{}, err
	}
	got := v.Type
	if got == "" {
		got = TypeString
	}
	if got != t {
		return Value{}, fmt.Errorf("%w: %q is %s, not %s", ErrTypeMismatch, name, got, t)
	}
	return v, nil
}

func (p Properties) String(name string) (string, error) {
	v, err := p.typed(name, TypeString)
	if err != nil {
		return "", err
	}
	return v.Raw, nil
}

func (p Properties) File(name string) (string, error) {
	v, err := p.typed(name, TypeFile)
	if err != nil {
		return "", err
	}
	return v.Raw, nil
}

func (p Properties) Int(name string) (int, error) {
	v, err := p.typed(name, TypeInt)
	if err != nil {
		return 0, err
	}
	return v.v.(int), nil
}

// Object returns the object id referenced by an object-typed property; 0 means
// no object.
func (p Properties) Object(name string) (int, error) {
	v, err := p.typed(name, TypeObject)
	if err != nil {
		return 0, err
	}
	return v.v.(int), nil
}

func (p Properties) Float(name string) (float64, error) {
	v, err := p.typed(name, TypeFloat)
	if err != nil {
		return 0, err
	}
	return v.v.(float64), nil
}

func (p Properties) Bool(name string) (bool, error) {
	v, err := p.typed(name, TypeBool)
	if err != nil {
		return false, err
	}
	return v.v.(bool), nil
}

func (p Properties) Color(name string) (color.NRGBA, error) {
	v, err := p.typed(name, TypeColor)
	if err != nil {
		return color.NRGBA{}, err
	}
	return v.v.(color.NRGBA), nil
}

func (p Properties) Class(name string) (Properties, error) {
	v, err := p.typed(name, TypeClass)
	if err != nil {
		return nil, err
	}
	return v.v.(Properties), nil
}

// ParseColor reads Tiled's #AARRGGBB or #RRGGBB notation. The leading '#' is
// optional.
func ParseColor(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 && len(h) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	n, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	c := color.NRGBA{
		R: uint8(n >> 16),
		G: uint8(n >> 8),
		B: uint8(n),
		A: 0xff,
	}
	if len(h) == 8 {
		c.A = uint8(n >> 24)
	}
	return c, nil
}

// Parse reads a <properties> element. A nil element yields an empty mapping.
// Values come from the value attribute, or from the element text for
// multi-line strings. Class values nest their members in a child
// <properties>.
func Parse(el *xmltree.Element) (Properties, error) {
	out := Properties{}
	if el == nil {
		return out, nil
	}
	for _, p := range el.ChildrenNamed("property") {
		name, ok := p.Attr("name")
		if !ok {
			return nil, fmt.Errorf("props: <property> without name")
		}
		t := Type(p.AttrOr("type", string(TypeString)))
		if t == TypeClass {
			members, err := Parse(p.Child("properties"))
			if err != nil {
				return nil, fmt.Errorf("props: class %q: %w", name, err)
			}
			out[name] = ClassValue(members)
			continue
		}
		raw, ok := p.Attr("value")
		if !ok {
			raw = p.Text
		}
		v, err := NewValue(t, raw)
		if err != nil {
			return nil, fmt.Errorf("props: property %q: %w", name, err)
		}
		out[name] = v
	}
	return out, nil
}
