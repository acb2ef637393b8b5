// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package schema describes the tuples flowing along a link: an ordered set of
// named attributes, each carrying a cty.Type.
//
// The compiler core only ever looks at attribute names. Types ride along so
// operators can reason about them (a join can refuse to match a number against
// a string) and so hints shown in the editor can say what an attribute holds.
package schema

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Span is the type of one match produced by a text matcher: the attribute it
// was found in, its character offsets, and the matched text.
var Span = cty.Object(map[string]cty.Type{
	"attribute": cty.String,
	"start":     cty.Number,
	"end":       cty.Number,
	"key":       cty.String,
	"value":     cty.String,
})

// SpanList is the type of the attribute a matcher adds to hold its matches.
var SpanList = cty.List(Span)

// Attribute is a single named column of a schema.
type Attribute struct {
	Name string
	Type cty.Type
}

// String renders the attribute as "name:type".
func (a Attribute) String() string {
	if a.Type == cty.NilType {
		return a.Name
	}
	return a.Name + ":" + a.Type.FriendlyName()
}

// Schema is an immutable ordered list of uniquely named attributes.
type Schema struct {
	attrs []Attribute
	index map[string]int
}

// New builds a schema from attrs. Attribute names must be non-empty and
// unique.
func New(attrs ...Attribute) (*Schema, error) {
	s := &Schema{
		attrs: make([]Attribute, 0, len(attrs)),
		index: make(map[string]int, len(attrs)),
	}
	for _, a := range attrs {
		if a.Name == "" {
			return nil, fmt.Errorf("schema: attribute name must not be empty")
		}
		if _, dup := s.index[a.Name]; dup {
			return nil, fmt.Errorf("schema: duplicate attribute %q", a.Name)
		}
		s.index[a.Name] = len(s.attrs)
		s.attrs = append(s.attrs, a)
	}
	return s, nil
}

// MustNew is like New but panics on error. Intended for fixtures and
// statically known schemas.
func MustNew(attrs ...Attribute) *Schema {
	s, err := New(attrs...)
	if err != nil {
		panic(err)
	}
	return s
}

// Strings builds a schema whose attributes are all cty.String.
func Strings(names ...string) *Schema {
	attrs := make([]Attribute, len(names))
	for i, n := range names {
		attrs[i] = Attribute{Name: n, Type: cty.String}
	}
	return MustNew(attrs...)
}

// Len returns the number of attributes.
func (s *Schema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.attrs)
}

// Attributes returns a copy of the attributes in order.
func (s *Schema) Attributes() []Attribute {
	if s == nil {
		return nil
	}
	out := make([]Attribute, len(s.attrs))
	copy(out, s.attrs)
	return out
}

// Names returns the attribute names in order.
func (s *Schema) Names() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.attrs))
	for i, a := range s.attrs {
		out[i] = a.Name
	}
	return out
}

// Has reports whether the schema contains an attribute named name.
func (s *Schema) Has(name string) bool {
	_, ok := s.Attribute(name)
	return ok
}

// Attribute looks an attribute up by name.
func (s *Schema) Attribute(name string) (Attribute, bool) {
	if s == nil {
		return Attribute{}, false
	}
	i, ok := s.index[name]
	if !ok {
		return Attribute{}, false
	}
	return s.attrs[i], true
}

// With returns a new schema with attrs appended.
func (s *Schema) With(attrs ...Attribute) (*Schema, error) {
	return New(append(s.Attributes(), attrs...)...)
}

// Project returns a new schema holding only the named attributes, in the
// order given.
func (s *Schema) Project(names ...string) (*Schema, error) {
	attrs := make([]Attribute, 0, len(names))
	for _, n := range names {
		a, ok := s.Attribute(n)
		if !ok {
			return nil, fmt.Errorf("schema: attribute %q not found in %s", n, s)
		}
		attrs = append(attrs, a)
	}
	return New(attrs...)
}

// Equal reports whether both schemas have the same attributes in the same
// order.
func (s *Schema) Equal(other *Schema) bool {
	if s.Len() != other.Len() {
		return false
	}
	for i, a := range s.Attributes() {
		b := other.attrs[i]
		if a.Name != b.Name || !a.Type.Equals(b.Type) {
			return false
		}
	}
	return true
}

// ObjectType returns the cty object type describing one tuple of this schema.
func (s *Schema) ObjectType() cty.Type {
	attrs := make(map[string]cty.Type, s.Len())
	for _, a := range s.Attributes() {
		t := a.Type
		if t == cty.NilType {
			t = cty.DynamicPseudoType
		}
		attrs[a.Name] = t
	}
	return cty.Object(attrs)
}

// String renders the schema as "[a:string, b:number]".
func (s *Schema) String() string {
	parts := make([]string, 0, s.Len())
	for _, a := range s.Attributes() {
		parts = append(parts, a.String())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
