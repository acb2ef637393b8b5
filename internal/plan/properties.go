// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package plan

import (
	"fmt"
	"sort"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Properties is the property bag of a raw operator, stored as a cty object.
// Null attributes are treated as absent.
type Properties struct {
	val cty.Value
}

// NewProperties wraps an object value. Anything else yields an empty bag.
func NewProperties(v cty.Value) Properties {
	if v == cty.NilVal || v.IsNull() || !v.IsKnown() || !v.Type().IsObjectType() {
		return Properties{val: cty.EmptyObjectVal}
	}
	return Properties{val: v}
}

// PropertiesFromMap builds a bag from Go values using gocty type inference.
// It is meant for tests and programmatic plans.
func PropertiesFromMap(m map[string]any) (Properties, error) {
	attrs := make(map[string]cty.Value, len(m))
	for k, v := range m {
		cv, err := toCty(v)
		if err != nil {
			return Properties{}, fmt.Errorf("property %q: %w", k, err)
		}
		attrs[k] = cv
	}
	return NewProperties(cty.ObjectVal(attrs)), nil
}

func toCty(v any) (cty.Value, error) {
	switch tv := v.(type) {
	case cty.Value:
		return tv, nil
	case []any:
		elems := make([]cty.Value, len(tv))
		for i, e := range tv {
			ev, err := toCty(e)
			if err != nil {
				return cty.NilVal, err
			}
			elems[i] = ev
		}
		return cty.TupleVal(elems), nil
	}
	t, err := gocty.ImpliedType(v)
	if err != nil {
		return cty.NilVal, err
	}
	return gocty.ToCtyValue(v, t)
}

// Value returns the underlying object value.
func (p Properties) Value() cty.Value {
	if p.val == cty.NilVal {
		return cty.EmptyObjectVal
	}
	return p.val
}

// Names returns the property names, sorted.
func (p Properties) Names() []string {
	var out []string
	for name := range p.Value().Type().AttributeTypes() {
		if p.Has(name) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Get returns a non-null property value.
func (p Properties) Get(name string) (cty.Value, bool) {
	v := p.Value()
	if !v.Type().HasAttribute(name) {
		return cty.NilVal, false
	}
	attr := v.GetAttr(name)
	if attr.IsNull() {
		return cty.NilVal, false
	}
	return attr, true
}

// Has reports whether a non-null property is present.
func (p Properties) Has(name string) bool {
	_, ok := p.Get(name)
	return ok
}

// String returns a required string property.
func (p Properties) String(name string) (string, error) {
	var out string
	if err := p.decode(name, cty.String, &out); err != nil {
		return "", err
	}
	return out, nil
}

// OptionalString returns a string property, or def when it is absent.
func (p Properties) OptionalString(name, def string) (string, error) {
	if !p.Has(name) {
		return def, nil
	}
	return p.String(name)
}

// StringList returns a required list-of-strings property. A single string is
// accepted as a one-element list.
func (p Properties) StringList(name string) ([]string, error) {
	v, ok := p.Get(name)
	if !ok {
		return nil, fmt.Errorf("missing required property %q", name)
	}
	if v.Type() == cty.String {
		return []string{v.AsString()}, nil
	}
	var out []string
	if err := p.decode(name, cty.List(cty.String), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// OptionalStringList returns a list-of-strings property, or nil when absent.
func (p Properties) OptionalStringList(name string) ([]string, error) {
	if !p.Has(name) {
		return nil, nil
	}
	return p.StringList(name)
}

// Int returns a required whole-number property.
func (p Properties) Int(name string) (int, error) {
	var out int
	if err := p.decode(name, cty.Number, &out); err != nil {
		return 0, err
	}
	return out, nil
}

// OptionalInt returns a whole-number property, or def when it is absent.
func (p Properties) OptionalInt(name string, def int) (int, error) {
	if !p.Has(name) {
		return def, nil
	}
	return p.Int(name)
}

// OptionalBool returns a boolean property, or def when it is absent.
func (p Properties) OptionalBool(name string, def bool) (bool, error) {
	if !p.Has(name) {
		return def, nil
	}
	var out bool
	if err := p.decode(name, cty.Bool, &out); err != nil {
		return false, err
	}
	return out, nil
}

func (p Properties) decode(name string, want cty.Type, target any) error {
	v, ok := p.Get(name)
	if !ok {
		return fmt.Errorf("missing required property %q", name)
	}
	converted, err := convert.Convert(v, want)
	if err != nil {
		return fmt.Errorf("property %q: expected %s: %w", name, want.FriendlyName(), err)
	}
	if !converted.IsWhollyKnown() {
		return fmt.Errorf("property %q: value is not known", name)
	}
	if err := gocty.FromCtyValue(converted, target); err != nil {
		return fmt.Errorf("property %q: %w", name, err)
	}
	return nil
}
