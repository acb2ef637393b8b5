// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package plan

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/specialistvlad/plangen/internal/planerr"
)

const (
	keyOperators    = "operators"
	keyLinks        = "links"
	keyOperatorID   = "operatorID"
	keyOperatorType = "operatorType"
)

type envelope struct {
	Operators []json.RawMessage `json:"operators"`
	Links     []json.RawMessage `json:"links"`
}

// ParseJSON decodes the editor's JSON plan format. Only problems with the
// envelope itself are errors; an operator with an unusable property bag is
// kept with empty properties and left for the operator's decoder to reject.
func ParseJSON(data []byte) (*Plan, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	var env envelope
	if err := dec.Decode(&env); err != nil {
		return nil, &planerr.MalformedRequestError{Msg: "request body is not a valid plan", Err: err}
	}
	if env.Operators == nil {
		return nil, &planerr.MalformedRequestError{Msg: fmt.Sprintf("missing %q array", keyOperators)}
	}

	p := &Plan{}
	for i, raw := range env.Operators {
		op, err := parseOperator(raw)
		if err != nil {
			return nil, &planerr.MalformedRequestError{Msg: fmt.Sprintf("operator #%d", i), Err: err}
		}
		p.Operators = append(p.Operators, op)
	}
	for i, raw := range env.Links {
		var l Link
		if err := json.Unmarshal(raw, &l); err != nil {
			return nil, &planerr.MalformedRequestError{Msg: fmt.Sprintf("link #%d", i), Err: err}
		}
		p.Links = append(p.Links, l)
	}
	return p, nil
}

func parseOperator(raw json.RawMessage) (Operator, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Operator{}, err
	}
	if fields == nil {
		return Operator{}, fmt.Errorf("operator must be an object")
	}

	var op Operator
	if err := optionalString(fields, keyOperatorID, &op.ID); err != nil {
		return Operator{}, err
	}
	if err := optionalString(fields, keyOperatorType, &op.Type); err != nil {
		return Operator{}, err
	}
	delete(fields, keyOperatorID)
	delete(fields, keyOperatorType)

	rest, err := json.Marshal(fields)
	if err != nil {
		return Operator{}, err
	}
	op.Properties = propertiesFromJSON(rest)
	return op, nil
}

func optionalString(fields map[string]json.RawMessage, key string, target *string) error {
	raw, ok := fields[key]
	if !ok || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%q must be a string: %w", key, err)
	}
	return nil
}

func propertiesFromJSON(data []byte) Properties {
	ty, err := ctyjson.ImpliedType(data)
	if err != nil {
		return NewProperties(cty.EmptyObjectVal)
	}
	val, err := ctyjson.Unmarshal(data, ty)
	if err != nil {
		return NewProperties(cty.EmptyObjectVal)
	}
	return NewProperties(val)
}

// MarshalJSON encodes the plan in the editor's JSON format.
func (p *Plan) MarshalJSON() ([]byte, error) {
	ops := make([]json.RawMessage, 0, len(p.Operators))
	for _, op := range p.Operators {
		raw, err := op.marshal()
		if err != nil {
			return nil, fmt.Errorf("operator %q: %w", op.ID, err)
		}
		ops = append(ops, raw)
	}
	links := p.Links
	if links == nil {
		links = []Link{}
	}
	return json.Marshal(map[string]any{keyOperators: ops, keyLinks: links})
}

func (op Operator) marshal() (json.RawMessage, error) {
	fields := make(map[string]json.RawMessage)
	val := op.Properties.Value()
	for name := range val.Type().AttributeTypes() {
		attr := val.GetAttr(name)
		if attr.IsNull() {
			fields[name] = json.RawMessage("null")
			continue
		}
		b, err := ctyjson.Marshal(attr, attr.Type())
		if err != nil {
			return nil, err
		}
		fields[name] = b
	}
	id, _ := json.Marshal(op.ID)
	typ, _ := json.Marshal(op.Type)
	fields[keyOperatorID] = id
	fields[keyOperatorType] = typ
	return json.Marshal(fields)
}
