// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package plan

// Plan is a raw operator graph.
type Plan struct {
	Operators []Operator
	Links     []Link
}

// Operator is one undecoded node.
type Operator struct {
	ID         string
	Type       string
	Properties Properties
}

// Link is a directed data-flow edge between two operator ids.
type Link struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

// Operator returns the first raw operator with the given id.
func (p *Plan) Operator(id string) (Operator, bool) {
	for _, op := range p.Operators {
		if op.ID == id {
			return op, true
		}
	}
	return Operator{}, false
}
