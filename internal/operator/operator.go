package operator

import (
	"fmt"

	"github.com/specialistvlad/plangen/internal/schema"
)

// Slot names the input an upstream operator is bound to.
type Slot int

const (
	// SlotInput is the only input of a single-input operator.
	SlotInput Slot = iota
	// SlotInner is the first input of a binary operator.
	SlotInner
	// SlotOuter is the second input of a binary operator.
	SlotOuter
)

func (s Slot) String() string {
	switch s {
	case SlotInput:
		return "input"
	case SlotInner:
		return "inner"
	case SlotOuter:
		return "outer"
	default:
		return fmt.Sprintf("Slot(%d)", int(s))
	}
}

// Predicate is a decoded plan node.
type Predicate interface {
	ID() string
	Type() string
	Kind() Kind
	// NewOperator builds a fresh, unbound operator.
	NewOperator() (Operator, error)
}

// Operator is an instantiated plan node.
type Operator interface {
	// OutputSchema derives the schema this operator produces. Sources are
	// called with no inputs; other operators get their input schemas in
	// binding order.
	OutputSchema(inputs ...*schema.Schema) (*schema.Schema, error)
	// Bind attaches an upstream operator to slot.
	Bind(slot Slot, input Operator) error
}

// Base carries the id and kind shared by every predicate. Embed it.
type Base struct {
	id   string
	kind Kind
}

// NewBase returns a Base for a predicate with the given id and kind.
func NewBase(id string, kind Kind) Base {
	return Base{id: id, kind: kind}
}

func (b Base) ID() string   { return b.id }
func (b Base) Type() string { return b.kind.Type }
func (b Base) Kind() Kind   { return b.kind }

// SingleInput implements Bind for operators that take one input. Embed it.
type SingleInput struct {
	input Operator
}

// Bind accepts exactly one SlotInput binding.
func (s *SingleInput) Bind(slot Slot, input Operator) error {
	if slot != SlotInput {
		return fmt.Errorf("cannot bind to %s slot of a single-input operator", slot)
	}
	if s.input != nil {
		return fmt.Errorf("input already bound")
	}
	s.input = input
	return nil
}

// Input returns the bound upstream operator, if any.
func (s *SingleInput) Input() Operator { return s.input }

// BinaryInput implements Bind for operators with an inner and an outer input.
// Embed it.
type BinaryInput struct {
	inner Operator
	outer Operator
}

// Bind accepts one SlotInner and one SlotOuter binding.
func (b *BinaryInput) Bind(slot Slot, input Operator) error {
	var target *Operator
	switch slot {
	case SlotInner:
		target = &b.inner
	case SlotOuter:
		target = &b.outer
	default:
		return fmt.Errorf("cannot bind to %s slot of a binary operator", slot)
	}
	if *target != nil {
		return fmt.Errorf("%s input already bound", slot)
	}
	*target = input
	return nil
}

// Inner returns the operator bound to SlotInner.
func (b *BinaryInput) Inner() Operator { return b.inner }

// Outer returns the operator bound to SlotOuter.
func (b *BinaryInput) Outer() Operator { return b.outer }

// NoInput implements Bind for sources, which never accept a binding.
type NoInput struct{}

// Bind always fails.
func (NoInput) Bind(slot Slot, _ Operator) error {
	return fmt.Errorf("a source operator cannot be bound to an input (%s)", slot)
}
