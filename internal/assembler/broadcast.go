package assembler

import (
	"fmt"

	"github.com/specialistvlad/plangen/internal/operator"
	"github.com/specialistvlad/plangen/internal/schema"
)

// BroadcastConnector replicates one operator's output to several
// destinations. It takes a single input and exposes one Port per
// destination.
type BroadcastConnector struct {
	operator.SingleInput
	id    string
	ports []*Port
}

// NewBroadcastConnector returns a connector for the operator id with n
// output ports.
func NewBroadcastConnector(id string, n int) *BroadcastConnector {
	c := &BroadcastConnector{id: id}
	c.ports = make([]*Port, n)
	for i := range c.ports {
		c.ports[i] = &Port{connector: c, index: i}
	}
	return c
}

// ID returns the id of the operator whose output is broadcast.
func (c *BroadcastConnector) ID() string { return c.id }

// Ports returns the output ports in order.
func (c *BroadcastConnector) Ports() []*Port {
	out := make([]*Port, len(c.ports))
	copy(out, c.ports)
	return out
}

// Port returns output port i.
func (c *BroadcastConnector) Port(i int) *Port { return c.ports[i] }

// OutputSchema passes the single input schema through.
func (c *BroadcastConnector) OutputSchema(inputs ...*schema.Schema) (*schema.Schema, error) {
	return passThrough(inputs)
}

// Port is one output of a BroadcastConnector. Downstream operators are bound
// to a port rather than to the connector itself.
type Port struct {
	connector *BroadcastConnector
	index     int
}

// Index returns the port's position on its connector.
func (p *Port) Index() int { return p.index }

// Connector returns the connector the port belongs to.
func (p *Port) Connector() *BroadcastConnector { return p.connector }

// OutputSchema passes the single input schema through.
func (p *Port) OutputSchema(inputs ...*schema.Schema) (*schema.Schema, error) {
	return passThrough(inputs)
}

// Bind always fails: ports are fed by their connector.
func (p *Port) Bind(slot operator.Slot, _ operator.Operator) error {
	return fmt.Errorf("broadcast port %d of %q cannot be bound to an input (%s)", p.index, p.connector.id, slot)
}

func passThrough(inputs []*schema.Schema) (*schema.Schema, error) {
	if len(inputs) != 1 {
		return nil, fmt.Errorf("broadcast expects exactly one input schema, got %d", len(inputs))
	}
	return inputs[0], nil
}
