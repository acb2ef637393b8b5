// Package scansource provides the ScanSource operator, which reads every
// tuple of a catalogued table.
package scansource

import (
	"fmt"

	"github.com/specialistvlad/plangen/internal/catalog"
	"github.com/specialistvlad/plangen/internal/operator"
	"github.com/specialistvlad/plangen/internal/plan"
	"github.com/specialistvlad/plangen/internal/registry"
	"github.com/specialistvlad/plangen/internal/schema"
)

// Type is the operator type name used in plans.
const Type = "ScanSource"

// Kind is the capability metadata of ScanSource.
var Kind = operator.Kind{Type: Type, Source: true}

// Module implements the registry.Module interface for this package.
type Module struct {
	Catalog *catalog.Catalog
}

// Register registers the ScanSource definition.
func (m *Module) Register(r *registry.Registry) {
	r.Register(&registry.Definition{
		Kind:        Kind,
		Description: "Reads every tuple of a table from the catalog.",
		Decode: func(base operator.Base, props plan.Properties) (operator.Predicate, error) {
			return Decode(m.Catalog, base, props)
		},
	})
}

// Predicate is a decoded ScanSource.
type Predicate struct {
	operator.Base
	Table *catalog.Table
}

// Decode reads the tableName property and resolves it against cat.
func Decode(cat *catalog.Catalog, base operator.Base, props plan.Properties) (*Predicate, error) {
	name, err := props.String("tableName")
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, fmt.Errorf("no table catalog is configured")
	}
	tbl, ok := cat.Table(name)
	if !ok {
		return nil, fmt.Errorf("table %q is not in the catalog", name)
	}
	return &Predicate{Base: base, Table: tbl}, nil
}

// NewOperator builds the scan operator.
func (p *Predicate) NewOperator() (operator.Operator, error) {
	return &Operator{table: p.Table}, nil
}

// Operator scans one table.
type Operator struct {
	operator.NoInput
	table *catalog.Table
}

// OutputSchema returns the table's schema.
func (o *Operator) OutputSchema(inputs ...*schema.Schema) (*schema.Schema, error) {
	if len(inputs) != 0 {
		return nil, fmt.Errorf("a scan takes no input schemas, got %d", len(inputs))
	}
	return o.table.Schema, nil
}
