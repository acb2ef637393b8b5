// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package catalog loads the table manifest that scan sources read from.
//
// Why a manifest instead of asking storage?
//
// Schema inference runs on every keystroke in the editor. Opening the
// underlying tables to discover their columns would make autocomplete as slow
// as the slowest storage backend. A manifest declares each table's
// attributes once:
//
//	table "promed" {
//	  description = "ProMED-mail outbreak reports"
//
//	  attribute "id"      { type = number }
//	  attribute "content" { type = string }
//	}
//
// and scan sources turn it into their output schema without touching data.
package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/specialistvlad/plangen/internal/ctxlog"
	"github.com/specialistvlad/plangen/internal/fsutil"
	"github.com/specialistvlad/plangen/internal/hclutil"
	"github.com/specialistvlad/plangen/internal/schema"
)

type manifest struct {
	Tables []*tableBlock `hcl:"table,block"`
}

type tableBlock struct {
	Name        string            `hcl:"name,label"`
	Description string            `hcl:"description,optional"`
	Attributes  []*attributeBlock `hcl:"attribute,block"`
}

type attributeBlock struct {
	Name string         `hcl:"name,label"`
	Type hcl.Expression `hcl:"type"`
}

// Table is one catalogued table.
type Table struct {
	Name        string
	Description string
	Schema      *schema.Schema
}

// Catalog is a read-only set of tables. It is safe for concurrent use once
// loaded.
type Catalog struct {
	tables map[string]*Table
}

// New returns a catalog holding tables. Table names must be unique.
func New(tables ...*Table) (*Catalog, error) {
	c := &Catalog{tables: make(map[string]*Table, len(tables))}
	for _, t := range tables {
		if _, dup := c.tables[t.Name]; dup {
			return nil, fmt.Errorf("table %q declared more than once", t.Name)
		}
		c.tables[t.Name] = t
	}
	return c, nil
}

// Table looks a table up by name.
func (c *Catalog) Table(name string) (*Table, bool) {
	if c == nil {
		return nil, false
	}
	t, ok := c.tables[name]
	return t, ok
}

// Names returns the table names, sorted.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.tables))
	for name := range c.tables {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Parse decodes a catalog manifest. filename is only used in diagnostics.
func Parse(src []byte, filename string) ([]*Table, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", filename, diags)
	}
	return decode(file, filename)
}

func decode(file *hcl.File, filename string) ([]*Table, error) {
	var m manifest
	if diags := gohcl.DecodeBody(file.Body, nil, &m); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode catalog %s: %w", filename, diags)
	}

	tables := make([]*Table, 0, len(m.Tables))
	for _, tb := range m.Tables {
		attrs := make([]schema.Attribute, 0, len(tb.Attributes))
		for _, ab := range tb.Attributes {
			ty, diags := hclutil.TypeFromExpr(ab.Type)
			if diags.HasErrors() {
				return nil, fmt.Errorf("table %q attribute %q: %w", tb.Name, ab.Name, diags)
			}
			attrs = append(attrs, schema.Attribute{Name: ab.Name, Type: ty})
		}
		s, err := schema.New(attrs...)
		if err != nil {
			return nil, fmt.Errorf("table %q: %w", tb.Name, err)
		}
		tables = append(tables, &Table{Name: tb.Name, Description: tb.Description, Schema: s})
	}
	return tables, nil
}

// Load reads every .hcl manifest under path (a file or a directory).
func Load(ctx context.Context, path string) (*Catalog, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading table catalog...", "path", path)

	files, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("failed to walk catalog path %s: %w", path, err)
	}
	if len(files) == 0 {
		logger.Warn("No .hcl catalog files found in path", "path", path)
	}

	parser := hclparse.NewParser()
	var tables []*Table
	for _, f := range files {
		hclFile, diags := parser.ParseHCLFile(f)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse catalog %s: %w", f, diags)
		}
		parsed, err := decode(hclFile, f)
		if err != nil {
			return nil, err
		}
		tables = append(tables, parsed...)
	}

	c, err := New(tables...)
	if err != nil {
		return nil, err
	}
	logger.Info("Table catalog loaded.", "tables", len(c.tables))
	return c, nil
}
