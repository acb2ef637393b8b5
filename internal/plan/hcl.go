// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package plan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/plangen/internal/ctxlog"
	"github.com/specialistvlad/plangen/internal/planerr"
)

// hclPlan is the top-level structure of an HCL plan file.
type hclPlan struct {
	Operators []*hclOperator `hcl:"operator,block"`
	Links     []*hclLink     `hcl:"link,block"`
}

type hclOperator struct {
	Type string   `hcl:"type,label"`
	ID   string   `hcl:"id,label"`
	Body hcl.Body `hcl:",remain"`
}

type hclLink struct {
	Origin      string `hcl:"origin"`
	Destination string `hcl:"destination"`
}

// ParseHCL decodes an HCL plan. filename is only used in diagnostics.
func ParseHCL(src []byte, filename string) (*Plan, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, &planerr.MalformedRequestError{Msg: "failed to parse " + filename, Err: diags}
	}

	var raw hclPlan
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return nil, &planerr.MalformedRequestError{Msg: "failed to decode " + filename, Err: diags}
	}

	p := &Plan{}
	for _, op := range raw.Operators {
		props, diags := decodeOperatorBody(op.Body)
		if diags.HasErrors() {
			return nil, &planerr.MalformedRequestError{Msg: fmt.Sprintf("operator %q in %s", op.ID, filename), Err: diags}
		}
		p.Operators = append(p.Operators, Operator{ID: op.ID, Type: op.Type, Properties: props})
	}
	for _, l := range raw.Links {
		p.Links = append(p.Links, Link{Origin: l.Origin, Destination: l.Destination})
	}
	return p, nil
}

// decodeOperatorBody evaluates every attribute of an operator block without
// variables or functions; plans are static documents.
func decodeOperatorBody(body hcl.Body) (Properties, hcl.Diagnostics) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return Properties{}, diags
	}
	vals := make(map[string]cty.Value, len(attrs))
	for name, attr := range attrs {
		v, d := attr.Expr.Value(nil)
		diags = append(diags, d...)
		vals[name] = v
	}
	if diags.HasErrors() {
		return Properties{}, diags
	}
	return NewProperties(cty.ObjectVal(vals)), diags
}

// LoadFile reads a plan from disk, choosing the format by file extension.
func LoadFile(ctx context.Context, path string) (*Plan, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading plan file.", "path", path)

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file %s: %w", path, err)
	}

	var p *Plan
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		p, err = ParseJSON(src)
	case ".hcl":
		p, err = ParseHCL(src, path)
	default:
		return nil, fmt.Errorf("unsupported plan file extension %q for %s", ext, path)
	}
	if err != nil {
		return nil, err
	}

	logger.Debug("Plan file loaded.", "path", path, "operators", len(p.Operators), "links", len(p.Links))
	return p, nil
}
