// Package hclutil holds small helpers shared by the HCL-backed loaders.
package hclutil

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/ext/typeexpr"
	"github.com/zclconf/go-cty/cty"
)

// TypeFromExpr converts an HCL expression that represents a type (e.g. the
// `string` keyword or `list(string)`) into its cty.Type.
//
// Bare keywords are resolved directly so that a typo produces a message
// listing the supported keywords. Anything more complex is handed to
// typeexpr, which understands collection and object constructors.
func TypeFromExpr(expr hcl.Expression) (cty.Type, hcl.Diagnostics) {
	var diags hcl.Diagnostics

	traversal, travDiags := hcl.AbsTraversalForExpr(expr)
	if travDiags.HasErrors() || len(traversal) != 1 {
		// Not a bare keyword; let typeexpr deal with constructors.
		ty, tyDiags := typeexpr.TypeConstraint(expr)
		return ty, append(diags, tyDiags...)
	}

	switch typeName := traversal.RootName(); typeName {
	case "string":
		return cty.String, diags
	case "number":
		return cty.Number, diags
	case "bool":
		return cty.Bool, diags
	case "any":
		return cty.DynamicPseudoType, diags
	default:
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Unsupported type",
			Detail:   fmt.Sprintf("The keyword '%s' is not a valid type. Supported types are: string, number, bool, any, or a constructor such as list(string).", typeName),
			Subject:  expr.Range().Ptr(),
		})
		return cty.NilType, diags
	}
}
