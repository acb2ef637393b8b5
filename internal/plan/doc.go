// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package plan holds the raw, undecoded form of a user's operator graph.
//
// Why keep a raw form at all?
//
// The editor sends plans while the user is still typing. Operators may have a
// missing type, a half-written regex or a link that points nowhere. Strict
// compilation rejects such plans, but autocomplete still has to make sense of
// whatever is valid. Keeping the envelope (ids, types, links) apart from each
// operator's property bag lets the two modes decide independently what to do
// with a bad operator.
//
// Plans arrive in two formats:
//
//  1. JSON, as sent by the editor: {"operators": [...], "links": [...]}, each
//     operator carrying "operatorID", "operatorType" and its properties inline.
//
//  2. HCL, for plans kept in files:
//
//     operator "KeywordMatcher" "kw" {
//     query = "zika"
//     }
//
//     link {
//     origin      = "scan"
//     destination = "kw"
//     }
//
// Properties of both formats end up as a cty object value, so operator
// decoders read them the same way regardless of where they came from.
package plan
