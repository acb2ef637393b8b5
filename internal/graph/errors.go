package graph

import "errors"

var errNilOperator = errors.New("predicate returned no operator")
