package engine

import (
	"reflect"

	"complyhq/compass/pkg/catalog"
)

// compare evaluates a single operator against the resolved fact value.
// found reports whether the fact-path resolved at all; actual is nil when it
// did not. compare never errors: unrepresentable comparisons are non-matches.
func compare(op catalog.Operator, actual any, found bool, expected any) bool {
	switch op {
	case catalog.OperatorExists:
		return found && actual != nil

	case catalog.OperatorNotExists:
		return !found || actual == nil

	case catalog.OperatorEquals:
		return valuesEqual(actual, expected)

	case catalog.OperatorNotEquals:
		return !valuesEqual(actual, expected)

	case catalog.OperatorIn:
		return inList(actual, expected)

	case catalog.OperatorNotIn:
		// A non-array expected value counts as "not in": the permissive
		// default is asymmetric with OperatorIn and is part of the stored
		// catalog contract.
		if _, ok := expected.([]any); !ok {
			return true
		}
		return !inList(actual, expected)

	case catalog.OperatorGTE:
		return compareNumeric(actual, expected, func(a, b float64) bool { return a >= b })

	case catalog.OperatorLTE:
		return compareNumeric(actual, expected, func(a, b float64) bool { return a <= b })

	case catalog.OperatorGT:
		return compareNumeric(actual, expected, func(a, b float64) bool { return a > b })

	case catalog.OperatorLT:
		return compareNumeric(actual, expected, func(a, b float64) bool { return a < b })

	default:
		// Unknown operators fail closed: they can suppress an obligation
		// but never assert one.
		return false
	}
}

// valuesEqual is strict equality over JSON-shaped values. Numbers compare
// numerically regardless of Go integer width (everything normalizes to
// float64, the single number type of the wire format); there is no
// cross-type coercion beyond that.
func valuesEqual(a, b any) bool {
	return reflect.DeepEqual(normalize(a), normalize(b))
}

// inList reports whether expected is an array containing actual.
// A non-array expected value never contains anything.
func inList(actual, expected any) bool {
	list, ok := expected.([]any)
	if !ok {
		return false
	}
	for _, item := range list {
		if valuesEqual(actual, item) {
			return true
		}
	}
	return false
}

// compareNumeric applies cmp when both operands are numeric; anything else
// is a non-match.
func compareNumeric(actual, expected any, cmp func(a, b float64) bool) bool {
	a, ok := asFloat(actual)
	if !ok {
		return false
	}
	b, ok := asFloat(expected)
	if !ok {
		return false
	}
	return cmp(a, b)
}

// normalize maps every numeric kind onto float64 and leaves other values
// untouched, so DeepEqual sees one number type.
func normalize(v any) any {
	if f, ok := asFloat(v); ok {
		return f
	}
	return v
}

// asFloat converts a numeric value to float64. Booleans and strings are
// not numeric; neither is nil.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
