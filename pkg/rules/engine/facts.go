package engine

import "strings"

// resolveFact walks a dot-separated path through a nested fact document.
// The second return reports whether the path resolved to a value at all.
//
// Resolution short-circuits to absent as soon as a segment is missing or
// the current value is not a map: a profile without an "activities" record
// yields absent for "activities.sellsAlcohol" instead of an error. An
// explicit null at the final segment resolves as present-with-nil, which
// the existence operators treat the same as absent.
func resolveFact(facts map[string]any, path string) (any, bool) {
	var current any = facts
	for _, segment := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}
