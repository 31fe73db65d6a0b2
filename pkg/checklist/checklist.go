// Package checklist shapes an evaluation result into the grouped checklist
// consumed by the results API and the PDF export: applied obligations only,
// grouped by jurisdiction: federal as one group, state rules grouped by
// state code, city rules grouped by city name.
package checklist

import (
	"fmt"

	"complyhq/compass/pkg/catalog"
	"complyhq/compass/pkg/evaluation"
)

// Item pairs an applied verdict with its catalog entry.
type Item struct {
	Obligation catalog.Obligation
	Verdict    evaluation.ObligationEvaluation
}

// Group is one jurisdiction bucket of the checklist.
type Group struct {
	// Key is the stable group identifier: "federal", "state:CA", "city:Austin".
	Key string

	// Label is the display form: "Federal", "State: CA", "City: Austin".
	Label string

	Jurisdiction catalog.Jurisdiction
	Items        []Item
}

// Build groups the applied obligations of a result. Federal comes first,
// then state groups, then city groups; within a tier groups appear in the
// order their first obligation appears in the result, and items keep
// evaluation order. Verdicts whose obligation has since been deleted from
// the catalog are skipped; there is no entry left to render.
func Build(result *evaluation.Result, cat *catalog.Catalog) []Group {
	byKey := make(map[string]*Group)
	var order []string

	for _, verdict := range result.Applied() {
		ob, ok := cat.ByID(verdict.ObligationID)
		if !ok {
			continue
		}

		key, label := groupKey(ob)
		g, exists := byKey[key]
		if !exists {
			g = &Group{Key: key, Label: label, Jurisdiction: ob.Jurisdiction}
			byKey[key] = g
			order = append(order, key)
		}
		g.Items = append(g.Items, Item{Obligation: ob, Verdict: verdict})
	}

	groups := make([]Group, 0, len(order))
	for _, tier := range []catalog.Jurisdiction{catalog.JurisdictionFederal, catalog.JurisdictionState, catalog.JurisdictionCity} {
		for _, key := range order {
			if byKey[key].Jurisdiction == tier {
				groups = append(groups, *byKey[key])
			}
		}
	}
	return groups
}

func groupKey(ob catalog.Obligation) (key, label string) {
	switch ob.Jurisdiction {
	case catalog.JurisdictionState:
		return "state:" + ob.State, fmt.Sprintf("State: %s", ob.State)
	case catalog.JurisdictionCity:
		return "city:" + ob.City, fmt.Sprintf("City: %s", ob.City)
	default:
		return "federal", "Federal"
	}
}
