package profile

// Facts flattens the profile into the nested fact document that trigger
// fact-paths resolve against. Keys mirror the wire names
// (e.g. "location.state", "activities.sellsAlcohol", "employeeCount").
//
// Two normalization rules keep predicate comparison coercion-free:
//   - numbers become float64, the same representation catalog JSON decodes
//     expected values into;
//   - optional string fields that were left blank are omitted entirely, so
//     exists/not_exists see them as absent rather than as empty strings.
func (p BusinessProfile) Facts() map[string]any {
	location := map[string]any{
		"state": p.Location.State,
	}
	putNonEmpty(location, "city", p.Location.City)
	putNonEmpty(location, "zip", p.Location.Zip)

	industry := map[string]any{}
	putNonEmpty(industry, "naicsCode", p.Industry.NAICSCode)
	putNonEmpty(industry, "description", p.Industry.Description)

	facts := map[string]any{
		"id":            p.ID,
		"createdAt":     p.CreatedAt,
		"updatedAt":     p.UpdatedAt,
		"location":      location,
		"industry":      industry,
		"employeeCount": float64(p.EmployeeCount),
		"entityType":    string(p.EntityType),
		"activities": map[string]any{
			"servesFood":                p.Activities.ServesFood,
			"sellsAlcohol":              p.Activities.SellsAlcohol,
			"handlesPersonalData":       p.Activities.HandlesPersonalData,
			"employsMinors":             p.Activities.EmploysMinors,
			"providesHealthcare":        p.Activities.ProvidesHealthcare,
			"operatesVehicles":          p.Activities.OperatesVehicles,
			"handlesHazardousMaterials": p.Activities.HandlesHazardousMaterial,
			"eCommerce":                 p.Activities.ECommerce,
		},
	}
	putNonEmpty(facts, "name", p.Name)

	return facts
}

func putNonEmpty(m map[string]any, key, value string) {
	if value != "" {
		m[key] = value
	}
}
