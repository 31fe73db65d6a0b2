package profile

import "testing"

func TestFactsNormalization(t *testing.T) {
	p := New(
		"Acme",
		Location{State: "CA", City: "San Jose"},
		Industry{NAICSCode: "722511"},
		5,
		EntityLLC,
		Activities{ServesFood: true},
	)

	facts := p.Facts()

	if got := facts["employeeCount"]; got != float64(5) {
		t.Errorf("employeeCount = %#v, want float64(5)", got)
	}
	if got := facts["entityType"]; got != "llc" {
		t.Errorf("entityType = %#v", got)
	}

	location, ok := facts["location"].(map[string]any)
	if !ok {
		t.Fatal("location fact is not a map")
	}
	if location["state"] != "CA" || location["city"] != "San Jose" {
		t.Errorf("location = %#v", location)
	}
	// Blank zip must be absent, not "".
	if _, present := location["zip"]; present {
		t.Error("blank zip should be omitted from facts")
	}

	activities, ok := facts["activities"].(map[string]any)
	if !ok {
		t.Fatal("activities fact is not a map")
	}
	if activities["servesFood"] != true {
		t.Error("servesFood should be true")
	}
	if activities["handlesHazardousMaterials"] != false {
		t.Error("unset activity flags should be present and false")
	}
}

func TestFactsOmitsBlankOptionalStrings(t *testing.T) {
	p := New("", Location{State: "NY"}, Industry{}, 0, EntitySoleProp, Activities{})

	facts := p.Facts()

	if _, present := facts["name"]; present {
		t.Error("blank name should be omitted")
	}
	industry, ok := facts["industry"].(map[string]any)
	if !ok {
		t.Fatal("industry fact is not a map")
	}
	if len(industry) != 0 {
		t.Errorf("industry should be empty, got %#v", industry)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*BusinessProfile)
		wantErr bool
	}{
		{"valid", func(p *BusinessProfile) {}, false},
		{"missing state", func(p *BusinessProfile) { p.Location.State = "" }, true},
		{"unknown entity type", func(p *BusinessProfile) { p.EntityType = "trust" }, true},
		{"negative employee count", func(p *BusinessProfile) { p.EmployeeCount = -1 }, true},
		{"zero employees is fine", func(p *BusinessProfile) { p.EmployeeCount = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New("Acme", Location{State: "CA"}, Industry{}, 3, EntityLLC, Activities{})
			tt.mutate(&p)
			err := p.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewStampsIdentity(t *testing.T) {
	a := New("A", Location{State: "CA"}, Industry{}, 1, EntityLLC, Activities{})
	b := New("B", Location{State: "CA"}, Industry{}, 1, EntityLLC, Activities{})

	if a.ID == "" || b.ID == "" || a.ID == b.ID {
		t.Errorf("ids must be fresh and unique: %q vs %q", a.ID, b.ID)
	}
	if a.CreatedAt == "" || a.CreatedAt != a.UpdatedAt {
		t.Errorf("timestamps: createdAt=%q updatedAt=%q", a.CreatedAt, a.UpdatedAt)
	}
}
