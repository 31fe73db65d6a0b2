// Package profile defines the business profile: the structured answers from
// the intake questionnaire that obligation triggers are matched against.
//
// A profile is immutable for the purposes of evaluation; the engine only
// ever sees the fact document produced by Facts.
package profile

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EntityType is the legal structure of the business.
type EntityType string

const (
	EntityLLC         EntityType = "llc"
	EntitySCorp       EntityType = "s_corp"
	EntityCCorp       EntityType = "c_corp"
	EntitySoleProp    EntityType = "sole_prop"
	EntityPartnership EntityType = "partnership"
	EntityNonprofit   EntityType = "nonprofit"
)

// Valid reports whether t is a known entity type.
func (t EntityType) Valid() bool {
	switch t {
	case EntityLLC, EntitySCorp, EntityCCorp, EntitySoleProp, EntityPartnership, EntityNonprofit:
		return true
	default:
		return false
	}
}

// Location is where the business operates. State is required; city and zip
// are optional and only matter to state/city-scoped obligations.
type Location struct {
	State string `json:"state"`
	City  string `json:"city,omitempty"`
	Zip   string `json:"zip,omitempty"`
}

// Industry describes what the business does, by NAICS code and/or free text.
type Industry struct {
	NAICSCode   string `json:"naicsCode,omitempty"`
	Description string `json:"description,omitempty"`
}

// Activities is the fixed set of regulated-activity flags from the intake
// questionnaire. Unset flags are false on the wire, matching the original
// intake coercion.
type Activities struct {
	ServesFood               bool `json:"servesFood"`
	SellsAlcohol             bool `json:"sellsAlcohol"`
	HandlesPersonalData      bool `json:"handlesPersonalData"`
	EmploysMinors            bool `json:"employsMinors"`
	ProvidesHealthcare       bool `json:"providesHealthcare"`
	OperatesVehicles         bool `json:"operatesVehicles"`
	HandlesHazardousMaterial bool `json:"handlesHazardousMaterials"`
	ECommerce                bool `json:"eCommerce"`
}

// BusinessProfile is one business's intake answers plus identity metadata.
type BusinessProfile struct {
	ID        string `json:"id"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
	Name      string `json:"name,omitempty"`

	Location      Location   `json:"location"`
	Industry      Industry   `json:"industry"`
	EmployeeCount int        `json:"employeeCount"`
	EntityType    EntityType `json:"entityType"`
	Activities    Activities `json:"activities"`
}

// New stamps identity and timestamps onto intake answers, producing a
// profile ready for evaluation. The caller owns the result.
func New(name string, loc Location, ind Industry, employees int, entity EntityType, acts Activities) BusinessProfile {
	now := time.Now().UTC().Format(time.RFC3339)
	return BusinessProfile{
		ID:            uuid.NewString(),
		CreatedAt:     now,
		UpdatedAt:     now,
		Name:          name,
		Location:      loc,
		Industry:      ind,
		EmployeeCount: employees,
		EntityType:    entity,
		Activities:    acts,
	}
}

// Validate checks intake-level invariants: a state code, a known entity
// type, and a non-negative employee count.
func (p BusinessProfile) Validate() error {
	if p.Location.State == "" {
		return fmt.Errorf("location.state is required")
	}
	if !p.EntityType.Valid() {
		return fmt.Errorf("unknown entityType %q", p.EntityType)
	}
	if p.EmployeeCount < 0 {
		return fmt.Errorf("employeeCount must be non-negative, got %d", p.EmployeeCount)
	}
	return nil
}
