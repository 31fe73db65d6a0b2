package catalog

import (
	"fmt"
	"strings"
	"time"
)

// Catalog is an ordered collection of obligations. Order is significant: it
// is the order entries were stored in, and evaluation results preserve it.
// A Catalog handed to the evaluator is treated as a read-only snapshot.
type Catalog struct {
	obligations []Obligation
	index       map[string]int
}

// New builds a catalog from obligations in stored order.
// The input slice is copied; later mutation of it does not affect the catalog.
func New(obligations []Obligation) *Catalog {
	c := &Catalog{
		obligations: append([]Obligation(nil), obligations...),
		index:       make(map[string]int, len(obligations)),
	}
	for i, o := range c.obligations {
		c.index[o.ID] = i
	}
	return c
}

// Len returns the number of obligations in the catalog.
func (c *Catalog) Len() int {
	return len(c.obligations)
}

// Obligations returns the obligations in stored order.
// The returned slice is a copy; callers may not mutate catalog state through it.
func (c *Catalog) Obligations() []Obligation {
	return append([]Obligation(nil), c.obligations...)
}

// ByID looks up an obligation by id.
func (c *Catalog) ByID(id string) (Obligation, bool) {
	i, ok := c.index[id]
	if !ok {
		return Obligation{}, false
	}
	return c.obligations[i], true
}

// ValidationIssue is one problem found while validating a catalog.
// Warnings do not block loading; errors do.
type ValidationIssue struct {
	ObligationID string
	Field        string
	Message      string
	Warning      bool
}

func (i ValidationIssue) String() string {
	kind := "error"
	if i.Warning {
		kind = "warning"
	}
	if i.ObligationID == "" {
		return fmt.Sprintf("%s: %s", kind, i.Message)
	}
	return fmt.Sprintf("%s: obligation %q: %s: %s", kind, i.ObligationID, i.Field, i.Message)
}

// Validate checks structural integrity of a list of obligations: unique
// non-empty ids, known jurisdictions with the required qualifier, known
// operators, non-empty fact paths, and citation URLs present. It also emits
// warnings for inverted effective-date windows.
//
// It returns all issues found rather than stopping at the first, so a
// `compass catalog validate` run reports the full picture.
func Validate(obligations []Obligation) []ValidationIssue {
	var issues []ValidationIssue
	seen := make(map[string]bool, len(obligations))

	for _, o := range obligations {
		if strings.TrimSpace(o.ID) == "" {
			issues = append(issues, ValidationIssue{Field: "id", Message: "obligation id is required"})
			continue
		}
		if seen[o.ID] {
			issues = append(issues, ValidationIssue{ObligationID: o.ID, Field: "id", Message: "duplicate obligation id"})
		}
		seen[o.ID] = true

		if strings.TrimSpace(o.Title) == "" {
			issues = append(issues, ValidationIssue{ObligationID: o.ID, Field: "title", Message: "title is required"})
		}

		if !o.Jurisdiction.Valid() {
			issues = append(issues, ValidationIssue{
				ObligationID: o.ID, Field: "jurisdiction",
				Message: fmt.Sprintf("unknown jurisdiction %q", o.Jurisdiction),
			})
		}
		if o.Jurisdiction == JurisdictionState && o.State == "" {
			issues = append(issues, ValidationIssue{ObligationID: o.ID, Field: "state", Message: "state rules require a state code"})
		}
		if o.Jurisdiction == JurisdictionCity && o.City == "" {
			issues = append(issues, ValidationIssue{ObligationID: o.ID, Field: "city", Message: "city rules require a city name"})
		}

		for ti, trig := range o.Triggers {
			if strings.TrimSpace(trig.Fact) == "" {
				issues = append(issues, ValidationIssue{
					ObligationID: o.ID,
					Field:        fmt.Sprintf("triggers[%d].fact", ti),
					Message:      "fact path is required",
				})
			}
			if !trig.Operator.Valid() {
				// Unknown operators evaluate as non-match, so this is a
				// warning: the catalog loads, but the rule can never apply.
				issues = append(issues, ValidationIssue{
					ObligationID: o.ID,
					Field:        fmt.Sprintf("triggers[%d].operator", ti),
					Message:      fmt.Sprintf("unknown operator %q (trigger will never match)", trig.Operator),
					Warning:      true,
				})
			}
		}

		for ci, cit := range o.Citations {
			if strings.TrimSpace(cit.URL) == "" {
				issues = append(issues, ValidationIssue{
					ObligationID: o.ID,
					Field:        fmt.Sprintf("citations[%d].url", ci),
					Message:      "citation url is required",
				})
			}
		}

		if o.EffectiveFrom != "" && o.EffectiveTo != "" {
			from, errFrom := time.Parse("2006-01-02", o.EffectiveFrom)
			to, errTo := time.Parse("2006-01-02", o.EffectiveTo)
			if errFrom == nil && errTo == nil && to.Before(from) {
				issues = append(issues, ValidationIssue{
					ObligationID: o.ID,
					Field:        "effective_to",
					Message:      "effective window ends before it starts",
					Warning:      true,
				})
			}
		}
	}

	return issues
}

// Errors filters issues down to hard errors (non-warnings).
func Errors(issues []ValidationIssue) []ValidationIssue {
	var errs []ValidationIssue
	for _, i := range issues {
		if !i.Warning {
			errs = append(errs, i)
		}
	}
	return errs
}
