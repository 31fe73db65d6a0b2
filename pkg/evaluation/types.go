// Package evaluation defines evaluation results, the explainable record of
// matching one business profile against the obligation catalog, plus the
// storage and export contracts around them.
//
// A Result is created exactly once per evaluation and is immutable
// thereafter. The wire format is camelCase and matches the original data
// files byte-for-byte in field naming, so existing evaluations.json files
// round-trip unchanged.
package evaluation

import (
	"context"
	"io"
	"time"

	"complyhq/compass/pkg/catalog"
)

// TriggerMatch explains one predicate evaluation: what was asked, what the
// profile actually contained, and whether it matched. Expected and Actual
// are omitted from the wire when absent, mirroring undefined in the source
// data model.
type TriggerMatch struct {
	FactPath string           `json:"factPath"`
	Operator catalog.Operator `json:"operator"`
	Expected any              `json:"expected,omitempty"`
	Actual   any              `json:"actual,omitempty"`
	Matched  bool             `json:"matched"`
}

// Explanation bundles the context a reader needs to understand one
// obligation's verdict without re-fetching the catalog entry.
type Explanation struct {
	Title             string               `json:"title"`
	Jurisdiction      catalog.Jurisdiction `json:"jurisdiction"`
	MatchedPredicates []TriggerMatch       `json:"matchedPredicates"`
}

// ObligationEvaluation is the verdict for one obligation: Applied is the
// AND of every trigger match. MatchedPredicates preserve trigger
// declaration order and always list every trigger, matched or not.
type ObligationEvaluation struct {
	ObligationID string      `json:"obligationId"`
	Applied      bool        `json:"applied"`
	Explanation  Explanation `json:"explanation"`
}

// Result is one full evaluation of a business against the catalog.
// AppliedObligations preserves catalog order and contains a verdict for
// every catalog entry, applied or not.
type Result struct {
	ID                 string                 `json:"id"`
	BusinessID         string                 `json:"businessId"`
	EvaluatedAt        string                 `json:"evaluatedAt"`
	AppliedObligations []ObligationEvaluation `json:"appliedObligations"`
}

// EvaluatedTime parses the RFC3339 evaluation timestamp. A zero time is
// returned when the timestamp is malformed.
func (r *Result) EvaluatedTime() time.Time {
	t, err := time.Parse(time.RFC3339, r.EvaluatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Applied returns the verdicts with Applied == true, preserving order.
func (r *Result) Applied() []ObligationEvaluation {
	var applied []ObligationEvaluation
	for _, oe := range r.AppliedObligations {
		if oe.Applied {
			applied = append(applied, oe)
		}
	}
	return applied
}

// Storage is the persistence contract for evaluation results.
// Implementations must be safe for concurrent use.
type Storage interface {
	// Append persists a newly computed result.
	Append(ctx context.Context, result *Result) error

	// Get retrieves a result by id, or ErrNotFound.
	Get(ctx context.Context, id string) (*Result, error)

	// List returns all results in append order.
	List(ctx context.Context) ([]*Result, error)

	// Count returns the number of stored results.
	Count(ctx context.Context) (int64, error)

	// DeleteOlderThan removes results evaluated before the cutoff and
	// returns how many were removed. Used by retention enforcement.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// Close releases any resources held by the backend.
	Close() error
}

// Exporter renders one evaluation result to an output format. The catalog
// snapshot supplies the obligation detail (actions, citations, penalties)
// that the result references by id.
type Exporter interface {
	Export(ctx context.Context, result *Result, cat *catalog.Catalog, w io.Writer) error
}
