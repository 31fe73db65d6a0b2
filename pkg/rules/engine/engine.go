package engine

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"complyhq/compass/pkg/catalog"
	"complyhq/compass/pkg/evaluation"
	"complyhq/compass/pkg/profile"
)

// Evaluator matches business profiles against obligation catalogs.
// The zero value is not usable; create one with New.
type Evaluator struct {
	logger *slog.Logger
}

// New creates an evaluator. A nil logger uses the process default.
func New(logger *slog.Logger) *Evaluator {
	if logger == nil {
		logger = slog.Default().With("component", "rules.engine")
	}
	return &Evaluator{logger: logger}
}

// EvaluateObligation produces the verdict for one obligation against one
// fact document. Every trigger is evaluated and reported in declaration
// order. There is no short-circuit, because the explanation has to show
// the full picture, not just the first failure. An obligation with no
// triggers is vacuously applied.
func (e *Evaluator) EvaluateObligation(ob catalog.Obligation, facts map[string]any) evaluation.ObligationEvaluation {
	matches := make([]evaluation.TriggerMatch, 0, len(ob.Triggers))
	applied := true

	for _, trig := range ob.Triggers {
		actual, found := resolveFact(facts, trig.Fact)
		matched := compare(trig.Operator, actual, found, trig.Value)

		e.logger.Debug("trigger evaluated",
			"obligation_id", ob.ID,
			"fact", trig.Fact,
			"operator", trig.Operator,
			"expected", trig.Value,
			"actual", actual,
			"matched", matched,
		)

		matches = append(matches, evaluation.TriggerMatch{
			FactPath: trig.Fact,
			Operator: trig.Operator,
			Expected: trig.Value,
			Actual:   actual,
			Matched:  matched,
		})
		applied = applied && matched
	}

	return evaluation.ObligationEvaluation{
		ObligationID: ob.ID,
		Applied:      applied,
		Explanation: evaluation.Explanation{
			Title:             ob.Title,
			Jurisdiction:      ob.Jurisdiction,
			MatchedPredicates: matches,
		},
	}
}

// Evaluate matches a business profile against a catalog snapshot and
// produces a fresh evaluation Result: a verdict for every catalog entry in
// stored order, a new result id, and a UTC timestamp. Persistence is the
// caller's concern.
func (e *Evaluator) Evaluate(p profile.BusinessProfile, cat *catalog.Catalog) *evaluation.Result {
	start := time.Now()
	facts := p.Facts()

	verdicts := make([]evaluation.ObligationEvaluation, 0, cat.Len())
	appliedCount := 0
	for _, ob := range cat.Obligations() {
		verdict := e.EvaluateObligation(ob, facts)
		if verdict.Applied {
			appliedCount++
		}
		verdicts = append(verdicts, verdict)
	}

	result := &evaluation.Result{
		ID:                 uuid.NewString(),
		BusinessID:         p.ID,
		EvaluatedAt:        time.Now().UTC().Format(time.RFC3339),
		AppliedObligations: verdicts,
	}

	e.logger.Info("evaluation completed",
		"evaluation_id", result.ID,
		"business_id", p.ID,
		"obligation_count", cat.Len(),
		"applied_count", appliedCount,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return result
}
