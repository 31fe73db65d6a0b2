// Package engine implements obligation applicability evaluation.
//
// The engine is pure: given a business profile's fact document and a catalog
// snapshot, it resolves each trigger's fact-path, compares the resolved
// value against the trigger's expected value, and aggregates the verdicts
// into an explainable evaluation result. It performs no I/O, holds no
// state, and is safe to call concurrently as long as the catalog snapshot
// is not mutated mid-evaluation.
//
// Every failure mode inside the engine collapses to "does not match":
// missing fields resolve to absent rather than erroring, unknown operators
// fail closed, and numeric comparisons on non-numeric operands fail closed.
// An evaluation therefore cannot fail, only obligations can.
package engine
