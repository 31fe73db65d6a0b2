// Package catalog defines the obligation catalog: the data-driven rule set
// describing regulatory obligations, the conditions under which each one
// applies to a business, and the remediation guidance shown when it does.
//
// The catalog is the unit of administration. It persists as an ordered JSON
// array keyed by obligation id; the stored order is the evaluation order.
// Evaluation semantics live in pkg/rules/engine; this package only owns the
// record types, the operator vocabulary, validation, and CRUD.
package catalog
