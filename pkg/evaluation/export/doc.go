// Package export renders evaluation results for download: machine formats
// (JSON, CSV) and the paginated PDF compliance checklist.
package export
