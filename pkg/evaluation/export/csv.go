package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"complyhq/compass/pkg/catalog"
	"complyhq/compass/pkg/evaluation"
)

// CSVExporter writes one row per obligation verdict, with the predicate
// explanations flattened into a JSON column.
type CSVExporter struct {
	// IncludeHeader includes a header row with column names.
	IncludeHeader bool
}

// NewCSVExporter creates a CSV exporter.
func NewCSVExporter(includeHeader bool) *CSVExporter {
	return &CSVExporter{IncludeHeader: includeHeader}
}

// Export writes the result to w in CSV format.
func (e *CSVExporter) Export(ctx context.Context, result *evaluation.Result, cat *catalog.Catalog, w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if e.IncludeHeader {
		header := []string{
			"evaluation_id", "business_id", "evaluated_at",
			"obligation_id", "title", "jurisdiction", "state", "city",
			"applied", "matched_predicates",
		}
		if err := writer.Write(header); err != nil {
			return evaluation.NewExportError("csv", result.ID, err)
		}
	}

	for _, verdict := range result.AppliedObligations {
		var state, city string
		if ob, ok := cat.ByID(verdict.ObligationID); ok {
			state, city = ob.State, ob.City
		}

		predicates, err := json.Marshal(verdict.Explanation.MatchedPredicates)
		if err != nil {
			return evaluation.NewExportError("csv", result.ID, err)
		}

		row := []string{
			result.ID,
			result.BusinessID,
			result.EvaluatedAt,
			verdict.ObligationID,
			verdict.Explanation.Title,
			string(verdict.Explanation.Jurisdiction),
			state,
			city,
			fmt.Sprintf("%t", verdict.Applied),
			string(predicates),
		}
		if err := writer.Write(row); err != nil {
			return evaluation.NewExportError("csv", result.ID, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return evaluation.NewExportError("csv", result.ID, err)
	}
	return nil
}
