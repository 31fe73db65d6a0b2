package export

import (
	"context"
	"encoding/json"
	"io"

	"complyhq/compass/pkg/catalog"
	"complyhq/compass/pkg/evaluation"
)

// JSONExporter writes the raw evaluation result as JSON.
type JSONExporter struct {
	// Pretty enables indented output.
	Pretty bool
}

// NewJSONExporter creates a JSON exporter.
func NewJSONExporter(pretty bool) *JSONExporter {
	return &JSONExporter{Pretty: pretty}
}

// Export writes the result to w. The catalog is unused: the JSON format is
// the result record itself, which is already self-describing.
func (e *JSONExporter) Export(ctx context.Context, result *evaluation.Result, _ *catalog.Catalog, w io.Writer) error {
	var data []byte
	var err error

	if e.Pretty {
		data, err = json.MarshalIndent(result, "", "  ")
	} else {
		data, err = json.Marshal(result)
	}
	if err != nil {
		return evaluation.NewExportError("json", result.ID, err)
	}

	if _, err := w.Write(data); err != nil {
		return evaluation.NewExportError("json", result.ID, err)
	}
	return nil
}
