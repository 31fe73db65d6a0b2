package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"complyhq/compass/pkg/catalog"
	"complyhq/compass/pkg/checklist"
	"complyhq/compass/pkg/evaluation"
)

// Fixed page geometry, in points. Letter with 50pt margins and 16pt lines,
// the same layout the checklist has always shipped with.
const (
	pageWidth  = 612.0
	pageHeight = 792.0
	margin     = 50.0
	lineHeight = 16.0
)

// PDFExporter renders the grouped compliance checklist as a paginated PDF:
// a header with the evaluation identity, then each jurisdiction group with
// per-obligation guidance and the "Why this applies" predicate lines.
type PDFExporter struct{}

// NewPDFExporter creates a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Export writes the checklist PDF to w.
func (e *PDFExporter) Export(ctx context.Context, result *evaluation.Result, cat *catalog.Catalog, w io.Writer) error {
	doc := newChecklistDoc()

	doc.drawText("Compliance Checklist", true, 18)
	doc.space(8)
	doc.drawText(fmt.Sprintf("Evaluation ID: %s", result.ID), false, 12)
	evaluated := result.EvaluatedAt
	if t := result.EvaluatedTime(); !t.IsZero() {
		evaluated = t.Format(time.RFC1123)
	}
	doc.drawText(fmt.Sprintf("Evaluated: %s", evaluated), false, 12)
	doc.space(8)

	for _, group := range checklist.Build(result, cat) {
		doc.space(8)
		doc.drawText(group.Label, true, 16)

		for _, item := range group.Items {
			ob := item.Obligation
			doc.space(8)
			doc.drawText(ob.Title, true, 14)
			if ob.Summary != "" {
				doc.drawText(ob.Summary, false, 12)
			}
			if len(ob.Actions) > 0 {
				doc.drawText("Actions:", true, 12)
				for _, action := range ob.Actions {
					doc.drawText("- "+action.Summary, false, 12)
				}
			}
			if ob.Frequency != "" {
				doc.drawText("Frequency: "+ob.Frequency, false, 12)
			}
			if ob.Penalties != "" {
				doc.drawText("Penalties: "+ob.Penalties, false, 12)
			}
			if len(ob.Citations) > 0 {
				doc.drawText("Citations:", true, 12)
				for _, cit := range ob.Citations {
					doc.drawText(fmt.Sprintf("- %s (%s)", cit.Text, cit.URL), false, 12)
				}
			}
			doc.drawText("Why this applies:", true, 12)
			for _, match := range item.Verdict.Explanation.MatchedPredicates {
				doc.drawText("- "+formatPredicate(match), false, 12)
			}
		}
	}

	if err := doc.pdf.Output(w); err != nil {
		return evaluation.NewExportError("pdf", result.ID, err)
	}
	return nil
}

// formatPredicate renders one explanation line:
// "employeeCount gte 1 -> actual 5 [matched]".
func formatPredicate(m evaluation.TriggerMatch) string {
	verdict := "[matched]"
	if !m.Matched {
		verdict = "[not matched]"
	}
	expected := ""
	if m.Expected != nil {
		expected = " " + compactJSON(m.Expected)
	}
	return fmt.Sprintf("%s %s%s -> actual %s %s",
		m.FactPath, m.Operator, expected, compactJSON(m.Actual), verdict)
}

func compactJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

// checklistDoc tracks a vertical cursor over fixed-size pages, breaking to a
// new page whenever the next line would cross the bottom margin.
type checklistDoc struct {
	pdf *fpdf.Fpdf
	y   float64
}

func newChecklistDoc() *checklistDoc {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	return &checklistDoc{pdf: pdf, y: margin}
}

// drawText word-wraps text to the printable width and draws it line by line.
func (d *checklistDoc) drawText(text string, bold bool, size float64) {
	style := ""
	if bold {
		style = "B"
	}
	d.pdf.SetFont("Helvetica", style, size)

	for _, line := range d.wrap(text) {
		if d.y+lineHeight > pageHeight-margin {
			d.pdf.AddPage()
			d.y = margin
		}
		d.y += lineHeight
		d.pdf.Text(margin, d.y, line)
	}
}

// space advances the cursor without drawing.
func (d *checklistDoc) space(pts float64) {
	d.y += pts
}

// wrap splits text into lines that fit the printable width under the
// current font. A single word wider than the page stays on its own line.
func (d *checklistDoc) wrap(text string) []string {
	maxWidth := pageWidth - 2*margin

	var lines []string
	var current string
	for _, word := range strings.Fields(text) {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if d.pdf.GetStringWidth(candidate) > maxWidth && current != "" {
			lines = append(lines, current)
			current = word
			continue
		}
		current = candidate
	}
	if current != "" {
		lines = append(lines, current)
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines
}
