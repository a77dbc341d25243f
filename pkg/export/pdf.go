package export

import (
	"io"

	"github.com/jung-kurt/gofpdf"
)

var columnWidths = []float64{70, 35, 50, 35, 25, 22}

// WritePDF renders the rows as a one-table report titled after the
// plan, in landscape A4.
func WritePDF(w io.Writer, planTitle string, rows []Row) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(planTitle, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, planTitle, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range header {
		pdf.CellFormat(columnWidths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, r := range rows {
		cells := []string{r.Title, r.Bucket, r.Assignees, r.Progress, r.DueDate, r.Checklist}
		for i, cell := range cells {
			pdf.CellFormat(columnWidths[i], 6, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}
