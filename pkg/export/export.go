// Package export flattens a Planner plan into tabular form and writes
// it as a spreadsheet (CSV) or as a PDF report.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	msgraph "github.com/jhoneill/MSGraphAPI"
)

// Row is one task flattened for tabular output.
type Row struct {
	Title     string
	Bucket    string
	Assignees string
	Progress  string
	DueDate   string
	Checklist string
}

var header = []string{"Task", "Bucket", "Assigned To", "Progress", "Due Date", "Checklist"}

// Rows flattens the tasks of a plan. Bucket IDs are translated to
// bucket names; tasks keep their input order.
func Rows(buckets []*msgraph.Bucket, tasks []*msgraph.Task) []Row {
	names := make(map[string]string, len(buckets))
	for _, b := range buckets {
		names[b.ID] = b.Name
	}

	rows := make([]Row, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, Row{
			Title:     t.Title,
			Bucket:    names[t.BucketID],
			Assignees: assignees(t),
			Progress:  progress(t.PercentComplete),
			DueDate:   dueDate(t.DueDateTime),
			Checklist: checklist(t),
		})
	}
	return rows
}

func assignees(t *msgraph.Task) string {
	ids := make([]string, 0, len(t.Assignments))
	for id := range t.Assignments {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return strings.Join(ids, "; ")
}

func progress(percent int) string {
	switch percent {
	case 0:
		return "Not started"
	case 100:
		return "Completed"
	default:
		return fmt.Sprintf("In progress (%d%%)", percent)
	}
}

func dueDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func checklist(t *msgraph.Task) string {
	if t.ChecklistItems == 0 {
		return ""
	}
	done := t.ChecklistItems - t.ChecklistOpen
	return fmt.Sprintf("%d/%d", done, t.ChecklistItems)
}

// WriteCSV writes the rows, preceded by a header line.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{r.Title, r.Bucket, r.Assignees, r.Progress, r.DueDate, r.Checklist}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
