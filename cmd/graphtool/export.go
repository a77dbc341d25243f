package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jhoneill/MSGraphAPI/pkg/export"
)

func doExport(s settings, planID, format, outPath string) error {
	client := setupClient(s)

	plan, err := client.GetPlan(planID)
	if err != nil {
		return err
	}
	buckets, err := client.ListBuckets(planID)
	if err != nil {
		return err
	}
	tasks, err := client.ListTasks(planID)
	if err != nil {
		return err
	}

	rows := export.Rows(buckets, tasks)

	var w io.Writer = os.Stdout
	if outPath != "-" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "csv":
		err = export.WriteCSV(w, rows)
	case "pdf":
		err = export.WritePDF(w, plan.Title, rows)
	default:
		return fmt.Errorf("unsupported format, choose one of 'csv', 'pdf'")
	}
	if err != nil {
		return err
	}

	if outPath != "-" {
		fmt.Printf("%v exported %d tasks from %q to %q\n", checkmark, len(rows), plan.Title, outPath)
	}
	return nil
}
