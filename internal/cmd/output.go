package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/jimezsa/proxyprobe/internal/models"
)

type fanoutReport struct {
	Outcomes     []models.Outcome `json:"outcomes"`
	Distribution map[string]int   `json:"distribution"`
}

func writeFanoutReport(ctx *Context, outcomes []models.Outcome, report models.Report) error {
	if ctx.JSONOutput {
		return writeJSON(ctx.Out, fanoutReport{Outcomes: outcomes, Distribution: report})
	}

	if ctx.PlainText {
		for _, origin := range report.Keys() {
			fmt.Fprintf(ctx.Out, "%s\t%d\n", origin, report[origin])
		}
		return nil
	}

	ctx.UI.Printf("Origin distribution:")
	tw := tabwriter.NewWriter(ctx.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "origin\trequests")
	for _, origin := range report.Keys() {
		fmt.Fprintf(tw, "%s\t%d\n", origin, report[origin])
	}
	return tw.Flush()
}

func saveFanoutReport(path string, outcomes []models.Outcome, report models.Report) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return writeJSON(file, fanoutReport{Outcomes: outcomes, Distribution: report})
}

func writeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
