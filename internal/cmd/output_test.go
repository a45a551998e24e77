package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jimezsa/proxyprobe/internal/models"
	"github.com/jimezsa/proxyprobe/internal/ui"
)

func testContext(out, errOut *bytes.Buffer) *Context {
	return &Context{
		Out: out,
		Err: errOut,
		UI:  ui.New(out, errOut, ui.ColorNever, true),
	}
}

func sampleOutcomes() ([]models.Outcome, models.Report) {
	outcomes := []models.Outcome{
		{Kind: models.KindSuccess, Status: 200, Origin: "10.0.0.1"},
		{Kind: models.KindSuccess, Status: 200, Origin: "10.0.0.2"},
		{Kind: models.KindSuccess, Status: 200, Origin: "10.0.0.1"},
		{Kind: models.KindTimeout, Detail: "deadline exceeded"},
	}
	return outcomes, models.BuildReport(outcomes)
}

func TestWriteFanoutReportJSON(t *testing.T) {
	var out, errOut bytes.Buffer
	ctx := testContext(&out, &errOut)
	ctx.JSONOutput = true

	outcomes, report := sampleOutcomes()
	if err := writeFanoutReport(ctx, outcomes, report); err != nil {
		t.Fatalf("writeFanoutReport() error = %v", err)
	}

	var decoded fanoutReport
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if len(decoded.Outcomes) != 4 {
		t.Fatalf("outcomes = %d, want 4", len(decoded.Outcomes))
	}
	if decoded.Distribution["10.0.0.1"] != 2 {
		t.Fatalf("distribution = %v", decoded.Distribution)
	}
}

func TestWriteFanoutReportPlain(t *testing.T) {
	var out, errOut bytes.Buffer
	ctx := testContext(&out, &errOut)
	ctx.PlainText = true

	outcomes, report := sampleOutcomes()
	if err := writeFanoutReport(ctx, outcomes, report); err != nil {
		t.Fatalf("writeFanoutReport() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	want := []string{"10.0.0.1\t2", "10.0.0.2\t1"}
	if len(lines) != len(want) || lines[0] != want[0] || lines[1] != want[1] {
		t.Fatalf("plain output = %q, want %q", lines, want)
	}
}

func TestWriteFanoutReportTable(t *testing.T) {
	var out, errOut bytes.Buffer
	ctx := testContext(&out, &errOut)

	outcomes, report := sampleOutcomes()
	if err := writeFanoutReport(ctx, outcomes, report); err != nil {
		t.Fatalf("writeFanoutReport() error = %v", err)
	}
	if !strings.Contains(out.String(), "origin") || !strings.Contains(out.String(), "10.0.0.1") {
		t.Fatalf("table output missing rows: %q", out.String())
	}
}

func TestSaveFanoutReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	outcomes, report := sampleOutcomes()
	if err := saveFanoutReport(path, outcomes, report); err != nil {
		t.Fatalf("saveFanoutReport() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var decoded fanoutReport
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid report file: %v", err)
	}
	if decoded.Distribution["10.0.0.2"] != 1 {
		t.Fatalf("distribution = %v", decoded.Distribution)
	}
}

func TestWriteCheckResults(t *testing.T) {
	results := []CheckResult{
		{Proxy: "http://localhost:3128", Status: "200", LatencyMS: 12},
		{Proxy: "http://two.example:3128", Status: "error", Kind: "connect", Error: "connection refused"},
	}

	var out, errOut bytes.Buffer
	ctx := testContext(&out, &errOut)
	ctx.JSONOutput = true
	if err := writeCheckResults(ctx, results); err != nil {
		t.Fatalf("writeCheckResults() error = %v", err)
	}
	var decoded []CheckResult
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if len(decoded) != 2 || decoded[1].Kind != "connect" {
		t.Fatalf("decoded = %+v", decoded)
	}

	out.Reset()
	ctx.JSONOutput = false
	if err := writeCheckResults(ctx, results); err != nil {
		t.Fatalf("writeCheckResults() table error = %v", err)
	}
	if !strings.Contains(out.String(), "latency_ms") {
		t.Fatalf("table output missing header: %q", out.String())
	}
}

func TestVersionCmd(t *testing.T) {
	var out, errOut bytes.Buffer
	ctx := testContext(&out, &errOut)
	ctx.Version = "1.2.3"

	cmd := VersionCmd{}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if strings.TrimSpace(out.String()) != "1.2.3" {
		t.Fatalf("version output = %q", out.String())
	}
}
