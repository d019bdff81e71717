package terminal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/de-tools/doc-insights/pkg/models/api"
	"github.com/de-tools/doc-insights/pkg/runtime/terminal/commands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeArchiver struct {
	bucket  string
	reports []api.InsightReport
}

func (f *fakeArchiver) Archive(_ context.Context, report api.InsightReport) (string, error) {
	f.reports = append(f.reports, report)
	return "insights/" + report.ReportType + "/test.json", nil
}

func writeDocuments(t *testing.T, dir string) string {
	var docs []string
	for i := 0; i < 12; i++ {
		vendor := "acme"
		if i%3 == 0 {
			vendor = "globex"
		}
		docs = append(docs, fmt.Sprintf(
			`{"id":"doc-%d","date":"2024-%02d-10","amount":"%d","vat":"%d","vendor_name":%q,"status":"approved"}`,
			i, i+1, 100+i*25, 20+i*5, vendor))
	}
	path := filepath.Join(dir, "documents.json")
	require.NoError(t, os.WriteFile(path, []byte("["+strings.Join(docs, ",")+"]"), 0o600))
	return path
}

func newTestCLI(out *bytes.Buffer, archiver *fakeArchiver) *CLI {
	return NewCLI(Options{
		Output: out,
		NewArchiver: func(_ context.Context, _ string, bucket string) (commands.Archiver, error) {
			archiver.bucket = bucket
			return archiver, nil
		},
	})
}

func TestCLI_AnalyzeFromFile(t *testing.T) {
	// Given
	dir := t.TempDir()
	input := writeDocuments(t, dir)
	var out bytes.Buffer
	archiver := &fakeArchiver{}
	cli := newTestCLI(&out, archiver)

	// When
	cli.SetArgs([]string{"analyze", "spend-summary", "--input", input, "--format", "json", "--archive-bucket", "reports"})
	err := cli.Execute()

	// Then
	require.NoError(t, err)
	var report api.InsightReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, "spend-summary", report.ReportType)
	assert.Equal(t, 12, report.Summary.DocumentCount)
	require.NotEmpty(t, report.Trends)
	assert.Equal(t, "spending_trend", report.Trends[0].Type)
	assert.Equal(t, api.ConfidenceHigh, report.Trends[0].Confidence)

	assert.Equal(t, "reports", archiver.bucket)
	require.Len(t, archiver.reports, 1)
}

func TestCLI_ImportThenAnalyzeProfile(t *testing.T) {
	// Given
	dir := t.TempDir()
	input := writeDocuments(t, dir)
	dbPath := filepath.Join(dir, "docs.db")
	profiles := filepath.Join(dir, "profiles.ini")
	require.NoError(t, os.WriteFile(profiles, []byte("[local]\ndriver = duckdb\npath = "+dbPath+"\n"), 0o600))

	var out bytes.Buffer
	cli := newTestCLI(&out, &fakeArchiver{})
	cli.SetArgs([]string{"import", "--input", input, "--db", dbPath})
	require.NoError(t, cli.Execute())
	assert.Contains(t, out.String(), "Imported 12 documents")

	// When
	out.Reset()
	cli = newTestCLI(&out, &fakeArchiver{})
	cli.SetArgs([]string{
		"analyze", "vendor-analysis",
		"--profile", "local", "--profiles-config", profiles,
		"--vendor", "acme",
	})
	err := cli.Execute()

	// Then
	require.NoError(t, err)
	text := out.String()
	assert.Contains(t, text, "Insight report: vendor-analysis")
	assert.Contains(t, text, "Documents: 8")

	// copying from the profile into another store keeps every document
	out.Reset()
	cli = newTestCLI(&out, &fakeArchiver{})
	cli.SetArgs([]string{
		"import", "--profile", "local", "--profiles-config", profiles,
		"--db", filepath.Join(dir, "copy.db"), "--from", "2024-07-01",
	})
	require.NoError(t, cli.Execute())
	assert.Contains(t, out.String(), "Imported 6 documents")
}

func TestCLI_AnalyzeErrors(t *testing.T) {
	dir := t.TempDir()
	input := writeDocuments(t, dir)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "unknown report type", args: []string{"analyze", "profit-and-loss", "--input", input}, want: "unsupported report type"},
		{name: "bad format", args: []string{"analyze", "spend-summary", "--input", input, "--format", "pdf"}, want: "unsupported format"},
		{name: "no source", args: []string{"analyze", "spend-summary"}, want: "input"},
		{name: "missing settings", args: []string{"analyze", "spend-summary", "--input", input, "--settings", filepath.Join(dir, "nope.yaml")}, want: "settings"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			cli := newTestCLI(&out, &fakeArchiver{})
			cli.SetArgs(tt.args)

			err := cli.Execute()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCLI_ReportTypes(t *testing.T) {
	var out bytes.Buffer
	cli := newTestCLI(&out, &fakeArchiver{})
	cli.SetArgs([]string{"report-types"})

	require.NoError(t, cli.Execute())
	assert.Equal(t, "approval-status\nspend-summary\ntax-vat-report\nvendor-analysis\n", out.String())
}
