package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/doc-insights/pkg/models/api"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported format %q (expected text or json)", s)
	}
}

type TableConfig struct {
	TypeWidth    int
	LevelWidth   int
	MessageWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		TypeWidth:    24,
		LevelWidth:   10,
		MessageWidth: 80,
	}
}

type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

type section struct {
	Title   string
	Entries []api.InsightEntry
}

const reportTemplate = `
Insight report: {{.Report.ReportType}}
Generated: {{.Report.GeneratedAt.Format "2006-01-02 15:04:05 MST"}}
Documents: {{.Report.Summary.DocumentCount}}  Total: {{.Report.Summary.TotalAmount.StringFixed 2}}  VAT: {{.Report.Summary.TotalVAT.StringFixed 2}}  Average: {{.Report.Summary.AverageAmount.StringFixed 2}}
{{range .Sections}}{{if .Entries}}
=== {{.Title}} ===
{{separator}}
{{formatRow "Type" "Level" "Message"}}
{{separator}}
{{range .Entries}}{{formatRow .Type (level .) .Message}}
{{end}}{{separator}}
{{end}}{{end}}{{if not .HasEntries}}
No insights for the selected documents.
{{end}}`

// Handle writes report in the requested format.
func (c *Reporter) Handle(report api.InsightReport, format Format) error {
	if format == FormatJSON {
		enc := json.NewEncoder(c.writer)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	funcMap := template.FuncMap{
		"formatRow": func(typ, level, message string) string {
			return fmt.Sprintf("| %-*s | %-*s | %-*s |",
				c.config.TypeWidth, typ,
				c.config.LevelWidth, level,
				c.config.MessageWidth, truncate(message, c.config.MessageWidth))
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+",
				strings.Repeat("-", c.config.TypeWidth+2),
				strings.Repeat("-", c.config.LevelWidth+2),
				strings.Repeat("-", c.config.MessageWidth+2))
		},
		"level": func(e api.InsightEntry) string {
			if e.Severity != "" {
				return string(e.Severity)
			}
			return string(e.Confidence)
		},
	}

	t, err := template.New("report").Funcs(funcMap).Parse(reportTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	sections := []section{
		{Title: "Trends", Entries: report.Trends},
		{Title: "Anomalies", Entries: report.Anomalies},
		{Title: "Predictions", Entries: report.Predictions},
		{Title: "Risks", Entries: report.Risks},
		{Title: "Patterns", Entries: report.Patterns},
		{Title: "Recommendations", Entries: report.Recommendations},
	}
	hasEntries := false
	for _, s := range sections {
		if len(s.Entries) > 0 {
			hasEntries = true
		}
	}

	return t.Execute(c.writer, struct {
		Report     api.InsightReport
		Sections   []section
		HasEntries bool
	}{report, sections, hasEntries})
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}
