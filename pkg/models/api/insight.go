package api

import "time"

type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

type Severity string

const (
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type InsightEntry struct {
	Type       string     `json:"type"`
	Message    string     `json:"message"`
	Confidence Confidence `json:"confidence,omitempty"`
	Severity   Severity   `json:"severity,omitempty"`
	Data       any        `json:"data,omitempty"`
}

type InsightReport struct {
	ReportType      string         `json:"report_type"`
	GeneratedAt     time.Time      `json:"generated_at"`
	Summary         Summary        `json:"summary"`
	Trends          []InsightEntry `json:"trends"`
	Anomalies       []InsightEntry `json:"anomalies"`
	Predictions     []InsightEntry `json:"predictions"`
	Recommendations []InsightEntry `json:"recommendations"`
	Patterns        []InsightEntry `json:"patterns"`
	Risks           []InsightEntry `json:"risks"`
}

type ReportTypes struct {
	ReportTypes []string `json:"report_types"`
}
