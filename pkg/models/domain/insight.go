package domain

import (
	"fmt"
	"math"
)

type Category int

const (
	CategoryTrend Category = iota
	CategoryAnomaly
	CategoryPrediction
	CategoryRecommendation
	CategoryPattern
	CategoryRisk
)

func (c Category) String() string {
	switch c {
	case CategoryTrend:
		return "trend"
	case CategoryAnomaly:
		return "anomaly"
	case CategoryPrediction:
		return "prediction"
	case CategoryRecommendation:
		return "recommendation"
	case CategoryPattern:
		return "pattern"
	case CategoryRisk:
		return "risk"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

type Confidence int

const (
	ConfidenceUnset Confidence = iota
	ConfidenceLow
	ConfidenceMedium
	ConfidenceHigh
)

type Severity int

const (
	SeverityUnset Severity = iota
	SeverityMedium
	SeverityHigh
)

// Payload is the category specific part of an InsightEntry.
// Numbers exposes every numeric field so non-finite values can be rejected.
type Payload interface {
	Numbers() []float64
}

type InsightEntry struct {
	Category   Category
	Type       string
	Message    string
	Confidence Confidence
	Severity   Severity
	Data       Payload
}

// Validate reports an error when the payload carries NaN or Inf.
func (e InsightEntry) Validate() error {
	if e.Data == nil {
		return nil
	}
	for _, n := range e.Data.Numbers() {
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return fmt.Errorf("%s entry %q carries non-finite value", e.Category, e.Type)
		}
	}
	return nil
}

type InsightReport struct {
	Trends          []InsightEntry
	Anomalies       []InsightEntry
	Predictions     []InsightEntry
	Recommendations []InsightEntry
	Patterns        []InsightEntry
	Risks           []InsightEntry
}

func NewInsightReport() *InsightReport {
	return &InsightReport{
		Trends:          []InsightEntry{},
		Anomalies:       []InsightEntry{},
		Predictions:     []InsightEntry{},
		Recommendations: []InsightEntry{},
		Patterns:        []InsightEntry{},
		Risks:           []InsightEntry{},
	}
}

func (r *InsightReport) Add(e InsightEntry) {
	switch e.Category {
	case CategoryTrend:
		r.Trends = append(r.Trends, e)
	case CategoryAnomaly:
		r.Anomalies = append(r.Anomalies, e)
	case CategoryPrediction:
		r.Predictions = append(r.Predictions, e)
	case CategoryRecommendation:
		r.Recommendations = append(r.Recommendations, e)
	case CategoryPattern:
		r.Patterns = append(r.Patterns, e)
	case CategoryRisk:
		r.Risks = append(r.Risks, e)
	}
}

func (r *InsightReport) Len() int {
	return len(r.Trends) + len(r.Anomalies) + len(r.Predictions) +
		len(r.Recommendations) + len(r.Patterns) + len(r.Risks)
}
