package analyzers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/doc-insights/pkg/models/domain"
	"github.com/de-tools/doc-insights/pkg/services/insights/aggregate"
	"github.com/rs/zerolog"
)

const unassignedStep = "unassigned"

var historyLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

type approvalAnalyzer struct {
	settings Settings
}

func NewApprovalAnalyzer(settings Settings) ReportAnalyzer {
	return &approvalAnalyzer{settings: settings}
}

func (a *approvalAnalyzer) Name() string { return "approval" }

func (a *approvalAnalyzer) ReportType() domain.ReportType { return domain.ReportApprovalStatus }

func (a *approvalAnalyzer) Analyze(ctx context.Context, in Input) ([]domain.InsightEntry, error) {
	if len(in.Records) == 0 {
		return nil, nil
	}

	entries := []domain.InsightEntry{a.rates(in.Records)}
	entries = append(entries, a.bottleneck(in.Records)...)
	if e, ok := a.cycleTime(ctx, in.Records); ok {
		entries = append(entries, e)
	}
	return entries, nil
}

func (a *approvalAnalyzer) rates(records []domain.FinancialRecord) domain.InsightEntry {
	var approved, rejected, pending int
	for _, r := range records {
		switch r.Status {
		case domain.StatusApproved:
			approved++
		case domain.StatusRejected:
			rejected++
		case domain.StatusPending:
			pending++
		}
	}

	total := len(records)
	payload := domain.RatesPayload{
		Total:         total,
		ApprovalRate:  ratio(approved, total) * 100,
		RejectionRate: ratio(rejected, total) * 100,
		PendingRate:   ratio(pending, total) * 100,
	}

	return domain.InsightEntry{
		Category: domain.CategoryPattern,
		Type:     "approval_rates",
		Message: fmt.Sprintf("%.1f%% of %d documents approved, %.1f%% rejected",
			payload.ApprovalRate, total, payload.RejectionRate),
		Data: payload,
	}
}

// bottleneck reports the workflow step holding most pending documents that
// still have steps left.
func (a *approvalAnalyzer) bottleneck(records []domain.FinancialRecord) []domain.InsightEntry {
	var stuck []domain.FinancialRecord
	for _, r := range records {
		if r.Status == domain.StatusPending && r.PendingSteps > 0 {
			stuck = append(stuck, r)
		}
	}
	if len(stuck) == 0 {
		return nil
	}

	steps := aggregate.GroupByCategory(stuck, func(r domain.FinancialRecord) string {
		if step := strings.TrimSpace(r.CurrentStep); step != "" {
			return step
		}
		return unassignedStep
	})

	byStep := make(map[string]int, len(steps))
	worst := steps[0]
	for _, s := range steps {
		byStep[s.Key] = s.Count
		if s.Count > worst.Count {
			worst = s
		}
	}

	severity := domain.SeverityMedium
	if len(stuck) > a.settings.BottleneckHighSeverity {
		severity = domain.SeverityHigh
	}

	return []domain.InsightEntry{
		{
			Category: domain.CategoryRisk,
			Type:     "approval_bottleneck",
			Message: fmt.Sprintf("%s waiting at step %q (%d stuck in total)",
				plural(worst.Count, "document is", "documents are"), worst.Key, len(stuck)),
			Severity: severity,
			Data: domain.BottleneckPayload{
				Step:        worst.Key,
				StuckAtStep: worst.Count,
				TotalStuck:  len(stuck),
				ByStep:      byStep,
			},
		},
		{
			Category: domain.CategoryRecommendation,
			Type:     "escalate_bottleneck",
			Message:  fmt.Sprintf("Add approvers or escalate documents waiting at step %q", worst.Key),
		},
	}
}

// cycleTime averages the days between the first and last entry of each
// document's approval history. Missing or unparseable histories are skipped.
func (a *approvalAnalyzer) cycleTime(ctx context.Context, records []domain.FinancialRecord) (domain.InsightEntry, bool) {
	logger := zerolog.Ctx(ctx)

	var totalDays float64
	var documents int
	for _, r := range records {
		if len(r.ApprovalHistory) == 0 {
			continue
		}

		var history []domain.ApprovalEvent
		if err := json.Unmarshal(r.ApprovalHistory, &history); err != nil {
			logger.Debug().Err(err).Str("document", r.ID).Msg("skipping unparseable approval history")
			continue
		}
		if len(history) < 2 {
			continue
		}

		first, ok1 := parseHistoryTime(history[0].Timestamp)
		last, ok2 := parseHistoryTime(history[len(history)-1].Timestamp)
		if !ok1 || !ok2 {
			logger.Debug().Str("document", r.ID).Msg("skipping approval history with bad timestamps")
			continue
		}

		totalDays += last.Sub(first).Hours() / 24
		documents++
	}
	if documents == 0 {
		return domain.InsightEntry{}, false
	}

	avg := totalDays / float64(documents)
	return domain.InsightEntry{
		Category: domain.CategoryPattern,
		Type:     "approval_cycle_time",
		Message:  fmt.Sprintf("Documents take %.1f days on average from first to last approval step", avg),
		Data:     domain.DurationPayload{AverageDays: avg, Documents: documents},
	}, true
}

func parseHistoryTime(value string) (time.Time, bool) {
	for _, layout := range historyLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
