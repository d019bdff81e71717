package analyzers

import (
	"context"
	"testing"

	"github.com/de-tools/doc-insights/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func approvalRecords() []domain.FinancialRecord {
	var records []domain.FinancialRecord
	records = append(records,
		rec("2024-01-01", "100", withHistory(`[{"step":"manager","action":"approve","timestamp":"2024-01-01"},{"step":"finance","action":"approve","timestamp":"2024-01-03"}]`)),
		rec("2024-01-02", "100", withHistory(`[{"step":"manager","action":"approve","timestamp":"2024-01-01T10:00:00Z"},{"step":"finance","action":"approve","timestamp":"2024-01-05T10:00:00Z"}]`)),
		rec("2024-01-03", "100", withHistory(`not json`)),
		rec("2024-01-04", "100", withHistory(`[{"step":"manager","action":"approve","timestamp":"2024-01-04"}]`)),
		rec("2024-01-05", "100", withStatus(domain.StatusRejected)),
		rec("2024-01-06", "100", withStatus(domain.StatusPending), withStep("finance", 1)),
		rec("2024-01-07", "100", withStatus(domain.StatusPending), withStep("manager", 2)),
		rec("2024-01-08", "100", withStatus(domain.StatusPending), withStep("finance", 1)),
		rec("2024-01-09", "100", withStatus(domain.StatusPending), withStep("finance", 1)),
		rec("2024-01-10", "100", withStatus(domain.StatusPending), withStep("finance", 0)),
	)
	return records
}

func TestApprovalAnalyzer_Analyze(t *testing.T) {
	// Given
	records := approvalRecords()

	// When
	entries, err := NewApprovalAnalyzer(DefaultSettings()).Analyze(context.Background(), Input{Records: records})

	// Then
	require.NoError(t, err)

	rates, ok := findEntry(entries, "approval_rates")
	require.True(t, ok)
	payload := rates.Data.(domain.RatesPayload)
	assert.Equal(t, 10, payload.Total)
	assert.InDelta(t, 40.0, payload.ApprovalRate, 1e-9)
	assert.InDelta(t, 10.0, payload.RejectionRate, 1e-9)
	assert.InDelta(t, 50.0, payload.PendingRate, 1e-9)

	bottleneck, ok := findEntry(entries, "approval_bottleneck")
	require.True(t, ok)
	assert.Equal(t, domain.CategoryRisk, bottleneck.Category)
	assert.Equal(t, domain.SeverityMedium, bottleneck.Severity)
	assert.Equal(t, domain.BottleneckPayload{
		Step:        "finance",
		StuckAtStep: 3,
		TotalStuck:  4,
		ByStep:      map[string]int{"finance": 3, "manager": 1},
	}, bottleneck.Data)
	_, ok = findEntry(entries, "escalate_bottleneck")
	assert.True(t, ok)

	cycle, ok := findEntry(entries, "approval_cycle_time")
	require.True(t, ok)
	duration := cycle.Data.(domain.DurationPayload)
	assert.Equal(t, 2, duration.Documents)
	assert.InDelta(t, 3.0, duration.AverageDays, 1e-9)
}

func TestApprovalAnalyzer_HighSeverityBottleneck(t *testing.T) {
	var records []domain.FinancialRecord
	for i := 0; i < 11; i++ {
		records = append(records, rec("2024-02-01", "50", withStatus(domain.StatusPending), withStep("", 1)))
	}

	entries, err := NewApprovalAnalyzer(DefaultSettings()).Analyze(context.Background(), Input{Records: records})

	require.NoError(t, err)
	bottleneck, ok := findEntry(entries, "approval_bottleneck")
	require.True(t, ok)
	assert.Equal(t, domain.SeverityHigh, bottleneck.Severity)
	assert.Equal(t, unassignedStep, bottleneck.Data.(domain.BottleneckPayload).Step)
	_, ok = findEntry(entries, "approval_cycle_time")
	assert.False(t, ok)
}

func TestApprovalAnalyzer_NoRecords(t *testing.T) {
	entries, err := NewApprovalAnalyzer(DefaultSettings()).Analyze(context.Background(), Input{})

	require.NoError(t, err)
	assert.Empty(t, entries)
}
