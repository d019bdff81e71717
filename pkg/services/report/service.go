package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/doc-insights/pkg/adapters"
	"github.com/de-tools/doc-insights/pkg/models/domain"
	"github.com/de-tools/doc-insights/pkg/models/store"
	"github.com/de-tools/doc-insights/pkg/services/insights/aggregate"
	"github.com/rs/zerolog"
)

var (
	ErrUnsupportedReportType = errors.New("unsupported report type")
	ErrNoRecordSource        = errors.New("no record source configured")
)

type Engine interface {
	ReportTypes() []domain.ReportType
	Supports(reportType domain.ReportType) bool
	Analyze(ctx context.Context, reportType domain.ReportType, records []domain.FinancialRecord, summary domain.Summary) *domain.InsightReport
}

type RecordSource interface {
	List(ctx context.Context, filter domain.RecordFilter) ([]store.Record, error)
}

type Service interface {
	ReportTypes() []domain.ReportType
	Analyze(ctx context.Context, reportType domain.ReportType, records []domain.FinancialRecord) (domain.Analysis, error)
	AnalyzeSource(ctx context.Context, reportType domain.ReportType, filter domain.RecordFilter) (domain.Analysis, error)
}

type service struct {
	engine Engine
	source RecordSource
	now    func() time.Time
}

// NewService wires the engine to an optional record source. Without a
// source only Analyze is usable.
func NewService(engine Engine, source RecordSource) Service {
	return &service{engine: engine, source: source, now: time.Now}
}

func (s *service) ReportTypes() []domain.ReportType {
	return s.engine.ReportTypes()
}

func (s *service) Analyze(
	ctx context.Context,
	reportType domain.ReportType,
	records []domain.FinancialRecord,
) (domain.Analysis, error) {
	if !s.engine.Supports(reportType) {
		return domain.Analysis{}, fmt.Errorf("%w: %s", ErrUnsupportedReportType, reportType)
	}

	summary := aggregate.Summarize(records)
	insights := s.engine.Analyze(ctx, reportType, records, summary)

	zerolog.Ctx(ctx).Info().
		Str("report_type", string(reportType)).
		Int("records", len(records)).
		Int("entries", insights.Len()).
		Msg("analysis complete")

	return domain.Analysis{
		ReportType:  reportType,
		GeneratedAt: s.now().UTC(),
		Summary:     summary,
		Insights:    insights,
	}, nil
}

func (s *service) AnalyzeSource(
	ctx context.Context,
	reportType domain.ReportType,
	filter domain.RecordFilter,
) (domain.Analysis, error) {
	if s.source == nil {
		return domain.Analysis{}, ErrNoRecordSource
	}
	if !s.engine.Supports(reportType) {
		return domain.Analysis{}, fmt.Errorf("%w: %s", ErrUnsupportedReportType, reportType)
	}

	rows, err := s.source.List(ctx, filter)
	if err != nil {
		return domain.Analysis{}, fmt.Errorf("list records: %w", err)
	}
	records, err := adapters.MapStoreRecordsToDomain(rows)
	if err != nil {
		return domain.Analysis{}, err
	}
	return s.Analyze(ctx, reportType, records)
}
