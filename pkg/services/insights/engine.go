// Package insights assembles insight reports. An Engine dispatches a report
// type to its analyzer, runs the cross-cutting analyzer and collects the
// entries both produce into one report.
package insights

import (
	"context"
	"fmt"
	"runtime/debug"
	"slices"
	"time"

	"github.com/de-tools/doc-insights/pkg/models/domain"
	"github.com/de-tools/doc-insights/pkg/services/insights/analyzers"
	"github.com/rs/zerolog"
)

// Recorder observes every analyzer run. err is nil on success.
type Recorder interface {
	ObserveAnalyzer(name string, err error, duration time.Duration)
}

type Option func(*Engine)

func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithCrossCutting replaces the analyzer that runs for every report type.
func WithCrossCutting(a analyzers.Analyzer) Option {
	return func(e *Engine) { e.crossCutting = a }
}

type Engine struct {
	analyzers    map[domain.ReportType]analyzers.ReportAnalyzer
	crossCutting analyzers.Analyzer
	recorder     Recorder
}

func NewEngine(settings analyzers.Settings, reportAnalyzers []analyzers.ReportAnalyzer, opts ...Option) (*Engine, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		analyzers:    make(map[domain.ReportType]analyzers.ReportAnalyzer),
		crossCutting: analyzers.NewCrossCuttingAnalyzer(settings),
	}
	for _, a := range reportAnalyzers {
		rt := a.ReportType()
		if _, exists := e.analyzers[rt]; exists {
			return nil, fmt.Errorf("duplicate analyzer for report type: %s", rt)
		}
		e.analyzers[rt] = a
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// NewDefaultEngine wires the built-in analyzers for every report type.
func NewDefaultEngine(settings analyzers.Settings, opts ...Option) (*Engine, error) {
	return NewEngine(settings, analyzers.DefaultReportAnalyzers(settings), opts...)
}

// ReportTypes lists the report types this engine has an analyzer for.
func (e *Engine) ReportTypes() []domain.ReportType {
	types := make([]domain.ReportType, 0, len(e.analyzers))
	for rt := range e.analyzers {
		types = append(types, rt)
	}
	slices.Sort(types)
	return types
}

func (e *Engine) Supports(reportType domain.ReportType) bool {
	_, ok := e.analyzers[reportType]
	return ok
}

// Analyze always returns a report. Analyzer failures are logged and the
// entries produced before the failure are kept. An unknown report type only
// gets the cross-cutting entries.
func (e *Engine) Analyze(
	ctx context.Context,
	reportType domain.ReportType,
	records []domain.FinancialRecord,
	summary domain.Summary,
) *domain.InsightReport {
	logger := zerolog.Ctx(ctx).With().Str("report_type", string(reportType)).Logger()
	ctx = logger.WithContext(ctx)

	report := domain.NewInsightReport()
	in := analyzers.Input{Records: records, Summary: summary}

	if a, ok := e.analyzers[reportType]; ok {
		e.collect(ctx, report, a, in)
	} else {
		logger.Warn().Msg("no analyzer registered for report type")
	}
	if e.crossCutting != nil {
		e.collect(ctx, report, e.crossCutting, in)
	}

	logger.Debug().Int("entries", report.Len()).Msg("insight report assembled")
	return report
}

func (e *Engine) collect(ctx context.Context, report *domain.InsightReport, a analyzers.Analyzer, in analyzers.Input) {
	logger := zerolog.Ctx(ctx).With().Str("analyzer", a.Name()).Logger()

	start := time.Now()
	entries, err := run(ctx, a, in)
	if e.recorder != nil {
		e.recorder.ObserveAnalyzer(a.Name(), err, time.Since(start))
	}
	if err != nil {
		logger.Error().Err(err).Int("partial_entries", len(entries)).Msg("analyzer failed")
	}

	for _, entry := range entries {
		if verr := entry.Validate(); verr != nil {
			logger.Warn().Err(verr).Msg("dropping insight entry")
			continue
		}
		report.Add(entry)
	}
}

func run(ctx context.Context, a analyzers.Analyzer, in analyzers.Input) (entries []domain.InsightEntry, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("analyzer %s panicked: %v\n%s", a.Name(), r, debug.Stack())
		}
	}()
	return a.Analyze(ctx, in)
}
