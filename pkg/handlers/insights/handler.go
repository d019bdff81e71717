package insights

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/de-tools/doc-insights/pkg/adapters"
	"github.com/de-tools/doc-insights/pkg/models/api"
	"github.com/de-tools/doc-insights/pkg/models/domain"
	"github.com/de-tools/doc-insights/pkg/services/report"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const maxRequestBody = 10 << 20

type Handler struct {
	reports report.Service
}

func NewHandler(reports report.Service) *Handler {
	return &Handler{reports: reports}
}

func (h *Handler) ListReportTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, adapters.MapReportTypesDomainToApi(h.reports.ReportTypes()))
}

// AnalyzeRecords runs the analysis over the records posted in the body.
func (h *Handler) AnalyzeRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reportType := domain.ReportType(chi.URLParam(r, "reportType"))

	var req api.AnalyzeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	records, err := adapters.MapRecordsApiToDomain(req.Records)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	analysis, err := h.reports.Analyze(ctx, reportType, records)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapAnalysisDomainToApi(analysis))
}

// AnalyzeStored runs the analysis over records read from the configured
// source, narrowed by the query string.
func (h *Handler) AnalyzeStored(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reportType := domain.ReportType(chi.URLParam(r, "reportType"))

	filter, err := parseFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	analysis, err := h.reports.AnalyzeSource(ctx, reportType, filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapAnalysisDomainToApi(analysis))
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, report.ErrUnsupportedReportType):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, report.ErrNoRecordSource):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("analysis failed")
		http.Error(w, "analysis failed", http.StatusInternalServerError)
	}
}

func parseFilter(r *http.Request) (domain.RecordFilter, error) {
	q := r.URL.Query()
	var filter domain.RecordFilter

	if from := q.Get("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return filter, errors.New("invalid 'from' date format. Expected format: YYYY-MM-DD")
		}
		filter.From = &t
	}
	if to := q.Get("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return filter, errors.New("invalid 'to' date format. Expected format: YYYY-MM-DD")
		}
		filter.To = &t
	}
	if status := q.Get("status"); status != "" {
		filter.Status = domain.RecordStatus(status)
		if !filter.Status.Valid() {
			return filter, errors.New("invalid 'status'. Expected one of: pending, approved, rejected")
		}
	}
	filter.Vendor = q.Get("vendor")

	for key, dst := range map[string]**decimal.Decimal{
		"min_amount": &filter.MinAmount,
		"max_amount": &filter.MaxAmount,
	} {
		if v := q.Get(key); v != "" {
			d, err := decimal.NewFromString(v)
			if err != nil {
				return filter, errors.New("invalid '" + key + "'. Expected a decimal number")
			}
			*dst = &d
		}
	}
	return filter, nil
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}
