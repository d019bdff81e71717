package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestAnalyzerRecorder(t *testing.T) {
	// Given
	ok := testutil.ToFloat64(analyzerRuns.WithLabelValues("spend-test", "ok"))
	failed := testutil.ToFloat64(analyzerRuns.WithLabelValues("spend-test", "error"))

	// When
	AnalyzerRecorder{}.ObserveAnalyzer("spend-test", nil, time.Millisecond)
	AnalyzerRecorder{}.ObserveAnalyzer("spend-test", errors.New("boom"), time.Millisecond)
	AnalyzerRecorder{}.ObserveAnalyzer("spend-test", errors.New("boom"), time.Millisecond)

	// Then
	assert.Equal(t, ok+1, testutil.ToFloat64(analyzerRuns.WithLabelValues("spend-test", "ok")))
	assert.Equal(t, failed+2, testutil.ToFloat64(analyzerRuns.WithLabelValues("spend-test", "error")))
}

func TestRequests_UsesRoutePattern(t *testing.T) {
	router := chi.NewRouter()
	router.Use(Requests)
	router.Get("/things/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(requestsTotal.WithLabelValues("/things/{id}", http.MethodGet, "418"))

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/things/"+id, nil))
		assert.Equal(t, http.StatusTeapot, rec.Code)
	}

	assert.Equal(t, before+2, testutil.ToFloat64(requestsTotal.WithLabelValues("/things/{id}", http.MethodGet, "418")))
}
