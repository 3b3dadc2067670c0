package handler

import (
	"fmt"
	"net/http"

	"github.com/mcextract/mcextract/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "mcextract_token_requests_total{status=\"success\"} %d\n", snap.TokenRequestsSuccess)
	writeMetric(w, "mcextract_token_requests_total{status=\"failure\"} %d\n", snap.TokenRequestsFailure)

	writeMetric(w, "mcextract_rest_requests_total{status=\"success\"} %d\n", snap.RESTRequestsSuccess)
	writeMetric(w, "mcextract_rest_requests_total{status=\"error\"} %d\n", snap.RESTRequestsError)
	writeMetric(w, "mcextract_soap_requests_total{status=\"success\"} %d\n", snap.SOAPRequestsSuccess)
	writeMetric(w, "mcextract_soap_requests_total{status=\"error\"} %d\n", snap.SOAPRequestsError)
	writeMetric(w, "mcextract_pages_fetched_total %d\n", snap.PagesFetched)

	writeMetric(w, "mcextract_activities_total{detail=\"detailed\"} %d\n", snap.ActivitiesDetailed)
	writeMetric(w, "mcextract_activities_total{detail=\"stub\"} %d\n", snap.ActivitiesStub)
	writeMetric(w, "mcextract_activities_total{detail=\"missing\"} %d\n", snap.ActivitiesMissing)
	writeMetric(w, "mcextract_activity_lists_failed_total %d\n", snap.ActivityListsFailed)

	writeMetric(w, "mcextract_extractions_total{status=\"success\"} %d\n", snap.ExtractionsSuccess)
	writeMetric(w, "mcextract_extractions_total{status=\"failure\"} %d\n", snap.ExtractionsFailure)
	writeMetric(w, "mcextract_extraction_duration_seconds_count %d\n", snap.ExtractionDurationCount)
	writeMetric(w, "mcextract_extraction_duration_seconds_sum %.6f\n", float64(snap.ExtractionDurationTotalNs)/1e9)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
