package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	TokenRequestsSuccess      uint64
	TokenRequestsFailure      uint64
	RESTRequestsSuccess       uint64
	RESTRequestsError         uint64
	SOAPRequestsSuccess       uint64
	SOAPRequestsError         uint64
	PagesFetched              uint64
	ActivitiesDetailed        uint64
	ActivitiesStub            uint64
	ActivitiesMissing         uint64
	ActivityListsFailed       uint64
	ExtractionsSuccess        uint64
	ExtractionsFailure        uint64
	ExtractionDurationCount   uint64
	ExtractionDurationTotalNs int64
}

// InMemoryRecorder stores metrics in memory for tests and the metrics
// endpoint.
type InMemoryRecorder struct {
	tokenRequestsSuccess      uint64
	tokenRequestsFailure      uint64
	restRequestsSuccess       uint64
	restRequestsError         uint64
	soapRequestsSuccess       uint64
	soapRequestsError         uint64
	pagesFetched              uint64
	activitiesDetailed        uint64
	activitiesStub            uint64
	activitiesMissing         uint64
	activityListsFailed       uint64
	extractionsSuccess        uint64
	extractionsFailure        uint64
	extractionDurationCount   uint64
	extractionDurationTotalNs int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		TokenRequestsSuccess:      atomic.LoadUint64(&m.tokenRequestsSuccess),
		TokenRequestsFailure:      atomic.LoadUint64(&m.tokenRequestsFailure),
		RESTRequestsSuccess:       atomic.LoadUint64(&m.restRequestsSuccess),
		RESTRequestsError:         atomic.LoadUint64(&m.restRequestsError),
		SOAPRequestsSuccess:       atomic.LoadUint64(&m.soapRequestsSuccess),
		SOAPRequestsError:         atomic.LoadUint64(&m.soapRequestsError),
		PagesFetched:              atomic.LoadUint64(&m.pagesFetched),
		ActivitiesDetailed:        atomic.LoadUint64(&m.activitiesDetailed),
		ActivitiesStub:            atomic.LoadUint64(&m.activitiesStub),
		ActivitiesMissing:         atomic.LoadUint64(&m.activitiesMissing),
		ActivityListsFailed:       atomic.LoadUint64(&m.activityListsFailed),
		ExtractionsSuccess:        atomic.LoadUint64(&m.extractionsSuccess),
		ExtractionsFailure:        atomic.LoadUint64(&m.extractionsFailure),
		ExtractionDurationCount:   atomic.LoadUint64(&m.extractionDurationCount),
		ExtractionDurationTotalNs: atomic.LoadInt64(&m.extractionDurationTotalNs),
	}
}

// IncTokenRequest increments the token exchange counter for a status.
func (m *InMemoryRecorder) IncTokenRequest(status string) {
	if status == "success" {
		atomic.AddUint64(&m.tokenRequestsSuccess, 1)
	} else {
		atomic.AddUint64(&m.tokenRequestsFailure, 1)
	}
}

// IncRESTRequest increments the REST request counter for a status.
func (m *InMemoryRecorder) IncRESTRequest(status string) {
	if status == "success" {
		atomic.AddUint64(&m.restRequestsSuccess, 1)
	} else {
		atomic.AddUint64(&m.restRequestsError, 1)
	}
}

// IncSOAPRequest increments the SOAP request counter for a status.
func (m *InMemoryRecorder) IncSOAPRequest(status string) {
	if status == "success" {
		atomic.AddUint64(&m.soapRequestsSuccess, 1)
	} else {
		atomic.AddUint64(&m.soapRequestsError, 1)
	}
}

// IncPageFetched increments the pagination page counter.
func (m *InMemoryRecorder) IncPageFetched() {
	atomic.AddUint64(&m.pagesFetched, 1)
}

// IncActivityDetail increments the per-activity outcome counter.
func (m *InMemoryRecorder) IncActivityDetail(level string) {
	switch level {
	case "detailed":
		atomic.AddUint64(&m.activitiesDetailed, 1)
	case "stub":
		atomic.AddUint64(&m.activitiesStub, 1)
	default:
		atomic.AddUint64(&m.activitiesMissing, 1)
	}
}

// IncActivitiesListFailed increments the failed activity-list counter.
func (m *InMemoryRecorder) IncActivitiesListFailed() {
	atomic.AddUint64(&m.activityListsFailed, 1)
}

// IncExtraction increments the extraction counter for a status.
func (m *InMemoryRecorder) IncExtraction(status string) {
	if status == "success" {
		atomic.AddUint64(&m.extractionsSuccess, 1)
	} else {
		atomic.AddUint64(&m.extractionsFailure, 1)
	}
}

// ObserveExtractionDuration records one extraction duration.
func (m *InMemoryRecorder) ObserveExtractionDuration(duration time.Duration) {
	atomic.AddUint64(&m.extractionDurationCount, 1)
	atomic.AddInt64(&m.extractionDurationTotalNs, duration.Nanoseconds())
}
