// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Upstream call metrics
	IncTokenRequest(status string) // status: "success" or "failure"
	IncRESTRequest(status string)  // status: "success" or "error"
	IncSOAPRequest(status string)  // status: "success" or "error"
	IncPageFetched()

	// Enrichment pipeline metrics
	IncActivityDetail(level string) // level: "detailed", "stub", "missing"
	IncActivitiesListFailed()
	IncExtraction(status string) // status: "success" or "failure"
	ObserveExtractionDuration(duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
