package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncTokenRequest is a no-op.
func (n *NoopRecorder) IncTokenRequest(status string) {}

// IncRESTRequest is a no-op.
func (n *NoopRecorder) IncRESTRequest(status string) {}

// IncSOAPRequest is a no-op.
func (n *NoopRecorder) IncSOAPRequest(status string) {}

// IncPageFetched is a no-op.
func (n *NoopRecorder) IncPageFetched() {}

// IncActivityDetail is a no-op.
func (n *NoopRecorder) IncActivityDetail(level string) {}

// IncActivitiesListFailed is a no-op.
func (n *NoopRecorder) IncActivitiesListFailed() {}

// IncExtraction is a no-op.
func (n *NoopRecorder) IncExtraction(status string) {}

// ObserveExtractionDuration is a no-op.
func (n *NoopRecorder) ObserveExtractionDuration(duration time.Duration) {}
