package metrics

import "time"

// ResultLabel enumerates mutation result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultInvalid  ResultLabel = "invalid"
	ResultNotFound ResultLabel = "not_found"
	ResultNoop     ResultLabel = "noop"
)

// Recorder defines observability hooks for chore store operations. Implementations
// may forward to Prometheus or similar backends.
type Recorder interface {
	IncMutation(operation string, result ResultLabel)
	IncPersistFailure(operation string)
	ObserveSaveDuration(d time.Duration)
	SetChoreCount(n int)
	SetTierCount(tier string, n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncMutation(string, ResultLabel)  {}
func (NoopRecorder) IncPersistFailure(string)         {}
func (NoopRecorder) ObserveSaveDuration(time.Duration) {}
func (NoopRecorder) SetChoreCount(int)                {}
func (NoopRecorder) SetTierCount(string, int)         {}
