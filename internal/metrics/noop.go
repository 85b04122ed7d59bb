package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncTagCreated is a no-op.
func (n *NoopRecorder) IncTagCreated() {}

// IncIngredientCreated is a no-op.
func (n *NoopRecorder) IncIngredientCreated() {}

// IncRecipeCreated is a no-op.
func (n *NoopRecorder) IncRecipeCreated() {}

// IncRecipeUpdated is a no-op.
func (n *NoopRecorder) IncRecipeUpdated() {}

// IncRecipeDeleted is a no-op.
func (n *NoopRecorder) IncRecipeDeleted() {}

// IncImageUploaded is a no-op.
func (n *NoopRecorder) IncImageUploaded(status string) {}

// ObserveImageUploadDuration is a no-op.
func (n *NoopRecorder) ObserveImageUploadDuration(duration time.Duration) {}
