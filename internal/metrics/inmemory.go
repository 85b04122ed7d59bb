package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	TagsCreated        uint64
	IngredientsCreated uint64
	RecipesCreated     uint64
	RecipesUpdated     uint64
	RecipesDeleted     uint64
	ImagesUploaded     uint64
	ImagesRejected     uint64
	ImageUploadCount   uint64
	ImageUploadTotalNs int64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	tagsCreated        uint64
	ingredientsCreated uint64
	recipesCreated     uint64
	recipesUpdated     uint64
	recipesDeleted     uint64
	imagesUploaded     uint64
	imagesRejected     uint64
	imageUploadCount   uint64
	imageUploadTotalNs int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		TagsCreated:        atomic.LoadUint64(&m.tagsCreated),
		IngredientsCreated: atomic.LoadUint64(&m.ingredientsCreated),
		RecipesCreated:     atomic.LoadUint64(&m.recipesCreated),
		RecipesUpdated:     atomic.LoadUint64(&m.recipesUpdated),
		RecipesDeleted:     atomic.LoadUint64(&m.recipesDeleted),
		ImagesUploaded:     atomic.LoadUint64(&m.imagesUploaded),
		ImagesRejected:     atomic.LoadUint64(&m.imagesRejected),
		ImageUploadCount:   atomic.LoadUint64(&m.imageUploadCount),
		ImageUploadTotalNs: atomic.LoadInt64(&m.imageUploadTotalNs),
	}
}

// IncTagCreated increments the tag counter.
func (m *InMemoryRecorder) IncTagCreated() {
	atomic.AddUint64(&m.tagsCreated, 1)
}

// IncIngredientCreated increments the ingredient counter.
func (m *InMemoryRecorder) IncIngredientCreated() {
	atomic.AddUint64(&m.ingredientsCreated, 1)
}

// IncRecipeCreated increments the recipe created counter.
func (m *InMemoryRecorder) IncRecipeCreated() {
	atomic.AddUint64(&m.recipesCreated, 1)
}

// IncRecipeUpdated increments the recipe updated counter.
func (m *InMemoryRecorder) IncRecipeUpdated() {
	atomic.AddUint64(&m.recipesUpdated, 1)
}

// IncRecipeDeleted increments the recipe deleted counter.
func (m *InMemoryRecorder) IncRecipeDeleted() {
	atomic.AddUint64(&m.recipesDeleted, 1)
}

// IncImageUploaded increments the upload counter for the given status.
func (m *InMemoryRecorder) IncImageUploaded(status string) {
	if status == "success" {
		atomic.AddUint64(&m.imagesUploaded, 1)
		return
	}
	atomic.AddUint64(&m.imagesRejected, 1)
}

// ObserveImageUploadDuration records upload duration.
func (m *InMemoryRecorder) ObserveImageUploadDuration(duration time.Duration) {
	atomic.AddUint64(&m.imageUploadCount, 1)
	atomic.AddInt64(&m.imageUploadTotalNs, duration.Nanoseconds())
}
