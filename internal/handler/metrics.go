package handler

import (
	"fmt"
	"net/http"

	"github.com/recipebox/recipebox/internal/metrics"
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

	writeMetric(w, "recipebox_tags_created_total %d\n", snap.TagsCreated)
	writeMetric(w, "recipebox_ingredients_created_total %d\n", snap.IngredientsCreated)

	writeMetric(w, "recipebox_recipes_created_total %d\n", snap.RecipesCreated)
	writeMetric(w, "recipebox_recipes_updated_total %d\n", snap.RecipesUpdated)
	writeMetric(w, "recipebox_recipes_deleted_total %d\n", snap.RecipesDeleted)

	writeMetric(w, "recipebox_images_uploaded_total{status=\"success\"} %d\n", snap.ImagesUploaded)
	writeMetric(w, "recipebox_images_uploaded_total{status=\"rejected\"} %d\n", snap.ImagesRejected)

	writeMetric(w, "recipebox_image_upload_duration_seconds_count %d\n", snap.ImageUploadCount)
	writeMetric(w, "recipebox_image_upload_duration_seconds_sum %.6f\n", float64(snap.ImageUploadTotalNs)/1e9)
}

// writeMetric writes one exposition line, ignoring write errors.
func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
