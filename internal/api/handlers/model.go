package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/NahomAnteneh/scm-predictor/core"
	"github.com/NahomAnteneh/scm-predictor/internal/model"
	"github.com/NahomAnteneh/scm-predictor/internal/predictor"
)

// ModelResponse describes the loaded artifact
type ModelResponse struct {
	Kind             string            `json:"kind"`
	Features         []string          `json:"features"`
	Fingerprint      string            `json:"fingerprint"`
	Path             string            `json:"path"`
	FeatureNamesPath string            `json:"feature_names_path,omitempty"`
	Metadata         map[string]string `json:"metadata,omitempty"`
	LoadedAt         time.Time         `json:"loaded_at"`
}

// NewModelResponse builds the artifact description
func NewModelResponse(m *model.Model) ModelResponse {
	return ModelResponse{
		Kind:             m.Classifier.Kind(),
		Features:         m.FeatureNames(),
		Fingerprint:      m.Fingerprint,
		Path:             m.Path,
		FeatureNamesPath: m.FeatureNamesPath,
		Metadata:         m.Metadata,
		LoadedAt:         m.LoadedAt,
	}
}

// EncodingsResponse lists the label tables used to encode a shipment
type EncodingsResponse struct {
	ShippingModes []core.Label `json:"shipping_modes"`
	Markets       []core.Label `json:"markets"`
	Regions       []core.Label `json:"regions"`
	RegionIDRange [2]int       `json:"region_id_range"`
	DaysRange     [2]int       `json:"days_scheduled_range"`
	MinQuantity   int          `json:"min_quantity"`
}

// GetModel returns the loaded artifact description
func GetModel(svc *predictor.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := svc.Model(r.Context())
		if err != nil {
			renderError(w, r, err)
			return
		}
		render.JSON(w, r, NewModelResponse(m))
	}
}

// GetEncodings returns the categorical encoding tables
func GetEncodings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, EncodingsResponse{
			ShippingModes: core.ShippingModes(),
			Markets:       core.Markets(),
			Regions:       core.Regions(),
			RegionIDRange: [2]int{core.MinRegionID, core.MaxRegionID},
			DaysRange:     [2]int{core.MinDaysScheduled, core.MaxDaysScheduled},
			MinQuantity:   core.MinQuantity,
		})
	}
}

// Health reports liveness; it never triggers a model load
func Health(loader *model.Loader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]interface{}{
			"status":       "ok",
			"model_loaded": loader.Cached() != nil,
		})
	}
}

// Ready reports whether the model artifact can be served
func Ready(svc *predictor.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := svc.Model(r.Context())
		if err != nil {
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, map[string]string{
				"status": "unavailable",
				"error":  err.Error(),
			})
			return
		}
		render.JSON(w, r, map[string]string{
			"status":      "ready",
			"fingerprint": m.Fingerprint,
		})
	}
}
