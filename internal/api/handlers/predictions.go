package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/NahomAnteneh/scm-predictor/core"
	"github.com/NahomAnteneh/scm-predictor/internal/predictor"
)

// PredictionRequest is the JSON (or form) body of a prediction call
type PredictionRequest struct {
	core.ShipmentInput
}

// Bind normalises label whitespace before encoding
func (p *PredictionRequest) Bind(r *http.Request) error {
	p.ShippingMode = strings.TrimSpace(p.ShippingMode)
	p.OrderRegion = strings.TrimSpace(p.OrderRegion)
	p.Market = strings.TrimSpace(p.Market)
	return nil
}

// PredictionResponse represents the response format for a prediction
type PredictionResponse struct {
	*predictor.Assessment
	Headline  string `json:"headline"`
	BandTitle string `json:"band_title"`
	Narrative string `json:"narrative"`
}

// NewPredictionResponse wraps an assessment with its display strings
func NewPredictionResponse(a *predictor.Assessment) PredictionResponse {
	return PredictionResponse{
		Assessment: a,
		Headline:   a.Verdict.Headline(),
		BandTitle:  a.Verdict.Band.Title(),
		Narrative:  a.Verdict.Band.Narrative(),
	}
}

// CreatePrediction evaluates one shipment
func CreatePrediction(svc *predictor.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PredictionRequest
		if err := render.Bind(r, &req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, ErrorResponse{Error: "Invalid request payload"})
			return
		}

		result, err := svc.Assess(r.Context(), req.ShipmentInput)
		if err != nil {
			renderError(w, r, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, NewPredictionResponse(result))
	}
}
