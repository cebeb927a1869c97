package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/NahomAnteneh/scm-predictor/internal/db/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListAssessments returns recorded assessments newest first
func ListAssessments(history models.AssessmentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultPageSize
		offset := 0

		limitParam := r.URL.Query().Get("limit")
		if limitParam != "" {
			parsedLimit, err := strconv.Atoi(limitParam)
			if err == nil && parsedLimit > 0 {
				limit = min(parsedLimit, maxPageSize)
			}
		}

		offsetParam := r.URL.Query().Get("cursor")
		if offsetParam != "" {
			parsedOffset, err := strconv.Atoi(offsetParam)
			if err == nil && parsedOffset > 0 {
				offset = parsedOffset
			}
		}

		assessments, err := history.List(limit, offset)
		if err != nil {
			renderError(w, r, err)
			return
		}
		if assessments == nil {
			assessments = []*models.Assessment{}
		}

		render.JSON(w, r, map[string]interface{}{
			"assessments": assessments,
			"next_cursor": offset + len(assessments),
		})
	}
}

// GetAssessment returns one recorded assessment
func GetAssessment(history models.AssessmentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assessment, err := history.GetByID(chi.URLParam(r, "id"))
		if err != nil {
			renderError(w, r, err)
			return
		}
		render.JSON(w, r, assessment)
	}
}

// SummarizeAssessments returns the number of assessments per risk band
func SummarizeAssessments(history models.AssessmentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		total, err := history.Count()
		if err != nil {
			renderError(w, r, err)
			return
		}
		bands, err := history.CountByBand()
		if err != nil {
			renderError(w, r, err)
			return
		}
		render.JSON(w, r, map[string]interface{}{
			"total": total,
			"bands": bands,
		})
	}
}

// HistoryDisabled answers history routes when no store is configured
func HistoryDisabled() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, ErrorResponse{Error: "Assessment history is disabled"})
	}
}
