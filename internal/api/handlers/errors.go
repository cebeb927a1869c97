package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/NahomAnteneh/scm-predictor/core"
	"github.com/NahomAnteneh/scm-predictor/internal/api/middleware"
)

// ErrorResponse is the JSON body of every failed API call
type ErrorResponse struct {
	Error     string            `json:"error"`
	Fields    []core.FieldError `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// statusFor maps domain errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case core.IsErrArtifact(err):
		return http.StatusServiceUnavailable
	case core.IsErrInvalidInput(err):
		return http.StatusBadRequest
	case core.IsErrNotFound(err):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// renderError writes err as JSON with the status it maps to
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	resp := ErrorResponse{
		Error:     err.Error(),
		RequestID: middleware.GetRequestID(r.Context()),
	}
	if status == http.StatusInternalServerError {
		resp.Error = "Internal server error"
	}

	var verrs core.ValidationErrors
	if errors.As(err, &verrs) {
		resp.Error = "Invalid shipment details"
		resp.Fields = verrs
	}

	render.Status(r, status)
	render.JSON(w, r, resp)
}
