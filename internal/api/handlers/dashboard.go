package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/NahomAnteneh/scm-predictor/core"
	"github.com/NahomAnteneh/scm-predictor/internal/predictor"
	"github.com/NahomAnteneh/scm-predictor/internal/web"
)

// ShowDashboard renders the input form with its default values.
// If the model artifact cannot be loaded only the error is shown.
func ShowDashboard(svc *predictor.Service, pages *web.Renderer, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := svc.Model(r.Context())
		if err != nil {
			renderPageError(w, pages, logger, err)
			return
		}

		page := web.NewPage(core.DefaultInput())
		page.ModelKind = m.Classifier.Kind()
		page.Fingerprint = m.Fingerprint
		renderPage(w, pages, logger, http.StatusOK, page)
	}
}

// SubmitDashboard handles the form post and renders the verdict under the form
func SubmitDashboard(svc *predictor.Service, pages *web.Renderer, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in := core.DefaultInput()
		if err := render.DecodeForm(r.Body, &in); err != nil {
			page := web.NewPage(in)
			page.FieldErrors = core.ValidationErrors{{Field: "form", Message: "could not read the submitted form"}}
			renderPage(w, pages, logger, http.StatusBadRequest, page)
			return
		}

		result, err := svc.Assess(r.Context(), in)
		if err != nil {
			var verrs core.ValidationErrors
			switch {
			case errors.As(err, &verrs):
				page := web.NewPage(in)
				page.FieldErrors = verrs
				renderPage(w, pages, logger, http.StatusBadRequest, page)
			default:
				renderPageError(w, pages, logger, err)
			}
			return
		}

		page := web.NewPage(in)
		page.Verdict = &result.Verdict
		page.AssessmentID = result.ID
		page.Fingerprint = result.ModelFingerprint
		if m, err := svc.Model(r.Context()); err == nil {
			page.ModelKind = m.Classifier.Kind()
		}
		renderPage(w, pages, logger, http.StatusOK, page)
	}
}

func renderPageError(w http.ResponseWriter, pages *web.Renderer, logger *zap.Logger, err error) {
	status := statusFor(err)
	heading, msg := web.HeadingArtifactUnavailable, err.Error()
	if status != http.StatusServiceUnavailable {
		logger.Error("Dashboard request failed", zap.Error(err))
		heading = web.HeadingPredictionFailed
		msg = "The prediction could not be completed. Try again later."
	}
	renderPage(w, pages, logger, status, web.ErrorPage(heading, msg))
}

func renderPage(w http.ResponseWriter, pages *web.Renderer, logger *zap.Logger, status int, page *web.Page) {
	if err := pages.Render(w, status, page); err != nil {
		logger.Error("Failed to render dashboard", zap.Error(err))
	}
}
