package predictor

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NahomAnteneh/scm-predictor/core"
	"github.com/NahomAnteneh/scm-predictor/internal/db/models"
	"github.com/NahomAnteneh/scm-predictor/internal/model"
)

// Assessment is the outcome of one submission
type Assessment struct {
	ID               string       `json:"id"`
	Input            core.Record  `json:"record"`
	Verdict          core.Verdict `json:"verdict"`
	ModelFingerprint string       `json:"model_fingerprint"`
	CreatedAt        time.Time    `json:"created_at"`
}

// ModelSource provides the memoized model
type ModelSource interface {
	Get(ctx context.Context) (*model.Model, error)
}

// Service evaluates shipments against the loaded classifier
type Service struct {
	models  ModelSource
	history models.AssessmentService
	logger  *zap.Logger
}

// NewService creates a predictor. history may be nil, in which case nothing is recorded.
func NewService(source ModelSource, history models.AssessmentService, logger *zap.Logger) *Service {
	return &Service{
		models:  source,
		history: history,
		logger:  logger.Named("predictor"),
	}
}

// Model returns the loaded model, loading it on first use
func (s *Service) Model(ctx context.Context) (*model.Model, error) {
	return s.models.Get(ctx)
}

// History returns the assessment store, or nil when recording is disabled
func (s *Service) History() models.AssessmentService {
	return s.history
}

// Assess encodes the input, runs the classifier and records the outcome when history is enabled.
// The artifact is loaded before validation so a missing model is reported first.
func (s *Service) Assess(ctx context.Context, in core.ShipmentInput) (*Assessment, error) {
	m, err := s.models.Get(ctx)
	if err != nil {
		return nil, err
	}

	rec, err := in.Encode()
	if err != nil {
		return nil, err
	}

	verdict, err := m.Assess(rec)
	if err != nil {
		return nil, err
	}

	result := &Assessment{
		ID:               uuid.New().String(),
		Input:            rec,
		Verdict:          verdict,
		ModelFingerprint: m.Fingerprint,
		CreatedAt:        time.Now().UTC(),
	}

	s.logger.Debug("Shipment assessed",
		zap.String("assessment_id", result.ID),
		zap.Bool("late", verdict.Late),
		zap.Float64("late_probability", verdict.LateProbability),
		zap.String("band", string(verdict.Band)))

	if s.history != nil {
		row := models.NewAssessment(rec, verdict, m.Fingerprint)
		row.ID = result.ID
		row.CreatedAt = result.CreatedAt
		if err := s.history.Create(row); err != nil {
			s.logger.Warn("Failed to record assessment",
				zap.String("assessment_id", result.ID),
				zap.Error(err))
		}
	}

	return result, nil
}
