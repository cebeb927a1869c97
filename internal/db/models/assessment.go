package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/NahomAnteneh/scm-predictor/core"
)

// Assessment is one recorded late-delivery prediction
type Assessment struct {
	ID               string    `json:"id" gorm:"primarykey;size:36"`
	DaysScheduled    int       `json:"days_scheduled" gorm:"not null"`
	ShippingMode     int       `json:"shipping_mode" gorm:"not null"`
	OrderRegion      int       `json:"order_region" gorm:"not null"`
	Sales            float64   `json:"sales" gorm:"not null"`
	Quantity         int       `json:"quantity" gorm:"not null"`
	Market           int       `json:"market" gorm:"not null"`
	Late             bool      `json:"late" gorm:"not null"`
	LateProbability  float64   `json:"late_probability" gorm:"not null"`
	LatePercent      float64   `json:"late_percent" gorm:"not null"`
	OnTimePercent    float64   `json:"on_time_percent" gorm:"not null"`
	Band             string    `json:"band" gorm:"size:16;not null;index"`
	ModelFingerprint string    `json:"model_fingerprint" gorm:"size:64;not null;index"`
	CreatedAt        time.Time `json:"created_at" gorm:"index"`
}

// TableName sets the table name for the Assessment model
func (Assessment) TableName() string {
	return "assessments"
}

// NewAssessment captures a record and its verdict under a fresh ID
func NewAssessment(rec core.Record, v core.Verdict, fingerprint string) *Assessment {
	return &Assessment{
		ID:               uuid.New().String(),
		DaysScheduled:    rec.DaysScheduled,
		ShippingMode:     rec.ShippingMode,
		OrderRegion:      rec.OrderRegion,
		Sales:            rec.Sales,
		Quantity:         rec.Quantity,
		Market:           rec.Market,
		Late:             v.Late,
		LateProbability:  v.LateProbability,
		LatePercent:      v.LatePercent,
		OnTimePercent:    v.OnTimePercent,
		Band:             string(v.Band),
		ModelFingerprint: fingerprint,
		CreatedAt:        time.Now().UTC(),
	}
}

// AssessmentServiceImpl stores assessments with gorm
type AssessmentServiceImpl struct {
	db *gorm.DB
}

// NewAssessmentService creates a new assessment service
func NewAssessmentService(db *gorm.DB) AssessmentService {
	return &AssessmentServiceImpl{db: db}
}

// Create inserts a new assessment
func (s *AssessmentServiceImpl) Create(assessment *Assessment) error {
	if assessment.ID == "" {
		assessment.ID = uuid.New().String()
	}
	if err := s.db.Create(assessment).Error; err != nil {
		return core.StorageError("failed to record assessment", err)
	}
	return nil
}

// GetByID retrieves an assessment by its ID
func (s *AssessmentServiceImpl) GetByID(id string) (*Assessment, error) {
	var assessment Assessment
	err := s.db.Where("id = ?", id).First(&assessment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, core.NotFoundError(core.ErrCategoryStorage, "assessment "+id)
		}
		return nil, core.StorageError("failed to load assessment", err)
	}
	return &assessment, nil
}

// List retrieves assessments newest first with pagination
func (s *AssessmentServiceImpl) List(limit, offset int) ([]*Assessment, error) {
	var assessments []*Assessment
	err := s.db.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&assessments).Error
	if err != nil {
		return nil, core.StorageError("failed to list assessments", err)
	}
	return assessments, nil
}

// Count returns the total number of recorded assessments
func (s *AssessmentServiceImpl) Count() (int64, error) {
	var count int64
	if err := s.db.Model(&Assessment{}).Count(&count).Error; err != nil {
		return 0, core.StorageError("failed to count assessments", err)
	}
	return count, nil
}

// CountByBand returns the number of assessments per risk band
func (s *AssessmentServiceImpl) CountByBand() (map[string]int64, error) {
	var rows []struct {
		Band  string
		Total int64
	}
	err := s.db.Model(&Assessment{}).
		Select("band, COUNT(*) AS total").
		Group("band").
		Scan(&rows).Error
	if err != nil {
		return nil, core.StorageError("failed to summarise assessments", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Band] = r.Total
	}
	return counts, nil
}
