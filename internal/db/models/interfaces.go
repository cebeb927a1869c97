package models

// AssessmentService defines the interface for assessment history operations
type AssessmentService interface {
	Create(assessment *Assessment) error
	GetByID(id string) (*Assessment, error)
	List(limit, offset int) ([]*Assessment, error)
	Count() (int64, error)
	CountByBand() (map[string]int64, error)
}
