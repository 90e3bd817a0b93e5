package services

import (
	"errors"

	"gorm.io/gorm"

	"labexams/model"
	"labexams/utils/keyset"
)

var (
	// ErrNoValidExams is returned when none of the requested exam ids
	// resolve to an active exam
	ErrNoValidExams = errors.New("no valid exams to add")

	// ErrNoValidLaboratories is returned when none of the requested
	// laboratory ids resolve to an active laboratory
	ErrNoValidLaboratories = errors.New("no valid laboratories to associate")
)

// AssociationService replaces an owner's association set wholesale. The
// PATCH endpoints read like incremental add/remove, but the contract has
// always been full replace: members absent from the new set are dropped.
type AssociationService struct {
	db *gorm.DB
}

// NewAssociationService creates a new association service
func NewAssociationService(db *gorm.DB) *AssociationService {
	return &AssociationService{db: db}
}

// ReplaceLaboratoryExams sets the exams offered at a laboratory. An empty
// request clears the set and reports 0 associated. Requested ids are
// deduplicated, filtered to numeric values, and kept only when they resolve
// to an active exam. Returns the number of exams associated.
func (s *AssociationService) ReplaceLaboratoryExams(lab *model.Laboratory, requested []interface{}) (int, error) {
	if len(requested) == 0 {
		if err := s.db.Model(lab).Association("Exams").Clear(); err != nil {
			return 0, err
		}
		return 0, nil
	}

	exams := make([]model.Exam, 0, len(requested))
	for _, id := range keyset.UniqueNumericIDs(requested) {
		var exam model.Exam
		err := s.db.Where("id = ? AND status = ?", id, true).First(&exam).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return 0, err
		}
		exams = append(exams, exam)
	}

	if len(exams) == 0 {
		return 0, ErrNoValidExams
	}

	if err := s.db.Model(lab).Association("Exams").Replace(&exams); err != nil {
		return 0, err
	}

	return len(exams), nil
}

// ReplaceExamLaboratories sets the laboratories an exam is offered at.
// Mirror of ReplaceLaboratoryExams.
func (s *AssociationService) ReplaceExamLaboratories(exam *model.Exam, requested []interface{}) (int, error) {
	if len(requested) == 0 {
		if err := s.db.Model(exam).Association("Laboratories").Clear(); err != nil {
			return 0, err
		}
		return 0, nil
	}

	labs := make([]model.Laboratory, 0, len(requested))
	for _, id := range keyset.UniqueNumericIDs(requested) {
		var lab model.Laboratory
		err := s.db.Where("id = ? AND status = ?", id, true).First(&lab).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return 0, err
		}
		labs = append(labs, lab)
	}

	if len(labs) == 0 {
		return 0, ErrNoValidLaboratories
	}

	if err := s.db.Model(exam).Association("Laboratories").Replace(&labs); err != nil {
		return 0, err
	}

	return len(labs), nil
}
