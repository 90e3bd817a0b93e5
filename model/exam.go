package model

import "time"

// Exam represents a medical exam type offered at one or more laboratories.
// Name is the natural key: unique among active rows, enforced at the
// handler layer so a soft-deleted exam's name can be reused.
type Exam struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Type      string    `gorm:"type:varchar(255);not null" json:"type"`
	Status    bool      `gorm:"not null;default:true" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Laboratories []Laboratory `gorm:"many2many:laboratory_exams;" json:"laboratories,omitempty"`
}

// TableName specifies the table name for Exam
func (Exam) TableName() string {
	return "exams"
}
