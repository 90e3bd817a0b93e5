package model

// Laboratory represents a physical lab location where exams are offered.
// Rows are never removed by the single delete path; Status marks a row as
// soft-deleted and every read query scopes to active rows.
type Laboratory struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"type:varchar(255);not null" json:"name"`
	Address string `gorm:"type:text;not null" json:"address"`
	Status  bool   `gorm:"not null;default:true" json:"-"`

	// Relationships
	Exams []Exam `gorm:"many2many:laboratory_exams;" json:"exams,omitempty"`
}

// TableName specifies the table name for Laboratory
func (Laboratory) TableName() string {
	return "laboratories"
}
