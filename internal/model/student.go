package model

// Student student roster, table students.
// Semester is the enrolled semester; the batch's scheduled active semester is
// derived from semester_schedules and may differ.
type Student struct {
	StudentID      string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"student_id"`
	Name           string  `gorm:"type:varchar(100);not null"                     json:"name"`
	RegisterNumber string  `gorm:"type:varchar(30);not null"                      json:"register_number"`
	Batch          int     `gorm:"not null;index"                                 json:"batch"`
	Semester       int     `gorm:"type:smallint;not null;default:1"               json:"semester"`
	TutorID        *string `gorm:"type:uuid;index"                                json:"tutor_id,omitempty"`
	Email          string  `gorm:"type:varchar(255);not null;default:''"          json:"email"`
	Phone          string  `gorm:"type:varchar(20);not null;default:''"           json:"phone"`
	SoftDeleteModel

	// relations
	Tutor *Tutor `gorm:"foreignKey:TutorID;references:TutorID" json:"tutor,omitempty"`
}

// TableName table name
func (Student) TableName() string { return "students" }
