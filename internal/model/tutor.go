package model

// Tutor tutor directory, read-only here, table tutors
type Tutor struct {
	TutorID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"tutor_id"`
	Name    string `gorm:"type:varchar(100);not null"                     json:"name"`
	Email   string `gorm:"type:varchar(255);not null;default:''"          json:"email"`
	SoftDeleteModel
}

// TableName table name
func (Tutor) TableName() string { return "tutors" }
