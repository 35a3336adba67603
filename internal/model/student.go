package model

import "time"

// Student is the academic profile linked one-to-one with a User.
type Student struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"usuario_id" gorm:"uniqueIndex;not null"`
	FullName  string    `json:"nombre_completo" gorm:"size:200;not null;index"`
	Matricula string    `json:"matricula" gorm:"uniqueIndex;size:30;not null"`
	CareerID  uint      `json:"carrera_id" gorm:"not null;index"`
	Phone     string    `json:"celular,omitempty" gorm:"size:20"`
	AltEmail  *string   `json:"correo_alterno,omitempty" gorm:"uniqueIndex;size:150"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User        *User              `json:"-" gorm:"foreignKey:UserID"`
	Career      Career             `json:"-" gorm:"foreignKey:CareerID"`
	Enrollments []Enrollment       `json:"-" gorm:"foreignKey:StudentID"`
	Attendance  []AttendanceRecord `json:"-" gorm:"foreignKey:StudentID"`
}

// TableName keeps the table name of the original schema.
func (Student) TableName() string { return "estudiantes" }
