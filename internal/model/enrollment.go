package model

import "time"

// Enrollment (pre-registro) claims one seat of one service for a student.
// The composite unique index backs the duplicate check of the enrollment
// guard; the one-per-period rule is enforced in the guard itself.
type Enrollment struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	StudentID    uint      `json:"estudiante_id" gorm:"not null;uniqueIndex:uq_estudiante_servicio"`
	ServiceID    uint      `json:"servicio_id" gorm:"not null;uniqueIndex:uq_estudiante_servicio;index"`
	RegisteredAt time.Time `json:"fecha_registro" gorm:"autoCreateTime;index"`

	// Relations
	Student Student `json:"-" gorm:"foreignKey:StudentID"`
	Service Service `json:"-" gorm:"foreignKey:ServiceID"`
}

// TableName keeps the table name of the original schema.
func (Enrollment) TableName() string { return "preregistros" }
