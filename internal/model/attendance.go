package model

import "time"

// AttendanceStatus is the lifecycle state of a fair attendance record.
type AttendanceStatus string

const (
	AttendancePending  AttendanceStatus = "pendiente"
	AttendanceInside   AttendanceStatus = "dentro"
	AttendanceAttended AttendanceStatus = "asistió"
	AttendanceNoShow   AttendanceStatus = "no_asistió"
)

// Valid reports whether s is one of the four known statuses.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePending, AttendanceInside, AttendanceAttended, AttendanceNoShow:
		return true
	}
	return false
}

// AttendanceRecord is a student's single check-in/out record for the fair.
// One record per student, mutated in place as the status advances.
type AttendanceRecord struct {
	ID         uint             `json:"id" gorm:"primaryKey"`
	StudentID  uint             `json:"estudiante_id" gorm:"not null;index"`
	Date       time.Time        `json:"fecha_asistencia"`
	TimeSlot   string           `json:"horario_seleccionado" gorm:"size:50;not null;index"`
	Status     AttendanceStatus `json:"estatus_asistencia" gorm:"type:varchar(30);not null;default:'pendiente';index"`
	CheckInAt  *time.Time       `json:"hora_real_asistencia,omitempty"`
	CheckOutAt *time.Time       `json:"hora_salida,omitempty"`
	Period     string           `json:"periodo,omitempty" gorm:"size:30"`

	// Relations
	Student Student `json:"-" gorm:"foreignKey:StudentID"`
}

// TableName keeps the table name of the original schema.
func (AttendanceRecord) TableName() string { return "asistencias_feria" }
