package model

import "time"

// Roles known to the system. Route guards compare against these values.
const (
	RoleAdmin   = "Admin"
	RoleStaff   = "Becario"
	RoleStudent = "Estudiante"
)

// User represents a login credential with a role tag.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:80;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role         string    `json:"rol" gorm:"size:20;not null;default:'Estudiante';index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Student *Student `json:"estudiante,omitempty" gorm:"foreignKey:UserID"`
}

// TableName keeps the table name of the original schema.
func (User) TableName() string { return "usuarios" }
