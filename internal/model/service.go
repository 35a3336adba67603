package model

// DefaultMaxCapacity is the capacity assigned when a service is created
// without an explicit quota.
const DefaultMaxCapacity = 30

// Service is a social-service project students pre-register for. Capacity is
// enforced by the enrollment guard, not by the schema.
type Service struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Description string `json:"descripcion" gorm:"size:300;not null"`
	CRN         string `json:"crn" gorm:"uniqueIndex;size:30;not null"`
	Period      string `json:"periodo" gorm:"size:30;not null;index"`
	MaxCapacity int    `json:"cupo_maximo" gorm:"not null;default:30"`
	PartnerID   *uint  `json:"socio_formador_id" gorm:"index"`

	// Relations
	Partner     *Partner     `json:"-" gorm:"foreignKey:PartnerID"`
	Enrollments []Enrollment `json:"-" gorm:"foreignKey:ServiceID"`
}

// TableName keeps the table name of the original schema.
func (Service) TableName() string { return "servicios" }
