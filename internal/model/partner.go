package model

// Partner is a sponsoring organization (socio formador) offering services.
type Partner struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"nombre" gorm:"uniqueIndex;size:200;not null"`

	// Relations
	Services []Service `json:"-" gorm:"foreignKey:PartnerID"`
}

// TableName keeps the table name of the original schema.
func (Partner) TableName() string { return "socios_formadores" }
