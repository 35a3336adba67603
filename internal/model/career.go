package model

// Career is an academic program (carrera) referenced by students.
type Career struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"nombre" gorm:"uniqueIndex;size:150;not null"`
	Code string `json:"abreviatura" gorm:"uniqueIndex;size:20;not null"`

	// Relations
	Students []Student `json:"-" gorm:"foreignKey:CareerID"`
}

// TableName keeps the table name of the original schema.
func (Career) TableName() string { return "carreras" }
