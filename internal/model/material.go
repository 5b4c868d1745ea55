package model

// swagger:model Material
type Material struct {
	BaseModel
	Title         string `gorm:"size:150;not null" json:"title"`
	Text          string `gorm:"type:text;not null" json:"text"`
	ImageFilename string `gorm:"size:200" json:"imageFilename,omitempty"`
}

func (Material) TableName() string {
	return "materials"
}
