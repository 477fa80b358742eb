package model

// swagger:model School
type School struct {
	BaseModel
	Name    string `gorm:"size:255;not null;unique" json:"name"`
	Address string `gorm:"size:255" json:"address"`
}

func (School) TableName() string {
	return "schools"
}
