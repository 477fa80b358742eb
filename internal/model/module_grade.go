package model

// ModuleGrade 缓存最近一次计算的模块综合成绩，并非事实来源
type ModuleGrade struct {
	BaseModel
	UserID   uint    `gorm:"uniqueIndex:idx_user_module;not null;type:bigint unsigned" json:"userId"`
	ModuleID uint    `gorm:"uniqueIndex:idx_user_module;not null;type:bigint unsigned" json:"moduleId"`
	Grade    float64 `gorm:"not null;default:0" json:"grade"`
}

func (ModuleGrade) TableName() string {
	return "module_grades"
}
