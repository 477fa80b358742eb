package model

// swagger:model Course
type Course struct {
	BaseModel
	SchoolID       uint   `gorm:"index;not null;type:bigint unsigned" json:"schoolId"`
	Title          string `gorm:"size:255;not null" json:"title"`
	Code           string `gorm:"size:50;unique;not null" json:"code"`
	Description    string `gorm:"type:text" json:"description"`
	LearnerGroupID uint   `gorm:"index;type:bigint unsigned" json:"learnerGroupId"`

	Modules []Module `gorm:"foreignKey:CourseID" json:"modules,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// Module 课程内有序的学习单元，顺序决定闯关门槛
type Module struct {
	BaseModel
	CourseID   uint   `gorm:"index;not null;type:bigint unsigned" json:"courseId"`
	Title      string `gorm:"size:255;not null" json:"title"`
	OrderIndex int    `gorm:"not null;default:0" json:"orderIndex"`

	Assessments []Assessment `gorm:"foreignKey:ModuleID" json:"assessments,omitempty"`
}

func (Module) TableName() string {
	return "modules"
}

type ContentType string

const (
	ContentText  ContentType = "text"
	ContentVideo ContentType = "video"
	ContentFile  ContentType = "file"
	ContentLink  ContentType = "link"
)

// Content 模块内的教学内容条目
type Content struct {
	BaseModel
	ModuleID    uint        `gorm:"index;not null;type:bigint unsigned" json:"moduleId"`
	Title       string      `gorm:"size:255;not null" json:"title"`
	ContentType ContentType `gorm:"size:10;default:'text'" json:"contentType"`
	Body        string      `gorm:"type:text" json:"body"`
	FileURL     string      `gorm:"size:512" json:"fileUrl"`
	ObjectKey   string      `gorm:"size:255" json:"-"`
	OrderIndex  int         `gorm:"default:0" json:"orderIndex"`
}

func (Content) TableName() string {
	return "contents"
}
