package model

// Announcement CourseID为空时表示全局公告
type Announcement struct {
	BaseModel
	CourseID *uint  `gorm:"index;type:bigint unsigned" json:"courseId,omitempty"`
	AuthorID uint   `gorm:"index;not null;type:bigint unsigned" json:"authorId"`
	Title    string `gorm:"size:255;not null" json:"title"`
	Body     string `gorm:"type:text" json:"body"`

	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (Announcement) TableName() string {
	return "announcements"
}
