package model

type GroupKind string

const (
	LearnerGroup GroupKind = "learner"
	StaffGroup   GroupKind = "staff"
)

// Group 通知接收者按组解析；每门课程有一个学员组
type Group struct {
	BaseModel
	Name     string    `gorm:"size:255;not null" json:"name"`
	Kind     GroupKind `gorm:"size:10;default:'learner'" json:"kind"`
	CourseID *uint     `gorm:"index;type:bigint unsigned" json:"courseId,omitempty"`
	JoinCode string    `gorm:"size:36;unique" json:"joinCode"`

	Members []GroupMembership `gorm:"foreignKey:GroupID" json:"members,omitempty"`
}

func (Group) TableName() string {
	return "groups"
}

type GroupMembership struct {
	BaseModel
	GroupID uint `gorm:"uniqueIndex:idx_group_user;not null;type:bigint unsigned" json:"groupId"`
	UserID  uint `gorm:"uniqueIndex:idx_group_user;not null;type:bigint unsigned" json:"userId"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (GroupMembership) TableName() string {
	return "group_memberships"
}
