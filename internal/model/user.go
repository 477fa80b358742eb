package model

import "time"

type UserRole string

const (
	Learner        UserRole = "learner"
	Teacher        UserRole = "teacher"
	StudentTeacher UserRole = "student_teacher"
	Admin          UserRole = "admin"
)

func ValidRole(r UserRole) bool {
	switch r {
	case Learner, Teacher, StudentTeacher, Admin:
		return true
	}
	return false
}

// swagger:model User
type User struct {
	BaseModel
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:100;unique;not null" json:"email"`
	Role      UserRole  `gorm:"size:20;default:'learner'" json:"role"`
	Disabled  bool      `gorm:"default:false" json:"disabled"`
	LastLogin time.Time `gorm:"autoCreateTime" json:"lastLogin"`
	LastSeen  time.Time `gorm:"autoCreateTime" json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}

// LearnerProfile 角色卫星表：与User.Role保持事务一致
type LearnerProfile struct {
	BaseModel
	UserID         uint   `gorm:"index;not null;type:bigint unsigned" json:"userId"`
	EnrollmentYear int    `gorm:"default:0" json:"enrollmentYear"`
	Notes          string `gorm:"type:text" json:"notes"`
}

func (LearnerProfile) TableName() string {
	return "learner_profiles"
}

type TeacherProfile struct {
	BaseModel
	UserID   uint   `gorm:"index;not null;type:bigint unsigned" json:"userId"`
	Title    string `gorm:"size:100" json:"title"`
	SchoolID uint   `gorm:"index;type:bigint unsigned" json:"schoolId"`
}

func (TeacherProfile) TableName() string {
	return "teacher_profiles"
}
