package model

import "time"

type AttendanceStatus string

const (
	Present AttendanceStatus = "present"
	Absent  AttendanceStatus = "absent"
	Late    AttendanceStatus = "late"
	Excused AttendanceStatus = "excused"
)

func ValidAttendanceStatus(s AttendanceStatus) bool {
	switch s {
	case Present, Absent, Late, Excused:
		return true
	}
	return false
}

// Attendance 每个(课程,学员,日期)至多一条记录
type Attendance struct {
	BaseModel
	CourseID uint             `gorm:"uniqueIndex:idx_course_user_date;not null;type:bigint unsigned" json:"courseId"`
	UserID   uint             `gorm:"uniqueIndex:idx_course_user_date;not null;type:bigint unsigned" json:"userId"`
	Date     time.Time        `gorm:"uniqueIndex:idx_course_user_date;not null;type:date" json:"date"`
	Status   AttendanceStatus `gorm:"size:10;not null" json:"status"`
}

func (Attendance) TableName() string {
	return "attendances"
}
