package repository

import (
	"time"

	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type AttendanceRepository struct {
	DB *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) *AttendanceRepository {
	return &AttendanceRepository{DB: db}
}

func (r *AttendanceRepository) Find(courseID, userID uint, date time.Time) (*model.Attendance, error) {
	var a model.Attendance
	err := r.DB.Where("course_id = ? AND user_id = ? AND date = ?", courseID, userID, date).First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AttendanceRepository) Create(a *model.Attendance) error {
	return r.DB.Create(a).Error
}

func (r *AttendanceRepository) Update(a *model.Attendance) error {
	return r.DB.Save(a).Error
}

func (r *AttendanceRepository) ListByCourseAndDate(courseID uint, date time.Time) ([]model.Attendance, error) {
	var items []model.Attendance
	err := r.DB.Where("course_id = ? AND date = ?", courseID, date).Find(&items).Error
	return items, err
}

func (r *AttendanceRepository) ListByUser(userID uint, courseID uint) ([]model.Attendance, error) {
	var items []model.Attendance
	query := r.DB.Where("user_id = ?", userID)
	if courseID > 0 {
		query = query.Where("course_id = ?", courseID)
	}
	err := query.Order("date desc").Find(&items).Error
	return items, err
}
