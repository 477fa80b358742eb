package service

import (
	"errors"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

// AttendanceService 考勤按(course, user, date)幂等落库，重复提交覆盖状态
type AttendanceService struct {
	AttendanceRepo *repository.AttendanceRepository
	CourseRepo     *repository.CourseRepository
	UserRepo       *repository.UserRepository
}

func NewAttendanceService(attendanceRepo *repository.AttendanceRepository,
	courseRepo *repository.CourseRepository, userRepo *repository.UserRepository) *AttendanceService {
	return &AttendanceService{AttendanceRepo: attendanceRepo, CourseRepo: courseRepo, UserRepo: userRepo}
}

type AttendanceRequest struct {
	UserID uint                   `json:"userId" binding:"required"`
	Date   string                 `json:"date" binding:"required"`
	Status model.AttendanceStatus `json:"status" binding:"required"`
}

// RecordAttendance 同一(course, user, date)再次提交时更新状态而非报错
func (s *AttendanceService) RecordAttendance(courseID uint, req AttendanceRequest) (*model.Attendance, error) {
	if !model.ValidAttendanceStatus(req.Status) {
		return nil, util.ErrInvalidAttendanceStatus
	}
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if _, err := s.UserRepo.FindByID(req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	date, err := time.Parse(util.DateFormat, req.Date)
	if err != nil {
		return nil, err
	}

	existing, err := s.AttendanceRepo.Find(courseID, req.UserID, date)
	if err == nil {
		existing.Status = req.Status
		if err := s.AttendanceRepo.Update(existing); err != nil {
			return nil, err
		}
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	record := &model.Attendance{
		CourseID: courseID,
		UserID:   req.UserID,
		Date:     date,
		Status:   req.Status,
	}
	if err := s.AttendanceRepo.Create(record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *AttendanceService) GetCourseAttendance(courseID uint, dateStr string) ([]model.Attendance, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	date, err := time.Parse(util.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}
	return s.AttendanceRepo.ListByCourseAndDate(courseID, date)
}

func (s *AttendanceService) GetUserAttendance(userID, courseID uint) ([]model.Attendance, error) {
	if _, err := s.UserRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return s.AttendanceRepo.ListByUser(userID, courseID)
}
