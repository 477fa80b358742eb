package service

import (
	"context"
	"errors"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

// AnnouncementService 公告发布即触发邮件扇出，发送结果不影响发布
type AnnouncementService struct {
	AnnouncementRepo *repository.AnnouncementRepository
	CourseRepo       *repository.CourseRepository
	Notifier         *NotificationService
}

func NewAnnouncementService(announcementRepo *repository.AnnouncementRepository,
	courseRepo *repository.CourseRepository, notifier *NotificationService) *AnnouncementService {
	return &AnnouncementService{AnnouncementRepo: announcementRepo, CourseRepo: courseRepo, Notifier: notifier}
}

type AnnouncementRequest struct {
	CourseID *uint  `json:"courseId"`
	Title    string `json:"title" binding:"required"`
	Body     string `json:"body" binding:"required"`
}

func (s *AnnouncementService) CreateAnnouncement(ctx context.Context, authorID uint, req AnnouncementRequest) (*model.Announcement, error) {
	if req.CourseID != nil {
		if _, err := s.CourseRepo.FindByID(*req.CourseID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.ErrCourseNotFound
			}
			return nil, err
		}
	}

	a := &model.Announcement{
		CourseID: req.CourseID,
		AuthorID: authorID,
		Title:    req.Title,
		Body:     req.Body,
	}
	if err := s.AnnouncementRepo.Create(a); err != nil {
		return nil, err
	}

	s.Notifier.NotifyAnnouncement(ctx, a)
	return a, nil
}

func (s *AnnouncementService) GetAnnouncementByID(id uint) (*model.Announcement, error) {
	a, err := s.AnnouncementRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAnnouncementNotFound
		}
		return nil, err
	}
	return a, nil
}

// GetAnnouncements courseID为0时返回全局公告
func (s *AnnouncementService) GetAnnouncements(courseID uint, page, limit int) ([]model.Announcement, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.AnnouncementRepo.List(courseID, page, limit)
}

func (s *AnnouncementService) DeleteAnnouncement(id uint) error {
	if _, err := s.GetAnnouncementByID(id); err != nil {
		return err
	}
	return s.AnnouncementRepo.Delete(id)
}
