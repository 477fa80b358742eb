package service

import (
	"errors"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

type CourseService struct {
	DB         *gorm.DB
	CourseRepo *repository.CourseRepository
	SchoolRepo *repository.SchoolRepository
	ModuleRepo *repository.ModuleRepository
}

func NewCourseService(db *gorm.DB, courseRepo *repository.CourseRepository,
	schoolRepo *repository.SchoolRepository, moduleRepo *repository.ModuleRepository) *CourseService {
	return &CourseService{DB: db, CourseRepo: courseRepo, SchoolRepo: schoolRepo, ModuleRepo: moduleRepo}
}

type CourseRequest struct {
	SchoolID    uint   `json:"schoolId" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Code        string `json:"code" binding:"required"`
	Description string `json:"description"`
}

type ModuleRequest struct {
	Title      string `json:"title" binding:"required"`
	OrderIndex int    `json:"orderIndex"`
}

// CreateCourse 建课的同时创建学员组并回填learner_group_id，同一事务内完成
func (s *CourseService) CreateCourse(req CourseRequest) (*model.Course, error) {
	if _, err := s.SchoolRepo.FindByID(req.SchoolID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSchoolNotFound
		}
		return nil, err
	}

	course := &model.Course{
		SchoolID:    req.SchoolID,
		Title:       req.Title,
		Code:        req.Code,
		Description: req.Description,
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(course).Error; err != nil {
			return err
		}
		group := &model.Group{
			Name:     course.Title + " learners",
			Kind:     model.LearnerGroup,
			CourseID: &course.ID,
			JoinCode: model.GenerateUUID(),
		}
		if err := tx.Create(group).Error; err != nil {
			return err
		}
		course.LearnerGroupID = group.ID
		return tx.Save(course).Error
	})
	if err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) GetCourseByID(id uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByIDWithModules(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

func (s *CourseService) GetCourses(page, limit int, schoolID uint) ([]model.Course, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.CourseRepo.List(page, limit, schoolID)
}

func (s *CourseService) UpdateCourse(id uint, req CourseRequest) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	course.Title = req.Title
	course.Code = req.Code
	course.Description = req.Description
	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) DeleteCourse(id uint) error {
	if _, err := s.CourseRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrCourseNotFound
		}
		return err
	}
	return s.CourseRepo.Delete(id)
}

// AddModule 新模块追加到课程模块序列
func (s *CourseService) AddModule(courseID uint, req ModuleRequest) (*model.Module, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	m := &model.Module{CourseID: courseID, Title: req.Title, OrderIndex: req.OrderIndex}
	if err := s.ModuleRepo.Create(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *CourseService) GetModuleByID(id uint) (*model.Module, error) {
	m, err := s.ModuleRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrModuleNotFound
		}
		return nil, err
	}
	return m, nil
}

func (s *CourseService) GetModules(courseID uint) ([]model.Module, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return s.ModuleRepo.ListByCourse(courseID)
}

func (s *CourseService) UpdateModule(id uint, req ModuleRequest) (*model.Module, error) {
	m, err := s.GetModuleByID(id)
	if err != nil {
		return nil, err
	}
	m.Title = req.Title
	m.OrderIndex = req.OrderIndex
	if err := s.ModuleRepo.Update(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *CourseService) DeleteModule(id uint) error {
	if _, err := s.GetModuleByID(id); err != nil {
		return err
	}
	return s.ModuleRepo.Delete(id)
}
