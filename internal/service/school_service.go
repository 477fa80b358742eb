package service

import (
	"errors"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

type SchoolService struct {
	SchoolRepo *repository.SchoolRepository
}

func NewSchoolService(schoolRepo *repository.SchoolRepository) *SchoolService {
	return &SchoolService{SchoolRepo: schoolRepo}
}

type SchoolRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
}

func (s *SchoolService) CreateSchool(req SchoolRequest) (*model.School, error) {
	school := &model.School{Name: req.Name, Address: req.Address}
	if err := s.SchoolRepo.Create(school); err != nil {
		return nil, err
	}
	return school, nil
}

func (s *SchoolService) GetSchoolByID(id uint) (*model.School, error) {
	school, err := s.SchoolRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSchoolNotFound
		}
		return nil, err
	}
	return school, nil
}

func (s *SchoolService) GetSchools(page, limit int) ([]model.School, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.SchoolRepo.List(page, limit)
}

func (s *SchoolService) UpdateSchool(id uint, req SchoolRequest) (*model.School, error) {
	school, err := s.GetSchoolByID(id)
	if err != nil {
		return nil, err
	}
	school.Name = req.Name
	school.Address = req.Address
	if err := s.SchoolRepo.Update(school); err != nil {
		return nil, err
	}
	return school, nil
}

func (s *SchoolService) DeleteSchool(id uint) error {
	if _, err := s.GetSchoolByID(id); err != nil {
		return err
	}
	return s.SchoolRepo.Delete(id)
}
