package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type SchoolRepository struct {
	DB *gorm.DB
}

func NewSchoolRepository(db *gorm.DB) *SchoolRepository {
	return &SchoolRepository{DB: db}
}

func (r *SchoolRepository) Create(school *model.School) error {
	return r.DB.Create(school).Error
}

func (r *SchoolRepository) FindByID(id uint) (*model.School, error) {
	var s model.School
	err := r.DB.First(&s, id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SchoolRepository) List(page, limit int) ([]model.School, int64, error) {
	var schools []model.School
	var total int64
	query := r.DB.Model(&model.School{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("name asc").Offset(offset).Limit(limit).Find(&schools).Error
	return schools, total, err
}

func (r *SchoolRepository) Update(school *model.School) error {
	return r.DB.Save(school).Error
}

func (r *SchoolRepository) Delete(id uint) error {
	return r.DB.Delete(&model.School{}, id).Error
}
