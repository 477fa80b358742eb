package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type ContentRepository struct {
	DB *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{DB: db}
}

func (r *ContentRepository) Create(c *model.Content) error {
	return r.DB.Create(c).Error
}

func (r *ContentRepository) FindByID(id uint) (*model.Content, error) {
	var c model.Content
	err := r.DB.First(&c, id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ContentRepository) ListByModule(moduleID uint) ([]model.Content, error) {
	var contents []model.Content
	err := r.DB.Where("module_id = ?", moduleID).Order("order_index asc, created_at asc").Find(&contents).Error
	return contents, err
}

func (r *ContentRepository) Update(c *model.Content) error {
	return r.DB.Save(c).Error
}

func (r *ContentRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Content{}, id).Error
}
