package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ModuleGradeRepository struct {
	DB *gorm.DB
}

func NewModuleGradeRepository(db *gorm.DB) *ModuleGradeRepository {
	return &ModuleGradeRepository{DB: db}
}

// Upsert 以(user_id, module_id)为键更新缓存行
func (r *ModuleGradeRepository) Upsert(userID, moduleID uint, grade float64) error {
	mg := model.ModuleGrade{UserID: userID, ModuleID: moduleID, Grade: grade}
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "module_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"grade", "updated_at"}),
	}).Create(&mg).Error
}

func (r *ModuleGradeRepository) Find(userID, moduleID uint) (*model.ModuleGrade, error) {
	var mg model.ModuleGrade
	err := r.DB.Where("user_id = ? AND module_id = ?", userID, moduleID).First(&mg).Error
	if err != nil {
		return nil, err
	}
	return &mg, nil
}
