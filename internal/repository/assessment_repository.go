package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type AssessmentRepository struct {
	DB *gorm.DB
}

func NewAssessmentRepository(db *gorm.DB) *AssessmentRepository {
	return &AssessmentRepository{DB: db}
}

func (r *AssessmentRepository) Create(a *model.Assessment) error {
	return r.DB.Create(a).Error
}

func (r *AssessmentRepository) FindByID(id uint) (*model.Assessment, error) {
	var a model.Assessment
	err := r.DB.First(&a, id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AssessmentRepository) FindByIDWithQuestions(id uint) (*model.Assessment, error) {
	var a model.Assessment
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.order_index asc")
	}).Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("question_options.order_index asc")
	}).First(&a, id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AssessmentRepository) ListByModule(moduleID uint) ([]model.Assessment, error) {
	var items []model.Assessment
	err := r.DB.Where("module_id = ?", moduleID).Order("created_at asc").Find(&items).Error
	return items, err
}

func (r *AssessmentRepository) ListPublishedByModule(moduleID uint) ([]model.Assessment, error) {
	var items []model.Assessment
	err := r.DB.Where("module_id = ? AND is_published = ?", moduleID, true).
		Order("created_at asc").Find(&items).Error
	return items, err
}

func (r *AssessmentRepository) Update(a *model.Assessment) error {
	return r.DB.Save(a).Error
}

// SumQuestionPoints 统计测评下题目分值之和；excludeQuestionID>0时排除该题（用于更新校验）
func (r *AssessmentRepository) SumQuestionPoints(assessmentID, excludeQuestionID uint) (float64, error) {
	var sum *float64
	query := r.DB.Model(&model.Question{}).Where("assessment_id = ?", assessmentID)
	if excludeQuestionID > 0 {
		query = query.Where("id <> ?", excludeQuestionID)
	}
	if err := query.Select("SUM(points)").Scan(&sum).Error; err != nil {
		return 0, err
	}
	if sum == nil {
		return 0, nil
	}
	return *sum, nil
}

func (r *AssessmentRepository) FindQuestionByID(id uint) (*model.Question, error) {
	var q model.Question
	err := r.DB.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("question_options.order_index asc")
	}).First(&q, id).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *AssessmentRepository) CountSubmissions(assessmentID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Submission{}).Where("assessment_id = ?", assessmentID).Count(&count).Error
	return count, err
}

func (r *AssessmentRepository) CountAnswersForQuestion(questionID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.AnswerResponse{}).Where("question_id = ?", questionID).Count(&count).Error
	return count, err
}
