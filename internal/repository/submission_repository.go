package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

// statusRank 将提交状态映射为可移植的排序权重（graded最高）
const statusRank = "CASE status WHEN 'graded' THEN 2 WHEN 'submitted' THEN 1 ELSE 0 END"

type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

func (r *SubmissionRepository) Create(s *model.Submission) error {
	return r.DB.Create(s).Error
}

func (r *SubmissionRepository) FindByID(id uint) (*model.Submission, error) {
	var s model.Submission
	err := r.DB.First(&s, id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubmissionRepository) FindByIDWithAnswers(id uint) (*model.Submission, error) {
	var s model.Submission
	err := r.DB.
		Preload("Answers").
		Preload("Answers.Question").
		Preload("Answers.Question.Options").
		First(&s, id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubmissionRepository) Update(s *model.Submission) error {
	return r.DB.Save(s).Error
}

func (r *SubmissionRepository) FindInProgress(userID, assessmentID uint) (*model.Submission, error) {
	var s model.Submission
	err := r.DB.Where("user_id = ? AND assessment_id = ? AND status = ?",
		userID, assessmentID, model.InProgress).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubmissionRepository) CountByUserAndAssessment(userID, assessmentID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Submission{}).
		Where("user_id = ? AND assessment_id = ?", userID, assessmentID).
		Count(&count).Error
	return count, err
}

// BestGradedSubmission 返回该学员在某测评下得分最高的已评分提交
func (r *SubmissionRepository) BestGradedSubmission(userID, assessmentID uint) (*model.Submission, error) {
	var s model.Submission
	err := r.DB.Where("user_id = ? AND assessment_id = ? AND status = ?",
		userID, assessmentID, model.Graded).
		Order("score desc").First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

type SubmissionEagerLoad struct {
	User    bool
	Answers bool
}

func (r *SubmissionRepository) applyEager(query *gorm.DB, eager SubmissionEagerLoad) *gorm.DB {
	if eager.User {
		query = query.Preload("User")
	}
	if eager.Answers {
		query = query.
			Preload("Answers").
			Preload("Answers.Question").
			Preload("Answers.Question.Options")
	}
	return query
}

func (r *SubmissionRepository) ListByAssessment(assessmentID uint, eager SubmissionEagerLoad) ([]model.Submission, error) {
	var items []model.Submission
	query := r.applyEager(r.DB, eager)
	err := query.Where("assessment_id = ?", assessmentID).
		Order(statusRank + " desc, submit_time desc, start_time desc").
		Find(&items).Error
	return items, err
}

// ListByUserAndAssessment 最完整、最新的提交排在最前
func (r *SubmissionRepository) ListByUserAndAssessment(userID, assessmentID uint, eager SubmissionEagerLoad) ([]model.Submission, error) {
	var items []model.Submission
	query := r.applyEager(r.DB, eager)
	err := query.Where("user_id = ? AND assessment_id = ?", userID, assessmentID).
		Order(statusRank + " desc, submit_time desc, start_time desc").
		Find(&items).Error
	return items, err
}

func (r *SubmissionRepository) FindAnswer(submissionID, questionID uint) (*model.AnswerResponse, error) {
	var a model.AnswerResponse
	err := r.DB.Where("submission_id = ? AND question_id = ?", submissionID, questionID).First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *SubmissionRepository) FindAnswerWithQuestion(submissionID, questionID uint) (*model.AnswerResponse, error) {
	var a model.AnswerResponse
	err := r.DB.Preload("Question").
		Where("submission_id = ? AND question_id = ?", submissionID, questionID).First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *SubmissionRepository) CreateAnswer(a *model.AnswerResponse) error {
	return r.DB.Create(a).Error
}

func (r *SubmissionRepository) UpdateAnswer(a *model.AnswerResponse) error {
	return r.DB.Save(a).Error
}

// ListAnswers 带题目与选项，用于判分
func (r *SubmissionRepository) ListAnswers(submissionID uint) ([]model.AnswerResponse, error) {
	var answers []model.AnswerResponse
	err := r.DB.Preload("Question").Preload("Question.Options").
		Where("submission_id = ?", submissionID).Find(&answers).Error
	return answers, err
}
