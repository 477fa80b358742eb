package service

import (
	"context"
	"errors"
	"math"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AssessmentService 测评与题目的创作流程，发布前校验分值预算
type AssessmentService struct {
	DB             *gorm.DB
	AssessmentRepo *repository.AssessmentRepository
	ModuleRepo     *repository.ModuleRepository
	CourseRepo     *repository.CourseRepository
	Notifier       *NotificationService
}

func NewAssessmentService(db *gorm.DB, assessmentRepo *repository.AssessmentRepository,
	moduleRepo *repository.ModuleRepository, courseRepo *repository.CourseRepository,
	notifier *NotificationService) *AssessmentService {
	return &AssessmentService{
		DB:             db,
		AssessmentRepo: assessmentRepo,
		ModuleRepo:     moduleRepo,
		CourseRepo:     courseRepo,
		Notifier:       notifier,
	}
}

type AssessmentRequest struct {
	ModuleID        uint                 `json:"moduleId" binding:"required"`
	Title           string               `json:"title" binding:"required"`
	Type            model.AssessmentType `json:"type"`
	MaxScore        float64              `json:"maxScore" binding:"required"`
	PassingScore    *float64             `json:"passingScore"`
	AllowedAttempts int                  `json:"allowedAttempts"`
	DueDate         *time.Time           `json:"dueDate"`
	Instructions    string               `json:"instructions"`
}

type QuestionOptionRequest struct {
	OptionText string `json:"optionText" binding:"required"`
	IsCorrect  bool   `json:"isCorrect"`
}

type QuestionRequest struct {
	QuestionText string                  `json:"questionText" binding:"required"`
	QuestionType model.QuestionType      `json:"questionType" binding:"required"`
	Points       float64                 `json:"points" binding:"required"`
	OrderIndex   int                     `json:"orderIndex"`
	Options      []QuestionOptionRequest `json:"options"`
}

func (s *AssessmentService) validateAssessmentFields(req *AssessmentRequest) error {
	if req.Type == "" {
		req.Type = model.Quiz
	}
	if !model.ValidAssessmentType(req.Type) {
		return util.ErrInvalidAssessmentType
	}
	if req.AllowedAttempts <= 0 {
		return util.ErrInvalidAllowedAttempts
	}
	if req.PassingScore != nil && *req.PassingScore > req.MaxScore {
		return util.ErrInvalidScoreRange
	}
	return nil
}

func (s *AssessmentService) CreateAssessment(req AssessmentRequest) (*model.Assessment, error) {
	if _, err := s.ModuleRepo.FindByID(req.ModuleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrModuleNotFound
		}
		return nil, err
	}
	if err := s.validateAssessmentFields(&req); err != nil {
		return nil, err
	}

	a := &model.Assessment{
		ModuleID:        req.ModuleID,
		Title:           req.Title,
		Type:            req.Type,
		MaxScore:        req.MaxScore,
		PassingScore:    req.PassingScore,
		AllowedAttempts: req.AllowedAttempts,
		DueDate:         req.DueDate,
		Instructions:    req.Instructions,
	}
	if err := s.AssessmentRepo.Create(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AssessmentService) GetAssessment(id uint) (*model.Assessment, error) {
	a, err := s.AssessmentRepo.FindByIDWithQuestions(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAssessmentNotFound
		}
		return nil, err
	}
	return a, nil
}

func (s *AssessmentService) ListByModule(moduleID uint, publishedOnly bool) ([]model.Assessment, error) {
	if _, err := s.ModuleRepo.FindByID(moduleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrModuleNotFound
		}
		return nil, err
	}
	if publishedOnly {
		return s.AssessmentRepo.ListPublishedByModule(moduleID)
	}
	return s.AssessmentRepo.ListByModule(moduleID)
}

// UpdateAssessment 仅允许修改未发布的测评；收紧max_score时不得低于已有题目分值之和
func (s *AssessmentService) UpdateAssessment(id uint, req AssessmentRequest) (*model.Assessment, error) {
	a, err := s.findEditable(id)
	if err != nil {
		return nil, err
	}
	req.ModuleID = a.ModuleID
	if err := s.validateAssessmentFields(&req); err != nil {
		return nil, err
	}

	sum, err := s.AssessmentRepo.SumQuestionPoints(id, 0)
	if err != nil {
		return nil, err
	}
	if sum > req.MaxScore {
		return nil, util.ErrInvalidTotalPoints
	}

	a.Title = req.Title
	a.Type = req.Type
	a.MaxScore = req.MaxScore
	a.PassingScore = req.PassingScore
	a.AllowedAttempts = req.AllowedAttempts
	a.DueDate = req.DueDate
	a.Instructions = req.Instructions
	if err := s.AssessmentRepo.Update(a); err != nil {
		return nil, err
	}
	return a, nil
}

// DeleteAssessment 有提交记录的测评不可删除
func (s *AssessmentService) DeleteAssessment(id uint) error {
	a, err := s.findEditable(id)
	if err != nil {
		return err
	}
	count, err := s.AssessmentRepo.CountSubmissions(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return util.ErrHasSubmissions
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id IN (?)",
			tx.Model(&model.Question{}).Select("id").Where("assessment_id = ?", id),
		).Delete(&model.QuestionOption{}).Error; err != nil {
			return err
		}
		if err := tx.Where("assessment_id = ?", id).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		return tx.Delete(a).Error
	})
}

func (s *AssessmentService) validateQuestionFields(req *QuestionRequest) error {
	if !model.ValidQuestionType(req.QuestionType) {
		return util.ErrInvalidQuestionType
	}
	if req.Points < 1 {
		return util.ErrInvalidQuestionPoints
	}
	if req.QuestionType.IsChoice() && len(req.Options) < 2 {
		return util.ErrNotEnoughOptions
	}
	return nil
}

// AddQuestion 题目入库前检查分值预算：现有分值和加新题分值不得超过max_score
func (s *AssessmentService) AddQuestion(assessmentID uint, req QuestionRequest) (*model.Question, error) {
	a, err := s.findEditable(assessmentID)
	if err != nil {
		return nil, err
	}
	if err := s.validateQuestionFields(&req); err != nil {
		return nil, err
	}

	sum, err := s.AssessmentRepo.SumQuestionPoints(assessmentID, 0)
	if err != nil {
		return nil, err
	}
	if sum+req.Points > a.MaxScore {
		return nil, util.ErrInvalidTotalPoints
	}

	q := &model.Question{
		AssessmentID: assessmentID,
		QuestionText: req.QuestionText,
		QuestionType: req.QuestionType,
		Points:       req.Points,
		OrderIndex:   req.OrderIndex,
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(q).Error; err != nil {
			return err
		}
		return createOptions(tx, q.ID, req.Options)
	})
	if err != nil {
		return nil, err
	}
	return s.AssessmentRepo.FindQuestionByID(q.ID)
}

// UpdateQuestion 类型改为选择题时必须随请求提供选项；改为非选择题时清空旧选项。
// 保持选择题类型且未提供选项时沿用原有选项。
func (s *AssessmentService) UpdateQuestion(questionID uint, req QuestionRequest) (*model.Question, error) {
	q, err := s.AssessmentRepo.FindQuestionByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	a, err := s.findEditable(q.AssessmentID)
	if err != nil {
		return nil, err
	}

	if !model.ValidQuestionType(req.QuestionType) {
		return nil, util.ErrInvalidQuestionType
	}
	if req.Points < 1 {
		return nil, util.ErrInvalidQuestionPoints
	}
	keepExistingOptions := req.QuestionType.IsChoice() && q.QuestionType.IsChoice() && len(req.Options) == 0
	if req.QuestionType.IsChoice() && !keepExistingOptions && len(req.Options) < 2 {
		return nil, util.ErrNotEnoughOptions
	}

	sum, err := s.AssessmentRepo.SumQuestionPoints(q.AssessmentID, questionID)
	if err != nil {
		return nil, err
	}
	if sum+req.Points > a.MaxScore {
		return nil, util.ErrInvalidTotalPoints
	}

	q.QuestionText = req.QuestionText
	q.QuestionType = req.QuestionType
	q.Points = req.Points
	q.OrderIndex = req.OrderIndex
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(q).Error; err != nil {
			return err
		}
		if keepExistingOptions {
			return nil
		}
		if err := tx.Where("question_id = ?", questionID).Delete(&model.QuestionOption{}).Error; err != nil {
			return err
		}
		if !req.QuestionType.IsChoice() {
			return nil
		}
		return createOptions(tx, questionID, req.Options)
	})
	if err != nil {
		return nil, err
	}
	return s.AssessmentRepo.FindQuestionByID(questionID)
}

// DeleteQuestion 已有作答记录的题目不可删除
func (s *AssessmentService) DeleteQuestion(questionID uint) error {
	q, err := s.AssessmentRepo.FindQuestionByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuestionNotFound
		}
		return err
	}
	if _, err := s.findEditable(q.AssessmentID); err != nil {
		return err
	}
	count, err := s.AssessmentRepo.CountAnswersForQuestion(questionID)
	if err != nil {
		return err
	}
	if count > 0 {
		return util.ErrHasAnswers
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", questionID).Delete(&model.QuestionOption{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Question{}, questionID).Error
	})
}

// PublishAssessment 题目分值之和必须恰好等于max_score才能发布；
// 发布成功后向课程学员组扇出通知，通知失败不影响发布结果
func (s *AssessmentService) PublishAssessment(ctx context.Context, id uint) (*model.Assessment, error) {
	a, err := s.AssessmentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAssessmentNotFound
		}
		return nil, err
	}
	if a.IsPublished {
		return a, nil
	}

	sum, err := s.AssessmentRepo.SumQuestionPoints(id, 0)
	if err != nil {
		return nil, err
	}
	if math.Abs(sum-a.MaxScore) > 1e-9 {
		return nil, util.ErrPointsMismatch
	}

	a.IsPublished = true
	if err := s.AssessmentRepo.Update(a); err != nil {
		return nil, err
	}

	s.notifyPublished(ctx, a)
	return a, nil
}

// UnpublishAssessment 下架后测评重新可编辑
func (s *AssessmentService) UnpublishAssessment(id uint) (*model.Assessment, error) {
	a, err := s.AssessmentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAssessmentNotFound
		}
		return nil, err
	}
	if !a.IsPublished {
		return a, nil
	}
	a.IsPublished = false
	if err := s.AssessmentRepo.Update(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AssessmentService) notifyPublished(ctx context.Context, a *model.Assessment) {
	module, err := s.ModuleRepo.FindByID(a.ModuleID)
	if err != nil {
		logger.Log.Error("publish notification: module lookup failed",
			zap.Uint("assessmentId", a.ID), zap.Error(err))
		return
	}
	course, err := s.CourseRepo.FindByID(module.CourseID)
	if err != nil {
		logger.Log.Error("publish notification: course lookup failed",
			zap.Uint("assessmentId", a.ID), zap.Error(err))
		return
	}
	s.Notifier.NotifyAssessmentPublished(ctx, course, a)
}

// findEditable 返回测评，已发布时拒绝修改
func (s *AssessmentService) findEditable(id uint) (*model.Assessment, error) {
	a, err := s.AssessmentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAssessmentNotFound
		}
		return nil, err
	}
	if a.IsPublished {
		return nil, util.ErrAssessmentPublished
	}
	return a, nil
}

func createOptions(tx *gorm.DB, questionID uint, opts []QuestionOptionRequest) error {
	for i, o := range opts {
		option := model.QuestionOption{
			QuestionID: questionID,
			OptionText: o.OptionText,
			IsCorrect:  o.IsCorrect,
			OrderIndex: i,
		}
		if err := tx.Create(&option).Error; err != nil {
			return err
		}
	}
	return nil
}
