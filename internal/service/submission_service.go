package service

import (
	"errors"
	"strings"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubmissionService 提交工作流：开始作答、保存答案、交卷自动判分
type SubmissionService struct {
	DB             *gorm.DB
	SubmissionRepo *repository.SubmissionRepository
	AssessmentRepo *repository.AssessmentRepository
	ModuleRepo     *repository.ModuleRepository
	ModuleGradeSvc *ModuleGradeService
}

func NewSubmissionService(db *gorm.DB, submissionRepo *repository.SubmissionRepository,
	assessmentRepo *repository.AssessmentRepository, moduleRepo *repository.ModuleRepository,
	moduleGradeSvc *ModuleGradeService) *SubmissionService {
	return &SubmissionService{
		DB:             db,
		SubmissionRepo: submissionRepo,
		AssessmentRepo: assessmentRepo,
		ModuleRepo:     moduleRepo,
		ModuleGradeSvc: moduleGradeSvc,
	}
}

type SaveAnswerRequest struct {
	QuestionID       uint    `json:"questionId" binding:"required"`
	SelectedOptionID *uint   `json:"selectedOptionId"`
	TextResponse     *string `json:"textResponse"`
}

// StartSubmission 恢复未完成的提交或开启新尝试。
// 前置条件：所在模块之前的模块必须全部通过；尝试次数不得超过allowed_attempts。
// 查重与建行放在同一事务内并对既有提交行加锁，防止并发下超出次数上限。
func (s *SubmissionService) StartSubmission(assessmentID, userID uint) (*model.Submission, error) {
	if existing, err := s.SubmissionRepo.FindInProgress(userID, assessmentID); err == nil {
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	assessment, err := s.AssessmentRepo.FindByID(assessmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAssessmentNotFound
		}
		return nil, err
	}

	if err := s.checkModuleGate(assessment.ModuleID, userID); err != nil {
		return nil, err
	}

	var submission *model.Submission
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		query := tx
		// sqlite不支持行锁
		if tx.Dialector.Name() == "mysql" {
			query = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var rows []model.Submission
		if err := query.
			Where("user_id = ? AND assessment_id = ?", userID, assessmentID).
			Find(&rows).Error; err != nil {
			return err
		}
		for i := range rows {
			if rows[i].Status == model.InProgress {
				submission = &rows[i]
				return nil
			}
		}
		if len(rows) >= assessment.AllowedAttempts {
			return util.ErrInvalidAttempt
		}
		submission = &model.Submission{
			AssessmentID: assessmentID,
			UserID:       userID,
			MaxScore:     assessment.MaxScore,
			Status:       model.InProgress,
			StartTime:    time.Now(),
		}
		return tx.Create(submission).Error
	})
	if err != nil {
		return nil, err
	}
	return submission, nil
}

// checkModuleGate 按order_index顺序，前一模块未全部通过时禁止开始本模块的测评
func (s *SubmissionService) checkModuleGate(moduleID, userID uint) error {
	module, err := s.ModuleRepo.FindByID(moduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrModuleNotFound
		}
		return err
	}
	modules, err := s.ModuleRepo.ListByCourse(module.CourseID)
	if err != nil {
		return err
	}
	var previous *model.Module
	for i := range modules {
		if modules[i].ID == moduleID {
			if i > 0 {
				previous = &modules[i-1]
			}
			break
		}
	}
	if previous == nil {
		return nil
	}
	gate, err := s.ModuleGradeSvc.GetModuleGradeOfUser(userID, previous.ID)
	if err != nil {
		return err
	}
	if !gate.AllPassed {
		return util.ErrInvalidAttempt
	}
	return nil
}

// SaveAnswer 按题型校验答案形态后按(submission, question)upsert。
// 只有in_progress状态的提交可以修改答案。
func (s *SubmissionService) SaveAnswer(submissionID, userID uint, req SaveAnswerRequest) (*model.AnswerResponse, error) {
	submission, err := s.SubmissionRepo.FindByID(submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSubmissionNotFound
		}
		return nil, err
	}
	if submission.UserID != userID {
		return nil, util.ErrUnauthorizedSubmission
	}
	if submission.Status != model.InProgress {
		return nil, util.ErrCannotModifySubmitted
	}

	question, err := s.AssessmentRepo.FindQuestionByID(req.QuestionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	if question.AssessmentID != submission.AssessmentID {
		return nil, util.ErrQuestionNotFound
	}

	if question.QuestionType.IsChoice() {
		if req.SelectedOptionID == nil || req.TextResponse != nil {
			return nil, util.ErrInvalidAnswerFormat
		}
		if !optionBelongs(question, *req.SelectedOptionID) {
			return nil, util.ErrOptionNotFound
		}
	} else {
		if req.SelectedOptionID != nil || req.TextResponse == nil || strings.TrimSpace(*req.TextResponse) == "" {
			return nil, util.ErrInvalidAnswerFormat
		}
	}

	answer, err := s.SubmissionRepo.FindAnswer(submissionID, req.QuestionID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		answer = &model.AnswerResponse{SubmissionID: submissionID, QuestionID: req.QuestionID}
	}
	answer.SelectedOptionID = req.SelectedOptionID
	answer.TextResponse = req.TextResponse
	// 重新作答后旧判分作废
	answer.PointsAwarded = nil

	if answer.ID == 0 {
		err = s.SubmissionRepo.CreateAnswer(answer)
	} else {
		err = s.SubmissionRepo.UpdateAnswer(answer)
	}
	if err != nil {
		return nil, err
	}
	return answer, nil
}

// SubmitAssessment 交卷：选择题自动判分，主观题留待人工。
// 全部答案都有分值时直接进入graded，否则为submitted。
func (s *SubmissionService) SubmitAssessment(submissionID, userID uint) (*model.Submission, error) {
	submission, err := s.SubmissionRepo.FindByID(submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSubmissionNotFound
		}
		return nil, err
	}
	if submission.UserID != userID {
		return nil, util.ErrUnauthorizedSubmission
	}
	if submission.Status != model.InProgress {
		return nil, util.ErrAlreadySubmitted
	}

	assessment, err := s.AssessmentRepo.FindByID(submission.AssessmentID)
	if err != nil {
		return nil, err
	}

	answers, err := s.SubmissionRepo.ListAnswers(submissionID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var score float64
	allGraded := true
	for i := range answers {
		answer := &answers[i]
		if answer.Question != nil && answer.Question.QuestionType.IsChoice() {
			awarded := autoGradeChoice(answer)
			answer.PointsAwarded = &awarded
		}
		if answer.PointsAwarded == nil {
			allGraded = false
			continue
		}
		score += *answer.PointsAwarded
	}

	status := model.Submitted
	if allGraded {
		status = model.Graded
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		for i := range answers {
			if err := tx.Save(&answers[i]).Error; err != nil {
				return err
			}
		}
		submission.Score = score
		submission.Status = status
		submission.SubmitTime = &now
		submission.IsLate = assessment.DueDate != nil && now.After(*assessment.DueDate)
		return tx.Save(submission).Error
	})
	if err != nil {
		return nil, err
	}
	return submission, nil
}

// autoGradeChoice 选中正确选项得满分，否则0分
func autoGradeChoice(answer *model.AnswerResponse) float64 {
	if answer.SelectedOptionID == nil {
		return 0
	}
	for _, opt := range answer.Question.Options {
		if opt.ID == *answer.SelectedOptionID && opt.IsCorrect {
			return answer.Question.Points
		}
	}
	return 0
}

func optionBelongs(q *model.Question, optionID uint) bool {
	for _, opt := range q.Options {
		if opt.ID == optionID {
			return true
		}
	}
	return false
}
