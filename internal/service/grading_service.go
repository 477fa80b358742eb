package service

import (
	"errors"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

// GradingService 人工判分与成绩读取路径
type GradingService struct {
	DB             *gorm.DB
	SubmissionRepo *repository.SubmissionRepository
	AssessmentRepo *repository.AssessmentRepository
}

func NewGradingService(db *gorm.DB, submissionRepo *repository.SubmissionRepository,
	assessmentRepo *repository.AssessmentRepository) *GradingService {
	return &GradingService{DB: db, SubmissionRepo: submissionRepo, AssessmentRepo: assessmentRepo}
}

type GradeSubmissionRequest struct {
	QuestionID     uint    `json:"questionId" binding:"required"`
	Points         float64 `json:"points"`
	AnswerFeedback string  `json:"answerFeedback"`
	// Feedback 追加到提交整体反馈，空行分隔
	Feedback string `json:"feedback"`
}

// GradeSubmission 给单题判分后重算整卷：总分为全部已判分答案之和；
// 所有答案都有分值时提交进入graded，否则保持submitted
func (s *GradingService) GradeSubmission(submissionID uint, req GradeSubmissionRequest) (*model.Submission, error) {
	submission, err := s.SubmissionRepo.FindByID(submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSubmissionNotFound
		}
		return nil, err
	}

	answer, err := s.SubmissionRepo.FindAnswerWithQuestion(submissionID, req.QuestionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAnswerNotFound
		}
		return nil, err
	}
	if req.Points < 0 || (answer.Question != nil && req.Points > answer.Question.Points) {
		return nil, util.ErrInvalidPoints
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		answer.PointsAwarded = &req.Points
		answer.Feedback = req.AnswerFeedback
		if err := tx.Save(answer).Error; err != nil {
			return err
		}

		var answers []model.AnswerResponse
		if err := tx.Where("submission_id = ?", submissionID).Find(&answers).Error; err != nil {
			return err
		}
		var score float64
		allGraded := true
		for _, a := range answers {
			if a.PointsAwarded == nil {
				allGraded = false
				continue
			}
			score += *a.PointsAwarded
		}

		submission.Score = score
		if allGraded {
			submission.Status = model.Graded
		} else {
			submission.Status = model.Submitted
		}
		if req.Feedback != "" {
			if submission.Feedback != "" {
				submission.Feedback += "\n\n" + req.Feedback
			} else {
				submission.Feedback = req.Feedback
			}
		}
		return tx.Save(submission).Error
	})
	if err != nil {
		return nil, err
	}
	return submission, nil
}

// GetSubmission 教师端读取单个提交
func (s *GradingService) GetSubmission(id uint, eager repository.SubmissionEagerLoad) (*model.Submission, error) {
	var submission *model.Submission
	var err error
	if eager.Answers {
		submission, err = s.SubmissionRepo.FindByIDWithAnswers(id)
	} else {
		submission, err = s.SubmissionRepo.FindByID(id)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSubmissionNotFound
		}
		return nil, err
	}
	return submission, nil
}

// GetSubmissionsForAssessment 测评下全部提交，按完成度与时间排序
func (s *GradingService) GetSubmissionsForAssessment(assessmentID uint, eager repository.SubmissionEagerLoad) ([]model.Submission, error) {
	if _, err := s.AssessmentRepo.FindByID(assessmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAssessmentNotFound
		}
		return nil, err
	}
	return s.SubmissionRepo.ListByAssessment(assessmentID, eager)
}

// GetStudentSubmission 学员在某测评下最完整、最新的一次提交
func (s *GradingService) GetStudentSubmission(userID, assessmentID uint, eager repository.SubmissionEagerLoad) (*model.Submission, error) {
	items, err := s.SubmissionRepo.ListByUserAndAssessment(userID, assessmentID, eager)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, util.ErrSubmissionNotFound
	}
	return &items[0], nil
}

// GetStudentSubmissions 学员在某测评下的全部提交
func (s *GradingService) GetStudentSubmissions(userID, assessmentID uint, eager repository.SubmissionEagerLoad) ([]model.Submission, error) {
	return s.SubmissionRepo.ListByUserAndAssessment(userID, assessmentID, eager)
}
