package service

import (
	"errors"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ModuleGradeService 汇总学员在模块内全部测评的成绩，并维护ModuleGrade缓存行
type ModuleGradeService struct {
	UserRepo        *repository.UserRepository
	ModuleRepo      *repository.ModuleRepository
	AssessmentRepo  *repository.AssessmentRepository
	SubmissionRepo  *repository.SubmissionRepository
	ModuleGradeRepo *repository.ModuleGradeRepository
}

func NewModuleGradeService(userRepo *repository.UserRepository, moduleRepo *repository.ModuleRepository,
	assessmentRepo *repository.AssessmentRepository, submissionRepo *repository.SubmissionRepository,
	moduleGradeRepo *repository.ModuleGradeRepository) *ModuleGradeService {
	return &ModuleGradeService{
		UserRepo:        userRepo,
		ModuleRepo:      moduleRepo,
		AssessmentRepo:  assessmentRepo,
		SubmissionRepo:  submissionRepo,
		ModuleGradeRepo: moduleGradeRepo,
	}
}

type ModuleGradeResult struct {
	AllGraded    bool               `json:"allGraded"`
	AllPassed    bool               `json:"allPassed"`
	AverageScore float64            `json:"averageScore"`
	Submissions  []model.Submission `json:"submissions"`
}

// GetModuleGradeOfUser 取每个测评下得分最高的已评分提交进行汇总。
// 模块没有测评时视为通过（allGraded、allPassed为真，平均分100）。
func (s *ModuleGradeService) GetModuleGradeOfUser(userID, moduleID uint) (*ModuleGradeResult, error) {
	if _, err := s.UserRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	if _, err := s.ModuleRepo.FindByID(moduleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrModuleNotFound
		}
		return nil, err
	}

	assessments, err := s.AssessmentRepo.ListByModule(moduleID)
	if err != nil {
		return nil, err
	}

	result := &ModuleGradeResult{AllGraded: true, AllPassed: true}
	if len(assessments) == 0 {
		result.AverageScore = 100
		s.cacheGrade(userID, moduleID, result.AverageScore)
		return result, nil
	}

	var scoreSum, maxSum float64
	failed := false
	for _, a := range assessments {
		best, err := s.SubmissionRepo.BestGradedSubmission(userID, a.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				result.AllGraded = false
				continue
			}
			return nil, err
		}
		result.Submissions = append(result.Submissions, *best)
		scoreSum += best.Score
		maxSum += a.MaxScore
		if a.PassingScore != nil && best.Score < *a.PassingScore {
			failed = true
		}
	}

	result.AllPassed = result.AllGraded && !failed
	if maxSum > 0 {
		result.AverageScore = util.Round2(scoreSum / maxSum * 100)
	}
	s.cacheGrade(userID, moduleID, result.AverageScore)
	return result, nil
}

// cacheGrade 缓存写失败不影响读路径
func (s *ModuleGradeService) cacheGrade(userID, moduleID uint, grade float64) {
	if err := s.ModuleGradeRepo.Upsert(userID, moduleID, grade); err != nil {
		logger.Log.Warn("failed to cache module grade",
			zap.Uint("userId", userID), zap.Uint("moduleId", moduleID), zap.Error(err))
	}
}
