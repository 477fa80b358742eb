package service

import (
	"context"
	"strconv"
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/pkg/database"
	"lms_backend/pkg/logger"
	"lms_backend/pkg/mailer"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	logger.Log = zap.NewNop()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "init db failed")
	require.NoError(t, database.Migrate(db), "migrate failed")
	return db
}

// fakeMailer 记录发出的邮件，可注入错误
type fakeMailer struct {
	sent []mailer.Message
	err  error
}

func (f *fakeMailer) Send(_ context.Context, msg mailer.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

var userSeq = 0

func createTestUser(t *testing.T, db *gorm.DB, role model.UserRole) *model.User {
	t.Helper()
	userSeq++
	u := &model.User{
		Name:  "User" + strconv.Itoa(userSeq),
		Email: "u" + strconv.Itoa(userSeq) + "@example.com",
		Role:  role,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// createTestCourse 按服务路径建课，顺带创建学员组
func createTestCourse(t *testing.T, db *gorm.DB) *model.Course {
	t.Helper()
	school := &model.School{Name: "School " + strconv.Itoa(userSeq)}
	userSeq++
	require.NoError(t, db.Create(school).Error)

	svc := NewCourseService(db, repository.NewCourseRepository(db),
		repository.NewSchoolRepository(db), repository.NewModuleRepository(db))
	course, err := svc.CreateCourse(CourseRequest{
		SchoolID: school.ID,
		Title:    "Course " + strconv.Itoa(userSeq),
		Code:     "C-" + strconv.Itoa(userSeq),
	})
	require.NoError(t, err)
	return course
}

func createTestModule(t *testing.T, db *gorm.DB, courseID uint, order int) *model.Module {
	t.Helper()
	m := &model.Module{CourseID: courseID, Title: "Module " + strconv.Itoa(order), OrderIndex: order}
	require.NoError(t, db.Create(m).Error)
	return m
}

func newAssessmentService(db *gorm.DB, m mailer.Mailer) *AssessmentService {
	groupRepo := repository.NewGroupRepository(db)
	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	notifier := NewNotificationService(groupRepo, userRepo, courseRepo, m)
	return NewAssessmentService(db, repository.NewAssessmentRepository(db),
		repository.NewModuleRepository(db), courseRepo, notifier)
}

func newSubmissionService(db *gorm.DB) *SubmissionService {
	moduleGrade := newModuleGradeService(db)
	return NewSubmissionService(db, repository.NewSubmissionRepository(db),
		repository.NewAssessmentRepository(db), repository.NewModuleRepository(db), moduleGrade)
}

func newModuleGradeService(db *gorm.DB) *ModuleGradeService {
	return NewModuleGradeService(repository.NewUserRepository(db), repository.NewModuleRepository(db),
		repository.NewAssessmentRepository(db), repository.NewSubmissionRepository(db),
		repository.NewModuleGradeRepository(db))
}

func newGradingService(db *gorm.DB) *GradingService {
	return NewGradingService(db, repository.NewSubmissionRepository(db),
		repository.NewAssessmentRepository(db))
}

// createPublishedAssessment 一道选择题+一道问答题，分值和等于maxScore
func createPublishedAssessment(t *testing.T, db *gorm.DB, svc *AssessmentService, moduleID uint,
	maxScore float64, passing *float64, attempts int) *model.Assessment {
	t.Helper()
	a, err := svc.CreateAssessment(AssessmentRequest{
		ModuleID:        moduleID,
		Title:           "Checkpoint",
		Type:            model.Quiz,
		MaxScore:        maxScore,
		PassingScore:    passing,
		AllowedAttempts: attempts,
	})
	require.NoError(t, err)

	choicePoints := maxScore / 2
	_, err = svc.AddQuestion(a.ID, QuestionRequest{
		QuestionText: "Pick the right one",
		QuestionType: model.MultipleChoice,
		Points:       choicePoints,
		Options: []QuestionOptionRequest{
			{OptionText: "wrong"},
			{OptionText: "right", IsCorrect: true},
		},
	})
	require.NoError(t, err)

	_, err = svc.AddQuestion(a.ID, QuestionRequest{
		QuestionText: "Explain your answer",
		QuestionType: model.Essay,
		Points:       maxScore - choicePoints,
	})
	require.NoError(t, err)

	published, err := svc.PublishAssessment(context.Background(), a.ID)
	require.NoError(t, err)
	return published
}

func correctOptionID(t *testing.T, db *gorm.DB, questionID uint) uint {
	t.Helper()
	var opt model.QuestionOption
	require.NoError(t, db.Where("question_id = ? AND is_correct = ?", questionID, true).First(&opt).Error)
	return opt.ID
}

func wrongOptionID(t *testing.T, db *gorm.DB, questionID uint) uint {
	t.Helper()
	var opt model.QuestionOption
	require.NoError(t, db.Where("question_id = ? AND is_correct = ?", questionID, false).First(&opt).Error)
	return opt.ID
}
