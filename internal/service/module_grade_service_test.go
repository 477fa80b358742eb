package service

import (
	"testing"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func gradedSubmission(t *testing.T, db *gorm.DB, assessmentID, userID uint, score, maxScore float64) *model.Submission {
	t.Helper()
	now := time.Now()
	s := &model.Submission{
		AssessmentID: assessmentID,
		UserID:       userID,
		MaxScore:     maxScore,
		Score:        score,
		Status:       model.Graded,
		StartTime:    now.Add(-time.Hour),
		SubmitTime:   &now,
	}
	require.NoError(t, db.Create(s).Error)
	return s
}

func TestGetModuleGradeOfUser_NoAssessments(t *testing.T) {
	db := setupTestDB(t)
	course := createTestCourse(t, db)
	m := createTestModule(t, db, course.ID, 0)
	user := createTestUser(t, db, model.Learner)
	svc := newModuleGradeService(db)

	result, err := svc.GetModuleGradeOfUser(user.ID, m.ID)
	require.NoError(t, err)

	assert.True(t, result.AllGraded)
	assert.True(t, result.AllPassed)
	assert.Equal(t, float64(100), result.AverageScore)
	assert.Empty(t, result.Submissions)

	// 缓存行同步落库
	var cached model.ModuleGrade
	require.NoError(t, db.Where("user_id = ? AND module_id = ?", user.ID, m.ID).First(&cached).Error)
	assert.Equal(t, float64(100), cached.Grade)
}

func TestGetModuleGradeOfUser_Aggregation(t *testing.T) {
	db := setupTestDB(t)
	course := createTestCourse(t, db)
	m := createTestModule(t, db, course.ID, 0)
	user := createTestUser(t, db, model.Learner)
	asvc := newAssessmentService(db, &fakeMailer{})
	svc := newModuleGradeService(db)

	a1 := createPublishedAssessment(t, db, asvc, m.ID, 40, nil, 3)
	a2 := createPublishedAssessment(t, db, asvc, m.ID, 60, nil, 3)

	gradedSubmission(t, db, a1.ID, user.ID, 35, 40)
	gradedSubmission(t, db, a2.ID, user.ID, 45, 60)

	result, err := svc.GetModuleGradeOfUser(user.ID, m.ID)
	require.NoError(t, err)

	assert.True(t, result.AllGraded)
	assert.True(t, result.AllPassed)
	assert.Equal(t, float64(80), result.AverageScore) // (35+45)/(40+60)*100
	assert.Len(t, result.Submissions, 2)
}

func TestGetModuleGradeOfUser_BestSubmissionWins(t *testing.T) {
	db := setupTestDB(t)
	course := createTestCourse(t, db)
	m := createTestModule(t, db, course.ID, 0)
	user := createTestUser(t, db, model.Learner)
	asvc := newAssessmentService(db, &fakeMailer{})
	svc := newModuleGradeService(db)

	a := createPublishedAssessment(t, db, asvc, m.ID, 100, nil, 3)
	gradedSubmission(t, db, a.ID, user.ID, 20, 100)
	best := gradedSubmission(t, db, a.ID, user.ID, 75, 100)

	result, err := svc.GetModuleGradeOfUser(user.ID, m.ID)
	require.NoError(t, err)

	require.Len(t, result.Submissions, 1)
	assert.Equal(t, best.ID, result.Submissions[0].ID)
	assert.Equal(t, float64(75), result.AverageScore)
}

func TestGetModuleGradeOfUser_MissingGradedSubmission(t *testing.T) {
	db := setupTestDB(t)
	course := createTestCourse(t, db)
	m := createTestModule(t, db, course.ID, 0)
	user := createTestUser(t, db, model.Learner)
	asvc := newAssessmentService(db, &fakeMailer{})
	svc := newModuleGradeService(db)

	a1 := createPublishedAssessment(t, db, asvc, m.ID, 50, nil, 3)
	createPublishedAssessment(t, db, asvc, m.ID, 50, nil, 3)

	gradedSubmission(t, db, a1.ID, user.ID, 40, 50)

	result, err := svc.GetModuleGradeOfUser(user.ID, m.ID)
	require.NoError(t, err)

	assert.False(t, result.AllGraded)
	assert.False(t, result.AllPassed)
	// 平均分只统计已评分的测评
	assert.Equal(t, float64(80), result.AverageScore)
	assert.Len(t, result.Submissions, 1)
}

func TestGetModuleGradeOfUser_PassingScore(t *testing.T) {
	db := setupTestDB(t)
	course := createTestCourse(t, db)
	m := createTestModule(t, db, course.ID, 0)
	user := createTestUser(t, db, model.Learner)
	asvc := newAssessmentService(db, &fakeMailer{})
	svc := newModuleGradeService(db)

	passing := 60.0
	a := createPublishedAssessment(t, db, asvc, m.ID, 100, &passing, 3)
	gradedSubmission(t, db, a.ID, user.ID, 55, 100)

	result, err := svc.GetModuleGradeOfUser(user.ID, m.ID)
	require.NoError(t, err)

	assert.True(t, result.AllGraded)
	assert.False(t, result.AllPassed)
}

func TestGetModuleGradeOfUser_RoundsToTwoDecimals(t *testing.T) {
	db := setupTestDB(t)
	course := createTestCourse(t, db)
	m := createTestModule(t, db, course.ID, 0)
	user := createTestUser(t, db, model.Learner)
	asvc := newAssessmentService(db, &fakeMailer{})
	svc := newModuleGradeService(db)

	a := createPublishedAssessment(t, db, asvc, m.ID, 30, nil, 3)
	gradedSubmission(t, db, a.ID, user.ID, 20, 30)

	result, err := svc.GetModuleGradeOfUser(user.ID, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 66.67, result.AverageScore)
}

func TestGetModuleGradeOfUser_UnknownEntities(t *testing.T) {
	db := setupTestDB(t)
	course := createTestCourse(t, db)
	m := createTestModule(t, db, course.ID, 0)
	user := createTestUser(t, db, model.Learner)
	svc := newModuleGradeService(db)

	_, err := svc.GetModuleGradeOfUser(99999, m.ID)
	assert.ErrorIs(t, err, util.ErrUserNotFound)

	_, err = svc.GetModuleGradeOfUser(user.ID, 99999)
	assert.ErrorIs(t, err, util.ErrModuleNotFound)
}
