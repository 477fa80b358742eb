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

func choiceQuestion(t *testing.T, db *gorm.DB, assessmentID uint) *model.Question {
	t.Helper()
	var q model.Question
	require.NoError(t, db.Preload("Options").
		Where("assessment_id = ? AND question_type IN ?", assessmentID,
			[]model.QuestionType{model.MultipleChoice, model.TrueFalse}).
		First(&q).Error)
	return &q
}

func essayQuestion(t *testing.T, db *gorm.DB, assessmentID uint) *model.Question {
	t.Helper()
	var q model.Question
	require.NoError(t, db.Where("assessment_id = ? AND question_type = ?", assessmentID, model.Essay).First(&q).Error)
	return &q
}

func TestStartSubmission_ResumeOrCreate(t *testing.T) {
	db := setupTestDB(t)
	course := createTestCourse(t, db)
	m := createTestModule(t, db, course.ID, 0)
	user := createTestUser(t, db, model.Learner)
	asvc := newAssessmentService(db, &fakeMailer{})
	a := createPublishedAssessment(t, db, asvc, m.ID, 10, nil, 2)
	svc := newSubmissionService(db)

	first, err := svc.StartSubmission(a.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InProgress, first.Status)
	assert.Equal(t, a.MaxScore, first.MaxScore)

	// 未完成的提交直接恢复，不消耗新的尝试次数
	resumed, err := svc.StartSubmission(a.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, resumed.ID)
}

func TestStartSubmission_AttemptCeiling(t *testing.T) {
	db := setupTestDB(t)
	course := createTestCourse(t, db)
	m := createTestModule(t, db, course.ID, 0)
	user := createTestUser(t, db, model.Learner)
	asvc := newAssessmentService(db, &fakeMailer{})
	a := createPublishedAssessment(t, db, asvc, m.ID, 10, nil, 1)
	svc := newSubmissionService(db)

	first, err := svc.StartSubmission(a.ID, user.ID)
	require.NoError(t, err)
	_, err = svc.SubmitAssessment(first.ID, user.ID)
	require.NoError(t, err)

	_, err = svc.StartSubmission(a.ID, user.ID)
	assert.ErrorIs(t, err, util.ErrInvalidAttempt)
}

func TestStartSubmission_UnknownAssessment(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, model.Learner)
	svc := newSubmissionService(db)

	_, err := svc.StartSubmission(99999, user.ID)
	assert.ErrorIs(t, err, util.ErrAssessmentNotFound)
}

func TestStartSubmission_ModuleGate(t *testing.T) {
	db := setupTestDB(t)
	course := createTestCourse(t, db)
	m1 := createTestModule(t, db, course.ID, 0)
	m2 := createTestModule(t, db, course.ID, 1)
	user := createTestUser(t, db, model.Learner)
	asvc := newAssessmentService(db, &fakeMailer{})

	passing := 60.0
	gate := createPublishedAssessment(t, db, asvc, m1.ID, 100, &passing, 3)
	target := createPublishedAssessment(t, db, asvc, m2.ID, 10, nil, 3)
	svc := newSubmissionService(db)

	// 前一模块还没有及格成绩
	_, err := svc.StartSubmission(target.ID, user.ID)
	assert.ErrorIs(t, err, util.ErrInvalidAttempt)

	gradedSubmission(t, db, gate.ID, user.ID, 80, 100)

	started, err := svc.StartSubmission(target.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InProgress, started.Status)
}

func TestSaveAnswer_ShapeValidation(t *testing.T) {
	db := setupTestDB(t)
	course := createTestCourse(t, db)
	m := createTestModule(t, db, course.ID, 0)
	user := createTestUser(t, db, model.Learner)
	asvc := newAssessmentService(db, &fakeMailer{})
	a := createPublishedAssessment(t, db, asvc, m.ID, 10, nil, 1)
	svc := newSubmissionService(db)

	sub, err := svc.StartSubmission(a.ID, user.ID)
	require.NoError(t, err)

	choice := choiceQuestion(t, db, a.ID)
	essay := essayQuestion(t, db, a.ID)
	text := "because"

	// 选择题必须给选项
	_, err = svc.SaveAnswer(sub.ID, user.ID, SaveAnswerRequest{QuestionID: choice.ID, TextResponse: &text})
	assert.ErrorIs(t, err, util.ErrInvalidAnswerFormat)

	// 主观题必须给文本
	opt := correctOptionID(t, db, choice.ID)
	_, err = svc.SaveAnswer(sub.ID, user.ID, SaveAnswerRequest{QuestionID: essay.ID, SelectedOptionID: &opt})
	assert.ErrorIs(t, err, util.ErrInvalidAnswerFormat)

	empty := "   "
	_, err = svc.SaveAnswer(sub.ID, user.ID, SaveAnswerRequest{QuestionID: essay.ID, TextResponse: &empty})
	assert.ErrorIs(t, err, util.ErrInvalidAnswerFormat)

	// 选项必须属于该题
	other := createPublishedAssessment(t, db, asvc, m.ID, 10, nil, 1)
	foreignOpt := correctOptionID(t, db, choiceQuestion(t, db, other.ID).ID)
	_, err = svc.SaveAnswer(sub.ID, user.ID, SaveAnswerRequest{QuestionID: choice.ID, SelectedOptionID: &foreignOpt})
	assert.ErrorIs(t, err, util.ErrOptionNotFound)

	// 其他测评的题目不可见
	_, err = svc.SaveAnswer(sub.ID, user.ID, SaveAnswerRequest{QuestionID: choiceQuestion(t, db, other.ID).ID, SelectedOptionID: &foreignOpt})
	assert.ErrorIs(t, err, util.ErrQuestionNotFound)
}

func TestSaveAnswer_UpsertAndOwnership(t *testing.T) {
	db := setupTestDB(t)
	course := createTestCourse(t, db)
	m := createTestModule(t, db, course.ID, 0)
	user := createTestUser(t, db, model.Learner)
	other := createTestUser(t, db, model.Learner)
	asvc := newAssessmentService(db, &fakeMailer{})
	a := createPublishedAssessment(t, db, asvc, m.ID, 10, nil, 1)
	svc := newSubmissionService(db)

	sub, err := svc.StartSubmission(a.ID, user.ID)
	require.NoError(t, err)
	choice := choiceQuestion(t, db, a.ID)

	wrong := wrongOptionID(t, db, choice.ID)
	first, err := svc.SaveAnswer(sub.ID, user.ID, SaveAnswerRequest{QuestionID: choice.ID, SelectedOptionID: &wrong})
	require.NoError(t, err)

	// 重新作答覆盖同一行
	right := correctOptionID(t, db, choice.ID)
	second, err := svc.SaveAnswer(sub.ID, user.ID, SaveAnswerRequest{QuestionID: choice.ID, SelectedOptionID: &right})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, right, *second.SelectedOptionID)

	var count int64
	db.Model(&model.AnswerResponse{}).Where("submission_id = ?", sub.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	_, err = svc.SaveAnswer(sub.ID, other.ID, SaveAnswerRequest{QuestionID: choice.ID, SelectedOptionID: &right})
	assert.ErrorIs(t, err, util.ErrUnauthorizedSubmission)
}

func TestSubmitAssessment_AutoGradesChoiceQuestions(t *testing.T) {
	db := setupTestDB(t)
	course := createTestCourse(t, db)
	m := createTestModule(t, db, course.ID, 0)
	user := createTestUser(t, db, model.Learner)
	asvc := newAssessmentService(db, &fakeMailer{})
	a := createPublishedAssessment(t, db, asvc, m.ID, 10, nil, 1)
	svc := newSubmissionService(db)

	sub, err := svc.StartSubmission(a.ID, user.ID)
	require.NoError(t, err)

	choice := choiceQuestion(t, db, a.ID)
	essay := essayQuestion(t, db, a.ID)
	right := correctOptionID(t, db, choice.ID)
	text := "explained"

	_, err = svc.SaveAnswer(sub.ID, user.ID, SaveAnswerRequest{QuestionID: choice.ID, SelectedOptionID: &right})
	require.NoError(t, err)
	_, err = svc.SaveAnswer(sub.ID, user.ID, SaveAnswerRequest{QuestionID: essay.ID, TextResponse: &text})
	require.NoError(t, err)

	submitted, err := svc.SubmitAssessment(sub.ID, user.ID)
	require.NoError(t, err)

	// 问答题等待人工评分
	assert.Equal(t, model.Submitted, submitted.Status)
	assert.Equal(t, choice.Points, submitted.Score)
	assert.NotNil(t, submitted.SubmitTime)
	assert.False(t, submitted.IsLate)

	// 提交后不可再修改答案
	_, err = svc.SaveAnswer(sub.ID, user.ID, SaveAnswerRequest{QuestionID: essay.ID, TextResponse: &text})
	assert.ErrorIs(t, err, util.ErrCannotModifySubmitted)

	_, err = svc.SubmitAssessment(sub.ID, user.ID)
	assert.ErrorIs(t, err, util.ErrAlreadySubmitted)
}

func TestSubmitAssessment_WrongChoiceScoresZero(t *testing.T) {
	db := setupTestDB(t)
	course := createTestCourse(t, db)
	m := createTestModule(t, db, course.ID, 0)
	user := createTestUser(t, db, model.Learner)
	asvc := newAssessmentService(db, &fakeMailer{})
	a := createPublishedAssessment(t, db, asvc, m.ID, 10, nil, 1)
	svc := newSubmissionService(db)

	sub, err := svc.StartSubmission(a.ID, user.ID)
	require.NoError(t, err)

	choice := choiceQuestion(t, db, a.ID)
	wrong := wrongOptionID(t, db, choice.ID)
	_, err = svc.SaveAnswer(sub.ID, user.ID, SaveAnswerRequest{QuestionID: choice.ID, SelectedOptionID: &wrong})
	require.NoError(t, err)

	submitted, err := svc.SubmitAssessment(sub.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(0), submitted.Score)
}

func TestSubmitAssessment_LateFlag(t *testing.T) {
	db := setupTestDB(t)
	course := createTestCourse(t, db)
	m := createTestModule(t, db, course.ID, 0)
	user := createTestUser(t, db, model.Learner)
	asvc := newAssessmentService(db, &fakeMailer{})
	a := createPublishedAssessment(t, db, asvc, m.ID, 10, nil, 1)
	svc := newSubmissionService(db)

	past := time.Now().Add(-time.Hour)
	require.NoError(t, db.Model(&model.Assessment{}).Where("id = ?", a.ID).Update("due_date", past).Error)

	sub, err := svc.StartSubmission(a.ID, user.ID)
	require.NoError(t, err)
	submitted, err := svc.SubmitAssessment(sub.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, submitted.IsLate)
}

func TestSubmitAssessment_Ownership(t *testing.T) {
	db := setupTestDB(t)
	course := createTestCourse(t, db)
	m := createTestModule(t, db, course.ID, 0)
	user := createTestUser(t, db, model.Learner)
	other := createTestUser(t, db, model.Learner)
	asvc := newAssessmentService(db, &fakeMailer{})
	a := createPublishedAssessment(t, db, asvc, m.ID, 10, nil, 1)
	svc := newSubmissionService(db)

	sub, err := svc.StartSubmission(a.ID, user.ID)
	require.NoError(t, err)

	_, err = svc.SubmitAssessment(sub.ID, other.ID)
	assert.ErrorIs(t, err, util.ErrUnauthorizedSubmission)
}
