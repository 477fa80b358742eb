package service

import (
	"context"
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newNotificationService(db *gorm.DB, fm *fakeMailer) *NotificationService {
	return NewNotificationService(repository.NewGroupRepository(db),
		repository.NewUserRepository(db), repository.NewCourseRepository(db), fm)
}

func enroll(t *testing.T, db *gorm.DB, course *model.Course, userID uint) {
	t.Helper()
	gsvc := NewGroupService(repository.NewGroupRepository(db),
		repository.NewUserRepository(db), repository.NewCourseRepository(db))
	require.NoError(t, gsvc.EnrollInCourse(course.ID, userID))
}

func TestNotifyAnnouncement_CourseScope(t *testing.T) {
	db := setupTestDB(t)
	course := createTestCourse(t, db)
	member := createTestUser(t, db, model.Learner)
	disabled := createTestUser(t, db, model.Learner)
	createTestUser(t, db, model.Learner) // 未选课，不应收信
	enroll(t, db, course, member.ID)
	enroll(t, db, course, disabled.ID)
	require.NoError(t, db.Model(disabled).Update("disabled", true).Error)

	fm := &fakeMailer{}
	svc := newNotificationService(db, fm)
	a := &model.Announcement{Title: "Exam moved", Body: "See schedule.", CourseID: &course.ID}
	require.NoError(t, db.Create(a).Error)

	svc.NotifyAnnouncement(context.Background(), a)
	require.Len(t, fm.sent, 1)

	// 只有该课程学员组里启用的成员收到
	assert.Equal(t, []string{member.Email}, fm.sent[0].To)
	assert.Contains(t, fm.sent[0].Subject, "Exam moved")
	assert.Equal(t, "See schedule.", fm.sent[0].Text)
}

func TestNotifyAnnouncement_GlobalScope(t *testing.T) {
	db := setupTestDB(t)
	learner := createTestUser(t, db, model.Learner)
	teacher := createTestUser(t, db, model.Teacher)
	admin := createTestUser(t, db, model.Admin)

	fm := &fakeMailer{}
	svc := newNotificationService(db, fm)
	a := &model.Announcement{Title: "Maintenance window", Body: "Sunday 02:00."}
	require.NoError(t, db.Create(a).Error)

	svc.NotifyAnnouncement(context.Background(), a)
	require.Len(t, fm.sent, 1)

	// 全局公告面向学员与教师，不发管理员
	assert.Contains(t, fm.sent[0].To, learner.Email)
	assert.Contains(t, fm.sent[0].To, teacher.Email)
	assert.NotContains(t, fm.sent[0].To, admin.Email)
}

func TestNotifyAssessmentPublished_Recipients(t *testing.T) {
	db := setupTestDB(t)
	course := createTestCourse(t, db)
	m := createTestModule(t, db, course.ID, 0)
	member := createTestUser(t, db, model.Learner)
	enroll(t, db, course, member.ID)

	fm := &fakeMailer{}
	asvc := newAssessmentService(db, fm)
	a := createPublishedAssessment(t, db, asvc, m.ID, 10, nil, 1)

	require.Len(t, fm.sent, 1)
	assert.Equal(t, []string{member.Email}, fm.sent[0].To)
	assert.Contains(t, fm.sent[0].Subject, a.Title)
}

func TestNotifyAnnouncement_FailuresAreSwallowed(t *testing.T) {
	db := setupTestDB(t)
	createTestUser(t, db, model.Learner)

	svc := newNotificationService(db, &fakeMailer{err: assert.AnError})
	a := &model.Announcement{Title: "Broken pipe", Body: "still fine"}
	require.NoError(t, db.Create(a).Error)

	// 不会panic也不会把错误带出去
	svc.NotifyAnnouncement(context.Background(), a)
}

func TestNotifyAnnouncement_EmptyGroupSendsNothing(t *testing.T) {
	db := setupTestDB(t)
	course := createTestCourse(t, db)

	fm := &fakeMailer{}
	svc := newNotificationService(db, fm)
	a := &model.Announcement{Title: "Quiet", Body: "none", CourseID: &course.ID}
	require.NoError(t, db.Create(a).Error)

	svc.NotifyAnnouncement(context.Background(), a)
	assert.Empty(t, fm.sent)
}
