package service

import (
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCourseService(db *gorm.DB) *CourseService {
	return NewCourseService(db, repository.NewCourseRepository(db),
		repository.NewSchoolRepository(db), repository.NewModuleRepository(db))
}

func TestCreateCourse_CreatesLearnerGroup(t *testing.T) {
	db := setupTestDB(t)
	course := createTestCourse(t, db)
	require.NotZero(t, course.LearnerGroupID)

	var group model.Group
	require.NoError(t, db.First(&group, course.LearnerGroupID).Error)
	assert.Equal(t, model.LearnerGroup, group.Kind)
	require.NotNil(t, group.CourseID)
	assert.Equal(t, course.ID, *group.CourseID)
	assert.NotEmpty(t, group.JoinCode)
}

func TestCreateCourse_UnknownSchool(t *testing.T) {
	db := setupTestDB(t)
	svc := newCourseService(db)
	_, err := svc.CreateCourse(CourseRequest{SchoolID: 99999, Title: "Ghost", Code: "G-1"})
	assert.ErrorIs(t, err, util.ErrSchoolNotFound)
}

func TestModules_OrderedByIndex(t *testing.T) {
	db := setupTestDB(t)
	course := createTestCourse(t, db)
	svc := newCourseService(db)

	_, err := svc.AddModule(course.ID, ModuleRequest{Title: "Second", OrderIndex: 2})
	require.NoError(t, err)
	_, err = svc.AddModule(course.ID, ModuleRequest{Title: "First", OrderIndex: 1})
	require.NoError(t, err)

	modules, err := svc.GetModules(course.ID)
	require.NoError(t, err)
	require.Len(t, modules, 2)
	assert.Equal(t, "First", modules[0].Title)
	assert.Equal(t, "Second", modules[1].Title)

	_, err = svc.AddModule(99999, ModuleRequest{Title: "Orphan"})
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestEnrollment_Lifecycle(t *testing.T) {
	db := setupTestDB(t)
	course := createTestCourse(t, db)
	user := createTestUser(t, db, model.Learner)
	gsvc := NewGroupService(repository.NewGroupRepository(db),
		repository.NewUserRepository(db), repository.NewCourseRepository(db))

	require.NoError(t, gsvc.EnrollInCourse(course.ID, user.ID))
	// 重复选课幂等拒绝
	assert.ErrorIs(t, gsvc.EnrollInCourse(course.ID, user.ID), util.ErrAlreadyMember)

	members, err := gsvc.GetGroupMembers(course.LearnerGroupID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, user.ID, members[0].UserID)

	require.NoError(t, gsvc.UnenrollFromCourse(course.ID, user.ID))
	members, err = gsvc.GetGroupMembers(course.LearnerGroupID)
	require.NoError(t, err)
	assert.Empty(t, members)

	assert.ErrorIs(t, gsvc.EnrollInCourse(99999, user.ID), util.ErrCourseNotFound)
}
