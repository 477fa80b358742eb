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

func newUserService(db *gorm.DB) *UserService {
	return NewUserService(repository.NewUserRepository(db), db)
}

func profileCounts(t *testing.T, db *gorm.DB, userID uint) (learner, teacher int64) {
	t.Helper()
	require.NoError(t, db.Model(&model.LearnerProfile{}).Where("user_id = ?", userID).Count(&learner).Error)
	require.NoError(t, db.Model(&model.TeacherProfile{}).Where("user_id = ?", userID).Count(&teacher).Error)
	return learner, teacher
}

func TestCreateUser_RoleProfiles(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(db)

	cases := []struct {
		role             model.UserRole
		learner, teacher int64
	}{
		{model.Learner, 1, 0},
		{model.Teacher, 0, 1},
		{model.StudentTeacher, 1, 1},
		{model.Admin, 0, 0},
	}
	for _, tc := range cases {
		u, err := svc.CreateUser(CreateUserRequest{
			Name:  "P " + string(tc.role),
			Email: string(tc.role) + "@example.com",
			Role:  tc.role,
		})
		require.NoError(t, err, string(tc.role))
		l, te := profileCounts(t, db, u.ID)
		assert.Equal(t, tc.learner, l, string(tc.role))
		assert.Equal(t, tc.teacher, te, string(tc.role))
	}
}

func TestCreateUser_Validation(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(db)

	_, err := svc.CreateUser(CreateUserRequest{Name: "X", Email: "x@example.com", Role: "principal"})
	assert.ErrorIs(t, err, util.ErrInvalidRole)

	_, err = svc.CreateUser(CreateUserRequest{Name: "A", Email: "dup@example.com", Role: model.Learner})
	require.NoError(t, err)
	_, err = svc.CreateUser(CreateUserRequest{Name: "B", Email: "dup@example.com", Role: model.Teacher})
	assert.ErrorIs(t, err, util.ErrEmailRegistered)
}

func TestChangeRole_SwapsProfiles(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(db)
	u, err := svc.CreateUser(CreateUserRequest{Name: "Mover", Email: "mover@example.com", Role: model.Learner})
	require.NoError(t, err)

	changed, err := svc.ChangeRole(u.ID, model.Teacher)
	require.NoError(t, err)
	assert.Equal(t, model.Teacher, changed.Role)

	// 旧卫星行软删，新角色行建立
	l, te := profileCounts(t, db, u.ID)
	assert.Equal(t, int64(0), l)
	assert.Equal(t, int64(1), te)

	var deleted int64
	require.NoError(t, db.Unscoped().Model(&model.LearnerProfile{}).
		Where("user_id = ? AND deleted_at IS NOT NULL", u.ID).Count(&deleted).Error)
	assert.Equal(t, int64(1), deleted)
}

func TestChangeRole_StudentTeacherHoldsBoth(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(db)
	u, err := svc.CreateUser(CreateUserRequest{Name: "Both", Email: "both@example.com", Role: model.Teacher})
	require.NoError(t, err)

	_, err = svc.ChangeRole(u.ID, model.StudentTeacher)
	require.NoError(t, err)
	l, te := profileCounts(t, db, u.ID)
	assert.Equal(t, int64(1), l)
	assert.Equal(t, int64(1), te)
}

func TestChangeRole_SameRoleIsNoop(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(db)
	u, err := svc.CreateUser(CreateUserRequest{Name: "Same", Email: "same@example.com", Role: model.Learner})
	require.NoError(t, err)

	_, err = svc.ChangeRole(u.ID, model.Learner)
	require.NoError(t, err)

	// 不重建卫星行
	l, _ := profileCounts(t, db, u.ID)
	assert.Equal(t, int64(1), l)

	_, err = svc.ChangeRole(u.ID, "superuser")
	assert.ErrorIs(t, err, util.ErrInvalidRole)
	_, err = svc.ChangeRole(99999, model.Teacher)
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestUpdateUser_DisableFlag(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(db)
	u, err := svc.CreateUser(CreateUserRequest{Name: "Flag", Email: "flag@example.com", Role: model.Learner})
	require.NoError(t, err)

	disabled := true
	updated, err := svc.UpdateUser(u.ID, UpdateUserRequest{Name: "Renamed", Disabled: &disabled})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.True(t, updated.Disabled)

	// 不传字段则保持原值
	again, err := svc.UpdateUser(u.ID, UpdateUserRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", again.Name)
	assert.True(t, again.Disabled)
}

func TestGetUsers_FilterByRoleAndSearch(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(db)
	_, err := svc.CreateUser(CreateUserRequest{Name: "Alice Learner", Email: "alice@example.com", Role: model.Learner})
	require.NoError(t, err)
	_, err = svc.CreateUser(CreateUserRequest{Name: "Bob Teacher", Email: "bob@example.com", Role: model.Teacher})
	require.NoError(t, err)

	users, total, err := svc.GetUsers(1, 20, string(model.Teacher), "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, users, 1)
	assert.Equal(t, "Bob Teacher", users[0].Name)

	users, _, err = svc.GetUsers(1, 20, "", "alice")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Alice Learner", users[0].Name)
}

func TestDeleteUser(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(db)
	u, err := svc.CreateUser(CreateUserRequest{Name: "Gone", Email: "gone@example.com", Role: model.Learner})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(u.ID))
	_, err = svc.GetUserByID(u.ID)
	assert.ErrorIs(t, err, util.ErrUserNotFound)
	assert.ErrorIs(t, svc.DeleteUser(u.ID), util.ErrUserNotFound)
}
