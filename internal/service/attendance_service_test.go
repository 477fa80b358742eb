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

func newAttendanceService(db *gorm.DB) *AttendanceService {
	return NewAttendanceService(repository.NewAttendanceRepository(db),
		repository.NewCourseRepository(db), repository.NewUserRepository(db))
}

func TestRecordAttendance_UpsertByDay(t *testing.T) {
	db := setupTestDB(t)
	course := createTestCourse(t, db)
	user := createTestUser(t, db, model.Learner)
	svc := newAttendanceService(db)

	first, err := svc.RecordAttendance(course.ID, AttendanceRequest{
		UserID: user.ID, Date: "2026-09-01", Status: model.Absent,
	})
	require.NoError(t, err)
	assert.Equal(t, model.Absent, first.Status)

	// 同一天重复提交覆盖状态，不产生第二行
	second, err := svc.RecordAttendance(course.ID, AttendanceRequest{
		UserID: user.ID, Date: "2026-09-01", Status: model.Late,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, model.Late, second.Status)

	var count int64
	db.Model(&model.Attendance{}).Where("course_id = ? AND user_id = ?", course.ID, user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRecordAttendance_Validation(t *testing.T) {
	db := setupTestDB(t)
	course := createTestCourse(t, db)
	user := createTestUser(t, db, model.Learner)
	svc := newAttendanceService(db)

	_, err := svc.RecordAttendance(course.ID, AttendanceRequest{UserID: user.ID, Date: "2026-09-01", Status: "vanished"})
	assert.ErrorIs(t, err, util.ErrInvalidAttendanceStatus)

	_, err = svc.RecordAttendance(99999, AttendanceRequest{UserID: user.ID, Date: "2026-09-01", Status: model.Present})
	assert.ErrorIs(t, err, util.ErrCourseNotFound)

	_, err = svc.RecordAttendance(course.ID, AttendanceRequest{UserID: 99999, Date: "2026-09-01", Status: model.Present})
	assert.ErrorIs(t, err, util.ErrUserNotFound)

	_, err = svc.RecordAttendance(course.ID, AttendanceRequest{UserID: user.ID, Date: "01/09/2026", Status: model.Present})
	assert.Error(t, err)
}

func TestGetAttendance_Queries(t *testing.T) {
	db := setupTestDB(t)
	course := createTestCourse(t, db)
	u1 := createTestUser(t, db, model.Learner)
	u2 := createTestUser(t, db, model.Learner)
	svc := newAttendanceService(db)

	for _, r := range []AttendanceRequest{
		{UserID: u1.ID, Date: "2026-09-01", Status: model.Present},
		{UserID: u2.ID, Date: "2026-09-01", Status: model.Excused},
		{UserID: u1.ID, Date: "2026-09-02", Status: model.Present},
	} {
		_, err := svc.RecordAttendance(course.ID, r)
		require.NoError(t, err)
	}

	day, err := svc.GetCourseAttendance(course.ID, "2026-09-01")
	require.NoError(t, err)
	assert.Len(t, day, 2)

	mine, err := svc.GetUserAttendance(u1.ID, course.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}
