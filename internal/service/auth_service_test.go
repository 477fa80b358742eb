package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var codePattern = regexp.MustCompile(`\b\d{6}\b`)

func authTestConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour},
		Auth: config.AuthConfig{
			CodeTTL:        10 * time.Minute,
			MaxVerifyTries: 5,
			CodeLength:     6,
		},
	}
}

func newAuthService(db *gorm.DB, store LoginCodeStore, fm *fakeMailer) *AuthService {
	return NewAuthService(repository.NewUserRepository(db), store, fm, authTestConfig())
}

// sentCode 从发出的邮件正文里取出验证码
func sentCode(t *testing.T, fm *fakeMailer) string {
	t.Helper()
	require.NotEmpty(t, fm.sent)
	code := codePattern.FindString(fm.sent[len(fm.sent)-1].Text)
	require.NotEmpty(t, code, "mail should contain a numeric code")
	return code
}

func TestRequestLoginCode_SendsMailWithCode(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, model.Learner)
	fm := &fakeMailer{}
	store := NewMemoryLoginCodeStore()
	svc := newAuthService(db, store, fm)
	ctx := context.Background()

	require.NoError(t, svc.RequestLoginCode(ctx, user.Email))
	require.Len(t, fm.sent, 1)
	assert.Equal(t, []string{user.Email}, fm.sent[0].To)
	code := sentCode(t, fm)

	// 存储里只有哈希，不存明文
	hash, ok, err := store.GetCodeHash(ctx, user.Email)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotContains(t, hash, code)
}

func TestRequestLoginCode_UnknownOrDisabledUser(t *testing.T) {
	db := setupTestDB(t)
	disabled := createTestUser(t, db, model.Learner)
	require.NoError(t, db.Model(disabled).Update("disabled", true).Error)

	svc := newAuthService(db, NewMemoryLoginCodeStore(), &fakeMailer{})
	ctx := context.Background()

	assert.ErrorIs(t, svc.RequestLoginCode(ctx, "nobody@example.com"), util.ErrUserNotFound)
	assert.ErrorIs(t, svc.RequestLoginCode(ctx, disabled.Email), util.ErrUserDisabled)
}

func TestRequestLoginCode_SurvivesMailerFailure(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, model.Learner)
	store := NewMemoryLoginCodeStore()
	svc := newAuthService(db, store, &fakeMailer{err: assert.AnError})
	ctx := context.Background()

	// 邮件失败不报错，验证码仍然入库
	require.NoError(t, svc.RequestLoginCode(ctx, user.Email))
	_, ok, err := store.GetCodeHash(ctx, user.Email)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyLoginCode_Success(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, model.Teacher)
	fm := &fakeMailer{}
	store := NewMemoryLoginCodeStore()
	svc := newAuthService(db, store, fm)
	ctx := context.Background()

	require.NoError(t, svc.RequestLoginCode(ctx, user.Email))
	code := sentCode(t, fm)

	result, err := svc.VerifyLoginCode(ctx, user.Email, code)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, user.ID, result.User.ID)

	claims, err := util.ParseJWT(result.Token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, model.Teacher, claims.Role)

	// 验证码一次性，成功后立即失效
	_, err = svc.VerifyLoginCode(ctx, user.Email, code)
	assert.ErrorIs(t, err, util.ErrInvalidLoginCode)
}

func TestVerifyLoginCode_WrongCode(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, model.Learner)
	fm := &fakeMailer{}
	svc := newAuthService(db, NewMemoryLoginCodeStore(), fm)
	ctx := context.Background()

	require.NoError(t, svc.RequestLoginCode(ctx, user.Email))
	_, err := svc.VerifyLoginCode(ctx, user.Email, "000000")
	assert.ErrorIs(t, err, util.ErrInvalidLoginCode)

	// 错误尝试不影响后续正确验证
	result, err := svc.VerifyLoginCode(ctx, user.Email, sentCode(t, fm))
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
}

func TestVerifyLoginCode_AttemptLimit(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, model.Learner)
	fm := &fakeMailer{}
	svc := newAuthService(db, NewMemoryLoginCodeStore(), fm)
	ctx := context.Background()

	require.NoError(t, svc.RequestLoginCode(ctx, user.Email))
	code := sentCode(t, fm)

	for i := 0; i < 5; i++ {
		_, err := svc.VerifyLoginCode(ctx, user.Email, "999999")
		assert.ErrorIs(t, err, util.ErrInvalidLoginCode)
	}

	// 超过尝试上限后即使验证码正确也拒绝
	_, err := svc.VerifyLoginCode(ctx, user.Email, code)
	assert.ErrorIs(t, err, util.ErrTooManyAttempts)
}

func TestVerifyLoginCode_Expiry(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, model.Learner)
	fm := &fakeMailer{}
	store := NewMemoryLoginCodeStore()
	svc := newAuthService(db, store, fm)
	ctx := context.Background()

	require.NoError(t, svc.RequestLoginCode(ctx, user.Email))
	code := sentCode(t, fm)

	store.Now = func() time.Time { return time.Now().Add(11 * time.Minute) }
	_, err := svc.VerifyLoginCode(ctx, user.Email, code)
	assert.ErrorIs(t, err, util.ErrInvalidLoginCode)
}

func TestVerifyLoginCode_UpdatesLastLogin(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, model.Learner)
	require.NoError(t, db.Model(user).Update("last_login", time.Now().Add(-24*time.Hour)).Error)

	fm := &fakeMailer{}
	svc := newAuthService(db, NewMemoryLoginCodeStore(), fm)
	ctx := context.Background()

	require.NoError(t, svc.RequestLoginCode(ctx, user.Email))
	_, err := svc.VerifyLoginCode(ctx, user.Email, sentCode(t, fm))
	require.NoError(t, err)

	var reloaded model.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.WithinDuration(t, time.Now(), reloaded.LastLogin, time.Minute)
}
