package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"
	"lms_backend/pkg/mailer"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService 免密登录：邮箱验证码换取JWT
type AuthService struct {
	UserRepo *repository.UserRepository
	Store    LoginCodeStore
	Mailer   mailer.Mailer
	Config   *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, store LoginCodeStore, m mailer.Mailer, cfg *config.Config) *AuthService {
	return &AuthService{UserRepo: userRepo, Store: store, Mailer: m, Config: cfg}
}

type RequestLoginCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type VerifyLoginCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

type LoginResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// RequestLoginCode 生成一次性验证码，仅存储bcrypt哈希，明文只进邮件
func (s *AuthService) RequestLoginCode(ctx context.Context, email string) error {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrUserNotFound
		}
		return err
	}
	if user.Disabled {
		return util.ErrUserDisabled
	}

	code, err := generateNumericCode(s.Config.Auth.CodeLength)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.Store.SaveCode(ctx, email, string(hash), s.Config.Auth.CodeTTL); err != nil {
		return err
	}

	msg := mailer.Message{
		To:      []string{user.Email},
		Subject: "Your login code",
		Text: fmt.Sprintf("Hi %s,\n\nYour login code is %s. It expires in %d minutes.\n\nIf you did not request this, you can ignore this email.",
			user.Name, code, int(s.Config.Auth.CodeTTL.Minutes())),
	}
	if err := s.Mailer.Send(ctx, msg); err != nil {
		// 邮件失败不阻断流程，验证码已入库，可换渠道重发
		logger.Log.Error("failed to send login code email",
			zap.String("email", user.Email), zap.Error(err))
	}
	return nil
}

// VerifyLoginCode 校验验证码并签发JWT；每个验证码最多允许MaxVerifyTries次尝试
func (s *AuthService) VerifyLoginCode(ctx context.Context, email, code string) (*LoginResult, error) {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	if user.Disabled {
		return nil, util.ErrUserDisabled
	}

	attempts, err := s.Store.IncrAttempts(ctx, email)
	if err != nil {
		return nil, err
	}
	if attempts > s.Config.Auth.MaxVerifyTries {
		return nil, util.ErrTooManyAttempts
	}

	hash, ok, err := s.Store.GetCodeHash(ctx, email)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, util.ErrInvalidLoginCode
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)); err != nil {
		return nil, util.ErrInvalidLoginCode
	}

	if err := s.Store.DeleteCode(ctx, email); err != nil {
		return nil, err
	}
	if err := s.UserRepo.UpdateLastLogin(user.ID); err != nil {
		logger.Log.Warn("failed to update last login", zap.Uint("userId", user.ID), zap.Error(err))
	}

	token, err := util.GenerateJWT(user, s.Config.JWT.Secret, s.Config.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: user}, nil
}

func generateNumericCode(length int) (string, error) {
	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}
