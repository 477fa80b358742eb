package util

import (
	"errors"
	"net/http"

	"lms_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PageResponse 分页响应结构
type PageResponse struct {
	List  interface{} `json:"list"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Forbidden")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Resource not found")
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error", zap.Error(err))
	InternalServerError(c)
}

var notFoundErrors = []error{
	ErrUserNotFound,
	ErrSchoolNotFound,
	ErrCourseNotFound,
	ErrModuleNotFound,
	ErrContentNotFound,
	ErrGroupNotFound,
	ErrAnnouncementNotFound,
	ErrAssessmentNotFound,
	ErrQuestionNotFound,
	ErrOptionNotFound,
	ErrSubmissionNotFound,
	ErrAnswerNotFound,
	gorm.ErrRecordNotFound,
}

var conflictErrors = []error{
	ErrAssessmentPublished,
	ErrAlreadySubmitted,
	ErrCannotModifySubmitted,
	ErrHasSubmissions,
	ErrHasAnswers,
	ErrAlreadyMember,
}

var validationErrors = []error{
	ErrEmailRegistered,
	ErrInvalidRole,
	ErrInvalidAllowedAttempts,
	ErrInvalidScoreRange,
	ErrInvalidTotalPoints,
	ErrPointsMismatch,
	ErrInvalidAnswerFormat,
	ErrNotEnoughOptions,
	ErrInvalidPoints,
	ErrInvalidQuestionPoints,
	ErrInvalidQuestionType,
	ErrInvalidAssessmentType,
	ErrInvalidAttendanceStatus,
	ErrInvalidLoginCode,
	ErrUnsupportedFileType,
}

var forbiddenErrors = []error{
	ErrUnauthorizedSubmission,
	ErrInvalidAttempt,
	ErrTooManyAttempts,
	ErrUserDisabled,
}

func matchAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// HandleServiceError 将业务错误映射为HTTP状态码
func HandleServiceError(c *gin.Context, err error) {
	switch {
	case matchAny(err, notFoundErrors):
		Error(c, http.StatusNotFound, err.Error())
	case matchAny(err, validationErrors):
		Error(c, http.StatusBadRequest, err.Error())
	case matchAny(err, forbiddenErrors):
		Error(c, http.StatusForbidden, err.Error())
	case matchAny(err, conflictErrors):
		Error(c, http.StatusConflict, err.Error())
	default:
		LogInternalError(c, err)
	}
}
