package util

import "errors"

// Not found
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrSchoolNotFound       = errors.New("school not found")
	ErrCourseNotFound       = errors.New("course not found")
	ErrModuleNotFound       = errors.New("module not found")
	ErrContentNotFound      = errors.New("content not found")
	ErrGroupNotFound        = errors.New("group not found")
	ErrAnnouncementNotFound = errors.New("announcement not found")
	ErrAssessmentNotFound   = errors.New("assessment not found")
	ErrQuestionNotFound     = errors.New("question not found")
	ErrOptionNotFound       = errors.New("question option not found")
	ErrSubmissionNotFound   = errors.New("submission not found")
	ErrAnswerNotFound       = errors.New("answer not found")
)

// State conflicts
var (
	ErrAssessmentPublished   = errors.New("assessment must be unpublished before it can be modified")
	ErrAlreadySubmitted      = errors.New("submission has already been submitted")
	ErrCannotModifySubmitted = errors.New("cannot modify a submitted assessment")
)

// Validation failures
var (
	ErrEmailRegistered         = errors.New("email is already registered")
	ErrInvalidRole             = errors.New("invalid user role")
	ErrInvalidAllowedAttempts  = errors.New("allowed attempts must be greater than zero")
	ErrInvalidScoreRange       = errors.New("passing score cannot exceed max score")
	ErrInvalidTotalPoints      = errors.New("total question points cannot exceed assessment max score")
	ErrPointsMismatch          = errors.New("sum of question points must equal assessment max score before publishing")
	ErrInvalidAnswerFormat     = errors.New("answer format does not match question type")
	ErrNotEnoughOptions        = errors.New("choice questions require at least two options")
	ErrInvalidPoints           = errors.New("points awarded cannot exceed question points")
	ErrInvalidQuestionPoints   = errors.New("question points must be at least 1")
	ErrInvalidQuestionType     = errors.New("invalid question type")
	ErrInvalidAssessmentType   = errors.New("invalid assessment type")
	ErrInvalidAttendanceStatus = errors.New("invalid attendance status")
	ErrInvalidLoginCode        = errors.New("invalid or expired login code")
	ErrUnsupportedFileType     = errors.New("unsupported file type")
)

// Authorization failures
var (
	ErrUnauthorizedSubmission = errors.New("submission does not belong to this user")
	ErrInvalidAttempt         = errors.New("attempt not allowed")
	ErrTooManyAttempts        = errors.New("too many verification attempts, request a new code")
	ErrUserDisabled           = errors.New("user account is disabled")
)

// Dependency conflicts
var (
	ErrHasSubmissions = errors.New("cannot delete an assessment that has submissions")
	ErrHasAnswers     = errors.New("cannot delete a question that has answers")
	ErrAlreadyMember  = errors.New("user is already a member of this group")
)
