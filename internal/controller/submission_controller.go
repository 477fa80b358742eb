package controller

import (
	"lms_backend/internal/repository"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SubmissionController struct {
	SubmissionService *service.SubmissionService
	GradingService    *service.GradingService
}

func NewSubmissionController(submissionService *service.SubmissionService,
	gradingService *service.GradingService) *SubmissionController {
	return &SubmissionController{SubmissionService: submissionService, GradingService: gradingService}
}

// StartSubmission godoc
// @Summary Start or resume an attempt on an assessment
// @Description Returns the existing in-progress submission if one exists; otherwise opens a new attempt, subject to the module gate and the attempt ceiling
// @Tags submissions
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.Submission}
// @Router /api/assessments/{id}/submissions [post]
func (c *SubmissionController) StartSubmission(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	submission, err := c.SubmissionService.StartSubmission(util.MustParseUint(ctx.Param("id")), claims.UserID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, submission)
}

// SaveAnswer godoc
// @Summary Save or replace an answer on an in-progress submission
// @Tags submissions
// @Security ApiKeyAuth
// @Param body body service.SaveAnswerRequest true "answer"
// @Success 200 {object} util.Response{data=model.AnswerResponse}
// @Router /api/submissions/{id}/answers [put]
func (c *SubmissionController) SaveAnswer(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	var req service.SaveAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	answer, err := c.SubmissionService.SaveAnswer(util.MustParseUint(ctx.Param("id")), claims.UserID, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, answer)
}

// SubmitAssessment godoc
// @Summary Submit an in-progress submission
// @Description Choice questions are auto-graded; the submission becomes graded when no manual grading remains
// @Tags submissions
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.Submission}
// @Router /api/submissions/{id}/submit [post]
func (c *SubmissionController) SubmitAssessment(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	submission, err := c.SubmissionService.SubmitAssessment(util.MustParseUint(ctx.Param("id")), claims.UserID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, submission)
}

// @Summary Current user's submissions for an assessment
// @Tags submissions
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Submission}
// @Router /api/assessments/{id}/submissions/mine [get]
func (c *SubmissionController) GetMySubmissions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	items, err := c.GradingService.GetStudentSubmissions(claims.UserID,
		util.MustParseUint(ctx.Param("id")), repository.SubmissionEagerLoad{Answers: true})
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, items)
}
