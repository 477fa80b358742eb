package controller

import (
	"lms_backend/internal/repository"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// GradeController 教师端判分与成绩查询
type GradeController struct {
	GradingService     *service.GradingService
	ModuleGradeService *service.ModuleGradeService
}

func NewGradeController(gradingService *service.GradingService,
	moduleGradeService *service.ModuleGradeService) *GradeController {
	return &GradeController{GradingService: gradingService, ModuleGradeService: moduleGradeService}
}

// GradeSubmission godoc
// @Summary Grade one answer of a submission
// @Description Re-aggregates the total score; the submission becomes graded once every answer has points
// @Tags grading
// @Security ApiKeyAuth
// @Param body body service.GradeSubmissionRequest true "grade"
// @Success 200 {object} util.Response{data=model.Submission}
// @Router /api/submissions/{id}/grade [post]
func (c *GradeController) GradeSubmission(ctx *gin.Context) {
	var req service.GradeSubmissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	submission, err := c.GradingService.GradeSubmission(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, submission)
}

// @Summary Get a submission with its answers
// @Tags grading
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.Submission}
// @Router /api/submissions/{id} [get]
func (c *GradeController) GetSubmission(ctx *gin.Context) {
	submission, err := c.GradingService.GetSubmission(util.MustParseUint(ctx.Param("id")),
		repository.SubmissionEagerLoad{Answers: true})
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, submission)
}

// @Summary All submissions for an assessment
// @Tags grading
// @Security ApiKeyAuth
// @Param withAnswers query bool false "eager-load answers"
// @Success 200 {object} util.Response{data=[]model.Submission}
// @Router /api/assessments/{id}/submissions [get]
func (c *GradeController) GetSubmissionsForAssessment(ctx *gin.Context) {
	eager := repository.SubmissionEagerLoad{User: true, Answers: ctx.Query("withAnswers") == "true"}
	items, err := c.GradingService.GetSubmissionsForAssessment(util.MustParseUint(ctx.Param("id")), eager)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, items)
}

// @Summary A learner's best submissions across an assessment
// @Tags grading
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.Submission}
// @Router /api/assessments/{id}/submissions/users/{userId} [get]
func (c *GradeController) GetStudentSubmission(ctx *gin.Context) {
	submission, err := c.GradingService.GetStudentSubmission(
		util.MustParseUint(ctx.Param("userId")),
		util.MustParseUint(ctx.Param("id")),
		repository.SubmissionEagerLoad{Answers: true})
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, submission)
}

// GetModuleGrade godoc
// @Summary Aggregate a learner's standing in a module
// @Description Best graded submission per assessment; a module with no assessments counts as passed
// @Tags grading
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.ModuleGradeResult}
// @Router /api/modules/{id}/grades/users/{userId} [get]
func (c *GradeController) GetModuleGrade(ctx *gin.Context) {
	result, err := c.ModuleGradeService.GetModuleGradeOfUser(
		util.MustParseUint(ctx.Param("userId")),
		util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary Current user's standing in a module
// @Tags grading
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.ModuleGradeResult}
// @Router /api/modules/{id}/grades/mine [get]
func (c *GradeController) GetMyModuleGrade(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	result, err := c.ModuleGradeService.GetModuleGradeOfUser(claims.UserID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
