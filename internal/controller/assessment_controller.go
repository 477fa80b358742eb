package controller

import (
	"lms_backend/internal/model"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AssessmentController struct {
	AssessmentService *service.AssessmentService
}

func NewAssessmentController(assessmentService *service.AssessmentService) *AssessmentController {
	return &AssessmentController{AssessmentService: assessmentService}
}

// learnerOption 学员视图不暴露正确答案
type learnerOption struct {
	ID         uint   `json:"id"`
	OptionText string `json:"optionText"`
	OrderIndex int    `json:"orderIndex"`
}

type learnerQuestion struct {
	ID           uint               `json:"id"`
	QuestionText string             `json:"questionText"`
	QuestionType model.QuestionType `json:"questionType"`
	Points       float64            `json:"points"`
	OrderIndex   int                `json:"orderIndex"`
	Options      []learnerOption    `json:"options,omitempty"`
}

type learnerAssessmentView struct {
	*model.Assessment
	Questions []learnerQuestion `json:"questions"`
}

func toLearnerView(a *model.Assessment) learnerAssessmentView {
	view := learnerAssessmentView{Assessment: a}
	for _, q := range a.Questions {
		lq := learnerQuestion{
			ID:           q.ID,
			QuestionText: q.QuestionText,
			QuestionType: q.QuestionType,
			Points:       q.Points,
			OrderIndex:   q.OrderIndex,
		}
		for _, o := range q.Options {
			lq.Options = append(lq.Options, learnerOption{
				ID: o.ID, OptionText: o.OptionText, OrderIndex: o.OrderIndex,
			})
		}
		view.Questions = append(view.Questions, lq)
	}
	return view
}

// CreateAssessment godoc
// @Summary Create an assessment in a module
// @Tags assessments
// @Security ApiKeyAuth
// @Param body body service.AssessmentRequest true "assessment"
// @Success 201 {object} util.Response{data=model.Assessment}
// @Router /api/assessments [post]
func (c *AssessmentController) CreateAssessment(ctx *gin.Context) {
	var req service.AssessmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	a, err := c.AssessmentService.CreateAssessment(req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, a)
}

// GetAssessment godoc
// @Summary Get an assessment with its questions
// @Description Learners and student teachers receive a view without option correctness
// @Tags assessments
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.Assessment}
// @Router /api/assessments/{id} [get]
func (c *AssessmentController) GetAssessment(ctx *gin.Context) {
	a, err := c.AssessmentService.GetAssessment(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	claims := util.GetUserFromContext(ctx)
	if claims != nil && (claims.Role == model.Teacher || claims.Role == model.StudentTeacher || claims.Role == model.Admin) {
		util.Success(ctx, a)
		return
	}
	util.Success(ctx, toLearnerView(a))
}

// @Summary List the assessments of a module
// @Tags assessments
// @Security ApiKeyAuth
// @Param published query bool false "only published"
// @Success 200 {object} util.Response{data=[]model.Assessment}
// @Router /api/modules/{id}/assessments [get]
func (c *AssessmentController) ListByModule(ctx *gin.Context) {
	publishedOnly := ctx.Query("published") == "true"
	claims := util.GetUserFromContext(ctx)
	if claims != nil && claims.Role == model.Learner {
		publishedOnly = true
	}
	items, err := c.AssessmentService.ListByModule(util.MustParseUint(ctx.Param("id")), publishedOnly)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, items)
}

// @Summary Update an unpublished assessment
// @Tags assessments
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.Assessment}
// @Router /api/assessments/{id} [put]
func (c *AssessmentController) UpdateAssessment(ctx *gin.Context) {
	var req service.AssessmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	a, err := c.AssessmentService.UpdateAssessment(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, a)
}

// @Summary Delete an assessment without submissions
// @Tags assessments
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/assessments/{id} [delete]
func (c *AssessmentController) DeleteAssessment(ctx *gin.Context) {
	if err := c.AssessmentService.DeleteAssessment(util.MustParseUint(ctx.Param("id"))); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// AddQuestion godoc
// @Summary Add a question to an unpublished assessment
// @Description Rejected when existing points plus the new question exceed max_score
// @Tags assessments
// @Security ApiKeyAuth
// @Param body body service.QuestionRequest true "question"
// @Success 201 {object} util.Response{data=model.Question}
// @Router /api/assessments/{id}/questions [post]
func (c *AssessmentController) AddQuestion(ctx *gin.Context) {
	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	q, err := c.AssessmentService.AddQuestion(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, q)
}

// @Summary Update a question
// @Tags assessments
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.Question}
// @Router /api/questions/{id} [put]
func (c *AssessmentController) UpdateQuestion(ctx *gin.Context) {
	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	q, err := c.AssessmentService.UpdateQuestion(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// @Summary Delete a question without answers
// @Tags assessments
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/questions/{id} [delete]
func (c *AssessmentController) DeleteQuestion(ctx *gin.Context) {
	if err := c.AssessmentService.DeleteQuestion(util.MustParseUint(ctx.Param("id"))); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// PublishAssessment godoc
// @Summary Publish an assessment
// @Description Question points must sum exactly to max_score; the course learner group is notified by email
// @Tags assessments
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.Assessment}
// @Router /api/assessments/{id}/publish [post]
func (c *AssessmentController) PublishAssessment(ctx *gin.Context) {
	a, err := c.AssessmentService.PublishAssessment(ctx.Request.Context(), util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, a)
}

// @Summary Unpublish an assessment, reopening it for editing
// @Tags assessments
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.Assessment}
// @Router /api/assessments/{id}/unpublish [post]
func (c *AssessmentController) UnpublishAssessment(ctx *gin.Context) {
	a, err := c.AssessmentService.UnpublishAssessment(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, a)
}
