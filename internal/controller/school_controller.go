package controller

import (
	"strconv"

	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SchoolController struct {
	SchoolService *service.SchoolService
}

func NewSchoolController(schoolService *service.SchoolService) *SchoolController {
	return &SchoolController{SchoolService: schoolService}
}

// @Summary Create a school
// @Tags schools
// @Security ApiKeyAuth
// @Param body body service.SchoolRequest true "school"
// @Success 201 {object} util.Response{data=model.School}
// @Router /api/schools [post]
func (c *SchoolController) CreateSchool(ctx *gin.Context) {
	var req service.SchoolRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	school, err := c.SchoolService.CreateSchool(req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, school)
}

// @Summary List schools
// @Tags schools
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/schools [get]
func (c *SchoolController) GetSchools(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	schools, total, err := c.SchoolService.GetSchools(page, limit)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: schools, Total: total, Page: page, Limit: limit})
}

// @Summary Get a school by id
// @Tags schools
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.School}
// @Router /api/schools/{id} [get]
func (c *SchoolController) GetSchool(ctx *gin.Context) {
	school, err := c.SchoolService.GetSchoolByID(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, school)
}

// @Summary Update a school
// @Tags schools
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.School}
// @Router /api/schools/{id} [put]
func (c *SchoolController) UpdateSchool(ctx *gin.Context) {
	var req service.SchoolRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	school, err := c.SchoolService.UpdateSchool(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, school)
}

// @Summary Delete a school
// @Tags schools
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/schools/{id} [delete]
func (c *SchoolController) DeleteSchool(ctx *gin.Context) {
	if err := c.SchoolService.DeleteSchool(util.MustParseUint(ctx.Param("id"))); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
