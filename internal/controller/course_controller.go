package controller

import (
	"strconv"

	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
	GroupService  *service.GroupService
}

func NewCourseController(courseService *service.CourseService, groupService *service.GroupService) *CourseController {
	return &CourseController{CourseService: courseService, GroupService: groupService}
}

// @Summary Create a course with its learner group
// @Tags courses
// @Security ApiKeyAuth
// @Param body body service.CourseRequest true "course"
// @Success 201 {object} util.Response{data=model.Course}
// @Router /api/courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req service.CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	course, err := c.CourseService.CreateCourse(req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, course)
}

// @Summary List courses
// @Tags courses
// @Security ApiKeyAuth
// @Param schoolId query int false "filter by school"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/courses [get]
func (c *CourseController) GetCourses(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	schoolID, _ := strconv.ParseUint(ctx.DefaultQuery("schoolId", "0"), 10, 64)
	courses, total, err := c.CourseService.GetCourses(page, limit, uint(schoolID))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: courses, Total: total, Page: page, Limit: limit})
}

// @Summary Get a course with its ordered modules
// @Tags courses
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.Course}
// @Router /api/courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	course, err := c.CourseService.GetCourseByID(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// @Summary Update a course
// @Tags courses
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.Course}
// @Router /api/courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	var req service.CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	course, err := c.CourseService.UpdateCourse(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// @Summary Delete a course
// @Tags courses
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	if err := c.CourseService.DeleteCourse(util.MustParseUint(ctx.Param("id"))); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary Add a module to a course
// @Tags courses
// @Security ApiKeyAuth
// @Param body body service.ModuleRequest true "module"
// @Success 201 {object} util.Response{data=model.Module}
// @Router /api/courses/{id}/modules [post]
func (c *CourseController) AddModule(ctx *gin.Context) {
	var req service.ModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	m, err := c.CourseService.AddModule(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, m)
}

// @Summary List the ordered modules of a course
// @Tags courses
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Module}
// @Router /api/courses/{id}/modules [get]
func (c *CourseController) GetModules(ctx *gin.Context) {
	modules, err := c.CourseService.GetModules(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, modules)
}

// @Summary Update a module
// @Tags courses
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.Module}
// @Router /api/modules/{id} [put]
func (c *CourseController) UpdateModule(ctx *gin.Context) {
	var req service.ModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	m, err := c.CourseService.UpdateModule(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, m)
}

// @Summary Delete a module
// @Tags courses
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/modules/{id} [delete]
func (c *CourseController) DeleteModule(ctx *gin.Context) {
	if err := c.CourseService.DeleteModule(util.MustParseUint(ctx.Param("id"))); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary Enroll the current user in a course
// @Tags courses
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/courses/{id}/enroll [post]
func (c *CourseController) Enroll(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	if err := c.GroupService.EnrollInCourse(util.MustParseUint(ctx.Param("id")), claims.UserID); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "enrolled"})
}

// @Summary Remove the current user from a course
// @Tags courses
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/courses/{id}/enroll [delete]
func (c *CourseController) Unenroll(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	if err := c.GroupService.UnenrollFromCourse(util.MustParseUint(ctx.Param("id")), claims.UserID); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "unenrolled"})
}
