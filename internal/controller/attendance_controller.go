package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AttendanceController struct {
	AttendanceService *service.AttendanceService
}

func NewAttendanceController(attendanceService *service.AttendanceService) *AttendanceController {
	return &AttendanceController{AttendanceService: attendanceService}
}

// RecordAttendance godoc
// @Summary Record attendance for a course date
// @Description Re-submitting for the same (course, user, date) updates the status
// @Tags attendance
// @Security ApiKeyAuth
// @Param body body service.AttendanceRequest true "attendance"
// @Success 200 {object} util.Response{data=model.Attendance}
// @Router /api/courses/{id}/attendance [post]
func (c *AttendanceController) RecordAttendance(ctx *gin.Context) {
	var req service.AttendanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	record, err := c.AttendanceService.RecordAttendance(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, record)
}

// @Summary Attendance sheet for a course date
// @Tags attendance
// @Security ApiKeyAuth
// @Param date query string true "YYYY-MM-DD"
// @Success 200 {object} util.Response{data=[]model.Attendance}
// @Router /api/courses/{id}/attendance [get]
func (c *AttendanceController) GetCourseAttendance(ctx *gin.Context) {
	date := ctx.Query("date")
	if date == "" {
		util.BadRequest(ctx, "date is required")
		return
	}
	items, err := c.AttendanceService.GetCourseAttendance(util.MustParseUint(ctx.Param("id")), date)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, items)
}

// @Summary Attendance history of a user
// @Tags attendance
// @Security ApiKeyAuth
// @Param courseId query int false "course filter"
// @Success 200 {object} util.Response{data=[]model.Attendance}
// @Router /api/users/{id}/attendance [get]
func (c *AttendanceController) GetUserAttendance(ctx *gin.Context) {
	courseID := uint(0)
	if v := ctx.Query("courseId"); v != "" {
		courseID = util.MustParseUint(v)
	}
	items, err := c.AttendanceService.GetUserAttendance(util.MustParseUint(ctx.Param("id")), courseID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, items)
}
