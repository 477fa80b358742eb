package controller

import (
	"strconv"

	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnnouncementController struct {
	AnnouncementService *service.AnnouncementService
}

func NewAnnouncementController(announcementService *service.AnnouncementService) *AnnouncementController {
	return &AnnouncementController{AnnouncementService: announcementService}
}

// CreateAnnouncement godoc
// @Summary Publish an announcement
// @Description Course announcements notify the learner group; global ones notify all active learners and teachers
// @Tags announcements
// @Security ApiKeyAuth
// @Param body body service.AnnouncementRequest true "announcement"
// @Success 201 {object} util.Response{data=model.Announcement}
// @Router /api/announcements [post]
func (c *AnnouncementController) CreateAnnouncement(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	var req service.AnnouncementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	a, err := c.AnnouncementService.CreateAnnouncement(ctx.Request.Context(), claims.UserID, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, a)
}

// @Summary List announcements (courseId=0 for global)
// @Tags announcements
// @Security ApiKeyAuth
// @Param courseId query int false "course filter"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/announcements [get]
func (c *AnnouncementController) GetAnnouncements(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	courseID, _ := strconv.ParseUint(ctx.DefaultQuery("courseId", "0"), 10, 64)
	items, total, err := c.AnnouncementService.GetAnnouncements(uint(courseID), page, limit)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: items, Total: total, Page: page, Limit: limit})
}

// @Summary Get an announcement
// @Tags announcements
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.Announcement}
// @Router /api/announcements/{id} [get]
func (c *AnnouncementController) GetAnnouncement(ctx *gin.Context) {
	a, err := c.AnnouncementService.GetAnnouncementByID(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, a)
}

// @Summary Delete an announcement
// @Tags announcements
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/announcements/{id} [delete]
func (c *AnnouncementController) DeleteAnnouncement(ctx *gin.Context) {
	if err := c.AnnouncementService.DeleteAnnouncement(util.MustParseUint(ctx.Param("id"))); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
