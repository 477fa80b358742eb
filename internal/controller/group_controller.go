package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GroupController struct {
	GroupService *service.GroupService
}

func NewGroupController(groupService *service.GroupService) *GroupController {
	return &GroupController{GroupService: groupService}
}

type memberRequest struct {
	UserID uint `json:"userId" binding:"required"`
}

// @Summary Create a group
// @Tags groups
// @Security ApiKeyAuth
// @Param body body service.GroupRequest true "group"
// @Success 201 {object} util.Response{data=model.Group}
// @Router /api/groups [post]
func (c *GroupController) CreateGroup(ctx *gin.Context) {
	var req service.GroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	g, err := c.GroupService.CreateGroup(req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, g)
}

// @Summary Get a group
// @Tags groups
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.Group}
// @Router /api/groups/{id} [get]
func (c *GroupController) GetGroup(ctx *gin.Context) {
	g, err := c.GroupService.GetGroupByID(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, g)
}

// @Summary List group members
// @Tags groups
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.GroupMembership}
// @Router /api/groups/{id}/members [get]
func (c *GroupController) GetMembers(ctx *gin.Context) {
	members, err := c.GroupService.GetGroupMembers(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, members)
}

// @Summary Add a member to a group
// @Tags groups
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/groups/{id}/members [post]
func (c *GroupController) AddMember(ctx *gin.Context) {
	var req memberRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err := c.GroupService.AddMember(util.MustParseUint(ctx.Param("id")), req.UserID); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary Remove a member from a group
// @Tags groups
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/groups/{id}/members/{userId} [delete]
func (c *GroupController) RemoveMember(ctx *gin.Context) {
	err := c.GroupService.RemoveMember(
		util.MustParseUint(ctx.Param("id")),
		util.MustParseUint(ctx.Param("userId")))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary Delete a group and its memberships
// @Tags groups
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/groups/{id} [delete]
func (c *GroupController) DeleteGroup(ctx *gin.Context) {
	if err := c.GroupService.DeleteGroup(util.MustParseUint(ctx.Param("id"))); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
