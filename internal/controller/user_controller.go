package controller

import (
	"strconv"

	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// CreateUser godoc
// @Summary Create a user
// @Tags users
// @Security ApiKeyAuth
// @Param body body service.CreateUserRequest true "user"
// @Success 201 {object} util.Response{data=model.User}
// @Router /api/admin/users [post]
func (c *UserController) CreateUser(ctx *gin.Context) {
	var req service.CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	user, err := c.UserService.CreateUser(req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, user)
}

// GetUsers godoc
// @Summary List users with pagination and filters
// @Tags users
// @Security ApiKeyAuth
// @Param page query int false "page"
// @Param limit query int false "limit"
// @Param role query string false "role filter"
// @Param search query string false "name or email search"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/users [get]
func (c *UserController) GetUsers(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	users, total, err := c.UserService.GetUsers(page, limit, ctx.Query("role"), ctx.Query("search"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: users, Total: total, Page: page, Limit: limit})
}

// GetUser godoc
// @Summary Get a user by id
// @Tags users
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.User}
// @Router /api/admin/users/{id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	user, err := c.UserService.GetUserByID(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// UpdateUser godoc
// @Summary Update user name or disabled flag
// @Tags users
// @Security ApiKeyAuth
// @Param body body service.UpdateUserRequest true "fields"
// @Success 200 {object} util.Response{data=model.User}
// @Router /api/admin/users/{id} [put]
func (c *UserController) UpdateUser(ctx *gin.Context) {
	var req service.UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	user, err := c.UserService.UpdateUser(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// ChangeRole godoc
// @Summary Change a user's role
// @Description Updates the role column and swaps the role profile rows in one transaction
// @Tags users
// @Security ApiKeyAuth
// @Param body body service.ChangeRoleRequest true "new role"
// @Success 200 {object} util.Response{data=model.User}
// @Router /api/admin/users/{id}/role [put]
func (c *UserController) ChangeRole(ctx *gin.Context) {
	var req service.ChangeRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	user, err := c.UserService.ChangeRole(util.MustParseUint(ctx.Param("id")), req.Role)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// DeleteUser godoc
// @Summary Soft-delete a user
// @Tags users
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/admin/users/{id} [delete]
func (c *UserController) DeleteUser(ctx *gin.Context) {
	if err := c.UserService.DeleteUser(util.MustParseUint(ctx.Param("id"))); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
