package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
	UserService *service.UserService
}

func NewAuthController(authService *service.AuthService, userService *service.UserService) *AuthController {
	return &AuthController{AuthService: authService, UserService: userService}
}

// RequestLoginCode godoc
// @Summary Request a one-time login code by email
// @Tags auth
// @Accept json
// @Produce json
// @Param body body service.RequestLoginCodeRequest true "email"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/auth/request-code [post]
func (c *AuthController) RequestLoginCode(ctx *gin.Context) {
	var req service.RequestLoginCodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err := c.AuthService.RequestLoginCode(ctx.Request.Context(), req.Email); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "login code sent"})
}

// VerifyLoginCode godoc
// @Summary Exchange a login code for a JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param body body service.VerifyLoginCodeRequest true "email and code"
// @Success 200 {object} util.Response{data=service.LoginResult}
// @Failure 400 {object} util.Response
// @Router /api/auth/verify-code [post]
func (c *AuthController) VerifyLoginCode(ctx *gin.Context) {
	var req service.VerifyLoginCodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	result, err := c.AuthService.VerifyLoginCode(ctx.Request.Context(), req.Email, req.Code)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// Me godoc
// @Summary Current authenticated user
// @Tags auth
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.User}
// @Router /api/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	user, err := c.UserService.GetUserByID(claims.UserID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, user)
}
