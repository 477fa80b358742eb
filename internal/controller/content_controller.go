package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	ContentService *service.ContentService
}

func NewContentController(contentService *service.ContentService) *ContentController {
	return &ContentController{ContentService: contentService}
}

// @Summary Create a content item in a module
// @Tags content
// @Security ApiKeyAuth
// @Param body body service.ContentRequest true "content"
// @Success 201 {object} util.Response{data=model.Content}
// @Router /api/modules/{id}/contents [post]
func (c *ContentController) CreateContent(ctx *gin.Context) {
	var req service.ContentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	content, err := c.ContentService.CreateContent(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, content)
}

// UploadContentFile godoc
// @Summary Upload a file attachment as module content
// @Tags content
// @Security ApiKeyAuth
// @Accept multipart/form-data
// @Param file formData file true "attachment"
// @Param title formData string false "display title"
// @Success 201 {object} util.Response{data=model.Content}
// @Router /api/modules/{id}/contents/upload [post]
func (c *ContentController) UploadContentFile(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	title := ctx.PostForm("title")
	if title == "" {
		title = fileHeader.Filename
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	// 不信任客户端的Content-Type，按文件头嗅探
	mimeType, err := util.SniffMimeType(file)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if !util.AllowedContentMime(mimeType) {
		util.HandleServiceError(ctx, util.ErrUnsupportedFileType)
		return
	}

	content, err := c.ContentService.UploadContentFile(ctx.Request.Context(),
		util.MustParseUint(ctx.Param("id")), title, fileHeader.Filename,
		file, fileHeader.Size, mimeType)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, content)
}

// @Summary List the contents of a module
// @Tags content
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Content}
// @Router /api/modules/{id}/contents [get]
func (c *ContentController) GetModuleContents(ctx *gin.Context) {
	contents, err := c.ContentService.GetModuleContents(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, contents)
}

// @Summary Update a content item
// @Tags content
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.Content}
// @Router /api/contents/{id} [put]
func (c *ContentController) UpdateContent(ctx *gin.Context) {
	var req service.ContentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	content, err := c.ContentService.UpdateContent(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, content)
}

// @Summary Delete a content item and its stored object
// @Tags content
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/contents/{id} [delete]
func (c *ContentController) DeleteContent(ctx *gin.Context) {
	if err := c.ContentService.DeleteContent(ctx.Request.Context(), util.MustParseUint(ctx.Param("id"))); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
