package service

import (
	"context"
	"errors"
	"io"
	"path/filepath"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ContentService 模块内教学内容条目，文件类内容走StorageProvider
type ContentService struct {
	ContentRepo *repository.ContentRepository
	ModuleRepo  *repository.ModuleRepository
	Storage     *StorageService
}

func NewContentService(contentRepo *repository.ContentRepository, moduleRepo *repository.ModuleRepository,
	storage *StorageService) *ContentService {
	return &ContentService{ContentRepo: contentRepo, ModuleRepo: moduleRepo, Storage: storage}
}

type ContentRequest struct {
	Title       string            `json:"title" binding:"required"`
	ContentType model.ContentType `json:"contentType" binding:"required"`
	Body        string            `json:"body"`
	FileURL     string            `json:"fileUrl"`
	OrderIndex  int               `json:"orderIndex"`
}

func (s *ContentService) CreateContent(moduleID uint, req ContentRequest) (*model.Content, error) {
	if _, err := s.ModuleRepo.FindByID(moduleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrModuleNotFound
		}
		return nil, err
	}
	content := &model.Content{
		ModuleID:    moduleID,
		Title:       req.Title,
		ContentType: req.ContentType,
		Body:        req.Body,
		FileURL:     req.FileURL,
		OrderIndex:  req.OrderIndex,
	}
	if err := s.ContentRepo.Create(content); err != nil {
		return nil, err
	}
	return content, nil
}

// UploadContentFile 上传附件并创建file类型内容条目，对象键用UUID避免覆盖
func (s *ContentService) UploadContentFile(ctx context.Context, moduleID uint, title, filename string,
	reader io.Reader, size int64, contentType string) (*model.Content, error) {
	if _, err := s.ModuleRepo.FindByID(moduleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrModuleNotFound
		}
		return nil, err
	}

	objectKey := model.GenerateUUID() + filepath.Ext(filename)
	url, err := s.Storage.Provider.Upload(ctx, objectKey, reader, size, contentType)
	if err != nil {
		return nil, err
	}

	content := &model.Content{
		ModuleID:    moduleID,
		Title:       title,
		ContentType: model.ContentFile,
		FileURL:     url,
		ObjectKey:   objectKey,
	}
	if err := s.ContentRepo.Create(content); err != nil {
		// 数据库失败时回收已上传对象
		if delErr := s.Storage.Provider.Delete(ctx, objectKey); delErr != nil {
			logger.Log.Warn("failed to clean up orphaned upload",
				zap.String("objectKey", objectKey), zap.Error(delErr))
		}
		return nil, err
	}
	return content, nil
}

func (s *ContentService) GetContentByID(id uint) (*model.Content, error) {
	content, err := s.ContentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrContentNotFound
		}
		return nil, err
	}
	return content, nil
}

func (s *ContentService) GetModuleContents(moduleID uint) ([]model.Content, error) {
	if _, err := s.ModuleRepo.FindByID(moduleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrModuleNotFound
		}
		return nil, err
	}
	return s.ContentRepo.ListByModule(moduleID)
}

func (s *ContentService) UpdateContent(id uint, req ContentRequest) (*model.Content, error) {
	content, err := s.GetContentByID(id)
	if err != nil {
		return nil, err
	}
	content.Title = req.Title
	content.ContentType = req.ContentType
	content.Body = req.Body
	if req.FileURL != "" {
		content.FileURL = req.FileURL
	}
	content.OrderIndex = req.OrderIndex
	if err := s.ContentRepo.Update(content); err != nil {
		return nil, err
	}
	return content, nil
}

// DeleteContent 删除条目并清理其存储对象
func (s *ContentService) DeleteContent(ctx context.Context, id uint) error {
	content, err := s.GetContentByID(id)
	if err != nil {
		return err
	}
	if err := s.ContentRepo.Delete(id); err != nil {
		return err
	}
	if content.ObjectKey != "" {
		if err := s.Storage.Provider.Delete(ctx, content.ObjectKey); err != nil {
			logger.Log.Warn("failed to delete stored object",
				zap.String("objectKey", content.ObjectKey), zap.Error(err))
		}
	}
	return nil
}
