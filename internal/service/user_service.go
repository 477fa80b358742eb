package service

import (
	"errors"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

type UserService struct {
	UserRepo *repository.UserRepository
	DB       *gorm.DB
}

func NewUserService(userRepo *repository.UserRepository, db *gorm.DB) *UserService {
	return &UserService{UserRepo: userRepo, DB: db}
}

type CreateUserRequest struct {
	Name  string         `json:"name" binding:"required"`
	Email string         `json:"email" binding:"required,email"`
	Role  model.UserRole `json:"role" binding:"required"`
}

type UpdateUserRequest struct {
	Name     string `json:"name"`
	Disabled *bool  `json:"disabled"`
}

type ChangeRoleRequest struct {
	Role model.UserRole `json:"role" binding:"required"`
}

// CreateUser 创建用户并按角色补齐卫星表，整体在一个事务内
func (s *UserService) CreateUser(req CreateUserRequest) (*model.User, error) {
	if !model.ValidRole(req.Role) {
		return nil, util.ErrInvalidRole
	}
	if _, err := s.UserRepo.FindByEmail(req.Email); err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user := &model.User{Name: req.Name, Email: req.Email, Role: req.Role}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return createRoleProfiles(tx, user.ID, req.Role)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUsers(page, limit int, role, search string) ([]model.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.UserRepo.List(page, limit, role, search)
}

func (s *UserService) UpdateUser(id uint, req UpdateUserRequest) (*model.User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Disabled != nil {
		user.Disabled = *req.Disabled
	}
	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) DeleteUser(id uint) error {
	if _, err := s.GetUserByID(id); err != nil {
		return err
	}
	return s.UserRepo.Delete(id)
}

// ChangeRole 角色迁移：更新角色列、软删旧卫星行、创建新卫星行，同一事务内完成
func (s *UserService) ChangeRole(userID uint, newRole model.UserRole) (*model.User, error) {
	if !model.ValidRole(newRole) {
		return nil, util.ErrInvalidRole
	}
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user.Role == newRole {
		return user, nil
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.User{}).Where("id = ?", userID).
			Update("role", newRole).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.LearnerProfile{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.TeacherProfile{}).Error; err != nil {
			return err
		}
		return createRoleProfiles(tx, userID, newRole)
	})
	if err != nil {
		return nil, err
	}
	user.Role = newRole
	return user, nil
}

// createRoleProfiles student_teacher同时持有两类卫星行
func createRoleProfiles(tx *gorm.DB, userID uint, role model.UserRole) error {
	if role == model.Learner || role == model.StudentTeacher {
		if err := tx.Create(&model.LearnerProfile{UserID: userID}).Error; err != nil {
			return err
		}
	}
	if role == model.Teacher || role == model.StudentTeacher {
		if err := tx.Create(&model.TeacherProfile{UserID: userID}).Error; err != nil {
			return err
		}
	}
	return nil
}
