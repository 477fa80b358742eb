package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type GroupRepository struct {
	DB *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{DB: db}
}

func (r *GroupRepository) Create(g *model.Group) error {
	return r.DB.Create(g).Error
}

func (r *GroupRepository) FindByID(id uint) (*model.Group, error) {
	var g model.Group
	err := r.DB.First(&g, id).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GroupRepository) FindByCourse(courseID uint) (*model.Group, error) {
	var g model.Group
	err := r.DB.Where("course_id = ?", courseID).First(&g).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GroupRepository) AddMember(groupID, userID uint) error {
	return r.DB.Create(&model.GroupMembership{GroupID: groupID, UserID: userID}).Error
}

func (r *GroupRepository) RemoveMember(groupID, userID uint) error {
	return r.DB.Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&model.GroupMembership{}).Error
}

func (r *GroupRepository) IsMember(groupID, userID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.GroupMembership{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error
	return count > 0, err
}

// GetGroupMembers 返回成员及其用户信息，用于通知收件人解析
func (r *GroupRepository) GetGroupMembers(groupID uint) ([]model.GroupMembership, error) {
	var members []model.GroupMembership
	err := r.DB.Preload("User").Where("group_id = ?", groupID).Find(&members).Error
	return members, err
}

func (r *GroupRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", id).Delete(&model.GroupMembership{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Group{}, id).Error
	})
}
