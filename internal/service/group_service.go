package service

import (
	"errors"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

// GroupService 分组与选课：加入课程学员组即视为选课
type GroupService struct {
	GroupRepo  *repository.GroupRepository
	UserRepo   *repository.UserRepository
	CourseRepo *repository.CourseRepository
}

func NewGroupService(groupRepo *repository.GroupRepository, userRepo *repository.UserRepository,
	courseRepo *repository.CourseRepository) *GroupService {
	return &GroupService{GroupRepo: groupRepo, UserRepo: userRepo, CourseRepo: courseRepo}
}

type GroupRequest struct {
	Name string          `json:"name" binding:"required"`
	Kind model.GroupKind `json:"kind"`
}

func (s *GroupService) CreateGroup(req GroupRequest) (*model.Group, error) {
	if req.Kind == "" {
		req.Kind = model.LearnerGroup
	}
	g := &model.Group{Name: req.Name, Kind: req.Kind, JoinCode: model.GenerateUUID()}
	if err := s.GroupRepo.Create(g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *GroupService) GetGroupByID(id uint) (*model.Group, error) {
	g, err := s.GroupRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrGroupNotFound
		}
		return nil, err
	}
	return g, nil
}

func (s *GroupService) GetGroupMembers(groupID uint) ([]model.GroupMembership, error) {
	if _, err := s.GetGroupByID(groupID); err != nil {
		return nil, err
	}
	return s.GroupRepo.GetGroupMembers(groupID)
}

func (s *GroupService) AddMember(groupID, userID uint) error {
	if _, err := s.GetGroupByID(groupID); err != nil {
		return err
	}
	if _, err := s.UserRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrUserNotFound
		}
		return err
	}
	member, err := s.GroupRepo.IsMember(groupID, userID)
	if err != nil {
		return err
	}
	if member {
		return util.ErrAlreadyMember
	}
	return s.GroupRepo.AddMember(groupID, userID)
}

func (s *GroupService) RemoveMember(groupID, userID uint) error {
	if _, err := s.GetGroupByID(groupID); err != nil {
		return err
	}
	return s.GroupRepo.RemoveMember(groupID, userID)
}

// EnrollInCourse 选课即加入课程学员组
func (s *GroupService) EnrollInCourse(courseID, userID uint) error {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrCourseNotFound
		}
		return err
	}
	if course.LearnerGroupID == 0 {
		return util.ErrGroupNotFound
	}
	return s.AddMember(course.LearnerGroupID, userID)
}

func (s *GroupService) UnenrollFromCourse(courseID, userID uint) error {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrCourseNotFound
		}
		return err
	}
	if course.LearnerGroupID == 0 {
		return util.ErrGroupNotFound
	}
	return s.GroupRepo.RemoveMember(course.LearnerGroupID, userID)
}

func (s *GroupService) DeleteGroup(id uint) error {
	if _, err := s.GetGroupByID(id); err != nil {
		return err
	}
	return s.GroupRepo.Delete(id)
}
