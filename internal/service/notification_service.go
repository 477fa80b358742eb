package service

import (
	"context"
	"fmt"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/pkg/logger"
	"lms_backend/pkg/mailer"
	"lms_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// NotificationService 邮件通知扇出。发送失败只记日志，从不向调用方传播。
type NotificationService struct {
	GroupRepo  *repository.GroupRepository
	UserRepo   *repository.UserRepository
	CourseRepo *repository.CourseRepository
	Mailer     mailer.Mailer
}

func NewNotificationService(groupRepo *repository.GroupRepository, userRepo *repository.UserRepository,
	courseRepo *repository.CourseRepository, m mailer.Mailer) *NotificationService {
	return &NotificationService{GroupRepo: groupRepo, UserRepo: userRepo, CourseRepo: courseRepo, Mailer: m}
}

// NotifyAssessmentPublished 通知课程学员组：新测评已发布
func (s *NotificationService) NotifyAssessmentPublished(ctx context.Context, course *model.Course, assessment *model.Assessment) {
	recipients := s.courseLearnerEmails(course)
	if len(recipients) == 0 {
		logger.Log.Info("assessment published with no notifiable learners",
			zap.Uint("assessmentId", assessment.ID), zap.Uint("courseId", course.ID))
		return
	}

	due := "no due date"
	if assessment.DueDate != nil {
		due = assessment.DueDate.Format("2006-01-02 15:04")
	}
	msg := mailer.Message{
		To:      recipients,
		Subject: fmt.Sprintf("New assessment published: %s", assessment.Title),
		Text: fmt.Sprintf("A new %s has been published in %s.\n\nTitle: %s\nMax score: %.0f\nDue: %s\n\nLog in to start your attempt.",
			assessment.Type, course.Title, assessment.Title, assessment.MaxScore, due),
	}
	s.send(ctx, "assessment_published", msg)
}

// NotifyAnnouncement 课程公告发给学员组；全局公告发给全部启用的学员与教师
func (s *NotificationService) NotifyAnnouncement(ctx context.Context, a *model.Announcement) {
	var recipients []string
	var scope string
	if a.CourseID != nil {
		scope = "course"
		course, err := s.CourseRepo.FindByID(*a.CourseID)
		if err != nil {
			logger.Log.Error("announcement fan-out: course lookup failed",
				zap.Uint("announcementId", a.ID), zap.Error(err))
			return
		}
		recipients = s.courseLearnerEmails(course)
	} else {
		scope = "global"
		users, err := s.UserRepo.FindByRoles(model.Learner, model.Teacher, model.StudentTeacher)
		if err != nil {
			logger.Log.Error("announcement fan-out: recipient lookup failed",
				zap.Uint("announcementId", a.ID), zap.Error(err))
			return
		}
		for _, u := range users {
			recipients = append(recipients, u.Email)
		}
	}
	if len(recipients) == 0 {
		return
	}

	msg := mailer.Message{
		To:      recipients,
		Subject: fmt.Sprintf("Announcement: %s", a.Title),
		Text:    a.Body,
	}
	s.send(ctx, "announcement_"+scope, msg)
}

// courseLearnerEmails 解析课程学员组成员邮箱，跳过停用账号
func (s *NotificationService) courseLearnerEmails(course *model.Course) []string {
	if course.LearnerGroupID == 0 {
		logger.Log.Warn("course has no learner group", zap.Uint("courseId", course.ID))
		return nil
	}
	members, err := s.GroupRepo.GetGroupMembers(course.LearnerGroupID)
	if err != nil {
		logger.Log.Error("failed to load learner group members",
			zap.Uint("courseId", course.ID), zap.Error(err))
		return nil
	}
	var emails []string
	for _, m := range members {
		if m.User == nil || m.User.Disabled {
			continue
		}
		emails = append(emails, m.User.Email)
	}
	return emails
}

func (s *NotificationService) send(ctx context.Context, kind string, msg mailer.Message) {
	if err := s.Mailer.Send(ctx, msg); err != nil {
		monitoring.EmailsSent.WithLabelValues(kind, "error").Inc()
		logger.Log.Error("notification email failed",
			zap.String("kind", kind), zap.Int("recipients", len(msg.To)), zap.Error(err))
		return
	}
	monitoring.EmailsSent.WithLabelValues(kind, "sent").Inc()
}
