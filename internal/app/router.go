package app

import (
	"lms_backend/internal/config"
	"lms_backend/internal/middleware"
	"lms_backend/internal/model"
	"lms_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.Health)

	// 公共路由（无需登录）
	public := router.Group("/api/auth")
	{
		public.POST("/request-code", c.auth.RequestLoginCode)
		public.POST("/verify-code", c.auth.VerifyLoginCode)
	}

	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		api.GET("/me", c.auth.Me)

		// 浏览类接口：任何已登录角色
		api.GET("/schools", c.school.GetSchools)
		api.GET("/schools/:id", c.school.GetSchool)
		api.GET("/courses", c.course.GetCourses)
		api.GET("/courses/:id", c.course.GetCourse)
		api.GET("/courses/:id/modules", c.course.GetModules)
		api.GET("/modules/:id/contents", c.content.GetModuleContents)
		api.GET("/modules/:id/assessments", c.assessment.ListByModule)
		api.GET("/assessments/:id", c.assessment.GetAssessment)
		api.GET("/announcements", c.announcement.GetAnnouncements)
		api.GET("/announcements/:id", c.announcement.GetAnnouncement)
		api.GET("/groups/:id", c.group.GetGroup)
		api.GET("/groups/:id/members", c.group.GetMembers)

		// 学员流程
		learner := api.Group("")
		learner.Use(middleware.RoleMiddleware(model.Learner))
		{
			learner.POST("/courses/:id/enroll", c.course.Enroll)
			learner.DELETE("/courses/:id/enroll", c.course.Unenroll)
			learner.POST("/assessments/:id/submissions", c.submission.StartSubmission)
			learner.GET("/assessments/:id/submissions/mine", c.submission.GetMySubmissions)
			learner.PUT("/submissions/:id/answers", c.submission.SaveAnswer)
			learner.POST("/submissions/:id/submit", c.submission.SubmitAssessment)
			learner.GET("/modules/:id/grades/mine", c.grade.GetMyModuleGrade)
		}

		// 教师流程
		teacher := api.Group("")
		teacher.Use(middleware.RoleMiddleware(model.Teacher))
		{
			teacher.POST("/schools", c.school.CreateSchool)
			teacher.PUT("/schools/:id", c.school.UpdateSchool)
			teacher.DELETE("/schools/:id", c.school.DeleteSchool)

			teacher.POST("/courses", c.course.CreateCourse)
			teacher.PUT("/courses/:id", c.course.UpdateCourse)
			teacher.DELETE("/courses/:id", c.course.DeleteCourse)
			teacher.POST("/courses/:id/modules", c.course.AddModule)
			teacher.PUT("/modules/:id", c.course.UpdateModule)
			teacher.DELETE("/modules/:id", c.course.DeleteModule)

			teacher.POST("/modules/:id/contents", c.content.CreateContent)
			teacher.POST("/modules/:id/contents/upload", c.content.UploadContentFile)
			teacher.PUT("/contents/:id", c.content.UpdateContent)
			teacher.DELETE("/contents/:id", c.content.DeleteContent)

			teacher.POST("/groups", c.group.CreateGroup)
			teacher.POST("/groups/:id/members", c.group.AddMember)
			teacher.DELETE("/groups/:id/members/:userId", c.group.RemoveMember)
			teacher.DELETE("/groups/:id", c.group.DeleteGroup)

			teacher.POST("/announcements", c.announcement.CreateAnnouncement)
			teacher.DELETE("/announcements/:id", c.announcement.DeleteAnnouncement)

			teacher.POST("/courses/:id/attendance", c.attendance.RecordAttendance)
			teacher.GET("/courses/:id/attendance", c.attendance.GetCourseAttendance)
			teacher.GET("/users/:id/attendance", c.attendance.GetUserAttendance)

			teacher.POST("/assessments", c.assessment.CreateAssessment)
			teacher.PUT("/assessments/:id", c.assessment.UpdateAssessment)
			teacher.DELETE("/assessments/:id", c.assessment.DeleteAssessment)
			teacher.POST("/assessments/:id/questions", c.assessment.AddQuestion)
			teacher.PUT("/questions/:id", c.assessment.UpdateQuestion)
			teacher.DELETE("/questions/:id", c.assessment.DeleteQuestion)
			teacher.POST("/assessments/:id/publish", c.assessment.PublishAssessment)
			teacher.POST("/assessments/:id/unpublish", c.assessment.UnpublishAssessment)

			teacher.GET("/assessments/:id/submissions", c.grade.GetSubmissionsForAssessment)
			teacher.GET("/assessments/:id/submissions/users/:userId", c.grade.GetStudentSubmission)
			teacher.GET("/submissions/:id", c.grade.GetSubmission)
			teacher.POST("/submissions/:id/grade", c.grade.GradeSubmission)
			teacher.GET("/modules/:id/grades/users/:userId", c.grade.GetModuleGrade)
		}
	}

	// 管理员接口
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/users", c.user.CreateUser)
		admin.GET("/users", c.user.GetUsers)
		admin.GET("/users/:id", c.user.GetUser)
		admin.PUT("/users/:id", c.user.UpdateUser)
		admin.PUT("/users/:id/role", c.user.ChangeRole)
		admin.DELETE("/users/:id", c.user.DeleteUser)
	}
}
