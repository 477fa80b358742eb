package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lms_backend/internal/config"
	"lms_backend/internal/controller"
	"lms_backend/internal/repository"
	"lms_backend/internal/service"
	"lms_backend/pkg/database"
	"lms_backend/pkg/logger"
	"lms_backend/pkg/mailer"
	"lms_backend/pkg/monitoring"
	"lms_backend/pkg/security"
	"lms_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
}

type repositories struct {
	user         *repository.UserRepository
	school       *repository.SchoolRepository
	course       *repository.CourseRepository
	module       *repository.ModuleRepository
	content      *repository.ContentRepository
	group        *repository.GroupRepository
	announcement *repository.AnnouncementRepository
	attendance   *repository.AttendanceRepository
	moduleGrade  *repository.ModuleGradeRepository
	assessment   *repository.AssessmentRepository
	submission   *repository.SubmissionRepository
}

type services struct {
	auth         *service.AuthService
	user         *service.UserService
	school       *service.SchoolService
	course       *service.CourseService
	storage      *service.StorageService
	content      *service.ContentService
	group        *service.GroupService
	notification *service.NotificationService
	announcement *service.AnnouncementService
	attendance   *service.AttendanceService
	moduleGrade  *service.ModuleGradeService
	assessment   *service.AssessmentService
	submission   *service.SubmissionService
	grading      *service.GradingService
}

type controllers struct {
	auth         *controller.AuthController
	user         *controller.UserController
	school       *controller.SchoolController
	course       *controller.CourseController
	content      *controller.ContentController
	group        *controller.GroupController
	announcement *controller.AnnouncementController
	attendance   *controller.AttendanceController
	assessment   *controller.AssessmentController
	submission   *controller.SubmissionController
	grade        *controller.GradeController
	health       *controller.HealthController
}

func initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		school:       repository.NewSchoolRepository(db),
		course:       repository.NewCourseRepository(db),
		module:       repository.NewModuleRepository(db),
		content:      repository.NewContentRepository(db),
		group:        repository.NewGroupRepository(db),
		announcement: repository.NewAnnouncementRepository(db),
		attendance:   repository.NewAttendanceRepository(db),
		moduleGrade:  repository.NewModuleGradeRepository(db),
		assessment:   repository.NewAssessmentRepository(db),
		submission:   repository.NewSubmissionRepository(db),
	}
}

func initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	m := mailer.NewFromConfig(&cfg.Mail)
	codeStore := service.NewRedisLoginCodeStore(rdb)

	s.auth = service.NewAuthService(repos.user, codeStore, m, cfg)
	s.user = service.NewUserService(repos.user, db)
	s.school = service.NewSchoolService(repos.school)
	s.course = service.NewCourseService(db, repos.course, repos.school, repos.module)
	s.storage = service.NewStorageService(cfg)
	s.content = service.NewContentService(repos.content, repos.module, s.storage)
	s.group = service.NewGroupService(repos.group, repos.user, repos.course)
	s.notification = service.NewNotificationService(repos.group, repos.user, repos.course, m)
	s.announcement = service.NewAnnouncementService(repos.announcement, repos.course, s.notification)
	s.attendance = service.NewAttendanceService(repos.attendance, repos.course, repos.user)
	s.moduleGrade = service.NewModuleGradeService(repos.user, repos.module, repos.assessment, repos.submission, repos.moduleGrade)
	s.assessment = service.NewAssessmentService(db, repos.assessment, repos.module, repos.course, s.notification)
	s.submission = service.NewSubmissionService(db, repos.submission, repos.assessment, repos.module, s.moduleGrade)
	s.grading = service.NewGradingService(db, repos.submission, repos.assessment)

	return s
}

func initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth, s.user),
		user:         controller.NewUserController(s.user),
		school:       controller.NewSchoolController(s.school),
		course:       controller.NewCourseController(s.course, s.group),
		content:      controller.NewContentController(s.content),
		group:        controller.NewGroupController(s.group),
		announcement: controller.NewAnnouncementController(s.announcement),
		attendance:   controller.NewAttendanceController(s.attendance),
		assessment:   controller.NewAssessmentController(s.assessment),
		submission:   controller.NewSubmissionController(s.submission, s.grading),
		grade:        controller.NewGradeController(s.grading, s.moduleGrade),
		health:       controller.NewHealthController(db),
	}
}

func setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := initRepositories(db)
	svcs := initServices(repos, cfg, db, rdb)
	ctrls := initControllers(svcs, db)

	monitoring.Init()

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := gin.Default()
	app.Router = router

	setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("lms-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, ctrls, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
