package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"curiolearn_backend/internal/config"
	"curiolearn_backend/internal/controller"
	"curiolearn_backend/internal/repository"
	"curiolearn_backend/internal/service"
	"curiolearn_backend/pkg/database"
	"curiolearn_backend/pkg/logger"
	"curiolearn_backend/pkg/monitoring"
	"curiolearn_backend/pkg/security"
	"curiolearn_backend/pkg/tracing"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	Neo4j           *database.Neo4jClient
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	course     *repository.CourseRepository
	enrollment *repository.EnrollmentRepository
	content    *repository.ContentRepository
	question   *repository.QuestionRepository
	progress   *repository.ProgressRepository
}

type services struct {
	auth       *service.AuthService
	hierarchy  *service.HierarchyService
	recommend  *service.RecommendationService
	progress   *service.ProgressService
	learning   *service.LearningService
	enrollment *service.EnrollmentService
	creation   *service.CourseCreationService
	generator  *service.GeminiCourseGenerator
}

type controllers struct {
	auth     *controller.AuthController
	course   *controller.CourseController
	learning *controller.LearningController
	health   *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ReloadConfig fans a hot-reloaded configuration out to every registered
// callback.
func (a *App) ReloadConfig(cfg *config.Config) {
	a.Config = cfg
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
}

func (a *App) initRepositories(neo *database.Neo4jClient, rdb *redis.Client) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(neo),
		course:     repository.NewCourseRepository(neo),
		enrollment: repository.NewEnrollmentRepository(neo),
		content:    repository.NewContentRepository(neo),
		question:   repository.NewQuestionRepository(neo),
		progress:   repository.NewProgressRepository(neo, rdb),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.auth = service.NewAuthService(repos.user, cfg)
	s.hierarchy = service.NewHierarchyService(repos.content)
	s.recommend = service.NewRecommendationService(repos.question, repos.content)
	s.progress = service.NewProgressService(repos.progress, repos.content, repos.enrollment)
	s.learning = service.NewLearningService(repos.enrollment, repos.content, repos.question, s.progress, s.hierarchy, s.recommend)
	s.enrollment = service.NewEnrollmentService(repos.enrollment, repos.course, s.progress)

	generator, err := service.NewGeminiCourseGenerator(context.Background(), cfg.AI)
	if err != nil {
		logger.Log.Fatal("Failed to initialize course generator", zap.Error(err))
	}
	s.generator = generator
	a.RegisterConfigCallback(func(updated *config.Config) {
		generator.UpdateConfig(updated.AI)
	})

	s.creation = service.NewCourseCreationService(s.generator, repos.course, repos.enrollment, s.progress)
	return s
}

func (a *App) initControllers(s *services, neo *database.Neo4jClient, rdb *redis.Client) *controllers {
	return &controllers{
		auth:     controller.NewAuthController(s.auth),
		course:   controller.NewCourseController(s.creation, s.enrollment),
		learning: controller.NewLearningController(s.learning, s.progress, s.hierarchy),
		health:   controller.NewHealthController(neo, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	neo, err := database.InitNeo4j(&cfg.Neo4j)
	if err != nil {
		logger.Log.Fatal("Failed to initialize neo4j", zap.Error(err))
	}
	if err := neo.EnsureSchema(context.Background()); err != nil {
		logger.Log.Fatal("Failed to ensure graph schema", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		Neo4j:  neo,
		Redis:  rdb,
	}

	repos := app.initRepositories(neo, rdb)
	services := app.initServices(repos, cfg)
	app.services = services
	controllers := app.initControllers(services, neo, rdb)

	monitoring.Init()

	gin.SetMode(ginMode(cfg.Server.Mode))
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("curiolearn-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	return app
}

func ginMode(mode string) string {
	switch mode {
	case "release":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
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
	if err := a.Neo4j.Close(ctx); err != nil {
		logger.Log.Error("Failed to close neo4j driver", zap.Error(err))
	}

	log.Println("Server exiting")
}
