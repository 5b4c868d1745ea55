package app

import (
	"biokuiz/internal/config"
	"biokuiz/internal/controller"
	"biokuiz/internal/repository"
	"biokuiz/internal/service"
	"biokuiz/internal/util"
	"biokuiz/pkg/database"
	"biokuiz/pkg/logger"
	"biokuiz/pkg/monitoring"
	"biokuiz/pkg/security"
	"biokuiz/pkg/tracing"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	repos    *repositories
	services *services
	tracer   *sdktrace.TracerProvider

	mu              sync.Mutex
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user     *repository.UserRepository
	material *repository.MaterialRepository
	question *repository.QuestionRepository
	score    *repository.ScoreRepository
	session  service.SessionStore
}

type services struct {
	auth    *service.AuthService
	reset   *service.PasswordResetService
	quiz    *service.QuizService
	report  *service.ReportService
	content *service.ContentService
	storage *service.StorageService
	seed    *service.SeedService
}

type controllers struct {
	auth    *controller.AuthController
	profile *controller.ProfileController
	quiz    *controller.QuizController
	report  *controller.ReportController
	content *controller.ContentController
	health  *controller.HealthController
}

// RegisterConfigCallback adds a function run with every reloaded config.
func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) applyConfig(cfg *config.Config) {
	a.mu.Lock()
	callbacks := append([]func(*config.Config){}, a.configCallbacks...)
	a.mu.Unlock()

	for _, cb := range callbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	var sessions service.SessionStore
	if rdb != nil {
		sessions = repository.NewRedisSessionRepository(rdb)
	} else {
		sessions = repository.NewMemorySessionRepository()
	}

	return &repositories{
		user:     repository.NewUserRepository(db),
		material: repository.NewMaterialRepository(db),
		question: repository.NewQuestionRepository(db),
		score:    repository.NewScoreRepository(db),
		session:  sessions,
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	auth := service.NewAuthService(repos.user, repos.session, &cfg.Session)
	storage := service.NewStorageService(&cfg.Storage)

	return &services{
		auth:    auth,
		reset:   service.NewPasswordResetService(repos.user, auth, cfg),
		quiz:    service.NewQuizService(repos.question, repos.score, &cfg.Quiz),
		report:  service.NewReportService(repos.user, repos.score, repos.material, repos.question, &cfg.Quiz),
		content: service.NewContentService(repos.material, repos.question, storage),
		storage: storage,
		seed:    service.NewSeedService(repos.material, repos.question, repos.user, auth),
	}
}

func (a *App) initControllers(s *services, cookie *security.SessionCookie) *controllers {
	return &controllers{
		auth:    controller.NewAuthController(s.auth, s.reset, cookie),
		profile: controller.NewProfileController(s.auth, s.report, s.content),
		quiz:    controller.NewQuizController(s.quiz),
		report:  controller.NewReportController(s.report),
		content: controller.NewContentController(s.content),
		health:  controller.NewHealthController(a.DB, a.Redis),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(
		cfg.RateLimit.MaxRequests,
		time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute,
		"/api/health", "/metrics",
	))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// New assembles the application on already opened stores. rdb may be nil,
// in which case sessions are kept in memory.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*App, error) {
	switch cfg.Server.Mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Server.Mode)
	}

	cookie, err := security.NewSessionCookie(
		cfg.Session.CookieName,
		cfg.Session.HashKey,
		cfg.Session.BlockKey,
		cfg.Session.TTL,
		cfg.Server.Mode == gin.ReleaseMode,
	)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	a.repos = a.initRepositories(db, rdb)
	a.services = a.initServices(a.repos, cfg)
	ctrls := a.initControllers(a.services, cookie)

	monitoring.Init()

	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Server.Mode == gin.DebugMode {
		router.Use(gin.Logger())
	}
	a.Router = router

	a.setupMiddlewares(router, cfg)
	a.registerRoutes(router, ctrls, cookie)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static(util.UploadsURLPrefix, cfg.Storage.LocalPath)
	}

	a.RegisterConfigCallback(logger.Reload)
	return a, nil
}

// NewApp opens the database (and Redis when sessions live there), migrates
// the schema when allowed and builds the application.
func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode == gin.DebugMode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if cfg.Server.Mode != gin.ReleaseMode || cfg.ForceMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	var rdb *redis.Client
	if cfg.Session.Store == "redis" {
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		}
	}

	app, err := New(cfg, db, rdb)
	if err != nil {
		logger.Log.Fatal("Failed to build application", zap.Error(err))
	}

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	config.Watch("configs", app.applyConfig, func(err error) {
		logger.Log.Warn("config reload rejected", zap.Error(err))
	})

	return app
}

// Seed loads sample content from path into empty tables.
func (a *App) Seed(ctx context.Context, path string) error {
	data, err := service.LoadSeedFile(path)
	if err != nil {
		return fmt.Errorf("load seed file: %w", err)
	}
	_, err = a.services.seed.Seed(ctx, data)
	return err
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Log.Info("Server exiting")
}
