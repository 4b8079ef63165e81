package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skillify_backend/internal/config"
	"skillify_backend/internal/controller"
	"skillify_backend/internal/course"
	"skillify_backend/internal/repository"
	"skillify_backend/internal/service"
	"skillify_backend/internal/util"
	"skillify_backend/pkg/configwatcher"
	"skillify_backend/pkg/database"
	"skillify_backend/pkg/logger"
	"skillify_backend/pkg/mailer"
	"skillify_backend/pkg/monitoring"
	"skillify_backend/pkg/security"
	"skillify_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const otpSweepInterval = 5 * time.Minute

type App struct {
	Config  *config.Config
	Router  *gin.Engine
	DB      *gorm.DB
	Redis   *redis.Client
	Catalog *course.Catalog

	origins         *security.OriginSet
	tracer          *sdktrace.TracerProvider
	services        *services
	configCallbacks []func(*config.Config)
	cancel          context.CancelFunc
}

type repositories struct {
	user     *repository.UserRepository
	progress *repository.ProgressRepository
	video    *repository.VideoRepository
	task     *repository.TaskRepository
	event    *repository.EventRepository
	post     *repository.PostRepository
}

type services struct {
	auth      *service.AuthService
	oauth     *service.OAuthService
	storage   *service.StorageService
	hub       *service.NotificationHub
	dashboard *service.DashboardService
	progress  *service.ProgressService
	video     *service.VideoService
	user      *service.UserService
	task      *service.TaskService
	calendar  *service.CalendarService
	community *service.CommunityService
	admin     *service.AdminService
	otpStore  service.OTPStore
}

type controllers struct {
	auth         *controller.AuthController
	user         *controller.UserController
	video        *controller.VideoController
	dashboard    *controller.DashboardController
	task         *controller.TaskController
	community    *controller.CommunityController
	calendar     *controller.CalendarController
	admin        *controller.AdminController
	notification *controller.NotificationController
	health       *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:     repository.NewUserRepository(db),
		progress: repository.NewProgressRepository(db),
		video:    repository.NewVideoRepository(db),
		task:     repository.NewTaskRepository(db),
		event:    repository.NewEventRepository(db),
		post:     repository.NewPostRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	if rdb != nil {
		s.otpStore = service.NewRedisOTPStore(rdb)
	} else {
		s.otpStore = service.NewMemoryOTPStore()
	}
	sender := mailer.New(&cfg.Email)

	s.storage = service.NewStorageService(&cfg.Storage)
	s.auth = service.NewAuthService(repos.user, s.otpStore, sender, cfg)
	s.oauth = service.NewOAuthService(s.auth, repos.user, &cfg.OAuth)
	s.hub = service.NewNotificationHub(rdb)
	s.dashboard = service.NewDashboardService(repos.progress, repos.video, repos.user, a.Catalog, rdb)
	s.progress = service.NewProgressService(repos.progress, repos.user, a.Catalog, s.hub, s.dashboard)
	s.video = service.NewVideoService(repos.video, s.dashboard)
	s.user = service.NewUserService(repos.user, s.storage, s.dashboard)
	s.task = service.NewTaskService(repos.task)
	s.calendar = service.NewCalendarService(repos.event)
	s.community = service.NewCommunityService(repos.post, repos.user)
	s.admin = service.NewAdminService(repos.user, repos.post, repos.task, repos.progress, sender)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth, s.oauth, a.Config),
		user:         controller.NewUserController(s.user),
		video:        controller.NewVideoController(s.progress, s.video, a.Catalog),
		dashboard:    controller.NewDashboardController(s.dashboard),
		task:         controller.NewTaskController(s.task),
		community:    controller.NewCommunityController(s.community),
		calendar:     controller.NewCalendarController(s.calendar),
		admin:        controller.NewAdminController(s.admin),
		notification: controller.NewNotificationController(s.hub),
		health:       controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(a.origins))
	router.Use(security.Secure())
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) startBackgroundTasks(ctx context.Context, s *services) {
	go s.hub.Run(ctx)

	if store, ok := s.otpStore.(*service.MemoryOTPStore); ok {
		go store.RunSweeper(ctx, otpSweepInterval)
	}

	if a.Config.Path != "" {
		go func() {
			if err := configwatcher.WatchConfig(ctx, a.Config.Path, a.applyConfig); err != nil {
				logger.Log.Warn("Config watcher disabled", zap.Error(err))
			}
		}()
	}
}

// applyConfig pushes the hot-reloadable parts of a new config into the
// running app.
func (a *App) applyConfig(cfg *config.Config) {
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

func loadCatalog(cfg *config.CoursesConfig) *course.Catalog {
	if cfg.CatalogPath == "" {
		return course.Default()
	}
	catalog, err := course.Load(cfg.CatalogPath)
	if err != nil {
		logger.Log.Error("Failed to load course catalog, using built-in", zap.String("path", cfg.CatalogPath), zap.Error(err))
		return course.Default()
	}
	return catalog
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.ForceMigrate || cfg.Server.Mode != "release")
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
			log.Fatalf("Failed to initialize redis: %v", err)
		}
	} else {
		logger.Log.Info("Redis disabled, using in-process OTP store and notifications")
	}

	app := &App{
		Config:  cfg,
		DB:      db,
		Redis:   rdb,
		Catalog: loadCatalog(&cfg.Courses),
		origins: security.NewOriginSet(cfg.CORS.AllowedOrigins),
	}
	if cfg.MigrateOnly {
		return app
	}

	if err := util.RegisterValidators(); err != nil {
		logger.Log.Fatal("Failed to register validators", zap.Error(err))
	}
	monitoring.Init()

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("skillify", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.RegisterConfigCallback(func(newCfg *config.Config) {
		app.origins.Update(newCfg.CORS.AllowedOrigins)
	})
	app.RegisterConfigCallback(func(newCfg *config.Config) {
		if newCfg.Courses.CatalogPath == "" {
			return
		}
		if err := app.Catalog.Reload(newCfg.Courses.CatalogPath); err != nil {
			logger.Log.Error("Failed to reload course catalog", zap.Error(err))
			return
		}
		logger.Log.Info("Course catalog reloaded", zap.Strings("courses", app.Catalog.Keys()))
	})

	ctx, cancel := context.WithCancel(context.Background())
	app.cancel = cancel
	app.startBackgroundTasks(ctx, services)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	if a.services != nil && a.services.hub != nil {
		a.services.hub.Stop()
	}
	if a.cancel != nil {
		a.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	logger.Log.Info("Server exiting")
}
