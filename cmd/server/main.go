package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fadilmartias/resume-parser/internal/config"
	"github.com/fadilmartias/resume-parser/internal/domain/fiber/handler"
	"github.com/fadilmartias/resume-parser/internal/logger"
	"github.com/fadilmartias/resume-parser/internal/middleware"
	"github.com/fadilmartias/resume-parser/internal/model"
	"github.com/fadilmartias/resume-parser/internal/repository"
	"github.com/fadilmartias/resume-parser/internal/service"
	"github.com/fadilmartias/resume-parser/internal/usecase"
	"github.com/fadilmartias/resume-parser/internal/util"
	"github.com/fadilmartias/resume-parser/internal/worker"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Could not load .env file")
	}

	appConfig := config.LoadAppConfig()

	zl, err := logger.New(appConfig.LogJSON, appConfig.LogDebug)
	if err != nil {
		log.Fatalf("could not build logger: %v", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := ConnectDB(appConfig)
	if err != nil {
		zl.Fatal("database setup failed", zap.Error(err))
	}

	workerConfig := config.LoadWorkerConfig()
	pool, err := worker.NewPool(worker.Config{
		Workers:     workerConfig.Workers,
		QueueSize:   workerConfig.QueueSize,
		TaskTimeout: workerConfig.TaskTimeout,
	}, zl.Named("worker"))
	if err != nil {
		zl.Fatal("worker pool setup failed", zap.Error(err))
	}

	var extractor service.ResumeExtractorInterface = service.NewDemoResumeExtractor()
	if vlmConfig := config.LoadVLMRunConfig(); vlmConfig.Enabled() {
		extractor = service.NewFallbackResumeExtractor(service.NewVLMRunService(vlmConfig, zl.Named("vlmrun")), zl.Named("vlmrun"))
		zl.Info("resume extraction via VLM.run")
	} else {
		zl.Warn("VLM.run key not set, resume extraction runs in demo mode")
	}

	var gemini *service.GeminiService
	if geminiConfig := config.LoadGeminiConfig(); geminiConfig.Enabled() {
		gemini, err = service.NewGeminiService(ctx, geminiConfig, zl.Named("gemini"))
		if err != nil {
			zl.Fatal("gemini client setup failed", zap.Error(err))
		}
	}
	chat, parser := selectLanguageModel(zl, config.LoadChatConfig(), config.LoadOpenAIConfig(), gemini)

	var embedder service.EmbedderInterface
	if gemini != nil {
		embedder = gemini
	} else {
		zl.Warn("no embedding provider configured, similar job search is disabled")
	}

	parsingUsecase := usecase.NewParsingUsecase(
		repository.NewParsingJobRepository(db), extractor, pool, appConfig.MaxUploadBytes, zl.Named("parsing"))
	analysisUsecase := usecase.NewJobAnalysisUsecase(
		repository.NewJobAnalysisRepository(db), parsingUsecase, util.NewPDFTextExtractor(zl.Named("pdf")),
		parser, embedder, pool, appConfig.MaxUploadBytes, zl.Named("job_analysis"))
	chatUsecase := usecase.NewChatUsecase(
		repository.NewChatRepository(db), parsingUsecase, chat, config.LoadChatConfig().MaxUserTurns, zl.Named("chat"))

	// Jobs left unfinished by a previous process have no worker anymore.
	if _, err := parsingUsecase.RecoverUnfinished(ctx); err != nil {
		zl.Error("could not recover parsing jobs", zap.Error(err))
	}
	if _, err := analysisUsecase.RecoverUnfinished(ctx); err != nil {
		zl.Error("could not recover job analyses", zap.Error(err))
	}
	pool.Start()

	app := newApp(appConfig)
	handler.NewResumeHandler(parsingUsecase, appConfig.MaxUploadBytes, appConfig.UploadRate).RegisterRoutes(app)
	handler.NewJobAnalysisHandler(analysisUsecase, appConfig.MaxUploadBytes, appConfig.UploadRate).RegisterRoutes(app)
	handler.NewChatHandler(chatUsecase).RegisterRoutes(app)

	go monitorGoroutines(ctx, zl, pool)

	go func() {
		zl.Info("server running", zap.String("addr", appConfig.Port), zap.String("env", appConfig.Env))
		if err := app.Listen(appConfig.Port); err != nil {
			zl.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		zl.Warn("http shutdown", zap.Error(err))
	}
	drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := pool.Stop(drainCtx); err != nil {
		zl.Warn("worker pool did not drain in time", zap.Error(err))
	}
}

func newApp(appConfig *config.AppConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   appConfig.Name,
		BodyLimit: int(appConfig.MaxUploadBytes) + 1<<20,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			message := err.Error()
			if message == "" {
				message = "Internal Server Error"
			}
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    code,
				Message: message,
			})
		},
	})
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: !appConfig.IsProduction(),
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return appConfig.IsProduction()
		},
	}))
	app.Use(healthcheck.New())
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.RateLimiter(120, time.Minute, middleware.IsStatusPoll))
	return app
}

// selectLanguageModel picks the chat and job-description provider. The
// configured provider wins when its key is present; otherwise any configured
// provider is used, and the demo services when none is.
func selectLanguageModel(zl *zap.Logger, chatConfig *config.ChatConfig, openAIConfig *config.OpenAIConfig, gemini *service.GeminiService) (service.ChatServiceInterface, service.JobParserInterface) {
	useOpenAI := openAIConfig.Enabled() && (chatConfig.Provider != config.ChatProviderGemini || gemini == nil)
	switch {
	case useOpenAI:
		zl.Info("chat and job parsing via OpenAI", zap.String("model", openAIConfig.Model))
		s := service.NewOpenAIService(openAIConfig, zl.Named("openai"))
		return s, service.NewFallbackJobParser(s, zl.Named("openai"))
	case gemini != nil:
		zl.Info("chat and job parsing via Gemini")
		return gemini, service.NewFallbackJobParser(gemini, zl.Named("gemini"))
	}
	zl.Warn("no language model configured, chat and job parsing run in demo mode")
	return service.NewDemoChatService(), service.NewDemoJobParser()
}

func monitorGoroutines(ctx context.Context, zl *zap.Logger, pool *worker.Pool) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m := pool.Metrics()
			zl.Debug("runtime stats",
				zap.Int("goroutines", runtime.NumGoroutine()),
				zap.Int64("active_workers", m.ActiveWorkers.Load()),
				zap.Int64("pending_tasks", m.PendingTasks.Load()),
				zap.Int64("completed_tasks", m.CompletedTasks.Load()),
				zap.Int64("panicked_tasks", m.PanickedTasks.Load()))
		}
	}
}

// ConnectDB opens PostgreSQL, enables pgvector and migrates every table.
func ConnectDB(appConfig *config.AppConfig) (*gorm.DB, error) {
	dbConfig := config.LoadDBConfig()

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		dbConfig.Host,
		dbConfig.User,
		dbConfig.Password,
		dbConfig.Name,
		dbConfig.Port,
		dbConfig.SSLMode,
		dbConfig.TimeZone,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	pgDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	if appConfig.IsProduction() {
		pgDB.SetMaxIdleConns(20)
		pgDB.SetMaxOpenConns(200)
		pgDB.SetConnMaxLifetime(time.Hour)
	} else {
		pgDB.SetMaxIdleConns(5)
		pgDB.SetMaxOpenConns(10)
		pgDB.SetConnMaxLifetime(30 * time.Minute)
	}

	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return nil, fmt.Errorf("enable pgvector: %w", err)
	}
	if err := db.AutoMigrate(model.MigrateAble...); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return db, nil
}
