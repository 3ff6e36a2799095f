package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/Riya-Singh-4103/Appointment-Sheduler/config"
	"github.com/Riya-Singh-4103/Appointment-Sheduler/database"
	appointmentRepo "github.com/Riya-Singh-4103/Appointment-Sheduler/database/repository/appointment"
	"github.com/Riya-Singh-4103/Appointment-Sheduler/handlers"
	"github.com/Riya-Singh-4103/Appointment-Sheduler/middleware"
	"github.com/Riya-Singh-4103/Appointment-Sheduler/routes"
	"github.com/Riya-Singh-4103/Appointment-Sheduler/services/builder"
	"github.com/Riya-Singh-4103/Appointment-Sheduler/services/extraction"
	ai "github.com/Riya-Singh-4103/Appointment-Sheduler/services/intelligence"
	"github.com/Riya-Singh-4103/Appointment-Sheduler/services/normalizer"
	"github.com/Riya-Singh-4103/Appointment-Sheduler/services/ocr"
	"github.com/Riya-Singh-4103/Appointment-Sheduler/services/scheduling"
	"github.com/Riya-Singh-4103/Appointment-Sheduler/services/speech"
	"github.com/Riya-Singh-4103/Appointment-Sheduler/services/storage"
	"github.com/Riya-Singh-4103/Appointment-Sheduler/utils"
	"github.com/Riya-Singh-4103/Appointment-Sheduler/worker"

	"github.com/gin-gonic/gin"
	genai "github.com/google/generative-ai-go/genai"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := database.InitDB(ctx); err != nil {
		logger.Fatal("main: failed to connect to MongoDB", zap.Error(err))
	}
	redisUp := true
	if err := utils.InitCache(ctx); err != nil {
		logger.Warn("main: Redis unavailable; extraction cache and clarification queue disabled", zap.Error(err))
		redisUp = false
	}

	// repositories.
	apptRepo, err := appointmentRepo.NewMongoAppointmentRepo(database.DB())
	if err != nil {
		logger.Fatal("main: failed to prepare appointments collection", zap.Error(err))
	}
	clarRepo, err := appointmentRepo.NewMongoClarificationRepo(database.DB())
	if err != nil {
		logger.Fatal("main: failed to prepare clarifications collection", zap.Error(err))
	}

	// pipeline.
	departments := builder.New(cfg.Departments)
	norm := normalizer.New(referenceClock(cfg, logger), cfg.Location())

	var geminiClient *genai.Client
	if needsGemini(cfg) {
		geminiClient, err = ai.NewClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			logger.Warn("main: Gemini unavailable", zap.Error(err))
		} else {
			defer geminiClient.Close()
		}
	}

	extractor := newExtractor(cfg, geminiClient, departments, redisUp, logger)
	recognizer := newRecognizer(ctx, cfg, geminiClient, logger)

	var transcriber speech.Transcriber
	if t, err := speech.NewGoogleTranscriber(ctx, cfg.GoogleServiceAccountFile, logger); err != nil {
		logger.Warn("main: speech-to-text unavailable; audio requests disabled", zap.Error(err))
	} else {
		defer t.Close()
		transcriber = t
	}

	var archiver storage.Archiver
	if cfg.CloudinaryURL != "" {
		if a, err := storage.NewCloudinaryArchiver(cfg.CloudinaryURL, storage.DefaultFolder); err != nil {
			logger.Warn("main: Cloudinary unavailable; images will not be archived", zap.Error(err))
		} else {
			archiver = a
		}
	}

	// clarification log.
	var recorder scheduling.ClarificationRecorder
	var workerSrv *worker.Server
	if cfg.ClarificationLog {
		if redisUp {
			queueClient := asynq.NewClient(utils.QueueRedisOpt())
			defer queueClient.Close()
			recorder = worker.NewEnqueuer(queueClient)

			workerSrv = worker.NewServer(utils.QueueRedisOpt(), clarRepo, logger)
			workerSrv.Start()
		} else {
			recorder = worker.NewDirectRecorder(clarRepo)
		}
	}

	svc := scheduling.New(scheduling.Dependencies{
		Extractor:           extractor,
		Normalizer:          norm,
		Builder:             departments,
		Store:               apptRepo,
		Recognizer:          recognizer,
		Transcriber:         transcriber,
		Archiver:            archiver,
		Recorder:            recorder,
		MinSourceConfidence: cfg.OCRMinConfidence,
		Logger:              logger,
	})

	utils.StartHealthMonitor(ctx, utils.CacheClient, database.MongoClient)

	scheduleHandler := handlers.NewScheduleHandler(svc, cfg.MaxUploadBytes)
	appointmentHandler := handlers.NewAppointmentHandler(apptRepo)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		ScheduleFromText:  scheduleHandler.ScheduleFromText,
		ScheduleFromImage: scheduleHandler.ScheduleFromImage,
		ScheduleFromAudio: scheduleHandler.ScheduleFromAudio,
		GetAppointment:    appointmentHandler.GetAppointment,
		ListAppointments:  appointmentHandler.ListAppointments,
		Health:            handlers.HealthHandler(utils.GetHealthStatus),
		Metrics:           gin.WrapH(promhttp.Handler()),
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.MaxMultipartMemory = cfg.MaxUploadBytes
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger, cfg.TrustedProxies...))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin, cfg.TrustedProxies...))

	routes.RegisterRoutes(router, handlerBundle)

	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Info("Starting server", zap.String("addr", srv.Addr), zap.String("timezone", cfg.Timezone))
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("main: server failed to start", zap.Error(err))
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: server is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	if workerSrv != nil {
		workerSrv.Shutdown()
	}
	cancel()
	if err := database.Close(shutdownCtx); err != nil {
		logger.Warn("main: MongoDB disconnect failed", zap.Error(err))
	}

	logger.Info("main: server stopped gracefully")
}

// referenceClock pins "today" to REFERENCE_DATE when set, so relative phrases resolve the same
// way on every run.
func referenceClock(cfg config.Config, logger *zap.Logger) normalizer.Clock {
	if at, ok := cfg.ReferenceTime(); ok {
		logger.Info("Using fixed reference date", zap.String("referenceDate", cfg.ReferenceDate))
		return normalizer.FixedClock{At: at}
	}
	return normalizer.SystemClock{}
}

func needsGemini(cfg config.Config) bool {
	return strings.EqualFold(cfg.Extractor, extraction.NameGemini) || strings.EqualFold(cfg.OCRProvider, ocr.ProviderGemini)
}

// newExtractor builds gemini (cached, with rule fallback) or rules, depending on configuration.
func newExtractor(cfg config.Config, client *genai.Client, departments *builder.Builder, redisUp bool, logger *zap.Logger) extraction.Extractor {
	rules := extraction.NewRuleExtractor(departments.Keywords())
	if !strings.EqualFold(cfg.Extractor, extraction.NameGemini) {
		return rules
	}
	if client == nil {
		if !cfg.ExtractionFallback {
			logger.Fatal("main: EXTRACTOR=gemini needs a working Gemini client")
		}
		logger.Warn("main: using rule-based extraction")
		return rules
	}

	var extractor extraction.Extractor = extraction.NewGeminiExtractor(ai.NewGeminiClient(client, cfg.GeminiModel), logger)
	if redisUp && cfg.ExtractionCacheTTL > 0 {
		extractor = extraction.NewCachedExtractor(extractor, utils.CacheClient, cfg.ExtractionCacheTTL, logger)
	}
	if cfg.ExtractionFallback {
		extractor = extraction.NewFallbackExtractor(extractor, rules, logger)
	}
	return extractor
}

func newRecognizer(ctx context.Context, cfg config.Config, client *genai.Client, logger *zap.Logger) ocr.Recognizer {
	if strings.EqualFold(cfg.OCRProvider, ocr.ProviderGemini) {
		if client == nil {
			logger.Warn("main: OCR_PROVIDER=gemini without a Gemini client; image requests disabled")
			return nil
		}
		return ocr.NewGeminiRecognizer(ai.NewGeminiClient(client, cfg.GeminiModel), logger)
	}

	r, err := ocr.NewVisionRecognizer(ctx, cfg.GoogleServiceAccountFile, logger)
	if err != nil {
		logger.Warn("main: Cloud Vision unavailable; image requests disabled", zap.Error(err))
		return nil
	}
	return r
}
