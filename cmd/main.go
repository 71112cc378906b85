package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/celestiq/interviewer/config"
	"github.com/celestiq/interviewer/database"
	candidatectrl "github.com/celestiq/interviewer/internal/controller/candidate"
	hrctrl "github.com/celestiq/interviewer/internal/controller/hr"
	"github.com/celestiq/interviewer/internal/logger"
	"github.com/celestiq/interviewer/internal/model"
	"github.com/celestiq/interviewer/internal/service"
	"github.com/celestiq/interviewer/internal/store"
)

// @title CelestiQ Interview API
// @version 1.0
// @description AI-assisted interview platform: resume parsing, adaptive question generation, answer scoring and HR reporting.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		// Core Application Components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // Provides *gorm.DB
			NewGinEngine,         // Provides *gin.Engine
		),

		// Persistence Layer
		fx.Provide(
			store.NewDocumentStore,
		),

		// Services Layer
		fx.Provide(
			service.NewResumeService,
			service.NewProfileRegistry,
			service.NewQuestionService,
			service.NewScoringService,
			service.NewVoiceService,
			service.NewPersistenceWriter,
			service.NewInterviewService,
			service.NewHRService,
		),

		// API Controllers Layer
		fx.Provide(
			candidatectrl.NewCandidateController,
			hrctrl.NewHRController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	// Request logging through the global zerolog instance.
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Be more specific in production
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI at /swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	candidateCtrl *candidatectrl.CandidateController,
	hrCtrl *hrctrl.HRController,
	voice service.VoiceService,
) {
	api := router.Group("/api/v1")
	{
		api.POST("/candidates/resume", candidateCtrl.UploadResume)
		api.POST("/speech", candidateCtrl.Speak)

		api.POST("/interviews", candidateCtrl.StartInterview)
		api.GET("/interviews/:session_id", candidateCtrl.GetSummary)
		api.GET("/interviews/:session_id/question", candidateCtrl.NextQuestion)
		api.GET("/interviews/:session_id/question/audio", candidateCtrl.QuestionAudio)
		api.POST("/interviews/:session_id/answer", candidateCtrl.SubmitAnswer)
		api.POST("/interviews/:session_id/answer/audio", candidateCtrl.SubmitAudioAnswer)
	}

	hrGroup := router.Group("/api/v1/hr")
	{
		hrGroup.GET("/interviews", hrCtrl.ListInterviews)
		hrGroup.GET("/interviews/export", hrCtrl.ExportInterviews)
		hrGroup.GET("/analytics", hrCtrl.CategoryAnalytics)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Interview API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := voice.Close(); err != nil {
				log.Warn().Err(err).Msg("Failed to close speech clients")
			}
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	if err := db.AutoMigrate(&model.Document{}); err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
