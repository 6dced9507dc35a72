package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Varp17/atlas-alert/broadcast"
	"github.com/Varp17/atlas-alert/config"
	"github.com/Varp17/atlas-alert/cronjobs"
	"github.com/Varp17/atlas-alert/handlers"
	"github.com/Varp17/atlas-alert/hub"
	"github.com/Varp17/atlas-alert/mlservice"
	"github.com/Varp17/atlas-alert/routes"
	"github.com/Varp17/atlas-alert/sentiment"
	"github.com/Varp17/atlas-alert/store"
)

func newLogger(cfg config.LoggerConfig) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.Mode == "production" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	if cfg.Encoding != "" {
		zc.Encoding = cfg.Encoding
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	return zc.Build()
}

func main() {
	// Load .env file if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	gin.SetMode(cfg.Server.Mode)

	// AI analysis is optional; without a key the analyzers fall back to rules.
	var aiClient *openai.Client
	if cfg.OpenAI.APIKey != "" {
		aiClient = openai.NewClient(cfg.OpenAI.APIKey)
		sugar.Infof("OpenAI client configured (model %s)", cfg.OpenAI.Model)
	} else {
		sugar.Warn("OPENAI_API_KEY not set, running rule-based analysis only")
	}

	st := store.New()

	eventHub := hub.New(sugar)
	go eventHub.Run()

	var analyzer *sentiment.Analyzer
	var ml *mlservice.Service
	if aiClient != nil {
		analyzer = sentiment.NewAnalyzer(aiClient, sugar, sentiment.WithModel(cfg.OpenAI.Model))
		ml = mlservice.NewService(aiClient, cfg.OpenAI.Model, sugar)
	} else {
		analyzer = sentiment.NewAnalyzer(nil, sugar)
		ml = mlservice.NewService(nil, cfg.OpenAI.Model, sugar)
	}

	sms := broadcast.NewService(sugar, broadcast.WithSendRate(cfg.SMS.SendRate))

	if cfg.Monitor.Enabled {
		monitor := cronjobs.NewMonitor(cfg.Monitor, analyzer, st, eventHub, sugar)
		if err := monitor.Start(); err != nil {
			sugar.Fatalf("Failed to start social media monitor: %v", err)
		}
		defer monitor.Stop()
	}

	h := handlers.New(st, analyzer, ml, sms, eventHub, sugar)
	r := routes.SetupRouter(h)

	sugar.Infof("Atlas-Alert listening on %s", cfg.Server.Addr())
	if err := r.Run(cfg.Server.Addr()); err != nil {
		sugar.Fatalf("Failed to start server: %v", err)
	}
}
