package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"github.com/BhargaviBandaru98/VNR-Wall/internal/config"
	"github.com/BhargaviBandaru98/VNR-Wall/internal/llm"
	"github.com/BhargaviBandaru98/VNR-Wall/internal/notifier"
	"github.com/BhargaviBandaru98/VNR-Wall/internal/pipeline"
	"github.com/BhargaviBandaru98/VNR-Wall/internal/repository"
	"github.com/BhargaviBandaru98/VNR-Wall/internal/scraper"
	"github.com/BhargaviBandaru98/VNR-Wall/internal/search"
	"github.com/BhargaviBandaru98/VNR-Wall/internal/server"
	"github.com/BhargaviBandaru98/VNR-Wall/internal/webrisk"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	httpLog := logrus.New()

	cfgPath := "configs/config.yml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	db, err := repository.NewPostgresDB(cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	repository.MigrateDB(db, logger)

	submissionRepo := repository.NewSubmissionRepository(db, logger)

	// Context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Signal providers
	urlChecker := webrisk.NewClient(cfg.WebRisk.APIKey, logger)
	siteSearcher := search.NewClient(cfg.Serper.APIKey, logger)
	pageScraper := scraper.NewClient(cfg.Firecrawl.APIKey, logger)
	analyst, err := llm.NewFailover(ctx, cfg.LLM.Providers, logger)
	if err != nil {
		logger.Fatal("Failed to initialize LLM providers", zap.Error(err))
	}
	defer analyst.Close()

	// Notifications
	mailer := notifier.NewSMTPMailer(cfg.Email.Host, cfg.Email.Port, cfg.Email.Username, cfg.Email.Password, cfg.Email.From, logger)
	var mailerIface notifier.Mailer
	if mailer != nil {
		mailer.Verify()
		mailerIface = mailer
	}
	telegram := notifier.NewTelegramAlerter(cfg.Telegram.Enabled, cfg.Telegram.BotToken, cfg.Telegram.AdminChatID, logger)
	dispatcher := notifier.NewDispatcher(mailerIface, telegram, cfg.Email.AdminEmails, cfg.Server.FrontendURL, logger)

	// Verification pipeline
	verifier := pipeline.NewVerifier(submissionRepo, urlChecker, analyst, siteSearcher, pageScraper, dispatcher, logger)
	queue := pipeline.NewQueue(verifier, cfg.Pipeline.Workers, cfg.Pipeline.QueueSize, logger)
	go queue.Run(ctx)

	srv := server.NewServer(db, server.Deps{
		SubmissionRepo:   submissionRepo,
		Queue:            queue,
		Notifier:         dispatcher,
		RenotifyOnChange: cfg.Notifications.RenotifyOnChange,
		Logger:           logger,
	}, httpLog)
	srv.Run(cfg.Server.Port)

	<-ctx.Done()
	logger.Info("Application stopped.")
}
