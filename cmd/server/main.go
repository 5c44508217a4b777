package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/akazakov/workmarket-backend/internal/config"
	"github.com/akazakov/workmarket-backend/internal/db"
	httpHandlers "github.com/akazakov/workmarket-backend/internal/http/handlers"
	httpRouter "github.com/akazakov/workmarket-backend/internal/http/router"
	"github.com/akazakov/workmarket-backend/internal/logger"
	"github.com/akazakov/workmarket-backend/internal/repository"
	"github.com/akazakov/workmarket-backend/internal/service"
	"github.com/akazakov/workmarket-backend/internal/storage"
	"github.com/akazakov/workmarket-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init("info")
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	// Вспомогательные сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	fileStorage, err := storage.NewFileStorage(cfg.FileStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: не удалось подготовить файловое хранилище: %v", err)
	}

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	jobRepo := repository.NewJobRepository(dbConn)
	messageRepo := repository.NewMessageRepository(dbConn)
	reviewRepo := repository.NewReviewRepository(dbConn)
	paymentRepo := repository.NewPaymentRepository(dbConn)
	attachmentRepo := repository.NewAttachmentRepository(dbConn)

	// Сервисы.
	authService := service.NewAuthService(userRepo, tokenManager)
	jobService := service.NewJobService(jobRepo, paymentRepo)
	messageService := service.NewMessageService(messageRepo, jobRepo)
	reviewService := service.NewReviewService(reviewRepo, jobRepo)
	paymentService := service.NewPaymentService(paymentRepo, jobRepo)
	attachmentService := service.NewAttachmentService(attachmentRepo, jobRepo, fileStorage)

	// Вебсокеты.
	hub := ws.NewHub()
	go hub.Run()
	jobService.SetHub(hub)
	messageService.SetHub(hub)

	// HTTP хэндлеры.
	authHandler := httpHandlers.NewAuthHandler(authService)
	profileHandler := httpHandlers.NewProfileHandler(userRepo)
	jobHandler := httpHandlers.NewJobHandler(jobService)
	messageHandler := httpHandlers.NewMessageHandler(messageService)
	reviewHandler := httpHandlers.NewReviewHandler(reviewService)
	paymentHandler := httpHandlers.NewPaymentHandler(paymentService)
	attachmentHandler := httpHandlers.NewAttachmentHandler(attachmentService, fileStorage)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, authHandler, profileHandler, jobHandler, messageHandler, reviewHandler, paymentHandler, attachmentHandler, wsHandler, healthHandler, tokenManager)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
