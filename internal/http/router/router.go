package router

import (
	"github.com/gin-gonic/gin"

	"github.com/akazakov/workmarket-backend/internal/config"
	"github.com/akazakov/workmarket-backend/internal/http/handlers"
	"github.com/akazakov/workmarket-backend/internal/http/middleware"
	"github.com/akazakov/workmarket-backend/internal/service"
)

// SetupRouter собирает все маршруты API.
func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	jobHandler *handlers.JobHandler,
	messageHandler *handlers.MessageHandler,
	reviewHandler *handlers.ReviewHandler,
	paymentHandler *handlers.PaymentHandler,
	attachmentHandler *handlers.AttachmentHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
	}

	protectedAuth := api.Group("/auth")
	protectedAuth.Use(middleware.AuthMiddleware(tokenManager))
	{
		protectedAuth.GET("/sessions", authHandler.ListSessions)
		protectedAuth.DELETE("/sessions/:id", middleware.UUIDValidator("id"), authHandler.DeleteSession)
	}

	// Публичные маршруты
	api.GET("/jobs", jobHandler.ListJobs)
	api.GET("/jobs/:id", middleware.UUIDValidator("id"), jobHandler.GetJob)
	api.GET("/jobs/:id/review", middleware.UUIDValidator("id"), reviewHandler.GetJobReview)
	api.GET("/users/:id", middleware.UUIDValidator("id"), profileHandler.GetProfile)
	api.GET("/users/:id/reviews", middleware.UUIDValidator("id"), reviewHandler.ListFreelancerReviews)
	api.GET("/ws", wsHandler.Handle)

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/users/me", profileHandler.Me)
		protected.DELETE("/users/:id", middleware.UUIDValidator("id"), authHandler.DeleteAccount)

		protected.POST("/jobs", jobHandler.CreateJob)
		protected.GET("/jobs/my", jobHandler.ListMyJobs)
		protected.PUT("/jobs/:id", middleware.UUIDValidator("id"), jobHandler.UpdateJob)
		protected.DELETE("/jobs/:id", middleware.UUIDValidator("id"), jobHandler.DeleteJob)
		protected.POST("/jobs/:id/accept", middleware.UUIDValidator("id"), jobHandler.AcceptJob)
		protected.POST("/jobs/:id/complete", middleware.UUIDValidator("id"), jobHandler.CompleteJob)
		protected.POST("/jobs/:id/cancel", middleware.UUIDValidator("id"), jobHandler.CancelJob)

		protected.GET("/jobs/:id/messages", middleware.UUIDValidator("id"), messageHandler.ListMessages)
		protected.POST("/jobs/:id/messages", middleware.UUIDValidator("id"), messageHandler.PostMessage)
		protected.DELETE("/messages/:id", middleware.UUIDValidator("id"), messageHandler.DeleteMessage)

		protected.POST("/jobs/:id/review", middleware.UUIDValidator("id"), reviewHandler.CreateReview)
		protected.PUT("/reviews/:id", middleware.UUIDValidator("id"), reviewHandler.UpdateReview)
		protected.DELETE("/reviews/:id", middleware.UUIDValidator("id"), reviewHandler.DeleteReview)

		protected.POST("/jobs/:id/payment", middleware.UUIDValidator("id"), paymentHandler.ProcessPayment)
		protected.GET("/jobs/:id/payment", middleware.UUIDValidator("id"), paymentHandler.GetJobPayment)
		protected.GET("/balance", paymentHandler.GetBalance)
		protected.GET("/payments", paymentHandler.ListPayments)
		protected.POST("/withdrawals", paymentHandler.Withdraw)
		protected.GET("/withdrawals", paymentHandler.ListWithdrawals)

		protected.POST("/jobs/:id/attachments", middleware.UUIDValidator("id"), attachmentHandler.Upload)
		protected.GET("/jobs/:id/attachments", middleware.UUIDValidator("id"), attachmentHandler.List)
		protected.GET("/attachments/:id", middleware.UUIDValidator("id"), attachmentHandler.Download)
		protected.DELETE("/attachments/:id", middleware.UUIDValidator("id"), attachmentHandler.Delete)
	}

	return r
}
