package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/bpariverside/skillswap-service/internal/auth"
	"github.com/bpariverside/skillswap-service/internal/models"
	"github.com/bpariverside/skillswap-service/internal/realtime"
	"github.com/bpariverside/skillswap-service/internal/repositories"
	"github.com/bpariverside/skillswap-service/internal/services"
	"github.com/bpariverside/skillswap-service/internal/utils"
)

type HandlerManager struct {
	authHandler     *AuthHandler
	userHandler     *UserHandler
	profileHandler  *ProfileHandler
	sessionHandler  *SessionHandler
	messageHandler  *MessageHandler
	feedbackHandler *FeedbackHandler
	reportHandler   *ReportHandler
	chatHandler     *ChatHandler
	authMiddleware  *TokenAuthMiddleware
	avatarDir       string
}

// HandlerConfig carries the dependencies the handler layer needs beyond
// the services themselves.
type HandlerConfig struct {
	Tokens        *auth.TokenService
	UserRepo      repositories.UserRepository
	Hub           *realtime.Hub
	AvatarDir     string
	SecureCookies bool
	SlogLogger    *slog.Logger
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
	config HandlerConfig,
) *HandlerManager {
	return &HandlerManager{
		authHandler:     NewAuthHandler(serviceManager.Auth(), logger, config.SecureCookies),
		userHandler:     NewUserHandler(serviceManager.User(), logger),
		profileHandler:  NewProfileHandler(serviceManager.Profile(), logger),
		sessionHandler:  NewSessionHandler(serviceManager.Session(), serviceManager.Review(), logger),
		messageHandler:  NewMessageHandler(serviceManager.Message(), logger),
		feedbackHandler: NewFeedbackHandler(serviceManager.Feedback(), logger),
		reportHandler:   NewReportHandler(serviceManager.Report(), logger),
		chatHandler:     NewChatHandler(config.Tokens, config.UserRepo, config.Hub, config.SlogLogger),
		authMiddleware:  NewTokenAuthMiddleware(config.Tokens, config.UserRepo),
		avatarDir:       config.AvatarDir,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	authed := hm.authMiddleware.AuthMiddleware()
	adminOnly := hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin)

	v1 := router.Group("/api/v1")
	v1.Use(JSONContentMiddleware())
	{
		// Public auth routes
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", hm.authHandler.Register)
			authGroup.POST("/login", hm.authHandler.Login)
			authGroup.GET("/verify-email", hm.authHandler.VerifyEmail)
			authGroup.POST("/logout", hm.authHandler.Logout)
		}

		// Account routes
		user := v1.Group("/user", authed)
		{
			user.GET("", hm.userHandler.Get)
			user.PUT("", hm.userHandler.UpdateSettings)
			user.DELETE("", hm.userHandler.Delete)
			user.POST("/avatar", hm.userHandler.UploadAvatar)
		}

		// Public profile views
		profile := v1.Group("/profile")
		{
			profile.GET("", hm.profileHandler.Get)
			profile.GET("/search", hm.profileHandler.Search)
		}

		// Session routes; reads are public, writes require the caller
		session := v1.Group("/session")
		{
			session.GET("", hm.sessionHandler.Get)
			session.GET("/search", hm.sessionHandler.Search)
			session.POST("", authed, hm.sessionHandler.Create)
			session.PATCH("", authed, hm.sessionHandler.Update)
			session.DELETE("", authed, hm.sessionHandler.Delete)
			session.POST("/register", authed, hm.sessionHandler.Register)
			session.DELETE("/register", authed, hm.sessionHandler.Unregister)
			session.POST("/rate", authed, hm.sessionHandler.Rate)
			session.DELETE("/rate", authed, hm.sessionHandler.Unrate)
		}

		// Messaging
		v1.POST("/contact/host", authed, hm.messageHandler.ContactHost)
		message := v1.Group("/message", authed)
		{
			message.GET("", hm.messageHandler.List)
			message.DELETE("", hm.messageHandler.Delete)
		}

		// Public feedback form
		v1.POST("/feedback", hm.feedbackHandler.Submit)

		// Admin exports
		admin := v1.Group("/admin", authed, adminOnly)
		{
			admin.GET("/export/sessions", hm.reportHandler.ExportSessions)
		}

		// Live chat upgrade; authenticates off the same cookie inside
		v1.GET("/ws/chat", hm.chatHandler.Connect)
	}

	// Stored avatars are served as plain files.
	if hm.avatarDir != "" {
		router.Static(models.AvatarURLPrefix, hm.avatarDir)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "skillswap-service",
		})
	})
}
