package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dormhop/backend/config"
	"dormhop/backend/internal/api/handler"
	"dormhop/backend/internal/api/middleware"
	"dormhop/backend/pkg/jwt"
)

// Setup builds the gin engine. checker and counter may be nil when Redis
// is not configured.
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	jwtMgr *jwt.Manager,
	checker middleware.TokenChecker,
	counter middleware.RateCounter,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// ── health ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	limited := middleware.RateLimit(counter, cfg.RateLimit.Requests, cfg.RateLimit.Window)
	authn := middleware.JWTAuth(jwtMgr, checker)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// public
		auth := v1.Group("/auth")
		{
			auth.POST("/google", limited, h.Auth.GoogleSignIn)
			if cfg.Feature.DevRegisterEnabled {
				auth.POST("/register", limited, h.Auth.Register)
			}
		}

		dorms := v1.Group("/dorms")
		{
			dorms.GET("", h.Dorm.List)
			dorms.GET("/:name/features", h.Dorm.Features)
		}

		if cfg.Feature.NotificationsEnabled {
			v1.GET("/ws/notifications", middleware.QueryToken(), authn, h.Notification.Connect)
		}

		// authenticated
		authorized := v1.Group("")
		authorized.Use(authn)
		{
			authorized.POST("/auth/logout", h.Auth.Logout)

			users := authorized.Group("/users/me")
			{
				users.GET("", h.User.GetMe)
				users.DELETE("", h.User.DeleteMe)
				users.PUT("/room", h.User.UpdateRoom)
				users.PATCH("/room/visibility", h.User.SetVisibility)
				users.GET("/saved", h.User.ListSaved)
			}

			rooms := authorized.Group("/rooms")
			{
				rooms.GET("", h.Room.Feed)
				rooms.GET("/:id", h.Room.Get)
				rooms.POST("/:id/save", limited, h.Room.Save)
				rooms.DELETE("/:id/save", h.Room.Unsave)
			}

			authorized.GET("/recommendations", h.Recommendation.Recommend)

			knocks := authorized.Group("/knocks")
			{
				knocks.POST("", limited, h.Knock.Send)
				knocks.GET("/sent", h.Knock.ListSent)
				knocks.GET("/received", h.Knock.ListReceived)
				knocks.GET("/export", h.Export.ExportKnocks)
				knocks.POST("/:id/accept", h.Knock.Accept)
				knocks.DELETE("/:id", h.Knock.Delete)
			}
		}
	}

	return r
}
