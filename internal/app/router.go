package app

import (
	"skillify_backend/internal/config"
	"skillify_backend/internal/middleware"
	"skillify_backend/internal/model"
	"skillify_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	auth := middleware.AuthMiddleware(cfg)
	activity := middleware.ActivityMiddleware(repos.user)

	a.registerPublicRoutes(router, c, auth)

	authGroup := router.Group("/api")
	authGroup.Use(auth, activity)
	{
		a.registerUserRoutes(authGroup, c)
		a.registerVideoRoutes(authGroup, c)
		a.registerWorkspaceRoutes(authGroup, c)
	}

	a.registerAdminRoutes(router, c, auth, activity)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, auth gin.HandlerFunc) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.GET("/courses", c.video.Courses)
		public.GET("/video/likes/:videoId", c.video.CountLikes)
		public.GET("/video/comments/:videoId", c.video.Comments)

		// The websocket handshake carries the token in the query string.
		public.GET("/ws", auth, c.notification.HandleWS)
	}

	authRoutes := router.Group("/api/auth")
	{
		authRoutes.POST("/send-otp", c.auth.SendOTP)
		authRoutes.POST("/verify-otp", c.auth.VerifyOTP)
		authRoutes.POST("/register", c.auth.Register)
		authRoutes.POST("/login", c.auth.Login)
		authRoutes.POST("/logout", c.auth.Logout)
		authRoutes.GET("/user", auth, c.auth.CurrentUser)
		authRoutes.GET("/google", c.auth.GoogleLogin)
		authRoutes.GET("/google/callback", c.auth.GoogleCallback)
	}
}

func (a *App) registerUserRoutes(group *gin.RouterGroup, c *controllers) {
	user := group.Group("/user")
	{
		user.GET("/profile", c.user.GetProfile)
		user.PUT("/update-profile", c.user.UpdateProfile)
		user.PUT("/change-password", c.user.ChangePassword)
		user.DELETE("/delete-account", c.user.DeleteAccount)
		user.POST("/xp", c.user.SetXP)
		user.PUT("/xp", c.user.SetXP)
		user.POST("/focus", c.user.AddFocus)
		user.POST("/avatar", c.user.UploadAvatar)
		user.POST("/upload-avatar", c.user.UploadAvatar)
	}
	group.GET("/notifications/status", c.notification.Status)
}

func (a *App) registerVideoRoutes(group *gin.RouterGroup, c *controllers) {
	video := group.Group("/video")
	{
		video.POST("/progress", c.video.ReportProgress)
		video.GET("/progress", c.video.GetProgress)
		video.GET("/progress/:courseFile", c.video.GetCourseProgress)
		video.GET("/unlocked/:courseFile/:index", c.video.IsUnlocked)
		video.POST("/like", c.video.ToggleLike)
		video.GET("/liked/:videoId", c.video.IsLiked)
		video.POST("/comment", c.video.AddComment)
		video.DELETE("/comment/:id", c.video.DeleteComment)
		video.GET("/dashboard-stats", c.dashboard.GetStats)
	}
}

func (a *App) registerWorkspaceRoutes(group *gin.RouterGroup, c *controllers) {
	group.GET("/kanban", c.task.List)
	group.POST("/kanban", c.task.Create)
	group.PUT("/kanban/:id", c.task.Update)
	group.DELETE("/kanban/:id", c.task.Delete)

	group.GET("/community", c.community.ListPosts)
	group.POST("/community", c.community.CreatePost)

	group.GET("/calendar", c.calendar.Events)
	group.POST("/calendar", c.calendar.Save)
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, auth, activity gin.HandlerFunc) {
	admin := router.Group("/api/admin")
	admin.Use(auth, activity, middleware.RoleMiddleware(model.RoleAdmin))
	{
		admin.GET("/stats", c.admin.GetStats)
		admin.GET("/users", c.admin.ListUsers)
		admin.GET("/activity", c.admin.Activity)
		admin.GET("/analytics", c.admin.Analytics)
		admin.GET("/leaderboard", c.admin.Leaderboard)
		admin.GET("/users/:id/details", c.admin.UserDetails)
		admin.DELETE("/users/:id", c.admin.DeleteUser)
		admin.POST("/promote", c.admin.Promote)
		admin.POST("/demote", c.admin.Demote)
		admin.POST("/message", c.admin.SendMessage)
		admin.POST("/broadcast", c.admin.Broadcast)
	}
}
