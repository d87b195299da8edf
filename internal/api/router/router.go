package router

import (
	"tourtube/internal/api/handler"
	"tourtube/internal/api/middleware"
	"tourtube/internal/api/response"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handlers 全部业务 Handler
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Video        *handler.VideoHandler
	Comment      *handler.CommentHandler
	Like         *handler.LikeHandler
	Playlist     *handler.PlaylistHandler
	Subscription *handler.SubscriptionHandler
	Tweet        *handler.TweetHandler
	Dashboard    *handler.DashboardHandler
}

// Options 路由的可选部分
type Options struct {
	// AuthLimiter 注册、登录、刷新 token 接口的限流器，nil 表示不限流
	AuthLimiter *middleware.IPRateLimiter
	// MediaDir 本地存储目录，非空时以 /media 提供静态访问
	MediaDir string
	// AllowOrigins 允许跨域的来源
	AllowOrigins []string
}

// New 创建带全局中间件的 Gin 路由器并注册全部路由
func New(h *Handlers, auth middleware.Authenticator, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	if len(opts.AllowOrigins) > 0 {
		r.Use(middleware.CORS(opts.AllowOrigins))
	}

	r.GET("/healthz", handler.Healthcheck)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if opts.MediaDir != "" {
		r.Static("/media", opts.MediaDir)
	}
	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "Route not found")
	})

	Setup(r, h, auth, opts.AuthLimiter)
	return r
}

// Setup 注册所有业务路由
func Setup(r *gin.Engine, h *Handlers, auth middleware.Authenticator, limiter *middleware.IPRateLimiter) {
	requireAuth := middleware.AuthRequired(auth)
	optionalAuth := middleware.OptionalAuth(auth)

	rateLimited := func(c *gin.Context) { c.Next() }
	if limiter != nil {
		rateLimited = limiter.Middleware()
	}

	v1 := r.Group("/api/v1")
	v1.GET("/healthcheck", handler.Healthcheck)

	// --- 用户模块 ---
	users := v1.Group("/users")
	{
		users.POST("/register", rateLimited, h.Auth.Register)
		users.POST("/login", rateLimited, h.Auth.Login)
		users.POST("/refresh-token", rateLimited, h.Auth.RefreshToken)
		users.GET("/c/:username", optionalAuth, h.User.ChannelProfile)

		usersAuth := users.Group("", requireAuth)
		{
			usersAuth.POST("/logout", h.Auth.Logout)
			usersAuth.POST("/change-password", h.Auth.ChangePassword)
			usersAuth.GET("/profile", h.User.Profile)
			usersAuth.GET("/history", h.User.WatchHistory)
			usersAuth.PATCH("/update-account", h.User.UpdateAccount)
			usersAuth.PATCH("/update-avatar", h.User.UpdateAvatar)
			usersAuth.PATCH("/update-coverimage", h.User.UpdateCoverImage)
		}
	}

	// --- 视频模块 ---
	videos := v1.Group("/videos")
	{
		videos.GET("", optionalAuth, h.Video.List)
		videos.GET("/:id", optionalAuth, h.Video.Get)

		videosAuth := videos.Group("", requireAuth)
		{
			videosAuth.POST("/publish", h.Video.Publish)
			videosAuth.PATCH("/update/:id", h.Video.Update)
			videosAuth.DELETE("/:id", h.Video.Delete)
			videosAuth.PATCH("/toggle/publish/:id", h.Video.TogglePublish)
		}
	}

	// --- 评论模块 ---
	comments := v1.Group("/comments")
	{
		comments.GET("/video/:videoId", optionalAuth, h.Comment.ListByVideo)

		commentsAuth := comments.Group("", requireAuth)
		{
			commentsAuth.POST("/video/:videoId", h.Comment.Create)
			commentsAuth.PATCH("/:id", h.Comment.Update)
			commentsAuth.DELETE("/:id", h.Comment.Delete)
		}
	}

	// --- 点赞模块 ---
	likes := v1.Group("/likes", requireAuth)
	{
		likes.POST("/videos/:id", h.Like.ToggleVideo)
		likes.POST("/comments/:id", h.Like.ToggleComment)
		likes.POST("/tweets/:id", h.Like.ToggleTweet)
		likes.GET("/likedVideos", h.Like.LikedVideos)
	}

	// --- 播放列表模块 ---
	playlists := v1.Group("/playlists")
	{
		playlists.GET("/user/:userId", optionalAuth, h.Playlist.ListByUser)
		playlists.GET("/:id", optionalAuth, h.Playlist.Get)

		playlistsAuth := playlists.Group("", requireAuth)
		{
			playlistsAuth.POST("", h.Playlist.Create)
			playlistsAuth.PATCH("/:id", h.Playlist.Update)
			playlistsAuth.DELETE("/:id", h.Playlist.Delete)
			playlistsAuth.POST("/:id/v/:videoId", h.Playlist.AddVideo)
			playlistsAuth.DELETE("/:id/v/:videoId", h.Playlist.RemoveVideo)
		}
	}

	// --- 订阅模块 ---
	subscriptions := v1.Group("/subscriptions")
	{
		subscriptions.GET("/channel/:channelId/subscribers", optionalAuth, h.Subscription.ListSubscribers)

		subscriptionsAuth := subscriptions.Group("", requireAuth)
		{
			subscriptionsAuth.POST("/c/:channelId", h.Subscription.Toggle)
			subscriptionsAuth.GET("/user/subscribed", h.Subscription.ListSubscribedChannels)
		}
	}

	// --- 动态模块 ---
	tweets := v1.Group("/tweets")
	{
		tweets.GET("", optionalAuth, h.Tweet.List)
		tweets.GET("/user/:userId", optionalAuth, h.Tweet.ListByUser)

		tweetsAuth := tweets.Group("", requireAuth)
		{
			tweetsAuth.POST("/create", h.Tweet.Create)
			tweetsAuth.PATCH("/:id", h.Tweet.Update)
			tweetsAuth.DELETE("/:id", h.Tweet.Delete)
		}
	}

	// --- 控制台 ---
	dashboard := v1.Group("/dashboard", requireAuth)
	{
		dashboard.GET("/stats", h.Dashboard.Stats)
		dashboard.GET("/videos", h.Dashboard.Videos)
	}
}
