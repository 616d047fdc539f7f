package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"

	"algocom-api/config"
	"algocom-api/fetcher"
	"algocom-api/handler"
	"algocom-api/middleware"
	"algocom-api/model"
	"algocom-api/service"
)

const serviceName = "algocom-api"

// Setup wires services, handlers and middleware into the gin engine.
// enqueue is the worker's best-effort upsert queue for the feed's
// caching-on-read path.
func Setup(cfg *config.Config, db *mongo.Database, f *fetcher.Fetcher, enqueue func([]model.Article)) *gin.Engine {
	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	r.Use(cors.New(corsConfig))

	r.Use(middleware.PrometheusMiddleware(serviceName))

	articleSvc := service.NewArticleService(db, f, cfg.PageSize, enqueue)
	commentSvc := service.NewCommentService(db)
	userSvc := service.NewUserService(db, cfg.JWTSecret, cfg.TokenTTL)

	articles := handler.NewArticleHandler(articleSvc)
	comments := handler.NewCommentHandler(commentSvc)
	auth := handler.NewAuthHandler(userSvc)
	users := handler.NewUserHandler(userSvc)
	extract := handler.NewExtractHandler(fetcher.NewExtractor(cfg.FetchTimeout))

	requireAuth := middleware.RequireAuth(cfg.JWTSecret)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy", "service": serviceName})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		authRoutes := api.Group("/auth")
		authRoutes.Use(middleware.RateLimitMiddleware(time.Minute, 20))
		{
			authRoutes.POST("/register", auth.Register)
			authRoutes.POST("/login", auth.Login)
			authRoutes.GET("/me", requireAuth, auth.Me)
		}

		news := api.Group("/news")
		{
			news.GET("", articles.ListFeed)
			news.POST("", requireAuth, articles.Create)
			news.GET("/:id", articles.Get)
			news.DELETE("/:id", requireAuth, articles.Hide)
			news.POST("/:id/like", requireAuth, articles.Like)
			news.DELETE("/:id/like", requireAuth, articles.Unlike)
			news.GET("/:id/comments", comments.List)
			news.POST("/:id/comments", requireAuth, comments.Create)
			news.GET("/:id/comments/count", comments.Count)
		}

		user := api.Group("/user")
		user.Use(requireAuth)
		{
			user.GET("/activity", users.Activity)
			user.PUT("/profile", users.UpdateProfile)
		}

		api.GET("/extract", extract.Extract)
	}

	return r
}
