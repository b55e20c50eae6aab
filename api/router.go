package api

import (
	"log/slog"
	"time"

	"github.com/SlpAus/top-movies-backend/internal/movie"
	"github.com/SlpAus/top-movies-backend/internal/platform/config"
	"github.com/SlpAus/top-movies-backend/internal/platform/health"
	"github.com/SlpAus/top-movies-backend/internal/user"
	"github.com/SlpAus/top-movies-backend/internal/web"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Dependencies 是路由层需要的全部处理器
type Dependencies struct {
	Movies *movie.Handler
	Health *health.Checker
}

// NewRouter 创建Gin引擎，注册中间件、模板和全部路由
func NewRouter(cfg config.ServerConfig, deps Dependencies) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	// 电影简介等路径段中可能含有转义后的斜杠
	r.UseRawPath = true
	r.UnescapePathValues = true

	if len(cfg.Cors.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.Cors.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)

	SetupRoutes(r, deps)
	return r, nil
}

// SetupRoutes 注册项目的所有路由
func SetupRoutes(router *gin.Engine, deps Dependencies) {
	if deps.Health != nil {
		router.GET("/healthz", deps.Health.Handle)
	}

	pages := router.Group("/", user.EnsureBrowserCookieMiddleware())
	{
		pages.GET("/", deps.Movies.ListMovies)

		pages.GET("/edit/:id", deps.Movies.ShowEdit)
		pages.POST("/edit/:id", deps.Movies.SubmitEdit)

		pages.GET("/delete/:id", deps.Movies.DeleteMovie)

		pages.GET("/add", deps.Movies.ShowAdd)
		pages.POST("/add", deps.Movies.SubmitAdd)

		pages.GET("/new_movie/:title/:year/:overview/:image", deps.Movies.NewMovie)
	}
}

// requestLogger 用 slog 记录每个请求
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"remote_addr", c.ClientIP())
	}
}
