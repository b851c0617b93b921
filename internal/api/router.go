package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ByLCY/vitae/engine"
	"github.com/ByLCY/vitae/internal/api/middleware"
	"github.com/ByLCY/vitae/internal/config"
	"github.com/ByLCY/vitae/internal/metrics"
	"github.com/ByLCY/vitae/internal/store"
	"github.com/ByLCY/vitae/renderer"
)

// Options 是路由层的可调参数。
type Options struct {
	RenderTimeout       time.Duration
	CacheTTL            time.Duration
	ExportRateLimit     int
	MaxRetry            int
	LinkTTL             time.Duration
	EnforceTemplateTier bool
	AllowedOrigins      []string
}

// OptionsFromConfig 从服务配置提取路由参数。
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		RenderTimeout:       cfg.API.RenderTimeout,
		CacheTTL:            cfg.Render.CacheTTL,
		ExportRateLimit:     cfg.API.ExportRateLimit,
		MaxRetry:            cfg.Export.MaxRetry,
		LinkTTL:             cfg.Export.LinkTTL,
		EnforceTemplateTier: cfg.Render.EnforceTemplateTier,
	}
}

// Deps 汇总路由依赖。Store 为空时不注册快照与导出接口，
// Queue 为空时不注册导出接口，Redis 为空时不注册 WebSocket。
type Deps struct {
	Engine   *engine.Engine
	Renderer renderer.Renderer
	Store    *store.Store
	Queue    Enqueuer
	Objects  Presigner
	Redis    Subscriber
	Logger   *zap.Logger
	Options  Options
}

// NewRouter 构建 Gin 路由引擎。
func NewRouter(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.CorrelationID(),
		middleware.Logger(d.Logger),
		metrics.GinMiddleware(),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	catalog := NewCatalogHandler(d.Options.EnforceTemplateTier)
	render := NewRenderHandler(d.Engine, d.Renderer, d.Options.CacheTTL, d.Options.RenderTimeout)

	v1 := router.Group("/v1")
	{
		v1.GET("/templates", catalog.Templates)
		v1.GET("/fonts", catalog.Fonts)

		renderGroup := v1.Group("/render")
		{
			renderGroup.POST("/screen", render.Screen)
			renderGroup.POST("/document", render.Document)
		}

		if d.Store == nil {
			return router
		}

		resumes := NewResumeHandler(d.Store)
		v1.PUT("/resumes/:id", resumes.Put)
		v1.GET("/resumes/:id", resumes.Get)

		if d.Queue == nil {
			return router
		}

		exports := NewExportHandler(d.Store, d.Queue, d.Objects, d.Engine, d.Options.MaxRetry, d.Options.LinkTTL)
		v1.POST("/resumes/:id/exports", middleware.RateLimit(d.Options.ExportRateLimit, time.Minute), exports.Create)
		v1.GET("/exports/:exportId", exports.Get)

		if d.Redis != nil {
			ws := NewWsHandler(d.Store, d.Redis, d.Options.AllowedOrigins)
			v1.GET("/exports/:exportId/ws", ws.HandleConnection)
		}
	}

	return router
}
