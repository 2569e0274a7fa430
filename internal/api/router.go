package api

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// ReadinessCheck returns an error when a dependency is not ready.
type ReadinessCheck func(ctx context.Context) error

type Router struct {
	Engine *gin.Engine
}

type RouterConfig struct {
	// StaticDir 前端静态文件目录，为空时不提供
	StaticDir string
	Checks    map[string]ReadinessCheck
}

func NewRouter(
	projectHandler *ProjectHandler,
	progressHandler *ProgressHandler,
	dashboardHandler *DashboardHandler,
	cfg RouterConfig,
	logger *zap.Logger,
) *Router {
	r := gin.New()
	r.Use(Recovery(logger))
	r.Use(TraceMiddleware())
	r.Use(RequestLogger(logger))

	// Health endpoints (放在最前面)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(200)
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/health", func(c *gin.Context) {
		c.Status(200)
	})

	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		defer cancel()

		for name, check := range cfg.Checks {
			if err := check(ctx); err != nil {
				logger.Warn("readiness check failed", zap.String("check", name), zap.Error(err))
				c.JSON(500, gin.H{"status": name + "_not_ready"})
				return
			}
		}
		c.JSON(200, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := r.Group("/api")
	{
		projects := apiGroup.Group("/projects")
		projects.GET("", projectHandler.ListProjects)
		projects.GET("/stats/summary", projectHandler.Summary)
		projects.GET("/id/:id", projectHandler.GetProjectByID)
		projects.GET("/:projectCode", projectHandler.GetProject)
		projects.POST("", projectHandler.CreateProject)
		projects.PUT("/:projectCode", projectHandler.UpdateProject)
		projects.DELETE("/:id", projectHandler.DeleteProject)
		projects.PATCH("/batch/status", projectHandler.BatchUpdateStatus)

		progress := apiGroup.Group("/progress")
		progress.GET("", progressHandler.ListProgress)
		progress.GET("/stats/summary", progressHandler.Summary)
		progress.GET("/need-help", progressHandler.NeedHelp)
		progress.GET("/project/:projectCode", progressHandler.ListByProject)
		progress.GET("/reporter/:reporter", progressHandler.ListByReporter)
		progress.GET("/:id", progressHandler.GetProgress)
		progress.POST("", progressHandler.CreateProgress)
		progress.PUT("/:id", progressHandler.UpdateProgress)
		progress.DELETE("/:id", progressHandler.DeleteProgress)
		progress.PATCH("/batch/help-status", progressHandler.BatchUpdateNeedHelp)

		apiGroup.GET("/dashboard/stats", dashboardHandler.Stats)
	}

	r.NoRoute(noRoute(cfg.StaticDir))

	return &Router{Engine: r}
}

// noRoute answers unknown /api paths with the JSON envelope and everything
// else with the static frontend, falling back to index.html for client routes.
func noRoute(staticDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if path == "/api" || strings.HasPrefix(path, "/api/") || staticDir == "" {
			fail(c, http.StatusNotFound, MsgEndpointNotFound, nil)
			return
		}
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			fail(c, http.StatusNotFound, MsgEndpointNotFound, nil)
			return
		}

		file := filepath.Join(staticDir, filepath.FromSlash(filepath.Clean("/"+path)))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			fail(c, http.StatusInternalServerError, MsgServerError, nil)
			return
		}
		c.File(filepath.Join(staticDir, "index.html"))
	}
}

func (r *Router) Run(port string) error {
	return r.Engine.Run(port)
}
