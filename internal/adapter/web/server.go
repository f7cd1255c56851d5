// Package web serves the HTML front end: module pages, the search overlay
// endpoints and the operational routes.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"zerde-web/internal/adapter/render"
	"zerde-web/internal/metrics"
	"zerde-web/internal/port"
	"zerde-web/internal/service"
	"zerde-web/internal/service/search"
)

const serviceName = "zerde-web"

// Config 服务器参数
type Config struct {
	Addr       string
	RenderWait time.Duration // 首屏等待数据的上限
	SessionTTL time.Duration
	// ProxyTarget 非空时 /api/v1/* 反向代理到该地址
	ProxyTarget     string
	ShutdownTimeout time.Duration
}

// Deps 服务器依赖
type Deps struct {
	Content  *service.ContentService
	Renderer *render.Renderer
	Searches *search.Registry
	Handoff  port.HandoffStore
	Logger   logrus.FieldLogger
	Metrics  *metrics.Metrics
}

type Server struct {
	cfg      Config
	engine   *gin.Engine
	content  *service.ContentService
	renderer *render.Renderer
	searches *search.Registry
	handoff  port.HandoffStore
	log      logrus.FieldLogger
	metrics  *metrics.Metrics
}

func NewServer(cfg Config, deps Deps) (*Server, error) {
	if deps.Content == nil || deps.Renderer == nil || deps.Searches == nil || deps.Handoff == nil {
		return nil, errors.New("web: content, renderer, searches and handoff are required")
	}
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}

	s := &Server{
		cfg:      cfg,
		content:  deps.Content,
		renderer: deps.Renderer,
		searches: deps.Searches,
		handoff:  deps.Handoff,
		log:      deps.Logger,
		metrics:  deps.Metrics,
	}
	engine, err := s.routes()
	if err != nil {
		return nil, err
	}
	s.engine = engine
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() (*gin.Engine, error) {
	r := gin.New()
	r.Use(requestID())
	r.Use(accessLog(s.log))
	r.Use(recovery(s.log))
	r.Use(s.metrics.Middleware())

	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	r.StaticFS("/static", http.FS(render.Static()))

	if s.cfg.ProxyTarget != "" {
		proxy, err := newAPIProxy(s.cfg.ProxyTarget, s.log)
		if err != nil {
			return nil, err
		}
		r.Any("/api/v1/*path", gin.WrapH(proxy))
	}

	pages := r.Group("/", session(s.cfg.SessionTTL))
	pages.GET("/", s.home)
	pages.GET("/:module", s.modulePage)

	pages.GET("/search", s.searchQuery)
	pages.POST("/search/open", s.searchTransition(func(c *search.Controller) { c.Open() }))
	pages.POST("/search/close", s.searchTransition(func(c *search.Controller) { c.Close() }))
	pages.POST("/search/cancel", s.searchTransition(func(c *search.Controller) { c.Cancel() }))
	pages.POST("/search/outside", s.searchTransition(func(c *search.Controller) { c.ClickOutside() }))
	pages.POST("/search/select", s.searchSelect)

	r.NoRoute(session(s.cfg.SessionTTL), s.notFound)
	return r, nil
}

// Run 监听直到 ctx 结束，然后优雅关闭
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", s.cfg.Addr).Info("🚀 HTTP 服务已启动")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("🛑 正在关闭 HTTP 服务...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	s.log.Info("✅ HTTP 服务已停止")
	return nil
}

func (s *Server) logFor(c *gin.Context) logrus.FieldLogger {
	return s.log.WithField("request_id", c.GetString(ctxRequestID))
}
