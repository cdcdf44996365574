// Package server 网站的 JSON API：联系表单、博客和背景预设
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gonewx/martianblue/pkg/config"
	"github.com/gonewx/martianblue/pkg/store"
)

// Server API 服务
type Server struct {
	repo   *store.Repository
	logger *zap.Logger
	cors   config.CORSConfig

	engine *gin.Engine
	http   *http.Server
}

func init() {
	gin.SetMode(gin.ReleaseMode)
}

// Option 配置 Server
type Option func(*Server)

// WithLogger 设置日志
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCORS 设置跨域策略
func WithCORS(cors config.CORSConfig) Option {
	return func(s *Server) {
		s.cors = cors
	}
}

// New 创建服务并注册路由
func New(repo *store.Repository, opts ...Option) *Server {
	s := &Server{
		repo:   repo,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	// 日志在最外层，才能记录恢复后的 500
	s.engine = gin.New()
	s.engine.Use(s.requestLogger(), s.recovery(), s.corsMiddleware())
	s.routes(s.engine)
	return s
}

func (s *Server) routes(r *gin.Engine) {
	r.NoRoute(func(c *gin.Context) {
		writeError(c, http.StatusNotFound, "Not found", nil)
	})

	api := r.Group("/api")
	api.GET("/health", s.handleHealth)

	contact := api.Group("/contact")
	contact.POST("", s.handleCreateContact)
	contact.GET("", s.handleListContacts)
	contact.GET("/:id", s.handleGetContact)
	contact.PATCH("/:id/status", s.handleUpdateContactStatus)
	contact.DELETE("/:id", s.handleDeleteContact)

	blog := api.Group("/blog")
	blog.GET("", s.handleListBlogs)
	blog.GET("/:id", s.handleGetBlog)
	blog.POST("", s.handleCreateBlog)
	blog.PUT("/:id", s.handleUpdateBlog)
	blog.DELETE("/:id", s.handleDeleteBlog)

	api.GET("/backdrops", s.handleListBackdrops)
	api.GET("/backdrops/:name", s.handleGetBackdrop)
}

// Handler 返回带中间件的根处理器
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe 在 addr 上监听，直到 ctx 取消后在 shutdownTimeout 内优雅关闭
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln, shutdownTimeout)
}

// Serve 在已有监听器上提供服务
func (s *Server) Serve(ctx context.Context, ln net.Listener, shutdownTimeout time.Duration) error {
	s.http = &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api listening", zap.String("addr", ln.Addr().String()))
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("api shutting down", zap.Duration("timeout", shutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
