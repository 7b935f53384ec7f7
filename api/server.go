package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/moyoez/uploadkit/api/controllers"
	"github.com/moyoez/uploadkit/api/middlewares"
	"github.com/moyoez/uploadkit/api/notifyhub"
	"github.com/moyoez/uploadkit/tool"
	"github.com/moyoez/uploadkit/types"
)

// Options wires the route boundary. Upstream is required, the rest optional.
type Options struct {
	Upstream  controllers.Upstream
	CanUpload controllers.CanUploadFunc
	// Mint, when set, is mounted on the put-objects path of this server.
	Mint gin.HandlerFunc
}

// Server serves the presign route and its companions.
type Server struct {
	cfg    types.ServerConfig
	opts   Options
	hub    *notifyhub.Hub
	engine *gin.Engine
	server *http.Server
	mu     sync.RWMutex
}

func NewServer(cfg types.ServerConfig, opts Options) (*Server, error) {
	if opts.Upstream == nil {
		return nil, fmt.Errorf("invalid parameters: an upstream is required")
	}
	s := &Server{cfg: cfg, opts: opts}
	if cfg.NotifyWS {
		s.hub = notifyhub.New()
	}
	s.engine = s.setupRoutes()
	return s, nil
}

// Hub returns the notification hub, nil when disabled.
func (s *Server) Hub() *notifyhub.Hub {
	return s.hub
}

// Handler exposes the routes, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) setupRoutes() *gin.Engine {
	if tool.DefaultLogger.GetLevel() == log.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middlewares.AllowAllCORS())

	var notifier controllers.Notifier
	if s.hub != nil {
		notifier = s.hub
	}
	presignCtrl := controllers.NewPresignController(s.opts.Upstream, s.opts.CanUpload, notifier)

	group := engine.Group(tool.PresignRoutePrefix)
	{
		group.POST("/*action", middlewares.RateLimit(s.cfg.RateLimit, s.cfg.RateBurst), presignCtrl.HandleAction)
		if s.hub != nil {
			group.GET("/notify-ws", middlewares.OnlyAllowLocal, notifyhub.HandleNotifyWS(s.hub))
		}
	}
	if s.opts.Mint != nil {
		engine.POST(tool.UpstreamPutObjects, s.opts.Mint)
	}
	return engine
}

// Start listens on the configured port until Shutdown is called.
func (s *Server) Start() error {
	s.mu.Lock()
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.Port),
		Handler: s.engine,
	}
	srv := s.server
	s.mu.Unlock()

	tool.DefaultLogger.Infof("Starting API server on http://0.0.0.0:%d%s", s.cfg.Port, tool.PresignRoutePrefix)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	srv := s.server
	s.mu.RUnlock()
	if srv == nil {
		return nil
	}
	tool.DefaultLogger.Infof("Shutting down API server")
	return srv.Shutdown(ctx)
}
