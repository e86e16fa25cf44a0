package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/moyoez/http-file-store/api/controllers"
	"github.com/moyoez/http-file-store/api/middlewares"
	"github.com/moyoez/http-file-store/api/notifyhub"
	"github.com/moyoez/http-file-store/monitor"
	"github.com/moyoez/http-file-store/store"
	"github.com/moyoez/http-file-store/tool"
	"github.com/moyoez/http-file-store/types"
)

const shutdownTimeout = 5 * time.Second

// Server represents the HTTP file store server with its clear and SSL listeners.
type Server struct {
	cfg     types.AppConfig
	store   *store.Store
	hub     *notifyhub.Hub
	metrics *monitor.Metrics
	watcher controllers.RootWatcher

	engine  *gin.Engine
	mu      sync.Mutex
	servers []*http.Server
}

// Options carries the optional collaborators of a Server.
type Options struct {
	Hub     *notifyhub.Hub
	Metrics *monitor.Metrics
	Watcher controllers.RootWatcher
}

// NewServer creates a server for st using cfg.
func NewServer(cfg types.AppConfig, st *store.Store, opts Options) *Server {
	return &Server{
		cfg:     cfg,
		store:   st,
		hub:     opts.Hub,
		metrics: opts.Metrics,
		watcher: opts.Watcher,
	}
}

// Handler returns the routed engine, building it on first use.
func (s *Server) Handler() (http.Handler, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine == nil {
		engine, err := s.setupRoutes()
		if err != nil {
			return nil, err
		}
		s.engine = engine
	}
	return s.engine, nil
}

func (s *Server) setupRoutes() (*gin.Engine, error) {
	if tool.DefaultLogger.GetLevel() == log.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.RedirectTrailingSlash = false
	engine.HandleMethodNotAllowed = false
	engine.Use(gin.Recovery())
	if tool.DefaultLogger.GetLevel() == log.DebugLevel {
		engine.Use(gin.Logger())
	}

	corsMiddleware, err := middlewares.CORS(s.cfg.CORS)
	if err != nil {
		return nil, err
	}
	if corsMiddleware != nil {
		engine.Use(corsMiddleware)
	}
	if rl := s.cfg.RateLimit; rl != nil && rl.RequestsPerSecond > 0 {
		engine.Use(middlewares.RateLimit(*rl))
	}
	if s.metrics != nil {
		engine.Use(monitor.Middleware(s.metrics))
	}

	base := s.cfg.URLBase
	registry := s.store.Registry()
	fileCtrl := controllers.NewFileController(s.store, s.cfg, s.hub, s.metrics)

	if s.cfg.ConfigurableAlias {
		aliasCtrl := controllers.NewAliasController(registry, s.hub, s.metrics, s.watcher)
		admin := engine.Group(base + "aliases")
		if s.cfg.AdminLocalOnly {
			admin.Use(middlewares.OnlyAllowLocal)
		}
		{
			admin.GET("", aliasCtrl.HandleList)
			admin.GET("/", aliasCtrl.HandleList)
			admin.POST("/add", aliasCtrl.HandleAdd)
			admin.POST("/add/", aliasCtrl.HandleAdd)
			admin.POST("/remove", aliasCtrl.HandleRemove)
			admin.POST("/remove/", aliasCtrl.HandleRemove)
		}
	}

	meta := engine.Group(base + "_meta")
	{
		meta.GET("/status", controllers.Status(registry, s.cfg))
		meta.GET("/qrcode", controllers.GenerateQRCode(s.ServiceURL()))
		if s.metrics != nil {
			meta.GET("/metrics", gin.WrapH(s.metrics.Handler()))
		}
		if s.hub != nil {
			meta.GET("/events", notifyhub.HandleEventsWS(s.hub))
		}
	}

	// The file namespace has a catch-all shape that cannot share a tree
	// with the static routes above, so it is served from NoRoute.
	engine.NoRoute(fileCtrl.Dispatch)
	return engine, nil
}

// ServiceURL is the URL printed on startup and encoded by the QR endpoint.
func (s *Server) ServiceURL() string {
	if s.cfg.Clear != nil {
		return tool.BuildServiceURL("http", s.cfg.Clear.Host, s.cfg.Clear.Port, s.cfg.URLBase)
	}
	if s.cfg.SSL != nil {
		return tool.BuildServiceURL("https", s.cfg.SSL.Host, s.cfg.SSL.Port, s.cfg.URLBase)
	}
	return s.cfg.URLBase
}

// Start starts the configured listeners and blocks until ctx is done or a
// listener fails. Listeners are shut down gracefully on return.
func (s *Server) Start(ctx context.Context) error {
	handler, err := s.Handler()
	if err != nil {
		return err
	}

	errCh := make(chan error, 2)
	if c := s.cfg.Clear; c != nil {
		srv := &http.Server{Handler: handler}
		ln, err := net.Listen("tcp", net.JoinHostPort(c.Host, strconv.Itoa(c.Port)))
		if err != nil {
			return fmt.Errorf("failed to listen on clear address: %w", err)
		}
		tool.DefaultLogger.Infof("[Server] http-file-store CLEAR host %s", ln.Addr())
		s.track(srv)
		go func() { errCh <- serveErr(srv.Serve(ln)) }()
	}
	if ssl := s.cfg.SSL; ssl != nil {
		tlsCfg, err := tool.LoadTLSConfig(ssl)
		if err != nil {
			s.shutdown()
			return err
		}
		srv := &http.Server{Handler: handler, TLSConfig: tlsCfg}
		ln, err := net.Listen("tcp", net.JoinHostPort(ssl.Host, strconv.Itoa(ssl.Port)))
		if err != nil {
			s.shutdown()
			return fmt.Errorf("failed to listen on SSL address: %w", err)
		}
		tool.DefaultLogger.Infof("[Server] http-file-store SSL host %s", ln.Addr())
		s.track(srv)
		go func() { errCh <- serveErr(srv.ServeTLS(ln, "", "")) }()
	}

	select {
	case <-ctx.Done():
		s.shutdown()
		return nil
	case err := <-errCh:
		s.shutdown()
		return err
	}
}

func (s *Server) track(srv *http.Server) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.servers = append(s.servers, srv)
}

func (s *Server) shutdown() {
	s.mu.Lock()
	servers := s.servers
	s.servers = nil
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(ctx); err != nil {
			tool.DefaultLogger.Warnf("[Server] shutdown: %v", err)
		}
	}
}

func serveErr(err error) error {
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
