package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/machinepulse/machinepulse/api/handlers"
	"github.com/machinepulse/machinepulse/api/middleware"
	"github.com/machinepulse/machinepulse/api/websocket"
	"github.com/machinepulse/machinepulse/internal/history"
	"github.com/machinepulse/machinepulse/pkg/config"
)

// Server exposes the read-only monitoring API: fleet overview, per-machine
// history and a websocket event feed.
type Server struct {
	router       *gin.Engine
	httpServer   *http.Server
	config       config.APIConfig
	store        *history.Store
	wsHub        *websocket.Hub
	wsBridge     *websocket.EventBridge
	fleetManager handlers.FleetManager
}

func NewServer(cfg *config.Config, store *history.Store, fleetManager handlers.FleetManager) *Server {
	if cfg.App.Mode == "development" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	wsHub := websocket.NewHub(&cfg.WebSocket)

	s := &Server{
		router:       router,
		config:       cfg.API,
		store:        store,
		wsHub:        wsHub,
		fleetManager: fleetManager,
	}

	s.setupMiddleware()
	s.setupRoutes()

	// Start WebSocket hub
	go wsHub.Run()

	// Start event bridge to forward orchestrator events to WebSocket clients
	if fleetManager != nil {
		eventsChan := fleetManager.SubscribeAllEvents()
		s.wsBridge = websocket.NewEventBridge(wsHub, eventsChan)
		s.wsBridge.Start()
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.SecurityHeaders())
	s.router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	s.router.Use(middleware.RequestLogger())
	s.router.Use(middleware.TraceID())

	rateLimiter := middleware.NewRateLimiter(s.config.RateLimit, time.Minute)
	s.router.Use(middleware.RateLimit(rateLimiter))

	// History payloads can be large; keep the endpoint on a tighter budget.
	endpointLimiter := middleware.NewEndpointRateLimiter()
	endpointLimiter.AddEndpoint("/machines/:id/history", 30, time.Minute)
	s.router.Use(endpointLimiter.Middleware())
}

func (s *Server) setupRoutes() {
	healthHandler := handlers.NewHealthHandler()
	machineHandler := handlers.NewMachineHandler(s.store, s.fleetManager)

	s.router.GET("/health", healthHandler.Health)
	s.router.GET("/health/ready", healthHandler.Ready)
	s.router.GET("/health/live", healthHandler.Live)

	// WebSocket route
	s.router.GET("/ws", websocket.ServeWebSocket(s.wsHub))

	s.router.GET("/machines", machineHandler.List)
	s.router.GET("/machines/:id/history", machineHandler.GetHistory)
	s.router.GET("/machines/:id/latest", machineHandler.GetLatest)
	s.router.GET("/machines/:id/status", machineHandler.GetStatus)
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	// Stop the event bridge first
	if s.wsBridge != nil {
		s.wsBridge.Stop()
	}

	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) WebSocketHub() *websocket.Hub {
	return s.wsHub
}
