// Package api provides the HTTP status surface of a running wirekit
// node: connection inventory, active protocol and Prometheus metrics.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ConnectionInfo describes one live transport.
type ConnectionInfo struct {
	RemoteAddr string `json:"remoteAddr"`
	Alive      bool   `json:"alive"`
	Enabled    bool   `json:"enabled"`
}

// StatusSource is what the server reports on. The serving application
// implements it over its connection registry.
type StatusSource interface {
	Connections() []ConnectionInfo
	ActiveProtocol() string
}

// Config holds server configuration
type Config struct {
	Port         int
	EnableCORS   bool
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns default server configuration
func DefaultConfig() *Config {
	return &Config{
		Port:         8080,
		EnableCORS:   true,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Server is the HTTP API server for a wirekit node
type Server struct {
	source     StatusSource
	router     *gin.Engine
	httpServer *http.Server
	startTime  time.Time
}

// NewServer creates a new HTTP API server over a status source.
func NewServer(source StatusSource, config *Config) *Server {
	if config == nil {
		config = DefaultConfig()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger())
	if config.EnableCORS {
		router.Use(corsMiddleware())
	}

	s := &Server{
		source:    source,
		router:    router,
		startTime: time.Now(),
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/status", s.handleStatus)
		v1.GET("/connections", s.handleConnections)
	}
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", config.Port),
		Handler:      router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}

	return s
}

// Start serves until Shutdown or a listener error.
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
