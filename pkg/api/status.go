package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// StatusResponse summarizes the running node
type StatusResponse struct {
	Success        bool      `json:"success"`
	UptimeSeconds  float64   `json:"uptimeSeconds"`
	Connections    int       `json:"connections"`
	ActiveProtocol string    `json:"activeProtocol"`
	CheckedAt      time.Time `json:"checkedAt"`
}

// ConnectionsResponse lists the live transports
type ConnectionsResponse struct {
	Success     bool             `json:"success"`
	Connections []ConnectionInfo `json:"connections"`
}

// handleStatus handles GET /api/v1/status
func (s *Server) handleStatus(c *gin.Context) {
	conns := s.source.Connections()

	c.JSON(http.StatusOK, StatusResponse{
		Success:        true,
		UptimeSeconds:  time.Since(s.startTime).Seconds(),
		Connections:    len(conns),
		ActiveProtocol: s.source.ActiveProtocol(),
		CheckedAt:      time.Now(),
	})
}

// handleConnections handles GET /api/v1/connections
func (s *Server) handleConnections(c *gin.Context) {
	conns := s.source.Connections()
	if conns == nil {
		conns = []ConnectionInfo{}
	}

	c.JSON(http.StatusOK, ConnectionsResponse{
		Success:     true,
		Connections: conns,
	})
}
