package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/meetscribe/meetscribe/internal/config"
	"github.com/meetscribe/meetscribe/internal/logger"
	"github.com/meetscribe/meetscribe/internal/session"
)

// Server is the browser-facing HTTP surface of the pipeline.
type Server struct {
	cfg      *config.Config
	ctrl     *session.Controller
	logger   logger.Logger
	upgrader websocket.Upgrader
}

func New(cfg *config.Config, ctrl *session.Controller, log logger.Logger) *Server {
	return &Server{
		cfg:    cfg,
		ctrl:   ctrl,
		logger: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser origin checks are handled by the CORS middleware;
			// the events endpoint mirrors its policy.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Engine builds the gin engine with middleware and routes registered.
func (s *Server) Engine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(requestID(), requestLogger(s.logger), recovery(s.logger), cors(s.cfg.Server.AllowedOrigins))

	api := engine.Group("/api/v1")
	api.GET("/health", s.health)
	api.POST("/meetings", s.createMeeting)
	api.GET("/meetings/:id", s.getMeeting)
	api.DELETE("/meetings/:id", s.deleteMeeting)
	api.GET("/meetings/:id/report", s.downloadReport)
	api.POST("/meetings/:id/notify", s.notify)
	api.GET("/meetings/:id/events", s.events)

	return engine
}

// Addr returns a normalized listen address for the given port.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return fmt.Sprintf(":%s", port)
}
