package frontend

import (
	"net/http"
	"time"

	"combatlog_check/analysis"
	"combatlog_check/analysispool"
	"combatlog_check/wow"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var (
	websocketUpgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
)

type Server struct {
	Pool      *analysispool.Pool
	Presets   analysis.Presets
	Abilities wow.Abilities

	// Recaptcha requires a reCAPTCHA token as the first websocket message.
	Recaptcha bool
}

func (s *Server) Route(g *gin.Engine) {
	g.Use(requestLogger())
	g.Use(gin.Recovery())

	g.NoMethod(func(c *gin.Context) { c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"}) })
	g.NoRoute(func(c *gin.Context) { c.JSON(http.StatusNotFound, gin.H{"error": "not found"}) })

	g.GET("/analysis", s.routeRequest)

	api := g.Group("/api")
	api.GET("/presets", s.routePresets)
	api.POST("/analyze", s.routeAnalyze)
	api.POST("/feeding", s.routeFeeding)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("ip", c.ClientIP()).
			Msg("request")
	}
}
