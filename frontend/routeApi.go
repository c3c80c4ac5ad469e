package frontend

import (
	"bytes"
	"net/http"

	"combatlog_check/analysis"
	"combatlog_check/analysis/feeding"
	"combatlog_check/combatlog"
	"combatlog_check/share"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

type analyzeRequest struct {
	Preset   string                `json:"preset" binding:"required"`
	SourceID int                   `json:"source_id" binding:"required"`
	Events   []combatlog.CastEvent `json:"events"`
}

type feedingRequest struct {
	Expanded   bool               `json:"expanded"`
	Categories []feeding.Category `json:"categories"`
}

func (s *Server) routePresets(c *gin.Context) {
	c.JSON(http.StatusOK, s.Presets)
}

func (s *Server) routeAnalyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	preset, ok := s.Presets.Lookup(req.Preset)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown preset"})
		return
	}

	r := analysis.AnalyzeEvents(preset.Config(s.Abilities), s.Abilities, req.Events, req.SourceID)
	c.JSON(http.StatusOK, r)
}

func (s *Server) routeFeeding(c *gin.Context) {
	var req feedingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var buf bytes.Buffer
	if err := feeding.Render(&buf, feeding.Build(req.Categories, req.Expanded)); err != nil {
		share.CaptureError(errors.WithStack(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "render failed"})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
