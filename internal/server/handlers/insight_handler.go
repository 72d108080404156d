package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/ovinet/internal/service/insight"
)

// InsightHandler exposes the AI advisory endpoints.
type InsightHandler struct {
	svc    *insight.Service
	logger *zap.Logger
}

// NewInsightHandler constructs the HTTP handler adapter.
func NewInsightHandler(svc *insight.Service, logger *zap.Logger) *InsightHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InsightHandler{svc: svc, logger: logger}
}

// SheepAdvisory returns a short technical opinion on one animal.
func (h *InsightHandler) SheepAdvisory(c *gin.Context) {
	text, err := h.svc.SheepAdvisory(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"advisory": text})
}

// FlockDigest returns prioritized insights across the active flock.
func (h *InsightHandler) FlockDigest(c *gin.Context) {
	insights, err := h.svc.FlockDigest(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"insights": insights})
}
