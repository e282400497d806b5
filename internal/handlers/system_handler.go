package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "HealthChain Symptom Checker API", "redirect": "/static/index.html"})
}

// Debug reports store connectivity and its collections.
func (h *Handler) Debug(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.Store.Ping(ctx); err != nil {
		h.Logger.Warn("debug ping failed", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"status": "error", "mongodb": "disconnected", "error": err.Error()})
		return
	}
	collections, err := h.Store.Collections(ctx)
	if err != nil {
		h.Logger.Warn("debug collection listing failed", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"status": "error", "mongodb": "disconnected", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "mongodb": "connected", "collections": collections})
}
