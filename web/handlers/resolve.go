// Package handlers contains the gin handlers for the resolution API.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"linksum/internal/transcript"
)

// ResolveRequest is the body of POST /api/resolve. HTML is optional: when the
// caller already extracted the page body it is reused instead of re-fetched.
type ResolveRequest struct {
	URL       string `json:"url" binding:"required"`
	HTML      string `json:"html"`
	CacheMode string `json:"cache_mode"`
}

// Resolve returns the handler that runs a transcript resolution and renders
// the full resolution, diagnostics included.
func Resolve(resolver *transcript.Resolver, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request ResolveRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		mode := transcript.CacheMode(request.CacheMode)
		if mode != "" && mode != transcript.CacheModeDefault && mode != transcript.CacheModeBypass {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cache_mode must be 'default' or 'bypass'"})
			return
		}

		resolution, err := resolver.Resolve(c.Request.Context(), request.URL, request.HTML, mode)
		if err != nil {
			logger.Error("transcript resolution failed",
				zap.String("url", request.URL), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, resolution)
	}
}
