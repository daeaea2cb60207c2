package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/buildbooks/buildbooks_backend/utils"
)

const (
	headerProjectId     = "X-Project-Id"
	headerCorrelationId = "X-Correlation-Id"
)

// ProjectScope requires the X-Project-Id header on every scoped route and
// carries it into the request context. All catalog and ledger reads filter
// on it; a request without it cannot touch any data.
func ProjectScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		projectId := c.GetHeader(headerProjectId)
		if projectId == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "X-Project-Id header is required"})
			return
		}
		if _, err := uuid.Parse(projectId); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "X-Project-Id must be a UUID"})
			return
		}
		ctx := utils.SetProjectIdInContext(c.Request.Context(), projectId)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// CorrelationId propagates the caller's correlation id, minting one when the
// header is absent, and echoes it on the response.
func CorrelationId() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationId := c.GetHeader(headerCorrelationId)
		if correlationId == "" {
			correlationId = uuid.NewString()
		}
		ctx := utils.SetCorrelationIdInContext(c.Request.Context(), correlationId)
		c.Request = c.Request.WithContext(ctx)
		c.Header(headerCorrelationId, correlationId)
		c.Next()
	}
}
