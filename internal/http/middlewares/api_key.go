package middlewares

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fasttrackbd/courier/internal/domain/apikey"
)

const apiKeyHeader = "X-API-Key"

type KeyVerifier interface {
	VerifyAndTouch(ctx context.Context, raw string) (apikey.Key, error)
}

// APIKeyMiddleware gates the public versioned API. Verification records the
// use (usage counter + last-used timestamp) on every call.
type APIKeyMiddleware struct {
	keys KeyVerifier
}

func NewAPIKeyMiddleware(keys KeyVerifier) *APIKeyMiddleware {
	return &APIKeyMiddleware{keys: keys}
}

func (m *APIKeyMiddleware) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(apiKeyHeader)

		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "unauthorized",
					"message": "API key required. Include X-API-Key header.",
				},
			})
			return
		}

		key, err := m.keys.VerifyAndTouch(c.Request.Context(), raw)

		if err != nil {
			if err == apikey.ErrInvalid {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
					"error": gin.H{
						"code":    "forbidden",
						"message": "Invalid or inactive API key.",
					},
				})
				return
			}

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": gin.H{
					"code":    "internal_error",
					"message": "Could not verify API key",
				},
			})
			return
		}

		c.Set(CtxAPIKeyID, key.ID)

		c.Next()
	}
}
