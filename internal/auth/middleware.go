package auth

import (
	"crypto/subtle"

	"github.com/flowgrid/flowserve/internal/errors"
	"github.com/gin-gonic/gin"
)

// HeaderName is the header (and query parameter) carrying the API key.
const HeaderName = "x-api-key"

// APIKeyMiddleware guards flow execution routes with a single shared API key.
// The expected key is configured server-side; clients present theirs in the
// x-api-key header or, for clients that cannot set headers, as a query
// parameter of the same name.
type APIKeyMiddleware struct {
	expectedKey string
}

func NewAPIKeyMiddleware(expectedKey string) *APIKeyMiddleware {
	return &APIKeyMiddleware{
		expectedKey: expectedKey,
	}
}

// RequireAPIKey is a middleware that validates the x-api-key credential.
// Requests fail fast here: no downstream handler runs and no stream session
// is ever constructed for an unauthenticated request.
func (a *APIKeyMiddleware) RequireAPIKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		if a.expectedKey == "" {
			errors.AbortWithInternal(c, "API key is not configured on the server", nil)
			return
		}

		providedKey := c.GetHeader(HeaderName)
		if providedKey == "" {
			providedKey = c.Query(HeaderName)
		}

		if providedKey == "" {
			errors.AbortWithUnauthorized(c, "API key required", nil)
			return
		}

		if subtle.ConstantTimeCompare([]byte(providedKey), []byte(a.expectedKey)) != 1 {
			errors.AbortWithUnauthorized(c, "Invalid API key", nil)
			return
		}

		c.Next()
	}
}
