package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/SAP-F-2025/course-exam-service/internal/models"
	"github.com/gin-gonic/gin"
)

// IdentitySyncer mirrors verified identities into local storage
type IdentitySyncer interface {
	SyncIdentity(ctx context.Context, identity *Identity) error
}

type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Authenticate requires a valid bearer token. When syncer is non-nil the identity is
// upserted before the request continues.
func Authenticate(verifier TokenVerifier, syncer IdentitySyncer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Message: err.Error(), Code: "UNAUTHORIZED"})
			return
		}

		identity, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Message: "Invalid or expired token", Code: "UNAUTHORIZED"})
			return
		}

		if syncer != nil {
			if err := syncer.SyncIdentity(c.Request.Context(), identity); err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody{Message: "Failed to load user", Code: "INTERNAL_ERROR"})
				return
			}
		}

		setIdentity(c, identity)
		c.Next()
	}
}

// RequireRoles rejects callers whose role is not listed
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Message: "Authentication required", Code: "UNAUTHORIZED"})
			return
		}
		if !identity.HasRole(roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, errorBody{Message: "Insufficient permissions", Code: "FORBIDDEN"})
			return
		}
		c.Next()
	}
}

func bearerToken(header string) (string, error) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrMissingToken
	}
	return strings.TrimSpace(token), nil
}
