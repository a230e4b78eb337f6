package auth

import (
	"context"
	"errors"

	"github.com/SAP-F-2025/course-exam-service/internal/models"
	"github.com/gin-gonic/gin"
)

const (
	ContextKeyIdentity = "identity"
	ContextKeyUserID   = "user_id"
	ContextKeyUserRole = "user_role"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
)

// Identity is the caller resolved from a verified token
type Identity struct {
	UserID   string          `json:"user_id"`
	FullName string          `json:"full_name"`
	Email    string          `json:"email"`
	Role     models.UserRole `json:"role"`
}

func (i *Identity) HasRole(roles ...models.UserRole) bool {
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}

// ToUser builds the local user mirror for the identity
func (i *Identity) ToUser() *models.User {
	return &models.User{
		ID:       i.UserID,
		FullName: i.FullName,
		Email:    i.Email,
		Role:     i.Role,
	}
}

// TokenVerifier turns a raw bearer token into an identity
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// IdentityFromContext returns the identity stored by Authenticate
func IdentityFromContext(c *gin.Context) (*Identity, bool) {
	value, exists := c.Get(ContextKeyIdentity)
	if !exists {
		return nil, false
	}
	identity, ok := value.(*Identity)
	return identity, ok
}

func setIdentity(c *gin.Context, identity *Identity) {
	c.Set(ContextKeyIdentity, identity)
	c.Set(ContextKeyUserID, identity.UserID)
	c.Set(ContextKeyUserRole, identity.Role)
}

func normalizeRole(role string) models.UserRole {
	switch models.UserRole(role) {
	case models.RoleAdmin, models.RoleInstructor:
		return models.UserRole(role)
	default:
		return models.RoleStudent
	}
}
