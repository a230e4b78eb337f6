package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/course-exam-service/internal/admin"
	"github.com/SAP-F-2025/course-exam-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	BaseHandler
	registry *admin.Registry
}

func NewAdminHandler(registry *admin.Registry, logger utils.Logger) *AdminHandler {
	return &AdminHandler{
		BaseHandler: NewBaseHandler(logger),
		registry:    registry,
	}
}

// GetRegistry lists every managed entity kind with its allowed operations and views
// @Router /admin/registry [get]
func (h *AdminHandler) GetRegistry(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"kinds": h.registry.Descriptors()})
}

// Allow rejects the request when the registry does not permit op on kind
func (h *AdminHandler) Allow(kind admin.Kind, op admin.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !h.registry.Allows(kind, op) {
			h.LogWarn(c, "Operation not allowed by registry", "kind", kind, "operation", op)
			c.AbortWithStatusJSON(http.StatusMethodNotAllowed, ErrorResponse{
				Message: "Operation not allowed",
				Details: map[string]interface{}{"kind": kind, "operation": op},
				Code:    "NOT_ALLOWED",
			})
			return
		}
		c.Next()
	}
}
