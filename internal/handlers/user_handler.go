package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/course-exam-service/internal/services"
	"github.com/SAP-F-2025/course-exam-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	BaseHandler
	userService services.UserService
}

func NewUserHandler(userService services.UserService, logger utils.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: NewBaseHandler(logger),
		userService: userService,
	}
}

// @Router /me/learner [get]
func (h *UserHandler) GetLearnerProfile(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	learner, err := h.userService.GetLearner(c.Request.Context(), actor.UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, learner)
}

// @Router /me/learner [put]
func (h *UserHandler) UpdateLearnerProfile(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req services.UpdateLearnerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	learner, err := h.userService.UpdateLearnerProfile(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Profile updated", learner)
}
