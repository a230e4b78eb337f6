package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/SAP-F-2025/course-exam-service/internal/services"
	"github.com/SAP-F-2025/course-exam-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type EnrollmentHandler struct {
	BaseHandler
	enrollmentService services.EnrollmentService
}

func NewEnrollmentHandler(enrollmentService services.EnrollmentService, logger utils.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		BaseHandler:       NewBaseHandler(logger),
		enrollmentService: enrollmentService,
	}
}

// Enroll answers 201 for a new enrollment and 200 when the caller was already enrolled
// @Router /courses/{id}/enroll [post]
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	courseID, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	// The body is optional
	var req services.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", nil, err.Error())
		return
	}

	enrollment, created, err := h.enrollmentService.Enroll(c.Request.Context(), courseID, &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		h.LogInfo(c, "Learner enrolled", "course_id", courseID, "enrollment_id", enrollment.ID)
	}
	c.JSON(status, enrollment)
}

// @Router /enrollments [get]
func (h *EnrollmentHandler) ListMyEnrollments(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	enrollments, err := h.enrollmentService.ListByUser(c.Request.Context(), actor.UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, enrollments)
}
