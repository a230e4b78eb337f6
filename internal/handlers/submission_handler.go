package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/SAP-F-2025/course-exam-service/internal/services"
	"github.com/SAP-F-2025/course-exam-service/internal/utils"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type SubmissionHandler struct {
	BaseHandler
	submissionService services.SubmissionService
}

func NewSubmissionHandler(submissionService services.SubmissionService, logger utils.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		BaseHandler:       NewBaseHandler(logger),
		submissionService: submissionService,
	}
}

// SubmitExam grades the selected choices of the caller against the course exam
// @Router /courses/{id}/submissions [post]
func (h *SubmissionHandler) SubmitExam(c *gin.Context) {
	courseID, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req services.SubmitRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Submitting exam", "course_id", courseID, "choices", len(req.ChoiceIDs))

	result, err := h.submissionService.Submit(c.Request.Context(), courseID, &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// @Router /courses/{id}/submissions [get]
func (h *SubmissionHandler) ListMySubmissions(c *gin.Context) {
	courseID, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	results, err := h.submissionService.ListByEnrollment(c.Request.Context(), courseID, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// @Router /submissions/{id}/result [get]
func (h *SubmissionHandler) GetResult(c *gin.Context) {
	id, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	result, err := h.submissionService.GetResult(c.Request.Context(), id, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ExportResults streams every submission of the course as an xlsx workbook
// @Router /courses/{id}/results/export [get]
func (h *SubmissionHandler) ExportResults(c *gin.Context) {
	courseID, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	buf, err := h.submissionService.ExportCourseResults(c.Request.Context(), courseID, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("course-%d-results-%s.xlsx", courseID, time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
