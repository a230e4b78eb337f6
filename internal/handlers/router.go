package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/course-exam-service/internal/admin"
	"github.com/SAP-F-2025/course-exam-service/internal/auth"
	"github.com/SAP-F-2025/course-exam-service/internal/models"
	"github.com/SAP-F-2025/course-exam-service/internal/observability"
	"github.com/SAP-F-2025/course-exam-service/internal/services"
	"github.com/SAP-F-2025/course-exam-service/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthChecker reports whether the backing stores are reachable
type HealthChecker func(c *gin.Context) error

type HandlerManager struct {
	courseHandler     *CourseHandler
	questionHandler   *QuestionHandler
	enrollmentHandler *EnrollmentHandler
	submissionHandler *SubmissionHandler
	userHandler       *UserHandler
	adminHandler      *AdminHandler

	verifier auth.TokenVerifier
	syncer   auth.IdentitySyncer
	health   HealthChecker
	logger   utils.Logger
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	registry *admin.Registry,
	verifier auth.TokenVerifier,
	health HealthChecker,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		courseHandler:     NewCourseHandler(serviceManager.Course(), logger),
		questionHandler:   NewQuestionHandler(serviceManager.Question(), logger),
		enrollmentHandler: NewEnrollmentHandler(serviceManager.Enrollment(), logger),
		submissionHandler: NewSubmissionHandler(serviceManager.Submission(), logger),
		userHandler:       NewUserHandler(serviceManager.User(), logger),
		adminHandler:      NewAdminHandler(registry, logger),
		verifier:          verifier,
		syncer:            serviceManager.User(),
		health:            health,
		logger:            logger,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.Use(utils.RequestLogger(hm.logger), observability.HTTPMetrics())

	router.GET("/health", hm.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authors := auth.RequireRoles(models.RoleInstructor, models.RoleAdmin)
	allow := hm.adminHandler.Allow

	v1 := router.Group("/api/v1")
	v1.Use(auth.Authenticate(hm.verifier, hm.syncer))
	{
		courses := v1.Group("/courses")
		{
			courses.GET("", allow(admin.KindCourse, admin.OpList), hm.courseHandler.ListCourses)
			courses.POST("", authors, allow(admin.KindCourse, admin.OpCreate), hm.courseHandler.CreateCourse)
			courses.GET("/:id", allow(admin.KindCourse, admin.OpRead), hm.courseHandler.GetCourse)
			courses.PUT("/:id", authors, allow(admin.KindCourse, admin.OpUpdate), hm.courseHandler.UpdateCourse)
			courses.DELETE("/:id", authors, allow(admin.KindCourse, admin.OpDelete), hm.courseHandler.DeleteCourse)

			// Lessons
			courses.GET("/:id/lessons", allow(admin.KindLesson, admin.OpList), hm.courseHandler.ListLessons)
			courses.POST("/:id/lessons", authors, allow(admin.KindLesson, admin.OpCreate), hm.courseHandler.AddLesson)

			// Exam and questions
			courses.GET("/:id/exam", hm.courseHandler.GetExam)
			courses.GET("/:id/questions", authors, allow(admin.KindQuestion, admin.OpList), hm.questionHandler.ListQuestions)
			courses.POST("/:id/questions", authors, allow(admin.KindQuestion, admin.OpCreate), hm.questionHandler.CreateQuestion)

			// Enrollment and submissions
			courses.POST("/:id/enroll", hm.enrollmentHandler.Enroll)
			courses.POST("/:id/submissions", hm.submissionHandler.SubmitExam)
			courses.GET("/:id/submissions", allow(admin.KindSubmission, admin.OpList), hm.submissionHandler.ListMySubmissions)
			courses.GET("/:id/results/export", authors, allow(admin.KindSubmission, admin.OpList), hm.submissionHandler.ExportResults)
		}

		questions := v1.Group("/questions", authors)
		{
			questions.GET("/:id", allow(admin.KindQuestion, admin.OpRead), hm.questionHandler.GetQuestion)
			questions.PUT("/:id", allow(admin.KindQuestion, admin.OpUpdate), hm.questionHandler.UpdateQuestion)
			questions.DELETE("/:id", allow(admin.KindQuestion, admin.OpDelete), hm.questionHandler.DeleteQuestion)
			questions.POST("/:id/choices", allow(admin.KindChoice, admin.OpCreate), hm.questionHandler.AddChoice)
		}

		v1.DELETE("/choices/:id", authors, allow(admin.KindChoice, admin.OpDelete), hm.questionHandler.DeleteChoice)

		v1.GET("/enrollments", hm.enrollmentHandler.ListMyEnrollments)
		v1.GET("/submissions/:id/result", allow(admin.KindSubmission, admin.OpRead), hm.submissionHandler.GetResult)

		me := v1.Group("/me")
		{
			me.GET("/learner", allow(admin.KindLearner, admin.OpRead), hm.userHandler.GetLearnerProfile)
			me.PUT("/learner", allow(admin.KindLearner, admin.OpUpdate), hm.userHandler.UpdateLearnerProfile)
		}

		v1.GET("/admin/registry", auth.RequireRoles(models.RoleAdmin), hm.adminHandler.GetRegistry)
	}
}

// HealthCheck reports service liveness and the state of the database
func (hm *HandlerManager) HealthCheck(c *gin.Context) {
	if hm.health != nil {
		if err := hm.health(c); err != nil {
			hm.logger.Warn("Health check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"service": "course-exam-service",
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "course-exam-service",
	})
}
