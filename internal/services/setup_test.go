package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/SAP-F-2025/course-exam-service/internal/auth"
	"github.com/SAP-F-2025/course-exam-service/internal/cache"
	"github.com/SAP-F-2025/course-exam-service/internal/events"
	"github.com/SAP-F-2025/course-exam-service/internal/models"
	"github.com/SAP-F-2025/course-exam-service/internal/repositories"
	"github.com/SAP-F-2025/course-exam-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/course-exam-service/internal/validator"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	adminActor      = Actor{UserID: "admin-1", Role: models.RoleAdmin}
	instructorActor = Actor{UserID: "teacher-1", Role: models.RoleInstructor}
	otherInstructor = Actor{UserID: "teacher-2", Role: models.RoleInstructor}
	studentActor    = Actor{UserID: "student-1", Role: models.RoleStudent}
	otherStudent    = Actor{UserID: "student-2", Role: models.RoleStudent}
)

type testEnv struct {
	repo      repositories.Repository
	cache     cache.CacheService
	redis     *miniredis.Miniredis
	publisher *events.MockEventPublisher
	services  ServiceManager
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := testLogger()
	env := &testEnv{
		repo:      postgres.NewRepository(setupTestDB(t)),
		cache:     cache.NewRedisCache(client, log, "test:"),
		redis:     server,
		publisher: events.NewMockEventPublisher(log),
	}
	env.services = NewServiceManager(ManagerConfig{
		Repo:      env.repo,
		Cache:     env.cache,
		Publisher: env.publisher,
		Logger:    log,
		Validator: validator.New(),
		ExamTTL:   time.Minute,
	})

	for _, a := range []Actor{adminActor, instructorActor, otherInstructor, studentActor, otherStudent} {
		require.NoError(t, env.services.User().SyncIdentity(context.Background(), &auth.Identity{
			UserID:   a.UserID,
			FullName: "User " + a.UserID,
			Email:    a.UserID + "@example.com",
			Role:     a.Role,
		}))
	}
	return env
}

// seedCourse creates a course authored by instructorActor with two questions:
// a 2 point question with correct choices 0 and 1, and a 1 point question with
// correct choice 0.
func (e *testEnv) seedCourse(t *testing.T) (*models.Course, []*models.Question) {
	t.Helper()
	ctx := context.Background()

	course, err := e.services.Course().Create(ctx, &CreateCourseRequest{Name: "Go Basics", Description: "Intro"}, instructorActor)
	require.NoError(t, err)

	q1, err := e.services.Question().Create(ctx, course.ID, &CreateQuestionRequest{
		Content: "Pick the primes",
		Grade:   2,
		Choices: []ChoiceInput{{Content: "2", IsCorrect: true}, {Content: "3", IsCorrect: true}, {Content: "4"}},
	}, instructorActor)
	require.NoError(t, err)

	q2, err := e.services.Question().Create(ctx, course.ID, &CreateQuestionRequest{
		Content: "Go is compiled",
		Grade:   1,
		Choices: []ChoiceInput{{Content: "yes", IsCorrect: true}, {Content: "no"}},
	}, instructorActor)
	require.NoError(t, err)

	e.publisher.ClearEvents()
	return course, []*models.Question{q1, q2}
}

func eventsOfType(pub *events.MockEventPublisher, eventType events.EventType) []events.Event {
	var out []events.Event
	for _, e := range pub.GetPublishedEvents() {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}
