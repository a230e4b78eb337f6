package services

import (
	"context"
	"testing"

	"github.com/SAP-F-2025/course-exam-service/internal/auth"
	"github.com/SAP-F-2025/course-exam-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_SyncIdentity(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	user, err := env.repo.User().GetByID(ctx, nil, studentActor.UserID)
	require.NoError(t, err)
	assert.Equal(t, "User student-1", user.FullName)
	assert.NotNil(t, user.LastSeenAt)
	assert.True(t, env.redis.Exists("test:"+identitySyncKey(studentActor.UserID)))

	learner, err := env.services.User().GetLearner(ctx, studentActor.UserID)
	require.NoError(t, err)
	assert.Equal(t, models.OccupationStudent, learner.Occupation)

	_, err = env.repo.User().GetInstructor(ctx, nil, instructorActor.UserID)
	assert.NoError(t, err)

	_, err = env.services.User().GetLearner(ctx, instructorActor.UserID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	assert.ErrorIs(t, env.services.User().SyncIdentity(ctx, &auth.Identity{}), ErrUnauthorized)
}

func TestUserService_SyncIdentityIsThrottled(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	renamed := &auth.Identity{UserID: studentActor.UserID, FullName: "Renamed", Role: models.RoleStudent}
	require.NoError(t, env.services.User().SyncIdentity(ctx, renamed))

	user, err := env.repo.User().GetByID(ctx, nil, studentActor.UserID)
	require.NoError(t, err)
	assert.Equal(t, "User student-1", user.FullName)

	env.redis.FastForward(identitySyncInterval + 1)
	require.NoError(t, env.services.User().SyncIdentity(ctx, renamed))

	user, err = env.repo.User().GetByID(ctx, nil, studentActor.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", user.FullName)
}

func TestUserService_UpdateLearnerProfile(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	learner, err := env.services.User().UpdateLearnerProfile(ctx, &UpdateLearnerRequest{
		Occupation: models.OccupationDeveloper,
		SocialLink: "https://example.com/me",
	}, studentActor)
	require.NoError(t, err)
	assert.Equal(t, models.OccupationDeveloper, learner.Occupation)

	got, err := env.services.User().GetLearner(ctx, studentActor.UserID)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/me", got.SocialLink)

	_, err = env.services.User().UpdateLearnerProfile(ctx, &UpdateLearnerRequest{Occupation: "astronaut"}, studentActor)
	assert.True(t, IsValidation(err))
}
