package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/course-exam-service/internal/auth"
	"github.com/SAP-F-2025/course-exam-service/internal/cache"
	"github.com/SAP-F-2025/course-exam-service/internal/models"
	"github.com/SAP-F-2025/course-exam-service/internal/repositories"
	"github.com/SAP-F-2025/course-exam-service/internal/validator"
	"gorm.io/gorm"
)

// identitySyncInterval bounds how often the same identity is written back
const identitySyncInterval = 5 * time.Minute

type userService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	logger    *slog.Logger
	validator *validator.Validator
}

func NewUserService(repo repositories.Repository, cacheService cache.CacheService, logger *slog.Logger, validator *validator.Validator) UserService {
	return &userService{
		repo:      repo,
		cache:     cacheService,
		logger:    logger,
		validator: validator,
	}
}

func identitySyncKey(userID string) string {
	return "user-sync:" + userID
}

// SyncIdentity upserts the user mirror and its role profile. Repeated calls within
// identitySyncInterval are skipped.
func (s *userService) SyncIdentity(ctx context.Context, identity *auth.Identity) error {
	if identity == nil || identity.UserID == "" {
		return ErrUnauthorized
	}

	var synced bool
	if err := s.cache.Get(ctx, identitySyncKey(identity.UserID), &synced); err == nil && synced {
		return nil
	} else if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("Identity sync cache read failed", "user_id", identity.UserID, "error", err)
	}

	now := time.Now().UTC()
	user := identity.ToUser()
	user.LastSeenAt = &now

	err := s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.repo.User().Upsert(ctx, tx, user); err != nil {
			return err
		}
		switch identity.Role {
		case models.RoleInstructor:
			return s.ensureInstructor(ctx, tx, identity.UserID)
		case models.RoleStudent:
			return s.ensureLearner(ctx, tx, identity.UserID)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to sync identity: %w", err)
	}

	if err := s.cache.Set(ctx, identitySyncKey(identity.UserID), true, identitySyncInterval); err != nil {
		s.logger.Warn("Identity sync cache write failed", "user_id", identity.UserID, "error", err)
	}
	return nil
}

func (s *userService) GetLearner(ctx context.Context, userID string) (*models.Learner, error) {
	learner, err := s.repo.User().GetLearner(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get learner: %w", err)
	}
	return learner, nil
}

func (s *userService) UpdateLearnerProfile(ctx context.Context, req *UpdateLearnerRequest, actor Actor) (*models.Learner, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	learner, err := s.repo.User().GetLearner(ctx, nil, actor.UserID)
	if err != nil {
		if !repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("failed to get learner: %w", err)
		}
		learner = &models.Learner{UserID: actor.UserID, Occupation: models.OccupationStudent}
	}

	if req.Occupation != "" {
		learner.Occupation = req.Occupation
	}
	if req.SocialLink != "" {
		learner.SocialLink = req.SocialLink
	}

	if err := s.repo.User().SaveLearner(ctx, nil, learner); err != nil {
		return nil, fmt.Errorf("failed to save learner: %w", err)
	}

	s.logger.Info("Learner profile updated", "user_id", actor.UserID)
	return learner, nil
}

func (s *userService) ensureInstructor(ctx context.Context, tx *gorm.DB, userID string) error {
	_, err := s.repo.User().GetInstructor(ctx, tx, userID)
	if err == nil || !repositories.IsNotFoundError(err) {
		return err
	}
	return s.repo.User().SaveInstructor(ctx, tx, &models.Instructor{UserID: userID, FullTime: true})
}

func (s *userService) ensureLearner(ctx context.Context, tx *gorm.DB, userID string) error {
	_, err := s.repo.User().GetLearner(ctx, tx, userID)
	if err == nil || !repositories.IsNotFoundError(err) {
		return err
	}
	return s.repo.User().SaveLearner(ctx, tx, &models.Learner{UserID: userID, Occupation: models.OccupationStudent})
}
