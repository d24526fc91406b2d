package profile

import (
	"context"
	"fmt"

	"storefront-service/internal/models"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// Service validates and persists profiles.
type Service struct {
	store  *store.Store
	logger *zap.Logger
}

// NewService creates a profile service.
func NewService(store *store.Store) *Service {
	return &Service{
		store:  store,
		logger: util.GetLogger(),
	}
}

// Save validates the profile and persists it. On validation failure the
// returned map carries per-field messages and nothing is written.
func (s *Service) Save(ctx context.Context, sessionID string, p *models.Profile) (map[string]string, error) {
	ctx, span := util.StartSpan(ctx, "profile.Service.Save")
	defer span.End()

	if errs := ValidateAll(p); len(errs) > 0 {
		for field := range errs {
			util.ProfileValidationFailures.WithLabelValues(field).Inc()
		}
		return errs, nil
	}

	p.SessionID = sessionID
	if err := s.store.UpsertProfile(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	util.ProfileSavesTotal.Inc()
	s.logger.Info("Profile saved", zap.String("session_id", sessionID))
	return nil, nil
}

// Get retrieves a session's saved profile, nil when none exists.
func (s *Service) Get(ctx context.Context, sessionID string) (*models.Profile, error) {
	return s.store.GetProfile(ctx, sessionID)
}
