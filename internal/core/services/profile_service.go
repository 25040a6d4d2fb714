package services

import (
	"context"
	"errors"

	"keytrack/internal/adapters/persistence/repositories"
	"keytrack/internal/core/domain"
)

// ProfileService manages the singleton application profile
type ProfileService struct {
	profile *repositories.ProfileRepository
}

// NewProfileService creates a new profile service
func NewProfileService(repos *repositories.Repositories) *ProfileService {
	return &ProfileService{profile: repos.Profile}
}

// UpdateProfileInput represents a partial profile update.
// Nil fields are left unchanged.
type UpdateProfileInput struct {
	Name              *string                   `json:"name"`
	Email             *string                   `json:"email"`
	Department        *string                   `json:"department"`
	AppName           *string                   `json:"appName"`
	NotificationPrefs *domain.NotificationPrefs `json:"notificationPrefs"`
}

// Get returns the profile, creating the default one on first use
func (s *ProfileService) Get(ctx context.Context) (*domain.UserProfile, error) {
	profile, err := s.profile.Get(ctx, domain.ProfileID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	def := domain.DefaultProfile()
	if err := s.profile.Put(ctx, domain.ProfileID, &def); err != nil {
		return nil, err
	}
	return &def, nil
}

// Current returns the stored profile or the defaults, without creating it
func (s *ProfileService) Current(ctx context.Context) (*domain.UserProfile, error) {
	profile, err := s.profile.Get(ctx, domain.ProfileID)
	if errors.Is(err, repositories.ErrNotFound) {
		def := domain.DefaultProfile()
		return &def, nil
	}
	return profile, err
}

// Update patches the profile
func (s *ProfileService) Update(ctx context.Context, input *UpdateProfileInput) (*domain.UserProfile, error) {
	profile, err := s.profile.Patch(ctx, domain.ProfileID, func(p *domain.UserProfile) {
		if input.Name != nil {
			p.Name = *input.Name
		}
		if input.Email != nil {
			p.Email = *input.Email
		}
		if input.Department != nil {
			p.Department = *input.Department
		}
		if input.AppName != nil {
			p.AppName = *input.AppName
		}
		if input.NotificationPrefs != nil {
			p.NotificationPrefs = *input.NotificationPrefs
		}
	})
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, domain.ErrProfileNotFound
	}
	return profile, err
}

// SetLogo replaces the application logo; nil removes it
func (s *ProfileService) SetLogo(ctx context.Context, logo *string) (*domain.UserProfile, error) {
	profile, err := s.profile.Patch(ctx, domain.ProfileID, func(p *domain.UserProfile) {
		p.AppLogoBase64 = logo
	})
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, domain.ErrProfileNotFound
	}
	return profile, err
}

// ClearLogo removes the logo if the profile exists
func (s *ProfileService) ClearLogo(ctx context.Context) error {
	exists, err := s.profile.Exists(ctx, domain.ProfileID)
	if err != nil || !exists {
		return err
	}
	_, err = s.SetLogo(ctx, nil)
	return err
}
