package settings

import (
	"context"

	"github.com/presenza-hq/presenza-backend-go/internal/domain/settings"
)

type SettingsServiceImpl struct {
	settingsRepo settings.SettingsRepository
}

func NewSettingsService(settingsRepo settings.SettingsRepository) settings.SettingsService {
	return &SettingsServiceImpl{settingsRepo: settingsRepo}
}

// GetPolicy implements settings.SettingsService. A missing or unreadable
// stored policy falls back to the built-in default.
func (s *SettingsServiceImpl) GetPolicy(ctx context.Context) (settings.PolicyResponse, error) {
	policy, err := s.settingsRepo.GetAttendancePolicy(ctx)
	if err != nil {
		policy = settings.Default()
	}
	return settings.ToResponse(policy), nil
}

// UpdatePolicy implements settings.SettingsService.
func (s *SettingsServiceImpl) UpdatePolicy(ctx context.Context, req settings.UpdatePolicyRequest) (settings.PolicyResponse, error) {
	if err := req.Validate(); err != nil {
		return settings.PolicyResponse{}, err
	}

	policy := req.ToPolicy()
	if err := s.settingsRepo.UpdateAttendancePolicy(ctx, policy); err != nil {
		return settings.PolicyResponse{}, err
	}

	return settings.ToResponse(policy), nil
}
