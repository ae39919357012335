package profile

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/insights/internal/application/adapter"
	"github.com/finance-tracker/insights/internal/domain/entity"
	domainerror "github.com/finance-tracker/insights/internal/domain/error"
)

const (
	// MinDailyCap is the smallest allowed daily insight cap.
	MinDailyCap = 1
	// MaxDailyCap is the largest allowed daily insight cap.
	MaxDailyCap = 20
)

var notificationTimePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// UpsertProfileInput represents the input for creating or updating a profile.
// Nil optional fields keep their current value, or the default for a new profile.
type UpsertProfileInput struct {
	UserID                    uuid.UUID
	Email                     string
	Name                      string
	Personality               entity.PersonalityType
	StressLevel               entity.StressLevel
	EnabledCategories         []entity.InsightCategory
	DailyInsightCap           *int
	PreferredNotificationTime *string
	Timezone                  *string
	DigestEnabled             *bool
}

// UpsertProfileOutput represents the stored profile.
type UpsertProfileOutput struct {
	Profile *entity.Profile
	Created bool
}

// UpsertProfileUseCase validates and stores the user's behavioral profile.
type UpsertProfileUseCase struct {
	profileRepo adapter.ProfileRepository
}

// NewUpsertProfileUseCase creates a new UpsertProfileUseCase instance.
func NewUpsertProfileUseCase(profileRepo adapter.ProfileRepository) *UpsertProfileUseCase {
	return &UpsertProfileUseCase{profileRepo: profileRepo}
}

// Execute performs the upsert.
func (uc *UpsertProfileUseCase) Execute(ctx context.Context, input UpsertProfileInput) (*UpsertProfileOutput, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	profile, err := uc.profileRepo.FindByUserID(ctx, input.UserID)
	created := false
	switch {
	case errors.Is(err, domainerror.ErrProfileNotFound):
		profile = entity.NewProfile(input.UserID, input.Email, input.Name, input.Personality, input.StressLevel)
		created = true
	case err != nil:
		return nil, fmt.Errorf("failed to find profile: %w", err)
	default:
		profile.Personality = input.Personality
		profile.StressLevel = input.StressLevel
		if input.Email != "" {
			profile.Email = input.Email
		}
		if input.Name != "" {
			profile.Name = input.Name
		}
		profile.UpdatedAt = time.Now().UTC()
	}

	if input.EnabledCategories != nil {
		profile.EnabledCategories = input.EnabledCategories
	}
	if input.DailyInsightCap != nil {
		profile.DailyInsightCap = *input.DailyInsightCap
	}
	if input.PreferredNotificationTime != nil {
		profile.PreferredNotificationTime = *input.PreferredNotificationTime
	}
	if input.Timezone != nil {
		profile.Timezone = *input.Timezone
	}
	if input.DigestEnabled != nil {
		profile.DigestEnabled = *input.DigestEnabled
	}

	if err := uc.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	return &UpsertProfileOutput{Profile: profile, Created: created}, nil
}

func validate(input UpsertProfileInput) error {
	if input.UserID == uuid.Nil {
		return domainerror.NewProfileError(
			domainerror.ErrCodeMissingProfileFields,
			"user id is required",
			nil,
		)
	}

	if !input.Personality.IsValid() {
		return domainerror.NewProfileError(
			domainerror.ErrCodeInvalidPersonality,
			"personality must be one of saver, spender, sharer, investor, gambler",
			domainerror.ErrInvalidPersonality,
		)
	}

	if !input.StressLevel.IsValid() {
		return domainerror.NewProfileError(
			domainerror.ErrCodeInvalidStressLevel,
			"stress level must be low, medium or high",
			domainerror.ErrInvalidStressLevel,
		)
	}

	for _, category := range input.EnabledCategories {
		if !category.IsValid() {
			return domainerror.NewProfileError(
				domainerror.ErrCodeInvalidCategory,
				fmt.Sprintf("unknown insight category %q", category),
				domainerror.ErrInvalidCategory,
			)
		}
	}

	if input.DailyInsightCap != nil && (*input.DailyInsightCap < MinDailyCap || *input.DailyInsightCap > MaxDailyCap) {
		return domainerror.NewProfileError(
			domainerror.ErrCodeInvalidDailyCap,
			fmt.Sprintf("daily insight cap must be between %d and %d", MinDailyCap, MaxDailyCap),
			domainerror.ErrInvalidDailyCap,
		)
	}

	if input.PreferredNotificationTime != nil && !notificationTimePattern.MatchString(*input.PreferredNotificationTime) {
		return domainerror.NewProfileError(
			domainerror.ErrCodeInvalidNotificationTime,
			"preferred notification time must be HH:MM",
			domainerror.ErrInvalidNotificationTime,
		)
	}

	if input.Timezone != nil {
		if _, err := time.LoadLocation(*input.Timezone); err != nil || *input.Timezone == "" || *input.Timezone == "Local" {
			return domainerror.NewProfileError(
				domainerror.ErrCodeInvalidTimezone,
				fmt.Sprintf("unknown time zone %q", *input.Timezone),
				domainerror.ErrInvalidTimezone,
			)
		}
	}

	return nil
}
