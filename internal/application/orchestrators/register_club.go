package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"clubhouse/internal/domain/account"
	"clubhouse/internal/domain/profile"
)

// TrialDays is the free trial window opened at signup.
const TrialDays = 30

// ProfileStoreForRegister defines the store interface needed by RegisterClub.
type ProfileStoreForRegister interface {
	GetBySlug(ctx context.Context, slug string) (profile.Profile, error)
	Save(ctx context.Context, p profile.Profile) error
}

// RegisterClubInput carries input for the signup orchestrator.
type RegisterClubInput struct {
	ClubName string
	District string
	City     string
	Email    string
	Name     string
	Password string
}

// RegisterClubDeps holds dependencies for RegisterClub.
type RegisterClubDeps struct {
	AccountStore AccountStoreForCreate
	ProfileStore ProfileStoreForRegister
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteRegisterClub signs up a new club: one admin account plus its
// profile. The admin account ID is the tenant ID for everything the club
// stores afterwards.
// PRE: ClubName, Email, Password are non-empty
// POST: Active admin account and profile exist, trial window open
func ExecuteRegisterClub(ctx context.Context, input RegisterClubInput, deps RegisterClubDeps) (string, error) {
	accountID, err := ExecuteCreateAccount(ctx, CreateAccountInput{
		Email:    input.Email,
		Password: input.Password,
		Name:     input.Name,
		Role:     account.RoleAdmin,
	}, CreateAccountDeps{
		AccountStore: deps.AccountStore,
		GenerateID:   deps.GenerateID,
		Now:          deps.Now,
	})
	if err != nil {
		return "", err
	}

	now := deps.Now()
	p := profile.Profile{
		AccountID:   accountID,
		ClubName:    input.ClubName,
		District:    input.District,
		City:        input.City,
		Slug:        slugify(input.ClubName),
		TrialEndsAt: now.AddDate(0, 0, TrialDays),
		CreatedAt:   now,
	}

	if err := p.Validate(); err != nil {
		return "", err
	}

	// A slug collision with another club just disables the public page
	// until the admin picks a different one in settings.
	if p.Slug != "" {
		if _, err := deps.ProfileStore.GetBySlug(ctx, p.Slug); err == nil {
			p.Slug = ""
		}
	}

	if err := deps.ProfileStore.Save(ctx, p); err != nil {
		return "", err
	}

	slog.Info("auth_event", "event", "club_registered", "account_id", accountID, "club_name", p.ClubName)
	return accountID, nil
}

// slugify lowercases a club name into a public page slug. Characters outside
// [a-z0-9] collapse into single hyphens.
func slugify(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	s := strings.Trim(b.String(), "-")
	if len(s) > profile.MaxSlugLength {
		s = strings.Trim(s[:profile.MaxSlugLength], "-")
	}
	return s
}
