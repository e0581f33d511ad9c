package profile_test

import (
	"strings"
	"testing"
	"time"

	"clubhouse/internal/domain/profile"
)

func validProfile() profile.Profile {
	return profile.Profile{
		AccountID: "club-1",
		ClubName:  "Rotary Club Milano",
		Slug:      "rotary-club-milano",
		CreatedAt: time.Now(),
	}
}

func TestProfile_Validate(t *testing.T) {
	p := validProfile()
	if err := p.Validate(); err != nil {
		t.Errorf("valid profile rejected: %v", err)
	}

	p = validProfile()
	p.AccountID = ""
	if err := p.Validate(); err != profile.ErrEmptyAccountID {
		t.Errorf("got %v, want ErrEmptyAccountID", err)
	}

	p = validProfile()
	p.ClubName = "   "
	if err := p.Validate(); err != profile.ErrEmptyClubName {
		t.Errorf("got %v, want ErrEmptyClubName", err)
	}

	p = validProfile()
	p.ClubName = strings.Repeat("a", profile.MaxClubNameLength+1)
	if err := p.Validate(); err == nil {
		t.Errorf("overlong club name accepted")
	}

	for _, slug := range []string{"Maiuscole", "con spazi", "àccenti", strings.Repeat("a", profile.MaxSlugLength+1)} {
		p = validProfile()
		p.Slug = slug
		if err := p.Validate(); err != profile.ErrInvalidSlug {
			t.Errorf("slug %q: got %v, want ErrInvalidSlug", slug, err)
		}
	}

	// An empty slug is allowed and just disables the public page.
	p = validProfile()
	p.Slug = ""
	if err := p.Validate(); err != nil {
		t.Errorf("empty slug rejected: %v", err)
	}
}

func TestProfile_InTrial(t *testing.T) {
	now := time.Now()

	p := validProfile()
	p.TrialEndsAt = now.AddDate(0, 0, 10)
	if !p.InTrial(now) {
		t.Errorf("open trial window reported closed")
	}
	if p.InTrial(now.AddDate(0, 0, 11)) {
		t.Errorf("elapsed trial window reported open")
	}

	p.TrialEndsAt = time.Time{}
	if p.InTrial(now) {
		t.Errorf("zero trial window reported open")
	}
}

func TestProfile_HasPublicPage(t *testing.T) {
	p := validProfile()
	if !p.HasPublicPage() {
		t.Errorf("slugged profile has no public page")
	}
	p.Slug = ""
	if p.HasPublicPage() {
		t.Errorf("slugless profile has a public page")
	}
}
