package featureflag

import "errors"

// FeatureFlag holds server-enforced availability controls for a feature.
//
// Key is stable and referenced by code (routes/handlers).
//
// NOTE: We store booleans per role explicitly rather than using maps to keep
// storage and JSON payloads simple.
type FeatureFlag struct {
	Key         string
	Description string

	EnabledAdmin  bool
	EnabledMember bool
}

var (
	ErrMissingKey = errors.New("feature flag key is required")
)

// Validate checks required fields for a FeatureFlag.
// PRE: FeatureFlag struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (f *FeatureFlag) Validate() error {
	if f.Key == "" {
		return ErrMissingKey
	}
	return nil
}

// EnabledForRole returns true if the feature is enabled for the given role.
//
// PRE: role is a valid session role string
// INVARIANT: f is not mutated
func (f FeatureFlag) EnabledForRole(role string) bool {
	switch role {
	case "admin":
		return f.EnabledAdmin
	case "member":
		return f.EnabledMember
	default:
		return false
	}
}
