package featureflag

// DefaultFlags returns the known feature flags and their default settings.
//
// These are intended to represent broad, user-visible areas of the product.
// As new major features are added, append to this list.
func DefaultFlags() []FeatureFlag {
	return []FeatureFlag{
		{
			Key:           "requests",
			Description:   "Section request boards (submit, reply, archive)",
			EnabledAdmin:  true,
			EnabledMember: true,
		},
		{
			Key:           "ai_tools",
			Description:   "AI document and flyer generation, speech to text",
			EnabledAdmin:  true,
			EnabledMember: false,
		},
		{
			Key:           "public_page",
			Description:   "Public club page at /club/{slug}",
			EnabledAdmin:  true,
			EnabledMember: true,
		},
		{
			Key:           "invites",
			Description:   "Club invites and waiting list",
			EnabledAdmin:  true,
			EnabledMember: false,
		},
	}
}
