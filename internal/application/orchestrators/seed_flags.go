package orchestrators

import (
	"context"
	"log/slog"

	featureflagStore "clubhouse/internal/adapters/storage/featureflag"
	"clubhouse/internal/domain/featureflag"
)

// ExecuteSeedFeatureFlags inserts any default flags missing from storage.
// Flags an admin already toggled are left alone.
// PRE: Database is initialized
// POST: Every key in DefaultFlags exists in the feature_flag table
func ExecuteSeedFeatureFlags(ctx context.Context, store featureflagStore.Store) error {
	for _, flag := range featureflag.DefaultFlags() {
		if _, err := store.GetByKey(ctx, flag.Key); err == nil {
			continue
		}
		if err := store.Save(ctx, flag); err != nil {
			return err
		}
		slog.Info("featureflag_event", "event", "flag_seeded", "key", flag.Key)
	}
	return nil
}
