package policy

import "context"

// SettingsRepository is the persistence side of the policy store.
type SettingsRepository interface {
	// GetAll returns every stored setting row
	GetAll(ctx context.Context) ([]Setting, error)

	// Upsert writes rows keyed by Setting.Key
	Upsert(ctx context.Context, settings []Setting) error
}

// Load reads the policy currently in force.
func Load(ctx context.Context, repo SettingsRepository) (Snapshot, error) {
	rows, err := repo.GetAll(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return FromSettings(rows), nil
}
