package postgresql

import (
	"context"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/database"
)

type settingsRepositoryImpl struct {
	db database.Pool
}

func NewSettingsRepository(db database.Pool) policy.SettingsRepository {
	return &settingsRepositoryImpl{db: db}
}

// GetAll implements policy.SettingsRepository.
func (r *settingsRepositoryImpl) GetAll(ctx context.Context) ([]policy.Setting, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT key, value_text, value_int, value_bool, updated_at
		FROM system_settings
		ORDER BY key
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, database.Wrap("get settings", err)
	}
	defer rows.Close()

	var settings []policy.Setting
	for rows.Next() {
		var s policy.Setting
		if err := rows.Scan(&s.Key, &s.ValueText, &s.ValueInt, &s.ValueBool, &s.UpdatedAt); err != nil {
			return nil, database.Wrap("scan setting", err)
		}
		settings = append(settings, s)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Wrap("iterate settings", err)
	}

	return settings, nil
}

// Upsert implements policy.SettingsRepository.
func (r *settingsRepositoryImpl) Upsert(ctx context.Context, settings []policy.Setting) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO system_settings (key, value_text, value_int, value_bool, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (key) DO UPDATE SET
			value_text = EXCLUDED.value_text,
			value_int = EXCLUDED.value_int,
			value_bool = EXCLUDED.value_bool,
			updated_at = EXCLUDED.updated_at
	`

	for _, s := range settings {
		if _, err := q.Exec(ctx, query, s.Key, nullableText(s.ValueText), nullableInt(s.ValueInt), nullableBool(s.ValueBool)); err != nil {
			return database.Wrap("upsert setting "+s.Key, err)
		}
	}

	return nil
}

func nullableBool(b *bool) any {
	if b == nil {
		return nil
	}
	return *b
}
