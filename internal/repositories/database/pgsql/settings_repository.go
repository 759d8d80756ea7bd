package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/CoWorkHub/coworking_booking_app/internal/apperrors"
	"github.com/CoWorkHub/coworking_booking_app/internal/core/domain"
	portsrepo "github.com/CoWorkHub/coworking_booking_app/internal/core/ports/repositories"
	"github.com/CoWorkHub/coworking_booking_app/internal/models"
)

type PgxSettingsRepository struct {
	db *pgxpool.Pool
}

func newPgxSettingsRepository(db *pgxpool.Pool) portsrepo.SettingsRepositoryFacade {
	return &PgxSettingsRepository{db: db}
}

var _ portsrepo.SettingsRepositoryFacade = (*PgxSettingsRepository)(nil)

func toDomainSetting(m models.Setting) domain.Setting {
	return domain.Setting{
		Key:           m.Key,
		Value:         m.Value,
		Description:   m.Description.String,
		LastUpdatedAt: m.LastUpdatedAt,
		LastUpdatedBy: m.LastUpdatedBy.String,
	}
}

func (r *PgxSettingsRepository) FindSettingByKey(ctx context.Context, key string) (*domain.Setting, error) {
	query := `SELECT key, value, description, last_updated_at, last_updated_by FROM settings WHERE key = $1;`
	var m models.Setting
	err := r.db.QueryRow(ctx, query, key).Scan(&m.Key, &m.Value, &m.Description, &m.LastUpdatedAt, &m.LastUpdatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find setting %q: %w", key, err)
	}
	setting := toDomainSetting(m)
	return &setting, nil
}

func (r *PgxSettingsRepository) FindSettings(ctx context.Context) ([]domain.Setting, error) {
	query := `SELECT key, value, description, last_updated_at, last_updated_by FROM settings ORDER BY key ASC;`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	var settings []domain.Setting
	for rows.Next() {
		var m models.Setting
		if err := rows.Scan(&m.Key, &m.Value, &m.Description, &m.LastUpdatedAt, &m.LastUpdatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan setting row: %w", err)
		}
		settings = append(settings, toDomainSetting(m))
	}
	return settings, rows.Err()
}

func (r *PgxSettingsRepository) UpsertSetting(ctx context.Context, setting domain.Setting) error {
	query := `
		INSERT INTO settings (key, value, description, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			description = EXCLUDED.description,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.db.Exec(ctx, query,
		setting.Key, setting.Value, nullString(setting.Description), setting.LastUpdatedAt, nullString(setting.LastUpdatedBy),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert setting %q: %w", setting.Key, err)
	}
	return nil
}

func (r *PgxSettingsRepository) SaveSettingIfAbsent(ctx context.Context, setting domain.Setting) error {
	query := `
		INSERT INTO settings (key, value, description, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (key) DO NOTHING;
	`
	_, err := r.db.Exec(ctx, query,
		setting.Key, setting.Value, nullString(setting.Description), setting.LastUpdatedAt, nullString(setting.LastUpdatedBy),
	)
	if err != nil {
		return fmt.Errorf("failed to seed setting %q: %w", setting.Key, err)
	}
	return nil
}
