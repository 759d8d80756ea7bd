package pgsql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/CoWorkHub/coworking_booking_app/internal/core/domain"
	portsrepo "github.com/CoWorkHub/coworking_booking_app/internal/core/ports/repositories"
	"github.com/CoWorkHub/coworking_booking_app/internal/models"
)

type PgxActivityRepository struct {
	db *pgxpool.Pool
}

func newPgxActivityRepository(db *pgxpool.Pool) portsrepo.ActivityRepositoryFacade {
	return &PgxActivityRepository{db: db}
}

var _ portsrepo.ActivityRepositoryFacade = (*PgxActivityRepository)(nil)

func toDomainActivity(m models.Activity) domain.Activity {
	d := domain.Activity{
		ActivityID:  m.ActivityID,
		UserID:      m.UserID,
		Type:        domain.ActivityType(m.Type),
		Description: m.Description,
		OccurredAt:  m.OccurredAt,
	}
	if len(m.Metadata) > 0 {
		_ = json.Unmarshal(m.Metadata, &d.Metadata)
	}
	return d
}

func (r *PgxActivityRepository) SaveActivity(ctx context.Context, activity domain.Activity) error {
	var metadata []byte
	if activity.Metadata != nil {
		var err error
		metadata, err = json.Marshal(activity.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal activity metadata: %w", err)
		}
	}
	query := `
		INSERT INTO activities (activity_id, user_id, type, description, metadata, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.db.Exec(ctx, query,
		activity.ActivityID, activity.UserID, string(activity.Type), activity.Description, metadata, activity.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save activity: %w", err)
	}
	return nil
}

func activityFilterWhere(filter portsrepo.ListActivitiesFilter) (string, []any) {
	where := `WHERE TRUE`
	args := []any{}
	idx := 1
	if filter.UserID != "" {
		where += fmt.Sprintf(" AND user_id = $%d", idx)
		args = append(args, filter.UserID)
		idx++
	}
	if filter.Type != "" {
		where += fmt.Sprintf(" AND type = $%d", idx)
		args = append(args, filter.Type)
		idx++
	}
	return where, args
}

func (r *PgxActivityRepository) FindActivities(ctx context.Context, filter portsrepo.ListActivitiesFilter) ([]domain.Activity, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	where, args := activityFilterWhere(filter)
	query := fmt.Sprintf(`
		SELECT activity_id, user_id, type, description, metadata, occurred_at
		FROM activities %s ORDER BY occurred_at DESC LIMIT $%d OFFSET $%d;`,
		where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	defer rows.Close()

	var activities []domain.Activity
	for rows.Next() {
		var m models.Activity
		if err := rows.Scan(&m.ActivityID, &m.UserID, &m.Type, &m.Description, &m.Metadata, &m.OccurredAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		activities = append(activities, toDomainActivity(m))
	}
	return activities, rows.Err()
}

func (r *PgxActivityRepository) CountActivities(ctx context.Context, filter portsrepo.ListActivitiesFilter) (int, error) {
	where, args := activityFilterWhere(filter)
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM activities `+where+`;`, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count activities: %w", err)
	}
	return count, nil
}
