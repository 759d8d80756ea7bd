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

type PgxSpaceRepository struct {
	db *pgxpool.Pool
}

func newPgxSpaceRepository(db *pgxpool.Pool) portsrepo.SpaceRepositoryFacade {
	return &PgxSpaceRepository{db: db}
}

var _ portsrepo.SpaceRepositoryFacade = (*PgxSpaceRepository)(nil)

// Helper to convert domain.Space to models.Space
func toModelSpace(d domain.Space) models.Space {
	return models.Space{
		SpaceID:     d.SpaceID,
		Name:        d.Name,
		Type:        string(d.Type),
		Capacity:    d.Capacity,
		HourlyRate:  d.HourlyRate,
		Amenities:   d.Amenities,
		Description: nullString(d.Description),
		Location:    nullString(d.Location),
		ImageURL:    nullString(d.ImageURL),
		IsAvailable: d.IsAvailable,
		Status:      string(d.Status),
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

// Helper to convert models.Space to domain.Space
func toDomainSpace(m models.Space) domain.Space {
	return domain.Space{
		SpaceID:     m.SpaceID,
		Name:        m.Name,
		Type:        domain.SpaceType(m.Type),
		Capacity:    m.Capacity,
		HourlyRate:  m.HourlyRate,
		Amenities:   m.Amenities,
		Description: m.Description.String,
		Location:    m.Location.String,
		ImageURL:    m.ImageURL.String,
		IsAvailable: m.IsAvailable,
		Status:      domain.SpaceStatus(m.Status),
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const spaceColumns = `space_id, name, type, capacity, hourly_rate, amenities, description, location,
		image_url, is_available, status, created_at, created_by, last_updated_at, last_updated_by`

func scanSpace(row pgx.Row) (models.Space, error) {
	var m models.Space
	err := row.Scan(
		&m.SpaceID, &m.Name, &m.Type, &m.Capacity, &m.HourlyRate, &m.Amenities, &m.Description, &m.Location,
		&m.ImageURL, &m.IsAvailable, &m.Status, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxSpaceRepository) SaveSpace(ctx context.Context, space domain.Space) error {
	m := toModelSpace(space)
	query := `
		INSERT INTO spaces (space_id, name, type, capacity, hourly_rate, amenities, description, location,
			image_url, is_available, status, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.db.Exec(ctx, query,
		m.SpaceID, m.Name, m.Type, m.Capacity, m.HourlyRate, m.Amenities, m.Description, m.Location,
		m.ImageURL, m.IsAvailable, m.Status, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: space with name %q already exists", apperrors.ErrDuplicate, space.Name)
		}
		return fmt.Errorf("failed to save space: %w", err)
	}
	return nil
}

func (r *PgxSpaceRepository) FindSpaceByID(ctx context.Context, spaceID string) (*domain.Space, error) {
	query := `SELECT ` + spaceColumns + ` FROM spaces WHERE space_id = $1;`
	m, err := scanSpace(r.db.QueryRow(ctx, query, spaceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find space by ID %s: %w", spaceID, err)
	}
	domainSpace := toDomainSpace(m)
	return &domainSpace, nil
}

func spaceFilterWhere(filter portsrepo.ListSpacesFilter) (string, []any) {
	where := `WHERE TRUE`
	args := []any{}
	idx := 1
	if filter.Type != "" {
		where += fmt.Sprintf(" AND type = $%d", idx)
		args = append(args, filter.Type)
		idx++
	}
	if filter.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, filter.Status)
		idx++
	}
	if filter.MinCapacity > 0 {
		where += fmt.Sprintf(" AND capacity >= $%d", idx)
		args = append(args, filter.MinCapacity)
		idx++
	}
	if filter.MaxRate != nil {
		where += fmt.Sprintf(" AND hourly_rate <= $%d", idx)
		args = append(args, *filter.MaxRate)
		idx++
	}
	return where, args
}

func (r *PgxSpaceRepository) FindSpaces(ctx context.Context, filter portsrepo.ListSpacesFilter) ([]domain.Space, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	where, args := spaceFilterWhere(filter)
	query := fmt.Sprintf(`SELECT %s FROM spaces %s ORDER BY name ASC LIMIT $%d OFFSET $%d;`,
		spaceColumns, where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query spaces: %w", err)
	}
	defer rows.Close()

	var spaces []domain.Space
	for rows.Next() {
		m, err := scanSpace(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan space row: %w", err)
		}
		spaces = append(spaces, toDomainSpace(m))
	}
	return spaces, rows.Err()
}

func (r *PgxSpaceRepository) CountSpaces(ctx context.Context, filter portsrepo.ListSpacesFilter) (int, error) {
	where, args := spaceFilterWhere(filter)
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM spaces `+where+`;`, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count spaces: %w", err)
	}
	return count, nil
}

func (r *PgxSpaceRepository) UpdateSpace(ctx context.Context, space domain.Space) error {
	m := toModelSpace(space)
	query := `
		UPDATE spaces SET
			name = $2, type = $3, capacity = $4, hourly_rate = $5, amenities = $6,
			description = $7, location = $8, image_url = $9, is_available = $10, status = $11,
			last_updated_at = $12, last_updated_by = $13
		WHERE space_id = $1;
	`
	tag, err := r.db.Exec(ctx, query,
		m.SpaceID,
		m.Name, m.Type, m.Capacity, m.HourlyRate, m.Amenities,
		m.Description, m.Location, m.ImageURL, m.IsAvailable, m.Status,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: space with name %q already exists", apperrors.ErrDuplicate, space.Name)
		}
		return fmt.Errorf("failed to update space %s: %w", space.SpaceID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxSpaceRepository) DeleteSpace(ctx context.Context, spaceID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM spaces WHERE space_id = $1;`, spaceID)
	if err != nil {
		return fmt.Errorf("failed to delete space %s: %w", spaceID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
