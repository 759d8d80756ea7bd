package pgsql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/CoWorkHub/coworking_booking_app/internal/apperrors"
	"github.com/CoWorkHub/coworking_booking_app/internal/core/domain"
	portsrepo "github.com/CoWorkHub/coworking_booking_app/internal/core/ports/repositories"
	"github.com/CoWorkHub/coworking_booking_app/internal/models"
)

type PgxUserRepository struct {
	db *pgxpool.Pool
}

func newPgxUserRepository(db *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{db: db}
}

var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// Helper to convert domain.User to models.User
func toModelUser(d domain.User) (models.User, error) {
	prefs, err := json.Marshal(d.NotificationPreferences)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to marshal notification preferences: %w", err)
	}
	var billing []byte
	if d.BillingAddress != nil {
		billing, err = json.Marshal(d.BillingAddress)
		if err != nil {
			return models.User{}, fmt.Errorf("failed to marshal billing address: %w", err)
		}
	}
	return models.User{
		UserID:                  d.UserID,
		Username:                d.Username,
		Email:                   d.Email,
		PasswordHash:            d.PasswordHash,
		Role:                    string(d.Role),
		MembershipType:          string(d.MembershipType),
		Status:                  string(d.Status),
		StripeCustomerID:        nullString(d.StripeCustomerID),
		PhoneNumber:             nullString(d.PhoneNumber),
		Company:                 nullString(d.Company),
		ProfilePicture:          nullString(d.ProfilePicture),
		BillingAddress:          billing,
		NotificationPreferences: prefs,
		TwoFactorEnabled:        d.TwoFactorEnabled,
		TwoFactorSecret:         nullString(d.TwoFactorSecret),
		LastLoginAt:             nullTime(d.LastLoginAt),
		DeletionRequestedAt:     nullTime(d.DeletionRequestedAt),
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}, nil
}

// Helper to convert models.User to domain.User
func toDomainUser(m models.User) domain.User {
	d := domain.User{
		UserID:                  m.UserID,
		Username:                m.Username,
		Email:                   m.Email,
		PasswordHash:            m.PasswordHash,
		Role:                    domain.UserRole(m.Role),
		MembershipType:          domain.MembershipType(m.MembershipType),
		Status:                  domain.UserStatus(m.Status),
		StripeCustomerID:        m.StripeCustomerID.String,
		PhoneNumber:             m.PhoneNumber.String,
		Company:                 m.Company.String,
		ProfilePicture:          m.ProfilePicture.String,
		TwoFactorEnabled:        m.TwoFactorEnabled,
		TwoFactorSecret:         m.TwoFactorSecret.String,
		LastLoginAt:             timePtr(m.LastLoginAt),
		DeletionRequestedAt:     timePtr(m.DeletionRequestedAt),
		NotificationPreferences: domain.DefaultNotificationPreferences(),
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
	if len(m.NotificationPreferences) > 0 {
		_ = json.Unmarshal(m.NotificationPreferences, &d.NotificationPreferences)
	}
	if len(m.BillingAddress) > 0 {
		var billing domain.BillingAddress
		if err := json.Unmarshal(m.BillingAddress, &billing); err == nil {
			d.BillingAddress = &billing
		}
	}
	return d
}

const userColumns = `user_id, username, email, password_hash, role, membership_type, status,
		stripe_customer_id, phone_number, company, profile_picture,
		billing_address, notification_preferences,
		two_factor_enabled, two_factor_secret,
		last_login_at, deletion_requested_at,
		created_at, created_by, last_updated_at, last_updated_by, deleted_at`

func scanUser(row pgx.Row) (models.User, error) {
	var m models.User
	err := row.Scan(
		&m.UserID, &m.Username, &m.Email, &m.PasswordHash, &m.Role, &m.MembershipType, &m.Status,
		&m.StripeCustomerID, &m.PhoneNumber, &m.Company, &m.ProfilePicture,
		&m.BillingAddress, &m.NotificationPreferences,
		&m.TwoFactorEnabled, &m.TwoFactorSecret,
		&m.LastLoginAt, &m.DeletionRequestedAt,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy, &m.DeletedAt,
	)
	return m, err
}

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	m, err := toModelUser(user)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO users (user_id, username, email, password_hash, role, membership_type, status,
			stripe_customer_id, phone_number, company, profile_picture,
			billing_address, notification_preferences,
			two_factor_enabled, two_factor_secret,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
	`
	_, err = r.db.Exec(ctx, query,
		m.UserID, m.Username, m.Email, m.PasswordHash, m.Role, m.MembershipType, m.Status,
		m.StripeCustomerID, m.PhoneNumber, m.Company, m.ProfilePicture,
		m.BillingAddress, m.NotificationPreferences,
		m.TwoFactorEnabled, m.TwoFactorSecret,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: user with this email or username already exists", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1 AND deleted_at IS NULL;`
	m, err := scanUser(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by ID %s: %w", userID, err)
	}
	domainUser := toDomainUser(m)
	return &domainUser, nil
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1) AND deleted_at IS NULL;`
	m, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	domainUser := toDomainUser(m)
	return &domainUser, nil
}

// userFilterWhere builds the WHERE clause and args shared by FindUsers and
// CountUsers.
func userFilterWhere(filter portsrepo.ListUsersFilter) (string, []any) {
	where := `WHERE deleted_at IS NULL`
	args := []any{}
	idx := 1
	if filter.Role != "" {
		where += fmt.Sprintf(" AND role = $%d", idx)
		args = append(args, filter.Role)
		idx++
	}
	if filter.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, filter.Status)
		idx++
	}
	if filter.Search != "" {
		where += fmt.Sprintf(" AND (username ILIKE $%d OR email ILIKE $%d)", idx, idx)
		args = append(args, "%"+filter.Search+"%")
		idx++
	}
	return where, args
}

func (r *PgxUserRepository) FindUsers(ctx context.Context, filter portsrepo.ListUsersFilter) ([]domain.User, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	where, args := userFilterWhere(filter)
	query := fmt.Sprintf(`SELECT %s FROM users %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d;`,
		userColumns, where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		m, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, toDomainUser(m))
	}
	return users, rows.Err()
}

func (r *PgxUserRepository) CountUsers(ctx context.Context, filter portsrepo.ListUsersFilter) (int, error) {
	where, args := userFilterWhere(filter)
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users `+where+`;`, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

func (r *PgxUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	m, err := toModelUser(user)
	if err != nil {
		return err
	}
	query := `
		UPDATE users SET
			username = $2, email = $3, password_hash = $4, role = $5, membership_type = $6, status = $7,
			stripe_customer_id = $8, phone_number = $9, company = $10, profile_picture = $11,
			billing_address = $12, notification_preferences = $13,
			two_factor_enabled = $14, two_factor_secret = $15,
			last_login_at = $16, deletion_requested_at = $17,
			last_updated_at = $18, last_updated_by = $19
		WHERE user_id = $1 AND deleted_at IS NULL;
	`
	tag, err := r.db.Exec(ctx, query,
		m.UserID,
		m.Username, m.Email, m.PasswordHash, m.Role, m.MembershipType, m.Status,
		m.StripeCustomerID, m.PhoneNumber, m.Company, m.ProfilePicture,
		m.BillingAddress, m.NotificationPreferences,
		m.TwoFactorEnabled, m.TwoFactorSecret,
		m.LastLoginAt, m.DeletionRequestedAt,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: user with this email or username already exists", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to update user %s: %w", user.UserID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error {
	query := `
		UPDATE users SET deleted_at = $2, last_updated_at = $2, last_updated_by = $3
		WHERE user_id = $1 AND deleted_at IS NULL;
	`
	tag, err := r.db.Exec(ctx, query, userID, deletedAt, deletedBy)
	if err != nil {
		return fmt.Errorf("failed to mark user %s deleted: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
