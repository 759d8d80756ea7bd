package models

import (
	"database/sql"
	"time"
)

// User is the database representation of a platform user.
// BillingAddress and NotificationPreferences are stored as JSONB documents.
type User struct {
	UserID           string         `db:"user_id"`
	Username         string         `db:"username"`
	Email            string         `db:"email"`
	PasswordHash     string         `db:"password_hash"`
	Role             string         `db:"role"`
	MembershipType   string         `db:"membership_type"`
	Status           string         `db:"status"`
	StripeCustomerID sql.NullString `db:"stripe_customer_id"`
	PhoneNumber      sql.NullString `db:"phone_number"`
	Company          sql.NullString `db:"company"`
	ProfilePicture   sql.NullString `db:"profile_picture"`

	BillingAddress          []byte `db:"billing_address"`
	NotificationPreferences []byte `db:"notification_preferences"`

	TwoFactorEnabled bool           `db:"two_factor_enabled"`
	TwoFactorSecret  sql.NullString `db:"two_factor_secret"`

	LastLoginAt         sql.NullTime `db:"last_login_at"`
	DeletionRequestedAt sql.NullTime `db:"deletion_requested_at"`

	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}
