package domain

import "time"

// UserRole enumerates the access roles a user may hold.
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleMember UserRole = "member"
	RoleStaff  UserRole = "staff"
)

// MembershipType enumerates the membership tiers.
type MembershipType string

const (
	MembershipBasic      MembershipType = "basic"
	MembershipPremium    MembershipType = "premium"
	MembershipEnterprise MembershipType = "enterprise"
)

// UserStatus enumerates account states.
type UserStatus string

const (
	UserActive    UserStatus = "active"
	UserInactive  UserStatus = "inactive"
	UserSuspended UserStatus = "suspended"
)

// NotificationPreferences controls which notification categories a user receives.
type NotificationPreferences struct {
	EmailNotifications bool `json:"emailNotifications"`
	BookingReminders   bool `json:"bookingReminders"`
	PaymentReminders   bool `json:"paymentReminders"`
	PromotionalEmails  bool `json:"promotionalEmails"`
}

// DefaultNotificationPreferences returns the preferences applied at registration.
func DefaultNotificationPreferences() NotificationPreferences {
	return NotificationPreferences{
		EmailNotifications: true,
		BookingReminders:   true,
		PaymentReminders:   true,
		PromotionalEmails:  false,
	}
}

// BillingAddress is the user's billing address, stored as a JSON document.
type BillingAddress struct {
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
}

// User represents a platform user in the domain.
type User struct {
	UserID           string         `json:"userID"`
	Username         string         `json:"username"`
	Email            string         `json:"email"`
	PasswordHash     string         `json:"-"`
	Role             UserRole       `json:"role"`
	MembershipType   MembershipType `json:"membershipType"`
	Status           UserStatus     `json:"status"`
	StripeCustomerID string         `json:"-"`
	PhoneNumber      string         `json:"phoneNumber,omitempty"`
	Company          string         `json:"company,omitempty"`
	ProfilePicture   string         `json:"profilePicture,omitempty"`

	BillingAddress          *BillingAddress         `json:"billingAddress,omitempty"`
	NotificationPreferences NotificationPreferences `json:"notificationPreferences"`

	TwoFactorEnabled bool   `json:"twoFactorEnabled"`
	TwoFactorSecret  string `json:"-"`

	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	// DeletionRequestedAt marks a pending account deletion request; the account
	// is not destroyed immediately.
	DeletionRequestedAt *time.Time `json:"deletionRequestedAt,omitempty"`

	AuditFields
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
