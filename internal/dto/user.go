package dto

import (
	"time"

	"github.com/CoWorkHub/coworking_booking_app/internal/core/domain"
)

// UserResponse defines the user data returned by the API.
type UserResponse struct {
	UserID           string     `json:"userID"`
	Username         string     `json:"username"`
	Email            string     `json:"email"`
	Role             string     `json:"role"`
	MembershipType   string     `json:"membershipType"`
	Status           string     `json:"status"`
	PhoneNumber      string     `json:"phoneNumber,omitempty"`
	Company          string     `json:"company,omitempty"`
	ProfilePicture   string     `json:"profilePicture,omitempty"`
	TwoFactorEnabled bool       `json:"twoFactorEnabled"`
	LastLoginAt      *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`

	BillingAddress          *domain.BillingAddress         `json:"billingAddress,omitempty"`
	NotificationPreferences domain.NotificationPreferences `json:"notificationPreferences"`
}

// ToUserResponse converts a domain.User to UserResponse DTO.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:                  u.UserID,
		Username:                u.Username,
		Email:                   u.Email,
		Role:                    string(u.Role),
		MembershipType:          string(u.MembershipType),
		Status:                  string(u.Status),
		PhoneNumber:             u.PhoneNumber,
		Company:                 u.Company,
		ProfilePicture:          u.ProfilePicture,
		TwoFactorEnabled:        u.TwoFactorEnabled,
		LastLoginAt:             u.LastLoginAt,
		CreatedAt:               u.CreatedAt,
		BillingAddress:          u.BillingAddress,
		NotificationPreferences: u.NotificationPreferences,
	}
}

// UpdateProfileRequest defines the data allowed for updating the caller's profile.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdateProfileRequest struct {
	Username    *string `json:"username" binding:"omitempty,min=3,max=50"`
	PhoneNumber *string `json:"phoneNumber" binding:"omitempty,max=30"`
	Company     *string `json:"company" binding:"omitempty,max=100"`

	BillingAddress          *domain.BillingAddress          `json:"billingAddress"`
	NotificationPreferences *domain.NotificationPreferences `json:"notificationPreferences"`
}

// AdminUpdateUserRequest defines the fields an admin may change on any user.
type AdminUpdateUserRequest struct {
	Role           *string `json:"role" binding:"omitempty,oneof=admin member staff"`
	MembershipType *string `json:"membershipType" binding:"omitempty,oneof=basic premium enterprise"`
	Status         *string `json:"status" binding:"omitempty,oneof=active inactive suspended"`
}

// ListUsersParams defines query parameters for listing users.
type ListUsersParams struct {
	Role   string `form:"role" binding:"omitempty,oneof=admin member staff"`
	Status string `form:"status" binding:"omitempty,oneof=active inactive suspended"`
	Search string `form:"search"`
	Limit  int    `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	Offset int    `form:"offset,default=0" binding:"omitempty,min=0"`
}

// ListUsersResponse wraps the list of users.
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
	Total int            `json:"total"`
}

// ToListUsersResponse converts a slice of domain.User to ListUsersResponse DTO.
func ToListUsersResponse(users []domain.User, total int) ListUsersResponse {
	userResponses := make([]UserResponse, len(users))
	for i := range users {
		userResponses[i] = ToUserResponse(&users[i])
	}
	return ListUsersResponse{Users: userResponses, Total: total}
}

// DeleteAccountRequest confirms an account deletion request.
type DeleteAccountRequest struct {
	Password string `json:"password" binding:"required"`
	Reason   string `json:"reason" binding:"omitempty,max=500"`
}
