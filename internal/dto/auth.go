package dto

// RegisterUserRequest defines the data needed to register a new user.
type RegisterUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone" binding:"omitempty,max=30"`
	Company  string `json:"company" binding:"omitempty,max=100"`
}

// LoginRequest defines the data needed for user login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	// TOTPCode must accompany the login when the account has 2FA enabled.
	TOTPCode string `json:"totpCode" binding:"omitempty,len=6"`
}

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// ChangePasswordRequest defines the data needed to change the caller's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// TwoFactorSetupResponse carries the provisioning data for enabling TOTP.
type TwoFactorSetupResponse struct {
	Secret     string `json:"secret"`
	OTPAuthURL string `json:"otpauthUrl"`
}

// TwoFactorVerifyRequest confirms a TOTP setup or disables 2FA.
type TwoFactorVerifyRequest struct {
	Code string `json:"code" binding:"required,len=6"`
}
