package models

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Phone    string `json:"phone" validate:"required,notblank,phone"`
	Password string `json:"password" validate:"required,notblank,min=6"`
}

// RegisterRequest is the body of POST /api/auth/register. Email is optional;
// an empty string is treated as absent.
type RegisterRequest struct {
	FirstName            string  `json:"first_name" validate:"required,notblank,max=255"`
	LastName             string  `json:"last_name" validate:"required,notblank,max=255"`
	Phone                string  `json:"phone" validate:"required,notblank,phone"`
	Email                *string `json:"email" validate:"omitempty,email,max=255"`
	Password             string  `json:"password" validate:"required,notblank,min=6,max_bytes=72,password_strength,eqfield=PasswordConfirmation"`
	PasswordConfirmation string  `json:"password_confirmation"`
}

// TokenResponse is returned by login and refresh.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	User        *User  `json:"user"`
}

// RegisterResponse is returned by register.
type RegisterResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	Status  int    `json:"status"`
}

// MessageResponse is returned by logout.
type MessageResponse struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// UserResponse is returned by me.
type UserResponse struct {
	User *User `json:"user"`
}
