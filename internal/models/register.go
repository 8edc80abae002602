package models

// RegisterRequest represents the JSON body for user registration
// swagger:model RegisterRequest
type RegisterRequest struct {
	// Username
	// required: true
	// example: elminster
	Username string `json:"username" validate:"required,min=3,max=50"`

	// Password
	// required: true
	// example: secret123
	Password string `json:"password" validate:"required,min=6"`

	// Email, stored lowercased
	// required: true
	// example: elminster@example.com
	Email string `json:"email" validate:"required,email"`
}

// RegisterResponse represents a successful registration response
// swagger:model RegisterResponse
type RegisterResponse struct {
	// Success message
	// example: User registered successfully
	Message string `json:"message"`

	// Created account
	User *UserProfile `json:"user,omitempty"`
}

// RegisterErrorResponse represents an error response for registration
// swagger:model RegisterErrorResponse
type RegisterErrorResponse struct {
	// Error message
	// example: Username or email already exists
	Error string `json:"error"`
}
