package dto

// SignupForm carries the urlencoded fields of a POST /signup request.
// Usernames have no format constraint, so only presence is validated.
type SignupForm struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// LoginForm carries the urlencoded fields of a POST /login request.
type LoginForm struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}
