package services

import "errors"

// Validation bounds for recipe writes.
const (
	MinAmount      = 1
	MaxAmount      = 32000
	MinCookingTime = 1
	MaxCookingTime = 1440
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrUserNotFound       = errors.New("user not found")
	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrNotOwner           = errors.New("only the author may modify a recipe")
	ErrRelationExists     = errors.New("relation already exists")
	ErrRelationMissing    = errors.New("relation does not exist")
	ErrSelfSubscribe      = errors.New("cannot subscribe to yourself")
)

// ValidationError carries field-keyed messages; handlers render it as a 400
// body with a fields map.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	for field, msg := range e.Fields {
		return field + ": " + msg
	}
	return "validation failed"
}

func newValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}
