package domain

import (
	"errors"
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// User validation errors.
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrEmptyUsername       = errors.New("username cannot be empty")
	ErrUsernameTooShort    = errors.New("username must be at least 3 characters long")
	ErrUsernameTooLong     = errors.New("username must be at most 150 characters long")
	ErrInvalidUsername     = errors.New("username may only contain letters, digits and @/./+/-/_")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// Username and email format constraints. Usernames are limited to the
// conventional letters/digits/@/./+/-/_ character set.
var (
	usernameRegex = regexp.MustCompile(`^[A-Za-z0-9@.+_-]+$`)
	emailRegex    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// User represents a registered account. Plaintext passwords never reach
// this type; only the bcrypt hash is carried and it is never serialized.
type User struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new User with the given username, email and password
// hash. It generates a new UUID for the user ID and sets the
// creation/update timestamps. Returns an error if validation fails.
func NewUser(username, email, hashedPassword string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:             uuid.New(),
		Username:       username,
		Email:          email,
		HashedPassword: hashedPassword,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	// Lengths count runes, not bytes, matching the request validator.
	switch nameLen := utf8.RuneCountInString(u.Username); {
	case u.Username == "":
		return ErrEmptyUsername
	case nameLen < 3:
		return ErrUsernameTooShort
	case nameLen > 150:
		return ErrUsernameTooLong
	case !usernameRegex.MatchString(u.Username):
		return ErrInvalidUsername
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}
	if !emailRegex.MatchString(u.Email) {
		return ErrInvalidEmail
	}

	if u.HashedPassword == "" {
		return ErrEmptyHashedPassword
	}

	return nil
}
