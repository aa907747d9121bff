package domain

import (
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// Password length bounds. bcrypt ignores input past 72 bytes, so longer
// passwords are rejected rather than silently truncated.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

// User owns apartments. Only the hash of the password is kept.
type User struct {
	id             string
	email          string
	hashedPassword string
	fullName       *string
	isActive       bool
	isSuperuser    bool
	createdAt      time.Time
}

// NewUser creates an active user. email is normalized to lower case.
func NewUser(id, email, hashedPassword string, fullName *string, isSuperuser bool, now time.Time) (*User, error) {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if fullName != nil && utf8.RuneCountInString(*fullName) > 200 {
		return nil, ErrInvalidFullName
	}

	return &User{
		id:             id,
		email:          normalized,
		hashedPassword: hashedPassword,
		fullName:       fullName,
		isActive:       true,
		isSuperuser:    isSuperuser,
		createdAt:      now,
	}, nil
}

// ReconstructUser rebuilds a user loaded from storage.
func ReconstructUser(id, email, hashedPassword string, fullName *string, isActive, isSuperuser bool, createdAt time.Time) *User {
	return &User{
		id:             id,
		email:          email,
		hashedPassword: hashedPassword,
		fullName:       fullName,
		isActive:       isActive,
		isSuperuser:    isSuperuser,
		createdAt:      createdAt,
	}
}

func (u *User) ID() string             { return u.id }
func (u *User) Email() string          { return u.email }
func (u *User) HashedPassword() string { return u.hashedPassword }
func (u *User) FullName() *string      { return u.fullName }
func (u *User) IsActive() bool         { return u.isActive }
func (u *User) IsSuperuser() bool      { return u.isSuperuser }
func (u *User) CreatedAt() time.Time   { return u.createdAt }

// CheckPassword reports whether password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.hashedPassword), []byte(password)) == nil
}

// NormalizeEmail trims and lower-cases an address and rejects anything that
// is not a bare addr-spec.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(email) > 254 {
		return "", ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}

// HashPassword validates the length bounds and hashes password with bcrypt.
func HashPassword(password string, cost int) (string, error) {
	if len(password) < MinPasswordLength || len(password) > MaxPasswordLength {
		return "", ErrInvalidPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
