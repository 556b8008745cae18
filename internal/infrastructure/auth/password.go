package auth

import (
	"golang.org/x/crypto/bcrypt"

	"tjrates-service/internal/application"
)

// BcryptHasher implements password hashing with bcrypt at the default cost.
type BcryptHasher struct{}

var _ application.PasswordHasher = BcryptHasher{}

func (BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (BcryptHasher) Verify(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
