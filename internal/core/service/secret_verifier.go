package service

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"

	"github.com/swasthya/child-health-system/internal/core/domain"
)

// SecretVerifier abstracts how stored credential material is produced and
// checked, so the storage format is pluggable (bcrypt for production, plain
// equality for demo seed rows). Verify must return
// domain.ErrInvalidCredentials on any mismatch.
type SecretVerifier interface {
	Hash(secret string) (string, error)
	Verify(stored, presented string) error
}

// BcryptVerifier stores secrets as bcrypt hashes.
type BcryptVerifier struct {
	// Cost is the bcrypt work factor. Zero means bcrypt.DefaultCost.
	Cost int
}

func (v BcryptVerifier) Hash(secret string) (string, error) {
	cost := v.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (v BcryptVerifier) Verify(stored, presented string) error {
	if bcrypt.CompareHashAndPassword([]byte(stored), []byte(presented)) != nil {
		return domain.ErrInvalidCredentials
	}
	return nil
}

// PlainVerifier compares secrets directly. Only for demo/legacy rows that
// were seeded unhashed; comparison is constant-time.
type PlainVerifier struct{}

func (PlainVerifier) Hash(secret string) (string, error) {
	return secret, nil
}

func (PlainVerifier) Verify(stored, presented string) error {
	if subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) != 1 {
		return domain.ErrInvalidCredentials
	}
	return nil
}
