package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/swasthya/child-health-system/internal/core/domain"
	"github.com/swasthya/child-health-system/internal/core/ports"
)

const defaultTokenTTL = time.Hour

// AuthService implements registration, login and token verification.
type AuthService struct {
	repo      ports.UserRepository
	secrets   SecretVerifier
	jwtSecret string
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewAuthService(repo ports.UserRepository, secrets SecretVerifier, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if secrets == nil {
		secrets = BcryptVerifier{}
	}
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &AuthService{
		repo:      repo,
		secrets:   secrets,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

// Register creates a new user. The username uniqueness race is left to the
// store's unique index: a concurrent duplicate insert surfaces as
// domain.ErrUserExists.
func (s *AuthService) Register(ctx context.Context, username, password, role string) (*domain.User, error) {
	if username == "" || password == "" || role == "" {
		return nil, domain.ErrValidation
	}
	if !domain.ValidRole(role) {
		return nil, domain.ErrValidation
	}
	if len(password) < 6 {
		return nil, domain.ErrValidation
	}

	hash, err := s.secrets.Hash(password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &domain.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	return s.repo.Create(ctx, user)
}

// Login validates the (username, password, claimedRole) triple and issues a
// signed token. The role is part of the lookup key, and every failure mode
// past input validation collapses into domain.ErrInvalidCredentials so the
// response never reveals which part of the triple was wrong.
func (s *AuthService) Login(ctx context.Context, username, password, claimedRole string) (string, *domain.User, error) {
	if username == "" || password == "" || claimedRole == "" {
		return "", nil, domain.ErrValidation
	}
	if !domain.ValidRole(claimedRole) {
		return "", nil, domain.ErrValidation
	}

	user, err := s.repo.FindByUsernameAndRole(ctx, username, claimedRole)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := s.secrets.Verify(user.PasswordHash, password); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// Verify authenticates the token, then re-resolves the user so the returned
// identity reflects the current database row. A role change takes effect on
// the next request even with an outstanding token; a deleted user kills the
// token outright.
func (s *AuthService) Verify(ctx context.Context, token string) (*domain.Identity, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrInvalidToken
	}
	if !tkn.Valid {
		return nil, domain.ErrInvalidToken
	}

	userID, _ := claims["sub"].(string)
	if userID == "" {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}

	return &domain.Identity{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
	}, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	issued := s.now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"iat":  issued.Unix(),
		"exp":  issued.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
