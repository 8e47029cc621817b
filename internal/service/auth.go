package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/todochat/todochat/internal/auth"
	"github.com/todochat/todochat/internal/repository"
)

const (
	minPasswordLen = 6
	maxPasswordLen = 72
)

// TokenIssuer is satisfied by auth.TokenIssuer; it is an interface so
// tests can inject a deterministic implementation.
type TokenIssuer interface {
	Issue(subject string) (string, error)
	Verify(token string) (subject, jti string, err error)
}

// AuthService handles signup, login, and logout. Tokens are HS256 JWTs
// keyed by email; logout revokes the token's jti.
type AuthService struct {
	userRepo    repository.UserRepository
	revokedRepo repository.RevokedTokenRepository
	tokens      TokenIssuer
}

func NewAuthService(userRepo repository.UserRepository, revokedRepo repository.RevokedTokenRepository, tokens TokenIssuer) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		revokedRepo: revokedRepo,
		tokens:      tokens,
	}
}

type SignUpInput struct {
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type TokenOutput struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// SignUp registers a user and logs them straight in.
func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) (TokenOutput, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" || !strings.Contains(email, "@") {
		return TokenOutput{}, fmt.Errorf("%w: a valid email is required", ErrInvalidInput)
	}
	if len(input.Password) < minPasswordLen || len(input.Password) > maxPasswordLen {
		return TokenOutput{}, fmt.Errorf("%w: password must be %d-%d characters", ErrInvalidInput, minPasswordLen, maxPasswordLen)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return TokenOutput{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.Create(ctx, email, hash)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return TokenOutput{}, fmt.Errorf("%w: email already registered", ErrConflict)
		}
		return TokenOutput{}, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issueToken(user.Email)
}

// Login verifies credentials. Unknown email and wrong password produce
// the same error so the endpoint cannot be used to enumerate users.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (TokenOutput, error) {
	if input.Email == "" || input.Password == "" {
		return TokenOutput{}, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TokenOutput{}, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
		}
		return TokenOutput{}, fmt.Errorf("failed to get user: %w", err)
	}

	ok, err := auth.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return TokenOutput{}, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return TokenOutput{}, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	return s.issueToken(user.Email)
}

// Logout revokes the presented token's jti. Revoking an already
// revoked token succeeds.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	_, jti, err := s.tokens.Verify(token)
	if err != nil {
		return fmt.Errorf("%w: invalid token", ErrUnauthorized)
	}

	if err := s.revokedRepo.Revoke(ctx, jti); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (s *AuthService) issueToken(email string) (TokenOutput, error) {
	token, err := s.tokens.Issue(email)
	if err != nil {
		return TokenOutput{}, fmt.Errorf("failed to issue token: %w", err)
	}
	return TokenOutput{AccessToken: token, TokenType: "bearer"}, nil
}
