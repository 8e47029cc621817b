package service_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/todochat/todochat/internal/auth"
	"github.com/todochat/todochat/internal/model"
	"github.com/todochat/todochat/internal/repository"
	"github.com/todochat/todochat/internal/service"
)

type mockUserRepo struct {
	createFn     func(ctx context.Context, email, passwordHash string) (model.User, error)
	getByEmailFn func(ctx context.Context, email string) (model.User, error)
	getByIDFn    func(ctx context.Context, id int64) (model.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, email, passwordHash string) (model.User, error) {
	return m.createFn(ctx, email, passwordHash)
}
func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return m.getByEmailFn(ctx, email)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (model.User, error) {
	return m.getByIDFn(ctx, id)
}

type mockRevokedRepo struct {
	revokeFn    func(ctx context.Context, jti string) error
	isRevokedFn func(ctx context.Context, jti string) (bool, error)
}

func (m *mockRevokedRepo) Revoke(ctx context.Context, jti string) error {
	return m.revokeFn(ctx, jti)
}
func (m *mockRevokedRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return m.isRevokedFn(ctx, jti)
}

type mockIssuer struct {
	issueFn  func(subject string) (string, error)
	verifyFn func(token string) (subject, jti string, err error)
}

func (m *mockIssuer) Issue(subject string) (string, error) { return m.issueFn(subject) }
func (m *mockIssuer) Verify(token string) (string, string, error) {
	return m.verifyFn(token)
}

func staticIssuer() *mockIssuer {
	return &mockIssuer{
		issueFn: func(subject string) (string, error) { return "token-for-" + subject, nil },
		verifyFn: func(token string) (string, string, error) {
			return "user@example.com", "jti-1", nil
		},
	}
}

func TestSignUp(t *testing.T) {
	tests := []struct {
		name      string
		input     service.SignUpInput
		createErr error
		wantErr   error
	}{
		{
			name:  "success",
			input: service.SignUpInput{Email: "user@example.com", Password: "s3cret"},
		},
		{
			name:    "invalid email",
			input:   service.SignUpInput{Email: "not-an-email", Password: "s3cret"},
			wantErr: service.ErrInvalidInput,
		},
		{
			name:    "password too short",
			input:   service.SignUpInput{Email: "user@example.com", Password: "ab"},
			wantErr: service.ErrInvalidInput,
		},
		{
			name:    "password too long",
			input:   service.SignUpInput{Email: "user@example.com", Password: strings.Repeat("a", 73)},
			wantErr: service.ErrInvalidInput,
		},
		{
			name:      "duplicate email",
			input:     service.SignUpInput{Email: "user@example.com", Password: "s3cret"},
			createErr: repository.ErrDuplicateEmail,
			wantErr:   service.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &mockUserRepo{
				createFn: func(ctx context.Context, email, passwordHash string) (model.User, error) {
					if tt.createErr != nil {
						return model.User{}, tt.createErr
					}
					if passwordHash == tt.input.Password {
						t.Error("password stored without hashing")
					}
					return model.User{ID: 1, Email: email, PasswordHash: passwordHash}, nil
				},
			}
			svc := service.NewAuthService(users, &mockRevokedRepo{}, staticIssuer())
			got, err := svc.SignUp(context.Background(), tt.input)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.AccessToken == "" {
				t.Error("expected an access token")
			}
			if got.TokenType != "bearer" {
				t.Errorf("expected token_type=bearer, got %q", got.TokenType)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	hash, err := auth.HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	tests := []struct {
		name    string
		input   service.LoginInput
		getFn   func(ctx context.Context, email string) (model.User, error)
		wantErr error
	}{
		{
			name:  "success",
			input: service.LoginInput{Email: "user@example.com", Password: "s3cret"},
			getFn: func(ctx context.Context, email string) (model.User, error) {
				return model.User{ID: 1, Email: email, PasswordHash: hash}, nil
			},
		},
		{
			name:    "missing fields",
			input:   service.LoginInput{Email: "user@example.com"},
			wantErr: service.ErrInvalidInput,
		},
		{
			name:  "unknown email",
			input: service.LoginInput{Email: "ghost@example.com", Password: "s3cret"},
			getFn: func(ctx context.Context, email string) (model.User, error) {
				return model.User{}, sql.ErrNoRows
			},
			wantErr: service.ErrUnauthorized,
		},
		{
			name:  "wrong password",
			input: service.LoginInput{Email: "user@example.com", Password: "nope"},
			getFn: func(ctx context.Context, email string) (model.User, error) {
				return model.User{ID: 1, Email: email, PasswordHash: hash}, nil
			},
			wantErr: service.ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &mockUserRepo{getByEmailFn: tt.getFn}
			svc := service.NewAuthService(users, &mockRevokedRepo{}, staticIssuer())
			got, err := svc.Login(context.Background(), tt.input)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.AccessToken == "" {
				t.Error("expected an access token")
			}
		})
	}
}

// Unknown email and wrong password must be indistinguishable to the
// caller.
func TestLogin_NoUserEnumeration(t *testing.T) {
	hash, err := auth.HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	users := &mockUserRepo{
		getByEmailFn: func(ctx context.Context, email string) (model.User, error) {
			if email == "known@example.com" {
				return model.User{ID: 1, Email: email, PasswordHash: hash}, nil
			}
			return model.User{}, sql.ErrNoRows
		},
	}
	svc := service.NewAuthService(users, &mockRevokedRepo{}, staticIssuer())

	_, errUnknown := svc.Login(context.Background(), service.LoginInput{Email: "ghost@example.com", Password: "nope"})
	_, errWrongPw := svc.Login(context.Background(), service.LoginInput{Email: "known@example.com", Password: "nope"})

	if errUnknown == nil || errWrongPw == nil {
		t.Fatal("expected both logins to fail")
	}
	if errUnknown.Error() != errWrongPw.Error() {
		t.Errorf("errors differ: %q vs %q", errUnknown, errWrongPw)
	}
}

func TestLogout(t *testing.T) {
	tests := []struct {
		name      string
		verifyErr error
		revokeErr error
		wantErr   error
	}{
		{name: "success"},
		{name: "invalid token", verifyErr: auth.ErrInvalidToken, wantErr: service.ErrUnauthorized},
		{name: "revoke failure", revokeErr: fmt.Errorf("db error")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var revokedJTI string
			issuer := &mockIssuer{
				verifyFn: func(token string) (string, string, error) {
					if tt.verifyErr != nil {
						return "", "", tt.verifyErr
					}
					return "user@example.com", "jti-1", nil
				},
			}
			revoked := &mockRevokedRepo{
				revokeFn: func(ctx context.Context, jti string) error {
					revokedJTI = jti
					return tt.revokeErr
				},
			}
			svc := service.NewAuthService(&mockUserRepo{}, revoked, issuer)
			err := svc.Logout(context.Background(), "some-token")

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if tt.revokeErr != nil {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if revokedJTI != "jti-1" {
				t.Errorf("expected jti-1 revoked, got %q", revokedJTI)
			}
		})
	}
}
