package services

import (
	"errors"
	"testing"
	"time"

	"github.com/foodplate/foodplate-backend/internal/config"
	"github.com/foodplate/foodplate-backend/internal/dto"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 24 * time.Hour,
	}
}

func registerRequest(username string) *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "Test",
		LastName:  "User",
		Password:  "correct-horse",
	}
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc := NewAuthService(newTestDB(t), testConfig())

	resp, err := svc.Register(registerRequest("alice"))
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("Register() returned empty tokens")
	}
	if resp.User.Username != "alice" {
		t.Errorf("Register() user = %+v, want alice", resp.User)
	}

	if _, err := svc.Login(&dto.LoginRequest{Email: "alice@example.com", Password: "correct-horse"}); err != nil {
		t.Errorf("Login() error = %v", err)
	}
	if _, err := svc.Login(&dto.LoginRequest{Email: "alice@example.com", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login(wrong password) error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(&dto.LoginRequest{Email: "nobody@example.com", Password: "correct-horse"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login(unknown email) error = %v, want ErrInvalidCredentials", err)
	}
}

func TestAuthService_RegisterConflicts(t *testing.T) {
	svc := NewAuthService(newTestDB(t), testConfig())

	if _, err := svc.Register(registerRequest("alice")); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	dupEmail := registerRequest("alice2")
	dupEmail.Email = "alice@example.com"
	if _, err := svc.Register(dupEmail); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("Register(dup email) error = %v, want ErrEmailTaken", err)
	}

	dupUsername := registerRequest("alice")
	dupUsername.Email = "other@example.com"
	if _, err := svc.Register(dupUsername); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("Register(dup username) error = %v, want ErrUsernameTaken", err)
	}

	short := registerRequest("bob")
	short.Password = "short"
	var verr *ValidationError
	if _, err := svc.Register(short); !errors.As(err, &verr) {
		t.Errorf("Register(short password) error = %v, want ValidationError", err)
	}
}

func TestAuthService_RefreshRotation(t *testing.T) {
	svc := NewAuthService(newTestDB(t), testConfig())

	resp, err := svc.Register(registerRequest("alice"))
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	rotated, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if rotated.RefreshToken == resp.RefreshToken {
		t.Error("Refresh() did not rotate the refresh token")
	}

	// The old token is revoked after rotation.
	if _, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: resp.RefreshToken}); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Refresh(used token) error = %v, want ErrInvalidToken", err)
	}
}

func TestAuthService_SetPassword(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, testConfig())

	resp, err := svc.Register(registerRequest("alice"))
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	userID := resp.User.ID

	tests := []struct {
		name    string
		req     dto.SetPasswordRequest
		wantErr bool
	}{
		{
			name:    "wrong current password",
			req:     dto.SetPasswordRequest{CurrentPassword: "wrong", NewPassword: "fresh-password"},
			wantErr: true,
		},
		{
			name:    "same password",
			req:     dto.SetPasswordRequest{CurrentPassword: "correct-horse", NewPassword: "correct-horse"},
			wantErr: true,
		},
		{
			name:    "too short",
			req:     dto.SetPasswordRequest{CurrentPassword: "correct-horse", NewPassword: "short"},
			wantErr: true,
		},
		{
			name:    "success",
			req:     dto.SetPasswordRequest{CurrentPassword: "correct-horse", NewPassword: "fresh-password"},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.SetPassword(userID, &tt.req)
			if (err != nil) != tt.wantErr {
				t.Errorf("SetPassword() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	if _, err := svc.Login(&dto.LoginRequest{Email: "alice@example.com", Password: "fresh-password"}); err != nil {
		t.Errorf("Login() with new password error = %v", err)
	}
}
