package jwt

import (
	"testing"
	"time"
)

func TestGenerateToken(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		username   string
		expiration time.Duration
		secret     string
	}{
		{
			name:       "valid token generation",
			userID:     "user-123",
			username:   "alice",
			expiration: 15 * time.Minute,
			secret:     "test-secret-key-32-characters!",
		},
		{
			name:       "short expiration",
			userID:     "user-456",
			username:   "bob",
			expiration: 1 * time.Second,
			secret:     "test-secret",
		},
		{
			name:       "long expiration",
			userID:     "user-789",
			username:   "carol",
			expiration: 24 * time.Hour,
			secret:     "test-secret",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := GenerateToken(tt.userID, tt.username, tt.expiration, tt.secret)
			if err != nil {
				t.Errorf("GenerateToken() error = %v", err)
				return
			}

			if token == "" {
				t.Error("GenerateToken() returned empty token")
			}

			claims, err := ValidateToken(token, tt.secret)
			if err != nil {
				t.Errorf("ValidateToken() error = %v", err)
				return
			}
			if claims.UserID != tt.userID {
				t.Errorf("claims.UserID = %v, want %v", claims.UserID, tt.userID)
			}
			if claims.Username != tt.username {
				t.Errorf("claims.Username = %v, want %v", claims.Username, tt.username)
			}
			if claims.TokenType != "access" {
				t.Errorf("claims.TokenType = %v, want access", claims.TokenType)
			}
		})
	}
}

func TestValidateToken(t *testing.T) {
	secret := "validation-test-secret"
	validToken, _ := GenerateToken("user-id", "alice", 1*time.Hour, secret)
	expiredToken, _ := GenerateToken("user-id", "alice", -1*time.Hour, secret)
	otherSecretToken, _ := GenerateToken("user-id", "alice", 1*time.Hour, "other-secret")

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{
			name:    "valid token",
			token:   validToken,
			wantErr: false,
		},
		{
			name:    "expired token",
			token:   expiredToken,
			wantErr: true,
		},
		{
			name:    "wrong secret",
			token:   otherSecretToken,
			wantErr: true,
		},
		{
			name:    "invalid token",
			token:   "invalid.token.format",
			wantErr: true,
		},
		{
			name:    "empty token",
			token:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateToken(tt.token, secret)

			if tt.wantErr {
				if err == nil {
					t.Error("ValidateToken() expected error but got none")
				}
				return
			}

			if err != nil {
				t.Errorf("ValidateToken() unexpected error = %v", err)
				return
			}

			if claims == nil {
				t.Error("ValidateToken() returned nil claims")
			}
		})
	}
}

func TestRefreshTokenType(t *testing.T) {
	secret := "refresh-test-secret"
	token, err := GenerateRefreshToken("user-id", "alice", 7*24*time.Hour, secret)
	if err != nil {
		t.Fatalf("GenerateRefreshToken() error = %v", err)
	}

	claims, err := ValidateToken(token, secret)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}

	if claims.TokenType != "refresh" {
		t.Errorf("claims.TokenType = %v, want refresh", claims.TokenType)
	}
}
