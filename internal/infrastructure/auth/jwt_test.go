package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/splitemate/ledger/internal/domain"
)

func TestJWTGenerateAndVerify(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)

	token, err := manager.Generate(&domain.User{ID: 42, Email: "ana@example.com", Name: "Ana"})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	claims, err := manager.Verify(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	if claims.UserID != 42 {
		t.Errorf("expected user id 42, got %d", claims.UserID)
	}

	if claims.Email != "ana@example.com" {
		t.Errorf("unexpected email: %s", claims.Email)
	}
}

func TestJWTVerifyExpired(t *testing.T) {
	manager := NewJWTManager("test-secret", -time.Minute)

	token, err := manager.Generate(&domain.User{ID: 1})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, err := manager.Verify(token); !errors.Is(err, domain.ErrExpiredToken) {
		t.Errorf("expected ErrExpiredToken, got %v", err)
	}
}

func TestJWTVerifyWrongSecret(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)

	token, err := manager.Generate(&domain.User{ID: 1})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	other := NewJWTManager("other-secret", time.Hour)
	if _, err := other.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}
