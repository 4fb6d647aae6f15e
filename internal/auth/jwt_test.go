package auth_test

import (
	"testing"
	"time"

	"github.com/fasttrackbd/courier/internal/auth"
)

func TestGenerateAndVerifyToken(t *testing.T) {
	m := auth.NewManager("test-secret", time.Hour)

	token, err := m.GenerateAccessToken("USER-1", "karim", "client")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	claims, err := m.VerifyAccessToken(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	if claims.UserID != "USER-1" || claims.Username != "karim" || claims.Role != "client" {
		t.Fatalf("claims round trip wrong: %+v", claims)
	}
	if claims.JTI == "" {
		t.Fatalf("expected a token id")
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	m := auth.NewManager("test-secret", -time.Minute)

	token, err := m.GenerateAccessToken("USER-1", "karim", "client")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, err := m.VerifyAccessToken(token); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := auth.NewManager("secret-a", time.Hour)
	verifier := auth.NewManager("secret-b", time.Hour)

	token, err := issuer.GenerateAccessToken("USER-1", "karim", "client")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, err := verifier.VerifyAccessToken(token); err == nil {
		t.Fatalf("expected signature mismatch to be rejected")
	}
}

func TestVerifyGarbage(t *testing.T) {
	m := auth.NewManager("test-secret", time.Hour)

	if _, err := m.VerifyAccessToken("not.a.token"); err == nil {
		t.Fatalf("expected parse failure")
	}
}
