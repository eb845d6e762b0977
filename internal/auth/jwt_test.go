package auth

import (
	"testing"
	"time"

	"github.com/anjan-ust/task-weaver-main/internal/apperr"
	"github.com/golang-jwt/jwt/v5"
)

func initTestSecret(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	if err := InitJWTSecret(); err != nil {
		t.Fatalf("InitJWTSecret: %v", err)
	}
}

func TestInitJWTSecretRequiresEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if err := InitJWTSecret(); err == nil {
		t.Fatal("expected an error when JWT_SECRET is unset")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	initTestSecret(t)

	token, err := GenerateToken(42)

	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	subject, err := ParseSubject(token)

	if err != nil {
		t.Fatalf("ParseSubject: %v", err)
	}

	if subject != 42 {
		t.Fatalf("subject = %d, want 42", subject)
	}
}

func TestParseSubjectRejectsTamperedToken(t *testing.T) {
	initTestSecret(t)

	token, err := GenerateToken(42)

	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	_, err = ParseSubject(token + "x")

	if kind, ok := apperr.KindOf(err); !ok || kind != apperr.Unauthenticated {
		t.Fatalf("tampered token kind = %v, want Unauthenticated", kind)
	}
}

func TestParseSubjectRejectsWrongKey(t *testing.T) {
	initTestSecret(t)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	signed, err := forged.SignedString([]byte("another-secret"))

	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}

	_, err = ParseSubject(signed)

	if kind, ok := apperr.KindOf(err); !ok || kind != apperr.Unauthenticated {
		t.Fatalf("forged token kind = %v, want Unauthenticated", kind)
	}
}

func TestParseSubjectRejectsExpiredToken(t *testing.T) {
	initTestSecret(t)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "42",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})

	signed, err := expired.SignedString([]byte("test-secret"))

	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}

	_, err = ParseSubject(signed)

	if kind, ok := apperr.KindOf(err); !ok || kind != apperr.Unauthenticated {
		t.Fatalf("expired token kind = %v, want Unauthenticated", kind)
	}
}

func TestParseSubjectRejectsMissingSubject(t *testing.T) {
	initTestSecret(t)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	signed, err := token.SignedString([]byte("test-secret"))

	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}

	_, err = ParseSubject(signed)

	if kind, ok := apperr.KindOf(err); !ok || kind != apperr.InvalidPayload {
		t.Fatalf("subjectless token kind = %v, want InvalidPayload", kind)
	}
}

func TestTokenTTLOverride(t *testing.T) {
	t.Setenv("TOKEN_TTL_MINUTES", "90")

	if got := tokenTTL(); got != 90*time.Minute {
		t.Fatalf("tokenTTL = %v, want 90m", got)
	}

	t.Setenv("TOKEN_TTL_MINUTES", "not-a-number")

	if got := tokenTTL(); got != defaultTokenTTL {
		t.Fatalf("tokenTTL fallback = %v, want %v", got, defaultTokenTTL)
	}
}
