package helpers

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestJWTGenerateAndParse(t *testing.T) {
	t.Parallel()
	m := NewJWTManager("test-secret", time.Hour)

	token, exp, err := m.Generate("user-123", "a@example.com")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !exp.After(time.Now()) {
		t.Fatal("expiry not in the future")
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Subject != "user-123" {
		t.Errorf("subject = %q, want user-123", claims.Subject)
	}
	if claims.Email != "a@example.com" {
		t.Errorf("email = %q, want a@example.com", claims.Email)
	}
}

func TestJWTExpired(t *testing.T) {
	t.Parallel()
	m := NewJWTManager("test-secret", -time.Minute)

	token, _, err := m.Generate("user-123", "a@example.com")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	_, err = m.Parse(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("err = %v, want ErrTokenExpired", err)
	}
}

func TestJWTWrongSecret(t *testing.T) {
	t.Parallel()
	issuer := NewJWTManager("secret-one", time.Hour)
	verifier := NewJWTManager("secret-two", time.Hour)

	token, _, err := issuer.Generate("user-123", "a@example.com")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := verifier.Parse(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestJWTTampered(t *testing.T) {
	t.Parallel()
	m := NewJWTManager("test-secret", time.Hour)

	token, _, err := m.Generate("user-123", "a@example.com")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", token)
	}
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]
	if _, err := m.Parse(tampered); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestJWTMalformed(t *testing.T) {
	t.Parallel()
	m := NewJWTManager("test-secret", time.Hour)

	for _, raw := range []string{"", "garbage", "a.b", "a.b.c"} {
		if _, err := m.Parse(raw); !errors.Is(err, ErrTokenInvalid) {
			t.Fatalf("Parse(%q) err = %v, want ErrTokenInvalid", raw, err)
		}
	}
}

func TestJWTMissingSubject(t *testing.T) {
	t.Parallel()
	m := NewJWTManager("test-secret", time.Hour)

	token, _, err := m.Generate("", "a@example.com")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := m.Parse(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}
