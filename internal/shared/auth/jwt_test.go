package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	s, err := NewSigner("test-secret", false)
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	token, err := s.Sign(Claims{
		Email:            "editor@example.com",
		Role:             RoleEditor,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
	})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := s.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "user-1" || claims.Role != RoleEditor || claims.Email != "editor@example.com" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	a, _ := NewSigner("secret-a", false)
	b, _ := NewSigner("secret-b", false)
	token, err := a.Sign(Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"}})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := b.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	s, _ := NewSigner("test-secret", false)
	past := time.Now().Add(-48 * time.Hour)
	s.now = func() time.Time { return past }
	token, err := s.Sign(Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"}})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	s.now = time.Now
	if _, err := s.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	s, _ := NewSigner("test-secret", false)
	for _, token := range []string{"", "abc", "a.b.c"} {
		if _, err := s.Verify(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("Verify(%q) expected ErrInvalidToken, got %v", token, err)
		}
	}
}

func TestSignRequiresSubject(t *testing.T) {
	s, _ := NewSigner("test-secret", false)
	if _, err := s.Sign(Claims{}); err == nil {
		t.Fatal("expected error for missing subject")
	}
}

func TestNewSignerRequiresSecretInProduction(t *testing.T) {
	if _, err := NewSigner("", true); !errors.Is(err, errMissingSecret) {
		t.Fatalf("expected errMissingSecret, got %v", err)
	}
	if _, err := NewSigner("", false); err != nil {
		t.Fatalf("expected dev fallback, got %v", err)
	}
}

func TestRoleRanking(t *testing.T) {
	tests := []struct {
		have Role
		min  Role
		want bool
	}{
		{RoleAdmin, RoleEditor, true},
		{RoleEditor, RoleEditor, true},
		{RoleViewer, RoleEditor, false},
		{Role(""), RoleViewer, false},
		{Role("owner"), RoleViewer, false},
	}
	for _, tt := range tests {
		if got := tt.have.AtLeast(tt.min); got != tt.want {
			t.Fatalf("%q.AtLeast(%q) = %v, want %v", tt.have, tt.min, got, tt.want)
		}
	}

	if r, err := ParseRole(" Editor "); err != nil || r != RoleEditor {
		t.Fatalf("ParseRole editor = (%q, %v)", r, err)
	}
	if _, err := ParseRole("root"); err == nil {
		t.Fatal("expected error for unknown role")
	}
}
