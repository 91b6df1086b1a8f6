package utils

import (
	"errors"
	"testing"
	"time"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	now := time.Now()
	tok, err := NewAccessToken("secret", 42, "MANAGER", 15*time.Minute, now)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if !tok.Exp.After(now) {
		t.Fatalf("expected expiry after now, got %s", tok.Exp)
	}
	claims, err := ParseAccessToken("secret", tok.Token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	id, err := claims.UserID()
	if err != nil || id != 42 {
		t.Fatalf("expected user 42, got %d (%v)", id, err)
	}
	if claims.Role != "MANAGER" {
		t.Fatalf("expected role MANAGER, got %q", claims.Role)
	}
}

func TestParseAccessTokenRejects(t *testing.T) {
	good, err := NewAccessToken("secret", 1, "STAFF", time.Minute, time.Now())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	expired, err := NewAccessToken("secret", 1, "STAFF", time.Minute, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	tests := map[string]struct{ secret, raw string }{
		"wrong secret": {"other", good.Token},
		"expired":      {"secret", expired.Token},
		"garbage":      {"secret", "not-a-jwt"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseAccessToken(tt.secret, tt.raw); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret!", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !VerifyPassword(hash, "s3cret!") {
		t.Fatal("expected password to verify")
	}
	if VerifyPassword(hash, "wrong") {
		t.Fatal("expected wrong password to fail")
	}
}

func TestBookingReference(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		ref, err := NewBookingReference(now)
		if err != nil {
			t.Fatalf("reference: %v", err)
		}
		if !ValidBookingReference(ref) {
			t.Fatalf("generated reference %q is not valid", ref)
		}
		if ref[:8] != "BK-2024-" {
			t.Fatalf("expected year prefix, got %q", ref)
		}
		seen[ref] = true
	}
	if len(seen) < 2 {
		t.Fatal("expected references to vary")
	}
	for _, bad := range []string{"", "BK-2024-12-3456", "bk-2024-1234-5678", "BK-2024-1234-5678x"} {
		if ValidBookingReference(bad) {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}
