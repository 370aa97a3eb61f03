package security_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Kasamvinay/phishformer/internal/security"
)

func TestSessionRoundTrip(t *testing.T) {
	tok, err := security.MakeSession("secret1", "u1", "u@example.com", "U", "http://pic")
	if err != nil {
		t.Fatal(err)
	}
	c, err := security.ParseSession("secret1", tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.Subject != "u1" || c.Email != "u@example.com" || c.Name != "U" || c.Picture != "http://pic" {
		t.Fatalf("claims mismatch: %#v", c)
	}
	if c.ExpiresAt == nil || time.Until(c.ExpiresAt.Time) > security.SessionTTL {
		t.Fatalf("bad expiry: %v", c.ExpiresAt)
	}
}

func TestSessionUniformInvalid(t *testing.T) {
	tok, err := security.MakeSession("secret1", "u1", "u@example.com", "U", "")
	if err != nil {
		t.Fatal(err)
	}

	// wrong secret
	if _, err := security.ParseSession("secret2", tok); err != security.ErrInvalidSession {
		t.Fatalf("wrong secret: got %v", err)
	}

	// tampered payload
	if _, err := security.ParseSession("secret1", tok+"x"); err != security.ErrInvalidSession {
		t.Fatalf("tampered: got %v", err)
	}

	// structurally broken
	if _, err := security.ParseSession("secret1", "not.a.jwt"); err != security.ErrInvalidSession {
		t.Fatalf("malformed: got %v", err)
	}

	// expired token, hand-built with the same algorithm
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u1",
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-8 * 24 * time.Hour)),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-24 * time.Hour)),
	})
	s, err := expired.SignedString([]byte("secret1"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := security.ParseSession("secret1", s); err != security.ErrInvalidSession {
		t.Fatalf("expired: got %v", err)
	}

	// unsigned tokens must not pass the HS256-only verifier
	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "u1"})
	ns, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := security.ParseSession("secret1", ns); err != security.ErrInvalidSession {
		t.Fatalf("alg none: got %v", err)
	}
}

func TestSessionRequiresSecret(t *testing.T) {
	if _, err := security.MakeSession("", "u1", "e", "n", ""); err == nil {
		t.Fatal("mint without secret must fail")
	}
	if _, err := security.ParseSession("", "whatever"); err == nil {
		t.Fatal("verify without secret must fail")
	}
}

func TestPasswordHashAndCheck(t *testing.T) {
	h, err := security.HashPassword("p12345678")
	if err != nil {
		t.Fatal(err)
	}
	if h == "p12345678" || h == "" {
		t.Fatal("hash must not echo the plaintext")
	}
	if !security.CheckPassword(h, "p12345678") {
		t.Fatal("correct password rejected")
	}
	if security.CheckPassword(h, "wrong") {
		t.Fatal("wrong password accepted")
	}
}

func TestStateToken(t *testing.T) {
	a, err := security.NewStateToken()
	if err != nil {
		t.Fatal(err)
	}
	b, err := security.NewStateToken()
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != 32 { // 16 bytes hex-encoded
		t.Fatalf("state length %d", len(a))
	}
	if a == b {
		t.Fatal("state tokens must not repeat")
	}
}
