package api

import (
	"testing"
	"time"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	t.Parallel()

	handler := &Handler{secretKey: []byte("session-secret-with-enough-length")}
	token, err := handler.buildSessionToken("user-1", time.Now())
	if err != nil {
		t.Fatalf("build session token: %v", err)
	}

	userID, err := handler.parseSessionToken(token)
	if err != nil {
		t.Fatalf("parse session token: %v", err)
	}
	if userID != "user-1" {
		t.Fatalf("expected user-1, got %q", userID)
	}
}

func TestSessionTokenRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	handler := &Handler{secretKey: []byte("session-secret-with-enough-length")}
	token, err := handler.buildSessionToken("user-1", time.Now().Add(-2*sessionTokenTTL))
	if err != nil {
		t.Fatalf("build session token: %v", err)
	}
	if _, err := handler.parseSessionToken(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestSessionTokenRejectsForeignSecret(t *testing.T) {
	t.Parallel()

	issuer := &Handler{secretKey: []byte("session-secret-with-enough-length")}
	verifier := &Handler{secretKey: []byte("another-secret-with-enough-length")}
	token, err := issuer.buildSessionToken("user-1", time.Now())
	if err != nil {
		t.Fatalf("build session token: %v", err)
	}
	if _, err := verifier.parseSessionToken(token); err == nil {
		t.Fatal("expected token signed with another secret to be rejected")
	}
}

func TestSessionTokenRejectsMissingUser(t *testing.T) {
	t.Parallel()

	handler := &Handler{secretKey: []byte("session-secret-with-enough-length")}
	token, err := handler.buildSessionToken("  ", time.Now())
	if err != nil {
		t.Fatalf("build session token: %v", err)
	}
	if _, err := handler.parseSessionToken(token); err == nil {
		t.Fatal("expected token without user to be rejected")
	}
}
