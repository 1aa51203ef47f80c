package service

import (
	"context"
	"testing"

	"warungpos-backend/internal/config"
)

func TestGoogleLoginRequiresVerifier(t *testing.T) {
	// No Firebase client and no Google client ID: the token cannot be
	// verified, so the login must be refused before any user lookup.
	svc := AuthService{Config: config.Config{JWTSecret: "secret"}}

	_, err := svc.LoginWithGoogle(context.Background(), GoogleLoginInput{
		IDToken:  "some-token",
		Email:    "kasir@warung.id",
		FullName: "Kasir",
	})
	if err == nil {
		t.Fatal("expected google login to fail without a configured verifier")
	}
}
