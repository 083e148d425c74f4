package utils

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Minute, "estatehub")
	id := uuid.New()

	tok, err := m.CreateToken(id, "agent", "a@example.com", "member")
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}
	claims, err := m.ValidateToken(tok)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.AccountID != id.String() || claims.Kind != "agent" || claims.Issuer != "estatehub" {
		t.Fatalf("claims = %+v", claims)
	}

	other := NewJWTManager("another-secret", time.Minute, "estatehub")
	if _, err := other.ValidateToken(tok); err == nil {
		t.Fatal("token accepted with the wrong key")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := ComparePasswords(hash, "correct horse"); err != nil {
		t.Fatalf("ComparePasswords: %v", err)
	}
	if ComparePasswords(hash, "wrong") == nil || ComparePasswords("", "anything") == nil {
		t.Fatal("mismatch accepted")
	}
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{ErrListingTypeRequired, 400},
		{fmt.Errorf("wrapped: %w", ErrListingNotFound), 404},
		{ErrInvalidCredentials, 401},
		{ErrListingQuotaExceeded, 403},
		{ErrEmailAlreadyExists, 409},
		{ErrContactDelivery, 502},
		{fmt.Errorf("%w: file is empty", ErrInvalidImage), 400},
		{errors.New("boom"), 500},
	}
	for _, tc := range cases {
		if code, _ := statusFor(tc.err); code != tc.code {
			t.Errorf("statusFor(%v) = %d, want %d", tc.err, code, tc.code)
		}
	}
	if _, msg := statusFor(ErrListingTypeRequired); msg != "Listing type is required" {
		t.Errorf("message = %q", msg)
	}
}
