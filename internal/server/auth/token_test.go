package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
)

func testUser() *models.User {
	return &models.User{
		ID:       "user-123",
		Email:    "alice@example.com",
		Username: "alice",
		FullName: "Alice Example",
	}
}

func TestAccessToken_RoundTrip(t *testing.T) {
	t.Parallel()

	secret := []byte("access-secret")
	tok, err := GenerateAccessToken(testUser(), secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}

	claims, err := ParseAccessToken(tok, secret)
	if err != nil {
		t.Fatalf("ParseAccessToken error: %v", err)
	}
	if claims.UserID != "user-123" || claims.Email != "alice@example.com" ||
		claims.Username != "alice" || claims.FullName != "Alice Example" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestRefreshToken_RoundTrip(t *testing.T) {
	t.Parallel()

	secret := []byte("refresh-secret")
	tok, err := GenerateRefreshToken("u1", secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateRefreshToken error: %v", err)
	}

	claims, err := ParseRefreshToken(tok, secret)
	if err != nil {
		t.Fatalf("ParseRefreshToken error: %v", err)
	}
	if claims.UserID != "u1" {
		t.Fatalf("userID mismatch: got %q want %q", claims.UserID, "u1")
	}
}

func TestParseAccessToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	tok, err := GenerateAccessToken(testUser(), secret, -1*time.Second)
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}

	_, err = ParseAccessToken(tok, secret)
	if !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected common.ErrTokenExpired, got %v", err)
	}
}

func TestParseAccessToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateAccessToken(testUser(), []byte("right-secret"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}

	_, err = ParseAccessToken(tok, []byte("wrong-secret"))
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestParseRefreshToken_AccessSecretRejected(t *testing.T) {
	t.Parallel()

	// A token signed with the access secret must not verify as a refresh
	// token: the two kinds use distinct secrets.
	accessSecret := []byte("access-secret")
	tok, err := GenerateAccessToken(testUser(), accessSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}

	_, err = ParseRefreshToken(tok, []byte("refresh-secret"))
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestParseAccessToken_MalformedString(t *testing.T) {
	t.Parallel()

	_, err := ParseAccessToken("not.a.jwt", []byte("k"))
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}
