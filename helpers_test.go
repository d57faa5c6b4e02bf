package secureauth

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testSigningKey = []byte("unit-test-signing-key")

func mintAccessToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSigningKey)
	if err != nil {
		t.Fatalf("mint token failed: %v", err)
	}
	return token
}

func mintTokenWithoutExpiry(t *testing.T) string {
	t.Helper()
	claims := jwt.RegisteredClaims{Subject: "alice"}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSigningKey)
	if err != nil {
		t.Fatalf("mint token failed: %v", err)
	}
	return token
}

func writeEnvelope(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": status < 400,
		"data":    data,
	})
}

func writeEnvelopeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
	})
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := New().WithBaseURL(baseURL).Build()
	if err != nil {
		t.Fatalf("build client failed: %v", err)
	}
	t.Cleanup(client.Close)
	return client
}

func seedSession(t *testing.T, c *Client, access, refresh, session string) {
	t.Helper()
	ctx := context.Background()
	if err := c.store.SetTokens(ctx, access, refresh, session); err != nil {
		t.Fatalf("seed tokens failed: %v", err)
	}
}

func seedProfile(t *testing.T, c *Client, profile Profile) {
	t.Helper()
	raw, err := json.Marshal(profile)
	if err != nil {
		t.Fatalf("marshal profile failed: %v", err)
	}
	if err := c.store.SetProfile(context.Background(), raw); err != nil {
		t.Fatalf("seed profile failed: %v", err)
	}
}
