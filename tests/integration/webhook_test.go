package integration

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeGrindAPI/handlers"
	"codeGrindAPI/services"
	"codeGrindAPI/tests/helpers"
)

// Signature checks need no database: an unknown event type short-circuits
// before any service call.
func TestClerkWebhookSignature(t *testing.T) {
	webhookHandler := handlers.NewWebhookHandler(nil)

	secret := "test_webhook_secret"
	os.Setenv("CLERK_WEBHOOK_SECRET", secret)
	defer os.Unsetenv("CLERK_WEBHOOK_SECRET")

	payload := []byte(`{"type": "session.created", "data": {}}`)

	t.Run("missing signature headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/webhooks/clerk", bytes.NewReader(payload))
		rr := httptest.NewRecorder()

		webhookHandler.HandleClerkWebhook(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("wrong signature", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/webhooks/clerk", bytes.NewReader(payload))
		req.Header.Set("svix-id", "msg_test")
		req.Header.Set("svix-timestamp", "1700000000")
		req.Header.Set("svix-signature", "v1,deadbeef")
		rr := httptest.NewRecorder()

		webhookHandler.HandleClerkWebhook(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("valid signature", func(t *testing.T) {
		svixID := "msg_test"
		svixTimestamp := "1700000000"
		signed := fmt.Sprintf("%s.%s.%s", svixID, svixTimestamp, string(payload))

		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write([]byte(signed))
		sig := "v1," + hex.EncodeToString(mac.Sum(nil))

		req := httptest.NewRequest(http.MethodPost, "/webhooks/clerk", bytes.NewReader(payload))
		req.Header.Set("svix-id", svixID)
		req.Header.Set("svix-timestamp", svixTimestamp)
		req.Header.Set("svix-signature", sig)
		rr := httptest.NewRecorder()

		webhookHandler.HandleClerkWebhook(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

// TestWebhookAfterPlaceholderUser covers the late-webhook path: an authed
// request auto-creates the user with a synthesized email, and the user.created
// event that lands afterwards must fill in the real profile on the same row.
func TestWebhookAfterPlaceholderUser(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	userService := services.NewUserService(pool)
	webhookHandler := handlers.NewWebhookHandler(userService)

	os.Setenv("CLERK_WEBHOOK_SECRET", "")
	defer os.Unsetenv("CLERK_WEBHOOK_SECRET")

	clerkID := "user_test_late_" + time.Now().Format("20060102150405")
	ctx := context.Background()

	placeholder, err := userService.GetOrCreateUser(ctx, clerkID)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(placeholder.Email, "@placeholder.local"))
	assert.Empty(t, placeholder.Username)

	payload := helpers.MockClerkWebhookPayload("user.created", clerkID)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/clerk", bytes.NewReader(payload))
	rr := httptest.NewRecorder()

	webhookHandler.HandleClerkWebhook(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	u, err := userService.GetUserByClerkID(ctx, clerkID)
	require.NoError(t, err)
	assert.Equal(t, placeholder.ID, u.ID, "the placeholder row is updated, not replaced")
	assert.Equal(t, "test.user@example.com", u.Email)
	assert.Equal(t, "testuser", u.Username)
	assert.Equal(t, "https://example.com/image.jpg", u.ImageURL)
}

func TestClerkWebhookRejectsBadJSON(t *testing.T) {
	webhookHandler := handlers.NewWebhookHandler(nil)

	os.Setenv("CLERK_WEBHOOK_SECRET", "")
	defer os.Unsetenv("CLERK_WEBHOOK_SECRET")

	req := httptest.NewRequest(http.MethodPost, "/webhooks/clerk", bytes.NewReader([]byte("{not json")))
	rr := httptest.NewRecorder()

	webhookHandler.HandleClerkWebhook(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
