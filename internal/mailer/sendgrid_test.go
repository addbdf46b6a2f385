package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marlowpress/storefront-backend/pkg/config"
)

func TestSendgridMailerSend(t *testing.T) {
	t.Parallel()

	var captured sendgridPayload
	var authHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mail/send", r.URL.Path)
		authHeader = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	m, err := NewSendgridMailer(
		config.SendgridConfig{APIKey: "sg-key", DefaultFrom: "orders@marlowpress.com"},
		WithBaseURL(server.URL),
	)
	require.NoError(t, err)

	err = m.Send(context.Background(), Email{
		To:      "a@b.com",
		Subject: "Your order is confirmed",
		Body:    "Thank you for your order.",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer sg-key", authHeader)
	assert.Equal(t, "orders@marlowpress.com", captured.From.Email)
	require.Len(t, captured.Personalizations, 1)
	require.Len(t, captured.Personalizations[0].To, 1)
	assert.Equal(t, "a@b.com", captured.Personalizations[0].To[0].Email)
}

func TestSendgridMailerSurfacesAPIFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":[{"message":"bad request"}]}`, http.StatusBadRequest)
	}))
	defer server.Close()

	m, err := NewSendgridMailer(config.SendgridConfig{APIKey: "sg-key"}, WithBaseURL(server.URL))
	require.NoError(t, err)

	err = m.Send(context.Background(), Email{To: "a@b.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestSendgridMailerRequiresAPIKey(t *testing.T) {
	t.Parallel()

	_, err := NewSendgridMailer(config.SendgridConfig{})
	require.Error(t, err)
}
