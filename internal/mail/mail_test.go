package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelguide/internal/config"
)

func TestEmailJS_SendPasswordReset(t *testing.T) {
	var got emailJSRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := config.EmailJSConfig{ServiceID: "service_x", TemplateID: "template_y", PublicKey: "pub", PrivateKey: "priv"}
	m := NewEmailJS(cfg, srv.URL, srv.Client())

	err := m.SendPasswordReset(context.Background(), "a@b.com", "Anna", "http://localhost:3000/auth/reset-password/abc")
	require.NoError(t, err)

	assert.Equal(t, "service_x", got.ServiceID)
	assert.Equal(t, "template_y", got.TemplateID)
	assert.Equal(t, "pub", got.UserID)
	assert.Equal(t, "priv", got.AccessToken)
	assert.Equal(t, "a@b.com", got.TemplateParams["to_email"])
	assert.Contains(t, got.TemplateParams["message_html"], "/auth/reset-password/abc")
}

func TestEmailJS_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "The template ID is invalid", http.StatusBadRequest)
	}))
	defer srv.Close()

	m := NewEmailJS(config.EmailJSConfig{ServiceID: "s", TemplateID: "t", PublicKey: "p"}, srv.URL, srv.Client())
	err := m.SendPasswordChanged(context.Background(), "a@b.com", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestNew_FallsBackToLogMailer(t *testing.T) {
	_, ok := New(config.EmailJSConfig{}).(LogMailer)
	assert.True(t, ok)
}
