package whatsapp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendTextPostsCloudAPIEnvelope(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := New("secret-token", "1234567890", "v18.0")
	client.SetBaseURL(srv.URL)

	err := client.SendText(context.Background(), "62812345", "halo")
	require.NoError(t, err)

	assert.Equal(t, "/v18.0/1234567890/messages", gotPath)
	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, "whatsapp", gotBody["messaging_product"])
	assert.Equal(t, "individual", gotBody["recipient_type"])
	assert.Equal(t, "62812345", gotBody["to"])
	assert.Equal(t, "text", gotBody["type"])
	text, ok := gotBody["text"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, text["preview_url"])
	assert.Equal(t, "halo", text["body"])
}

func TestSendTextRemoteRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := New("token", "1234567890", "v18.0")
	client.SetBaseURL(srv.URL)

	err := client.SendText(context.Background(), "62812345", "halo")
	var sendErr *SendError
	require.ErrorAs(t, err, &sendErr)
	assert.Equal(t, KindRemoteRejected, sendErr.Kind)
	assert.Equal(t, http.StatusInternalServerError, sendErr.StatusCode)
}

func TestSendTextTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on

	client := New("token", "1234567890", "v18.0")
	client.SetBaseURL(srv.URL)

	err := client.SendText(context.Background(), "62812345", "halo")
	var sendErr *SendError
	require.True(t, errors.As(err, &sendErr))
	assert.Equal(t, KindTransportError, sendErr.Kind)
}
