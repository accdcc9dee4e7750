package slack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientSend(t *testing.T) {
	var gotContentType string
	var gotBody Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := NewClient().Send(context.Background(), srv.URL, &Message{Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "hello", gotBody.Text)
}

func TestClientSendServerError(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, "no_service", http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewClient().Send(context.Background(), srv.URL, &Message{Text: "hello"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 500")

	// Delivery policy is at-most-once; a failed send is not repeated.
	assert.Equal(t, 1, attempts)
}
