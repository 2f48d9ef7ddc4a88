package mailtm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/mailtm-mcp/internal/domain"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return New(WithBaseURL(server.URL), WithHTTPClient(server.Client()))
}

func TestDomainsDecodesHydraEnvelope(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/domains", r.URL.Path)
		_, _ = w.Write([]byte(`{"hydra:member":[{"domain":"example.test"},{"domain":"mailbox.test"}]}`))
	}))

	domains, err := client.Domains(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"example.test", "mailbox.test"}, domains)
}

func TestTokenReturnsBearerAndAccountID(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/token", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "alice@example.test", body["address"])
		assert.Equal(t, "hunter22", body["password"])

		_, _ = w.Write([]byte(`{"id":"acct-1","token":"tok-1"}`))
	}))

	token, accountID, err := client.Token(context.Background(), "alice@example.test", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
	assert.Equal(t, "acct-1", accountID)
}

func TestTokenInvalidCredentials(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Invalid credentials."}`))
	}))

	_, _, err := client.Token(context.Background(), "alice@example.test", "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.ErrorContains(t, err, "Invalid credentials.")
}

func TestCreateAccountAddressTaken(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"hydra:description":"address: This value is already used."}`))
	}))

	_, err := client.CreateAccount(context.Background(), "alice@example.test", "hunter22")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAddressTaken)
	assert.ErrorContains(t, err, "already used")
}

func TestMessagesSendsAuthAndPage(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{
			"hydra:member":[
				{"id":"msg-1","from":{"address":"sender@example.test"},"subject":"Hello","seen":false},
				{"id":"msg-2","from":{"address":""},"subject":"","seen":true}
			],
			"hydra:totalItems":7
		}`))
	}))

	auth := http.Header{}
	auth.Set("Authorization", "Bearer tok-1")

	messages, total, err := client.Messages(context.Background(), auth, 2)
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	require.Len(t, messages, 2)
	assert.Equal(t, domain.MessageSummary{ID: "msg-1", From: "sender@example.test", Subject: "Hello"}, messages[0])
	assert.True(t, messages[1].Seen)
}

func TestMessageBodyFallbacks(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		payload  string
		wantBody string
		wantFrom string
	}{
		{
			name:     "text preferred",
			payload:  `{"id":"msg-1","from":{"address":"sender@example.test"},"text":"plain body","html":["<p>html body</p>"]}`,
			wantBody: "plain body",
			wantFrom: "sender@example.test",
		},
		{
			name:     "html fallback",
			payload:  `{"id":"msg-1","from":{"address":"sender@example.test"},"html":["<p>html body</p>"]}`,
			wantBody: "<p>html body</p>",
			wantFrom: "sender@example.test",
		},
		{
			name:     "empty body and sender",
			payload:  `{"id":"msg-1","from":{"address":""}}`,
			wantBody: "(no body)",
			wantFrom: "unknown",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/messages/msg-1", r.URL.Path)
				_, _ = w.Write([]byte(tc.payload))
			}))

			detail, err := client.Message(context.Background(), http.Header{}, "msg-1")
			require.NoError(t, err)
			assert.Equal(t, tc.wantBody, detail.Body)
			assert.Equal(t, tc.wantFrom, detail.From)
		})
	}
}

func TestMessageNotFound(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Not Found"}`))
	}))

	_, err := client.Message(context.Background(), http.Header{}, "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMarkSeenUsesMergePatch(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/messages/msg-1", r.URL.Path)
		assert.Equal(t, "application/merge-patch+json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"seen":true}`, string(body))

		_, _ = w.Write([]byte(`{"seen":true}`))
	}))

	err := client.MarkSeen(context.Background(), http.Header{}, "msg-1")
	require.NoError(t, err)
}

func TestDeleteAccountRequiresNoContent(t *testing.T) {
	t.Parallel()

	t.Run("204 deletes", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "/accounts/acct-1", r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		}))

		require.NoError(t, client.DeleteAccount(context.Background(), http.Header{}, "acct-1"))
	})

	t.Run("200 is unexpected", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		err := client.DeleteAccount(context.Background(), http.Header{}, "acct-1")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnexpectedStatus)
	})
}

func TestErrorResponsePrefersHydraDescription(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"hydra:description":"Slow down","detail":"ignored","message":"ignored too"}`))
	}))

	_, err := client.Domains(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.ErrorContains(t, err, "Slow down")
}
