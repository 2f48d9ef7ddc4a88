package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeCLI(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)
	t.Setenv("MAILTM_SECRETS_PATH", filepath.Join(home, ".mailtm", "secrets"))

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

// startFakeAPI points the CLI at an in-process mail.tm stand-in.
func startFakeAPI(t *testing.T, handler http.Handler) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	t.Setenv("MAILTM_BASE_URL", server.URL)
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "dev")
}

func TestDomainsCommand(t *testing.T) {
	startFakeAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/domains", r.URL.Path)
		_, _ = w.Write([]byte(`{"hydra:member":[{"domain":"example.test"}]}`))
	}))

	stdout, _, err := executeCLI(t, t.TempDir(), "domains")
	require.NoError(t, err)
	assert.Contains(t, stdout, "example.test")
}

func TestCreateThenAccountInfo(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /accounts", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "acct-1", "address": body["address"]})
	})
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "acct-1", "token": "tok-1"})
	})
	mux.HandleFunc("GET /me", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": "acct-1", "address": "alice@example.test",
			"quota": 40000000, "used": 100,
			"createdAt": "2026-08-30T10:00:00Z", "updatedAt": "2026-08-30T10:05:00Z",
		})
	})
	startFakeAPI(t, mux)

	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, "create", "--address", "alice@example.test", "--password", "hunter22")
	require.NoError(t, err)
	assert.Contains(t, stdout, "alice@example.test")

	// The session persisted by create is picked up by the next invocation.
	stdout, _, err = executeCLI(t, home, "account", "info", "--plain")
	require.NoError(t, err)
	assert.Contains(t, stdout, "alice@example.test")
	assert.Contains(t, stdout, "acct-1")
}

func TestInboxPlainWithoutSession(t *testing.T) {
	startFakeAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected API call %s %s", r.Method, r.URL.Path)
	}))

	_, _, err := executeCLI(t, t.TempDir(), "inbox", "--plain")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no active session")
}

func TestMessageReadWithoutSession(t *testing.T) {
	startFakeAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected API call %s %s", r.Method, r.URL.Path)
	}))

	_, _, err := executeCLI(t, t.TempDir(), "message", "read", "msg-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no active session")
}

func TestAccountDeleteRequiresConfirmation(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /accounts", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "acct-1", "address": "alice@example.test"})
	})
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "acct-1", "token": "tok-1"})
	})
	mux.HandleFunc("DELETE /accounts/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	startFakeAPI(t, mux)

	home := t.TempDir()

	_, _, err := executeCLI(t, home, "create", "--address", "alice@example.test", "--password", "hunter22")
	require.NoError(t, err)

	_, _, err = executeCLI(t, home, "account", "delete")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")

	stdout, _, err := executeCLI(t, home, "account", "delete", "--yes")
	require.NoError(t, err)
	assert.Contains(t, stdout, "deleted")
}

func TestLoginReplaysSavedPassword(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /accounts", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "acct-1", "address": body["address"]})
	})
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "hunter22" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Invalid credentials."})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "acct-1", "token": "tok-1"})
	})
	startFakeAPI(t, mux)

	home := t.TempDir()

	_, _, err := executeCLI(t, home, "create", "--address", "alice@example.test", "--password", "hunter22")
	require.NoError(t, err)

	_, _, err = executeCLI(t, home, "logout")
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, home, "login", "--address", "alice@example.test")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Logged in as alice@example.test")

	_, _, err = executeCLI(t, home, "login", "--address", "nobody@example.test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no saved password")
}

func TestLogoutClearsPersistedSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /accounts", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "acct-1", "address": "alice@example.test"})
	})
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "acct-1", "token": "tok-1"})
	})
	startFakeAPI(t, mux)

	home := t.TempDir()

	_, _, err := executeCLI(t, home, "create", "--address", "alice@example.test", "--password", "hunter22")
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, home, "logout")
	require.NoError(t, err)
	assert.Contains(t, stdout, "alice@example.test")

	_, _, err = executeCLI(t, home, "inbox", "--plain")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no active session")
}
