package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benmeehan/fleetops/internal/api"
	"github.com/benmeehan/fleetops/internal/utils"
	"github.com/benmeehan/fleetops/pkg/file"
	"github.com/benmeehan/fleetops/pkg/session"
)

func validToken(subject string) string {
	enc := base64.RawURLEncoding
	exp := time.Now().Add(time.Hour).Unix()
	return enc.EncodeToString([]byte(`{"alg":"HS256"}`)) + "." +
		enc.EncodeToString([]byte(fmt.Sprintf(`{"sub":%q,"exp":%d}`, subject, exp))) + ".sig"
}

func newTestApp(t *testing.T, handler http.HandlerFunc) (*app, *session.MemoryStorage) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	storage := session.NewMemoryStorage()
	store := session.NewStore(storage, zerolog.Nop())
	client := api.NewClient(server.Client(), api.NewRouteTable(server.URL), store, file.NewFileService(), zerolog.Nop())
	return &app{store: store, client: client, logger: zerolog.Nop(), out: &bytes.Buffer{}}, storage
}

func writeBody(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(body))
}

func TestLogin_SingleCompanyIsFinal(t *testing.T) {
	token := validToken("u1")
	a, storage := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, fmt.Sprintf(`{"data":{"data":{"token":%q,"user":{"id":"u1"},"companies":[{"id":"c1","name":"Acme"}]}}}`, token))
	})

	_, pending, err := login(context.Background(), a.client, a.store, "ana@example.com", "secret")
	require.NoError(t, err)
	assert.False(t, pending)

	stored, _ := storage.Get(session.KeyToken)
	assert.Equal(t, token, stored)
	company, ok := a.store.Company()
	require.True(t, ok)
	assert.JSONEq(t, `{"id":"c1","name":"Acme","is_active":false}`, string(company))
	_, ok = storage.Get(session.KeyTempToken)
	assert.False(t, ok)
}

func TestLogin_ThenSelectCompany(t *testing.T) {
	tempToken := validToken("temp")
	finalToken := validToken("final")

	var selectAuth string
	var selectBody map[string]string
	a, storage := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			writeBody(w, fmt.Sprintf(`{"success":true,"data":{"token":%q,"user":{"id":"u1"},"requiresCompanySelection":true,"companies":[{"id":"c1"},{"id":"c2"}]}}`, tempToken))
		case "/api/auth/select-company":
			selectAuth = r.Header.Get("Authorization")
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&selectBody))
			writeBody(w, fmt.Sprintf(`{"success":true,"data":{"token":%q,"company":{"id":"c2"}}}`, finalToken))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	res, pending, err := login(context.Background(), a.client, a.store, "ana@example.com", "secret")
	require.NoError(t, err)
	assert.True(t, pending)
	assert.Len(t, res.Companies, 2)

	stored, _ := storage.Get(session.KeyTempToken)
	assert.Equal(t, tempToken, stored)
	_, ok := storage.Get(session.KeyToken)
	assert.False(t, ok)

	_, err = selectCompany(context.Background(), a.client, a.store, "c2")
	require.NoError(t, err)

	assert.Equal(t, "Bearer "+tempToken, selectAuth)
	assert.Equal(t, "c2", selectBody["companyId"])

	stored, _ = storage.Get(session.KeyToken)
	assert.Equal(t, finalToken, stored)
	user, ok := a.store.User()
	require.True(t, ok, "user from the login step is kept")
	assert.JSONEq(t, `{"id":"u1"}`, string(user))
	_, ok = storage.Get(session.KeyTempToken)
	assert.False(t, ok)
}

func TestLogin_Failure(t *testing.T) {
	a, _ := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		writeBody(w, `{"error":"Credenciais inválidas"}`)
	})

	_, _, err := login(context.Background(), a.client, a.store, "ana@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Credenciais inválidas", err.Error())
}

func TestSelectCompany_RequiresSession(t *testing.T) {
	a, _ := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("no request expected, got %s", r.URL.Path)
	})

	_, err := selectCompany(context.Background(), a.client, a.store, "c1")
	assert.ErrorIs(t, err, api.ErrNotAuthenticated)
}

func TestLogout_ClearsEvenWhenBackendFails(t *testing.T) {
	a, storage := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	require.NoError(t, a.store.SaveFinal(validToken("u1"), json.RawMessage(`{"id":"u1"}`), nil))

	require.NoError(t, logout(context.Background(), a))
	for _, key := range session.AllKeys {
		_, ok := storage.Get(key)
		assert.False(t, ok, key)
	}
}

func TestFiltersFromFlags_KeepsDeclarationOrder(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	addQueryFlags(cmd, periodFlags, pageFlags)
	require.NoError(t, cmd.Flags().Parse([]string{"--limit", "20", "--start-date", "2024-01-01"}))

	assert.Equal(t, "startDate=2024-01-01&limit=20", filtersFromFlags(cmd, periodFlags, pageFlags).Encode())
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger("json", "warn", &buf)
	require.NoError(t, err)

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"message":"shown"`)

	_, err = newLogger("console", "loud", &buf)
	assert.Error(t, err)
}

func TestNewSessionStorage(t *testing.T) {
	config := &utils.Config{}
	storage, err := newSessionStorage(config, file.NewFileService())
	require.NoError(t, err)
	assert.IsType(t, &session.MemoryStorage{}, storage)

	config.Session.File = filepath.Join(t.TempDir(), "session.enc")
	_, err = newSessionStorage(config, file.NewFileService())
	assert.Error(t, err, "a session file needs a passphrase")

	config.Session.Passphrase = "correct horse"
	storage, err = newSessionStorage(config, file.NewFileService())
	require.NoError(t, err)
	assert.IsType(t, &session.FileStorage{}, storage)
}
