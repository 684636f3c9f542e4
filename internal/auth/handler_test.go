package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"doctrack/pkg/session"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T, sessions TokenIssuer) http.Handler {
	t.Helper()
	svc, _, _ := newService(t, sessions)
	r := chi.NewRouter()
	NewHandler(svc).Register(r)
	return r
}

func post(h http.Handler, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, target, strings.NewReader(body)))
	return rec
}

func TestRegisterAndLoginRoutes(t *testing.T) {
	h := newRouter(t, nil)

	rec := post(h, "/api/auth/register", `{"username":"alice","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":{"id":"alice","username":"alice","isAdmin":true}}`, rec.Body.String())
	assert.Empty(t, rec.Header().Get(SessionHeader))

	rec = post(h, "/api/auth/register", `{"username":"alice","password":"secret1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Username already taken"}`, rec.Body.String())

	rec = post(h, "/api/auth/login", `{"username":"alice","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = post(h, "/api/auth/login", `{"username":"ghost","password":"secret1"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = post(h, "/api/auth/login", `{"username":"alice","password":"secret2"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(h, "/api/auth/login", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionTokenIssued(t *testing.T) {
	sessions := session.NewManager("test-secret", time.Hour)
	h := newRouter(t, sessions)

	rec := post(h, "/api/auth/register", `{"username":"alice","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	token := rec.Header().Get(SessionHeader)
	require.NotEmpty(t, token)
	sub, err := sessions.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", sub)

	var env struct {
		Data struct {
			Username string `json:"username"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "alice", env.Data.Username)
}
