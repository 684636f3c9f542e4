package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"doctrack/internal/document/repository"
	"doctrack/internal/document/service"
	"doctrack/middleware"
	"doctrack/store"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type staticVerifier string

func (v staticVerifier) Verify(string) (string, error) { return string(v), nil }

func newRouter(t *testing.T, verifier middleware.TokenVerifier) http.Handler {
	t.Helper()
	docs := store.NewEntity(store.NewMemoryBackend(), store.DocumentEntity)
	svc := service.NewDocumentService(repository.NewDocumentRepository(docs), nil, nil)

	r := chi.NewRouter()
	r.Use(middleware.Identity(verifier, verifier != nil))
	NewDocumentHandler(svc).Register(r)
	return r
}

func do(t *testing.T, h http.Handler, method, target, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

const docBody = `{"userId":"alice","personelName":"Budi","name":"Passport","startDate":1700000000000,"endDate":1800000000000}`

func TestDocumentLifecycle(t *testing.T) {
	h := newRouter(t, nil)

	code, env := do(t, h, http.MethodPost, "/api/documents", docBody)
	require.Equal(t, http.StatusOK, code)
	require.True(t, env.Success)
	var created store.Document
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.NotEmpty(t, created.ID)

	code, env = do(t, h, http.MethodGet, "/api/documents?userId=alice", "")
	require.Equal(t, http.StatusOK, code)
	var list []store.Document
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, []store.Document{created}, list)

	update := strings.Replace(docBody, "Passport", "Visa", 1)
	code, env = do(t, h, http.MethodPut, "/api/documents/"+created.ID, update)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"name":"Visa"`)

	code, env = do(t, h, http.MethodDelete, "/api/documents/"+created.ID, `{"userId":"alice"}`)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"id":"`+created.ID+`","deleted":true}`, string(env.Data))
}

func TestDocumentErrors(t *testing.T) {
	h := newRouter(t, nil)
	_, env := do(t, h, http.MethodPost, "/api/documents", docBody)
	var created store.Document
	require.NoError(t, json.Unmarshal(env.Data, &created))

	cases := []struct {
		name, method, target, body string
		code                       int
		message                    string
	}{
		{"list without user", http.MethodGet, "/api/documents", "", http.StatusBadRequest, "userId is required"},
		{"malformed body", http.MethodPost, "/api/documents", `{"userId":`, http.StatusBadRequest, "Invalid request body"},
		{"bad dates", http.MethodPost, "/api/documents", strings.Replace(docBody, "1800000000000", "1600000000000", 1), http.StatusBadRequest, "End date must be after start date"},
		{"update missing", http.MethodPut, "/api/documents/nope", docBody, http.StatusNotFound, "Document not found"},
		{"update other owner", http.MethodPut, "/api/documents/" + created.ID, strings.Replace(docBody, "alice", "bob", 1), http.StatusForbidden, "Unauthorized"},
		{"delete without user", http.MethodDelete, "/api/documents/" + created.ID, `{}`, http.StatusBadRequest, "userId is required"},
		{"delete other owner", http.MethodDelete, "/api/documents/" + created.ID, `{"userId":"bob"}`, http.StatusForbidden, "Unauthorized"},
		{"delete missing", http.MethodDelete, "/api/documents/nope", `{"userId":"alice"}`, http.StatusNotFound, "Document not found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, env := do(t, h, tc.method, tc.target, tc.body)
			assert.Equal(t, tc.code, code)
			assert.False(t, env.Success)
			assert.Equal(t, tc.message, env.Error)
		})
	}
}

func TestDocumentSessionMismatch(t *testing.T) {
	h := newRouter(t, staticVerifier("bob"))

	code, env := do(t, h, http.MethodPost, "/api/documents", docBody)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Unauthorized", env.Error)

	code, _ = do(t, h, http.MethodGet, "/api/documents?userId=alice", "")
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = do(t, h, http.MethodGet, "/api/documents?userId=bob", "")
	assert.Equal(t, http.StatusOK, code)
}
