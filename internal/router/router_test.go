package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"persona-chatter/internal/chat"
	"persona-chatter/internal/handlers"
	"persona-chatter/internal/llm"
	"persona-chatter/internal/middleware"
	"persona-chatter/internal/persona"
	"persona-chatter/internal/storage"
)

type echoLLM struct{}

func (echoLLM) Generate(_ context.Context, msgs []llm.Message) (llm.Response, error) {
	return llm.Response{Content: "echo: " + msgs[len(msgs)-1].Content, Model: "test"}, nil
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hitesh.txt"), []byte("You are Hitesh."), 0o644))

	catalog, err := persona.NewCatalog([]persona.Definition{{Name: "hitesh", PromptFile: "hitesh.txt"}},
		persona.Defaults{Provider: "openai", Model: "gpt-4o-mini"})
	require.NoError(t, err)

	history, err := storage.NewFileLog(filepath.Join(dir, "data"))
	require.NoError(t, err)

	svc := chat.NewService(catalog, persona.NewStore(dir, catalog), history,
		map[string]llm.Client{"hitesh": echoLLM{}}, zap.NewNop())
	return New(handlers.NewChatHandler(svc, zap.NewNop()), zap.NewNop(), []string{"*"})
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
}

func TestChatThenHistory(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/hitesh/chat", strings.NewReader(`{"message":"hello"}`))
	req.Header.Set(middleware.RequestIDHeader, "req-1")
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"reply":"echo: hello"}`, rec.Body.String())
	assert.Equal(t, "req-1", rec.Header().Get(middleware.RequestIDHeader))

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/hitesh/history", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user":"hello"`)
	assert.Contains(t, rec.Body.String(), `"bot":"echo: hello"`)
}

func TestUnknownPersonaAndMethods(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/nobody/chat", strings.NewReader(`{"message":"hi"}`)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Persona not found"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/hitesh/chat", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestPreflight(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/hitesh/chat", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	newTestServer(t).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
