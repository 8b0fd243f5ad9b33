package backend

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/paperlens/internal/core/domain"
)

func TestReloadable_SwapsClient(t *testing.T) {
	answer := func(text string) func(r *mux.Router) {
		return func(r *mux.Router) {
			r.HandleFunc(PathInformation, func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, http.StatusOK, map[string]string{"answer": text})
			}).Methods(http.MethodPost)
		}
	}
	first := newTestServer(t, answer("first"))
	second := newTestServer(t, answer("second"))

	gw, err := NewReloadable(Config{BaseURL: first.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)

	res, err := gw.AskQuestion(context.Background(), "doc", "q")
	require.NoError(t, err)
	assert.Equal(t, "first", res.Answer)

	require.NoError(t, gw.Reload(Config{BaseURL: second.URL, Timeout: 5 * time.Second}))

	res, err = gw.AskQuestion(context.Background(), "doc", "q")
	require.NoError(t, err)
	assert.Equal(t, "second", res.Answer)
	assert.Equal(t, second.URL, gw.BaseURL())
}

func TestReloadable_InvalidConfigKeepsClient(t *testing.T) {
	gw, err := NewReloadable(Config{BaseURL: "http://localhost:5123"})
	require.NoError(t, err)

	err = gw.Reload(Config{BaseURL: "not a url"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "http://localhost:5123", gw.BaseURL())
}

func TestReloadable_InvalidInitialConfig(t *testing.T) {
	_, err := NewReloadable(Config{BaseURL: "://"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSameConfig(t *testing.T) {
	a := Config{BaseURL: "http://a", Token: "t", Timeout: time.Second}

	assert.True(t, sameConfig(a, a))
	assert.False(t, sameConfig(a, Config{BaseURL: "http://a", Token: "u", Timeout: time.Second}))

	b := a
	b.Transport = http.DefaultTransport
	assert.False(t, sameConfig(b, b))
}
