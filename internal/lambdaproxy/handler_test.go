package lambdaproxy

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evaldb/cli/pkg/evaldb"
)

func newTestHandler(t *testing.T, h http.HandlerFunc) (*Handler, *string) {
	t.Helper()
	var lastBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		lastBody = string(b)
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := evaldb.New("db1", evaldb.WithBaseURL(srv.URL))
	require.NoError(t, err)
	return New(client), &lastBody
}

func TestHandle_Success(t *testing.T) {
	h, body := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/eval/db1", r.URL.Path)
		_, _ = io.WriteString(w, `{"object":{"n":3},"warm":true,"walltime":1500,"gen":7,"parent":6}`)
	})

	gen := 6
	var args evaldb.Args
	require.NoError(t, json.Unmarshal([]byte(`{"x":1}`), &args))

	resp, err := h.Handle(context.Background(), Event{Code: "return args.x", Readonly: true, Args: args, Gen: &gen})
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":"return args.x","readonly":true,"args":{"x":1},"gen":6}`, *body)

	out, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"object":{"n":3},"warm":true,"walltime":1500,"gen":7,"parent":6}`, string(out))
}

func TestHandle_QueryError(t *testing.T) {
	h, _ := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"error":"attempt to index a nil value"}`)
	})

	_, err := h.Handle(context.Background(), Event{Code: "return x.y"})
	require.Error(t, err)
	assert.ErrorIs(t, err, evaldb.ErrQuery)
	assert.Contains(t, err.Error(), "attempt to index a nil value")
}

func TestHandle_MissingCode(t *testing.T) {
	h := New(nil)
	_, err := h.Handle(context.Background(), Event{})
	assert.Error(t, err)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("EVALDB_KEY", "")
	_, err := FromEnv()
	assert.Error(t, err)

	t.Setenv("EVALDB_KEY", "abc")
	t.Setenv("EVALDB_BASE_URL", "http://127.0.0.1:1")
	h, err := FromEnv()
	require.NoError(t, err)
	client, ok := h.q.(*evaldb.Client)
	require.True(t, ok)
	assert.Equal(t, "abc", client.Key())
	assert.Equal(t, "http://127.0.0.1:1", client.BaseURL())
}
