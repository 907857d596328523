package evaldb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		switch r.URL.Path {
		case "/create":
			if r.FormValue("lang") != "luaval" {
				http.Error(w, "invalid language", http.StatusBadRequest)
				return
			}
			http.Redirect(w, r, "/query/new-db-id", http.StatusFound)
		case "/link":
			if r.FormValue("hostname") == "taken" {
				http.Error(w, "another db is using that hostname", http.StatusBadRequest)
				return
			}
			http.Redirect(w, r, "/query/"+r.FormValue("dbname"), http.StatusFound)
		case "/query/new-db-id":
			t.Error("redirect must not be followed")
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCreate(t *testing.T) {
	srv := adminServer(t)

	c, err := Create(context.Background(), LanguageLua, WithBaseURL(srv.URL))
	require.NoError(t, err)
	assert.Equal(t, "new-db-id", c.Key())
	assert.Equal(t, srv.URL, c.BaseURL())
}

func TestCreate_Failures(t *testing.T) {
	srv := adminServer(t)

	_, err := Create(context.Background(), Language("cobol"), WithBaseURL(srv.URL))
	assert.True(t, errors.Is(err, ErrInvalidLanguage))

	_, err = Create(context.Background(), LanguageJS, WithBaseURL(srv.URL))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStatus))
	assert.Contains(t, err.Error(), "invalid language")
}

func TestClient_Link(t *testing.T) {
	srv := adminServer(t)
	c, err := New("db1", WithBaseURL(srv.URL))
	require.NoError(t, err)

	require.NoError(t, c.Link(context.Background(), "myapp"))

	err = c.Link(context.Background(), "taken")
	assert.True(t, errors.Is(err, ErrStatus))
}
