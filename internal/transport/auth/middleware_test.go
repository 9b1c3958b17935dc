package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lending_docs/internal/repository"
)

type fakeRepo struct {
	token *repository.APIToken
	err   error
	seen  []string
}

func (f *fakeRepo) FindByPlainToken(_ context.Context, plain string) (*repository.APIToken, error) {
	f.seen = append(f.seen, plain)
	return f.token, f.err
}

func TestBearerMiddlewareSetsClient(t *testing.T) {
	fr := &fakeRepo{token: &repository.APIToken{ID: 1, ClientName: "underwriting"}}

	got := ""
	srv := BearerMiddleware(fr, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := GetClient(r.Context())
		require.NoError(t, err)
		got = c
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/documents", nil)
	req.Header.Set("Authorization", "Bearer 1|secret")
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "underwriting", got)
	assert.Equal(t, []string{"1|secret"}, fr.seen)
}

func TestBearerMiddlewareQueryToken(t *testing.T) {
	fr := &fakeRepo{token: &repository.APIToken{ID: 2, ClientName: "ops"}}
	srv := BearerMiddleware(fr, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/upload?token=abc", nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, []string{"abc"}, fr.seen)
}

func TestBearerMiddlewareRejects(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	cases := map[string]struct {
		repo   *fakeRepo
		header string
	}{
		"missing":  {repo: &fakeRepo{}, header: ""},
		"unknown":  {repo: &fakeRepo{err: repository.ErrTokenNotFound}, header: "Bearer nope"},
		"expired":  {repo: &fakeRepo{token: &repository.APIToken{ClientName: "old", ExpiresAt: &past}}, header: "Bearer old"},
		"bad kind": {repo: &fakeRepo{token: &repository.APIToken{ClientName: "x"}}, header: "Basic abc"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			srv := BearerMiddleware(c.repo, nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				t.Fatal("handler must not run")
			}))
			req := httptest.NewRequest(http.MethodPost, "/import", nil)
			if c.header != "" {
				req.Header.Set("Authorization", c.header)
			}
			rr := httptest.NewRecorder()
			srv.ServeHTTP(rr, req)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}
}

func TestBearerMiddlewarePassesPreflight(t *testing.T) {
	reached := false
	srv := BearerMiddleware(&fakeRepo{}, nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { reached = true }))
	srv.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodOptions, "/upload", nil))
	assert.True(t, reached)
}

func TestGetClientMissing(t *testing.T) {
	_, err := GetClient(context.Background())
	assert.Error(t, err)
}

func TestRequireAbility(t *testing.T) {
	cases := map[string]struct {
		abilities string
		want      int
	}{
		"wildcard":  {`["*"]`, http.StatusOK},
		"granted":   {`["documents","import"]`, http.StatusOK},
		"other":     {`["documents"]`, http.StatusForbidden},
		"malformed": {`import`, http.StatusForbidden},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			fr := &fakeRepo{token: &repository.APIToken{ClientName: "ops", Abilities: c.abilities}}
			h := BearerMiddleware(fr, nil)(RequireAbility("import", nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})))
			req := httptest.NewRequest(http.MethodPost, "/import", nil)
			req.Header.Set("Authorization", "Bearer t")
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			assert.Equal(t, c.want, rr.Code)
		})
	}
}

func TestRequireAbilityWithoutToken(t *testing.T) {
	h := RequireAbility("import", nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/import", nil))
	assert.Equal(t, http.StatusForbidden, rr.Code)
}
