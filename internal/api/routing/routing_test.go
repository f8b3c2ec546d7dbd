package routing

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/account-api/internal/api/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tag returns a filter that appends name to the X-Stages header.
func tag(name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("X-Stages", name)
			next.ServeHTTP(w, r)
		})
	}
}

func write(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}
}

func TestHandlerName(t *testing.T) {
	tests := []struct {
		name   string
		stages []Stage
		want   string
	}{
		{"single handler", []Stage{Handler("HomeHandler", write("home"))}, "HomeHandler"},
		{"filter then handler", []Stage{
			Filter("ErrorResponseFilter", tag("f")),
			Handler("TokenHandler", write("token")),
		}, "TokenHandler"},
		{"last handler wins", []Stage{
			Handler("First", write("1")),
			Handler("Second", write("2")),
			Filter("Trailing", tag("t")),
		}, "Second"},
		{"no handler", []Stage{Filter("OnlyFilter", tag("f"))}, ""},
		{"empty", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Route{Stages: tt.stages}.HandlerName())
		})
	}
}

func TestBuildOrdersFilters(t *testing.T) {
	route := Route{Name: "test", Stages: []Stage{
		Filter("a", tag("a")),
		Filter("b", tag("b")),
		Handler("H", write("done")),
	}}

	w := httptest.NewRecorder()
	route.Build().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"a", "b"}, w.Header().Values("X-Stages"))
	assert.Equal(t, "done", w.Body.String())
}

func TestBuildUsesLastHandler(t *testing.T) {
	route := Route{Name: "test", Stages: []Stage{
		Handler("First", write("first")),
		Handler("Second", write("second")),
	}}

	w := httptest.NewRecorder()
	route.Build().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "second", w.Body.String())
}

func TestBuildWithoutHandler(t *testing.T) {
	route := Route{Name: "broken", Stages: []Stage{Filter("f", tag("f"))}}

	w := httptest.NewRecorder()
	route.Build().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, []string{"f"}, w.Header().Values("X-Stages"))
	assert.Contains(t, w.Body.String(), "Route broken has no handler.")
}

func TestTableAddAndLookup(t *testing.T) {
	table := NewTable().
		Add("home", http.MethodGet, "/", Handler("HomeHandler", write("home"))).
		Add("user.view", http.MethodGet, "/user/{uuid}", Handler("UserHandler", write("user")))

	route, ok := table.Lookup("user.view")
	require.True(t, ok)
	assert.Equal(t, "/user/{uuid}", route.Pattern)
	assert.Equal(t, "UserHandler", route.HandlerName())

	_, ok = table.Lookup("missing")
	assert.False(t, ok)

	names := make([]string, 0)
	for _, r := range table.Routes() {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"home", "user.view"}, names)

	assert.Panics(t, func() {
		table.Add("home", http.MethodPost, "/", Handler("HomeHandler", write("x")))
	})
}

func TestMount(t *testing.T) {
	var seenRoute string
	var seenHandler string
	probe := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seenRoute = shared.RouteName(r.Context())
			if route, ok := FromContext(r.Context()); ok {
				seenHandler = route.HandlerName()
			}
			next.ServeHTTP(w, r)
		})
	}

	table := NewTable().
		Add("user.view", http.MethodGet, "/user/{uuid}", Handler("UserHandler", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(chi.URLParam(r, "uuid")))
		})).
		Add("user.delete", http.MethodDelete, "/user/{uuid}", Handler("UserHandler", write("deleted")))

	r := chi.NewRouter()
	table.Mount(r, probe)

	t.Run("matched route", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/user/abc", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "abc", w.Body.String())
		assert.Equal(t, "user.view", seenRoute)
		assert.Equal(t, "UserHandler", seenHandler)
	})

	t.Run("same pattern different method", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/user/abc", nil))
		assert.Equal(t, "deleted", w.Body.String())
		assert.Equal(t, "user.delete", seenRoute)
	})

	t.Run("unmatched requests skip middleware", func(t *testing.T) {
		seenRoute = ""
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Empty(t, seenRoute)

		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/user/abc", strings.NewReader("{}")))
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		assert.Empty(t, seenRoute)
	})
}
