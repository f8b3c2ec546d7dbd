// Package routing describes the named routes of the API as ordered pipelines of
// filter and handler stages and mounts them on a chi router.
//
// Route names are the keys used by the authorization policy and the media type
// table. The name of a route's final handler stage keys the deprecation registry.
package routing

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/account-api/internal/api/shared"
)

// StageKind distinguishes filters from handlers inside a route pipeline.
type StageKind int

const (
	// FilterStage wraps the rest of the pipeline.
	FilterStage StageKind = iota
	// HandlerStage produces the response.
	HandlerStage
)

// Stage is a single element of a route pipeline.
type Stage struct {
	Name    string
	Kind    StageKind
	Filter  func(http.Handler) http.Handler
	Handler http.Handler
}

// Filter builds a filter stage.
func Filter(name string, mw func(http.Handler) http.Handler) Stage {
	return Stage{Name: name, Kind: FilterStage, Filter: mw}
}

// Handler builds a handler stage.
func Handler(name string, h http.HandlerFunc) Stage {
	return Stage{Name: name, Kind: HandlerStage, Handler: h}
}

// Route binds one method and pattern to a named pipeline.
type Route struct {
	Name    string
	Method  string
	Pattern string
	Stages  []Stage
}

// HandlerName returns the name of the last handler stage, or "" when the
// pipeline has none.
func (r Route) HandlerName() string {
	for i := len(r.Stages) - 1; i >= 0; i-- {
		if r.Stages[i].Kind == HandlerStage {
			return r.Stages[i].Name
		}
	}
	return ""
}

// Build composes the pipeline. Filters wrap the stages that follow them. The
// last handler stage serves the request; a pipeline without one answers 500.
func (r Route) Build() http.Handler {
	var h http.Handler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		shared.RespondWithError(w, req, http.StatusInternalServerError,
			fmt.Sprintf("Route %s has no handler.", r.Name))
	})

	last := -1
	for i := len(r.Stages) - 1; i >= 0; i-- {
		if r.Stages[i].Kind == HandlerStage {
			last = i
			h = r.Stages[i].Handler
			break
		}
	}

	end := len(r.Stages)
	if last >= 0 {
		end = last
	}
	for i := end - 1; i >= 0; i-- {
		if r.Stages[i].Kind == FilterStage && r.Stages[i].Filter != nil {
			h = r.Stages[i].Filter(h)
		}
	}
	return h
}

// Table is the ordered set of application routes.
type Table struct {
	routes []Route
	byName map[string]Route
}

// NewTable returns an empty route table.
func NewTable() *Table {
	return &Table{byName: map[string]Route{}}
}

// Add registers a route. Names must be unique.
func (t *Table) Add(name, method, pattern string, stages ...Stage) *Table {
	if _, exists := t.byName[name]; exists {
		panic(fmt.Sprintf("routing: duplicate route name %q", name))
	}
	route := Route{Name: name, Method: method, Pattern: pattern, Stages: stages}
	t.routes = append(t.routes, route)
	t.byName[name] = route
	return t
}

// Lookup finds a route by name.
func (t *Table) Lookup(name string) (Route, bool) {
	route, ok := t.byName[name]
	return route, ok
}

// Routes returns the registered routes in insertion order.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}

// Mount registers every route on r. Each request first records its route in
// the context, then passes through the given middleware, then the pipeline.
// Requests that match no route never reach the middleware.
func (t *Table) Mount(r chi.Router, middleware ...func(http.Handler) http.Handler) {
	for _, route := range t.routes {
		r.With(withRoute(route)).With(middleware...).Method(route.Method, route.Pattern, route.Build())
	}
}

type routeContextKey struct{}

func withRoute(route Route) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.WithRouteName(r.Context(), route.Name)
			ctx = contextWithRoute(ctx, route)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
