package routing

import "context"

func contextWithRoute(ctx context.Context, route Route) context.Context {
	return context.WithValue(ctx, routeContextKey{}, route)
}

// FromContext returns the route matched for the request.
func FromContext(ctx context.Context) (Route, bool) {
	route, ok := ctx.Value(routeContextKey{}).(Route)
	return route, ok
}
