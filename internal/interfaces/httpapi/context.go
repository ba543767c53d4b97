package httpapi

import "context"

type contextKey string

const (
	actorContextKey contextKey = "actor_id"
	routeContextKey contextKey = "route_info"
)

func withActor(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, actorContextKey, actorID)
}

func actorFromContext(ctx context.Context) (string, bool) {
	actorID, ok := ctx.Value(actorContextKey).(string)
	return actorID, ok && actorID != ""
}

// routeInfo is filled in by the innermost middleware once the mux has
// matched a pattern, so outer middleware can label metrics by route.
type routeInfo struct {
	pattern string
}

func withRouteInfo(ctx context.Context, info *routeInfo) context.Context {
	return context.WithValue(ctx, routeContextKey, info)
}

func routeInfoFromContext(ctx context.Context) (*routeInfo, bool) {
	info, ok := ctx.Value(routeContextKey).(*routeInfo)
	return info, ok
}
