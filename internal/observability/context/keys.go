package context

import "context"

type contextKey string

const (
	requestIDKey contextKey = "observability_request_id"
	viewerIDKey  contextKey = "observability_viewer_id"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil || requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(requestIDKey).(string)
	return value
}

func WithViewerID(ctx context.Context, viewerID string) context.Context {
	if ctx == nil || viewerID == "" {
		return ctx
	}
	return context.WithValue(ctx, viewerIDKey, viewerID)
}

func ViewerIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(viewerIDKey).(string)
	return value
}
