package log

import "context"

type requestIDKey struct{}

func AttachRequestIDToContext(c context.Context, requestID string) context.Context {
	return context.WithValue(c, requestIDKey{}, requestID)
}

func RequestIDFromContext(c context.Context) string {
	requestID, _ := c.Value(requestIDKey{}).(string)
	return requestID
}
