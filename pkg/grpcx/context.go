package grpcx

import (
	"context"
	"strings"

	"google.golang.org/grpc/metadata"
)

// Chiavi condivise per propagare il request id tra HTTP e gRPC.
type contextKey string

// ContextRequestIDKey definisce la chiave per il context locale (non gRPC).
const ContextRequestIDKey contextKey = "request_id"

// RequestIDMetadataKey definisce la chiave metadata per il request id su gRPC.
const RequestIDMetadataKey = "x-request-id"

// RequestIDFromContext prova prima dalle metadata gRPC, poi dal context locale.
func RequestIDFromContext(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(RequestIDMetadataKey); len(values) > 0 {
			if id := strings.TrimSpace(values[0]); id != "" {
				return id
			}
		}
	}
	id, _ := ctx.Value(ContextRequestIDKey).(string)
	return id
}
