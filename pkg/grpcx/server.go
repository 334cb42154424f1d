package grpcx

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
)

// NewServer crea il server gRPC con logging, health e reflection registrati.
func NewServer(logger *slog.Logger, healthServer healthpb.HealthServer) *grpc.Server {
	server := grpc.NewServer(grpc.ChainUnaryInterceptor(LoggingInterceptor(logger)))
	healthpb.RegisterHealthServer(server, healthServer)
	reflection.Register(server)
	return server
}

// LoggingInterceptor logga metodo, codice e durata di ogni chiamata unary.
func LoggingInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		attrs := []any{
			"method", info.FullMethod,
			"code", status.Code(err).String(),
			"latency", time.Since(start),
		}
		if id := RequestIDFromContext(ctx); id != "" {
			attrs = append(attrs, "request_id", id)
		}
		if err != nil {
			logger.Warn("grpc request fallita", append(attrs, "error", err)...)
		} else {
			logger.Debug("grpc request", attrs...)
		}
		return resp, err
	}
}

// GracefulStop attende la chiusura delle RPC in corso fino alla scadenza di ctx,
// poi chiude tutto con Stop. Ritorna true se e' servito lo stop forzato.
func GracefulStop(ctx context.Context, server *grpc.Server) bool {
	done := make(chan struct{})
	go func() {
		server.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		return false
	case <-ctx.Done():
		// Stream aperti (es. Health/Watch) bloccherebbero GracefulStop.
		server.Stop()
		<-done
		return true
	}
}
