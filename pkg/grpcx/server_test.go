package grpcx

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/test/bufconn"
)

func dialBufconn(t *testing.T, server *grpc.Server) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1024 * 1024)
	go func() { _ = server.Serve(lis) }()
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// Verifica che il server registri il servizio health.
func TestNewServerServesHealth(t *testing.T) {
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	server := NewServer(slog.New(slog.NewTextHandler(io.Discard, nil)), hs)

	client := healthpb.NewHealthClient(dialBufconn(t, server))
	ctx := metadata.AppendToOutgoingContext(context.Background(), RequestIDMetadataKey, "req-1")
	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if resp.Status != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("expected SERVING, got %s", resp.Status)
	}
}

func TestRequestIDFromContext(t *testing.T) {
	md := metadata.New(map[string]string{RequestIDMetadataKey: " abc "})
	ctx := metadata.NewIncomingContext(context.Background(), md)
	if got := RequestIDFromContext(ctx); got != "abc" {
		t.Fatalf("expected abc, got %q", got)
	}

	local := context.WithValue(context.Background(), ContextRequestIDKey, "local")
	if got := RequestIDFromContext(local); got != "local" {
		t.Fatalf("expected local, got %q", got)
	}

	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

// Uno stream Watch aperto non deve bloccare lo shutdown oltre la scadenza.
func TestGracefulStopForcesAfterDeadline(t *testing.T) {
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	server := NewServer(slog.New(slog.NewTextHandler(io.Discard, nil)), hs)
	client := healthpb.NewHealthClient(dialBufconn(t, server))

	watchCtx, cancelWatch := context.WithCancel(context.Background())
	defer cancelWatch()
	stream, err := client.Watch(watchCtx, &healthpb.HealthCheckRequest{})
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	if _, err := stream.Recv(); err != nil {
		t.Fatalf("first watch message: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	start := time.Now()
	if forced := GracefulStop(ctx, server); !forced {
		t.Fatalf("expected forced stop with an open watch stream")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("stop took too long: %s", elapsed)
	}
}

func TestGracefulStopIdleServer(t *testing.T) {
	server := NewServer(slog.New(slog.NewTextHandler(io.Discard, nil)), health.NewServer())
	dialBufconn(t, server)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if forced := GracefulStop(ctx, server); forced {
		t.Fatalf("expected graceful stop on an idle server")
	}
}
