package grpc

import (
	"bytes"
	"context"
	"log/slog"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/showcase/internal/common"
	"github.com/dmitrijs2005/showcase/internal/logging"
	"github.com/dmitrijs2005/showcase/internal/server/auth"
	"github.com/dmitrijs2005/showcase/internal/server/gateway/gatewaytest"
	"github.com/dmitrijs2005/showcase/internal/server/provisioning"
	"github.com/dmitrijs2005/showcase/internal/server/services"
	"github.com/dmitrijs2005/showcase/internal/server/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:0", logging.NopLogger{}, &fakeAuth{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error on graceful stop: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:99999", logging.NopLogger{}, &fakeAuth{})

	if err := srv.Run(context.Background()); err == nil {
		t.Fatal("expected error from Run on bad address, got nil")
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestServe_FailedServeReleasesStopGoroutine(t *testing.T) {
	t.Parallel()

	var out syncBuffer
	srv := NewGRPCServer("", logging.NewJSONLogger(&out, slog.LevelDebug), &fakeAuth{})

	lis := bufconn.Listen(1 << 10)
	require.NoError(t, lis.Close())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.Error(t, srv.Serve(ctx, lis))

	cancel()
	time.Sleep(100 * time.Millisecond)
	assert.NotContains(t, out.String(), "Stopping gRPC server")
}

func dialBufconn(t *testing.T, srv *GRPCServer) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = srv.Serve(ctx, lis)
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		<-done
	})
	return conn
}

func TestSessionService_OverTheWire(t *testing.T) {
	log := logging.NopLogger{}
	gw := gatewaytest.NewMemory()
	secret := []byte("wire-secret")

	svc := services.NewAuthService(
		auth.NewCodec("grafbase", 0, nil),
		secret,
		provisioning.NewProvisioner(gw, log),
		session.NewEnricher(gw, log),
		time.Second,
		log,
	)
	conn := dialBufconn(t, NewGRPCServer("bufnet", log, svc))
	client := NewSessionServiceClient(conn)
	ctx := context.Background()

	signIn, err := structpb.NewStruct(map[string]any{"name": "Alice", "email": "a@x.com", "avatarUrl": "https://img/a.png"})
	require.NoError(t, err)

	resp, err := client.SignIn(ctx, signIn)
	require.NoError(t, err)
	token := resp.GetFields()["token"].GetStringValue()
	require.NotEmpty(t, token)

	_, err = client.GetSession(ctx, &emptypb.Empty{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	authed := metadata.AppendToOutgoingContext(ctx, common.AccessTokenHeaderName, token)
	sess, err := client.GetSession(authed, &emptypb.Empty{})
	require.NoError(t, err)

	user := sess.GetFields()["user"].GetStructValue().AsMap()
	profile, err := gw.LookupUser(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, profile.ID, user["id"])
	assert.Equal(t, "a@x.com", user["email"])
	assert.NotEmpty(t, sess.GetFields()["expires"].GetStringValue())

	bad := metadata.AppendToOutgoingContext(ctx, common.AccessTokenHeaderName, token+"x")
	_, err = client.GetSession(bad, &emptypb.Empty{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestHealth_Serving(t *testing.T) {
	conn := dialBufconn(t, NewGRPCServer("bufnet", logging.NopLogger{}, &fakeAuth{}))

	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: SessionServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}
