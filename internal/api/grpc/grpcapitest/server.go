// Package grpcapitest serves the mock speech services over an in-memory
// listener for tests.
package grpcapitest

import (
	"context"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	grpcapi "speech-demo-clients/internal/api/grpc"
	"speech-demo-clients/internal/service/stt/mock"
)

const bufSize = 1 << 20

// Start registers the mock services on a new server and returns a client
// connection to it. Both are closed when the test ends.
func Start(t testing.TB, script *mock.Script) (*grpc.ClientConn, *grpcapi.Servers) {
	t.Helper()

	lis := bufconn.Listen(bufSize)
	srv := grpc.NewServer()
	servers := grpcapi.Register(srv, script)
	go func() {
		_ = srv.Serve(lis)
	}()

	cc, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		srv.Stop()
		t.Fatalf("dial bufconn: %v", err)
	}

	t.Cleanup(func() {
		_ = cc.Close()
		srv.Stop()
	})
	return cc, servers
}
