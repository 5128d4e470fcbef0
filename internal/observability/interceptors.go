// Package observability provides gRPC interceptors and the metrics HTTP server.
package observability

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"speech-demo-clients/internal/observability/metrics"
)

// UnaryClientInterceptor logs and counts unary calls made by the demo clients.
func UnaryClientInterceptor(m *metrics.Metrics) grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply any,
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		start := time.Now()

		err := invoker(ctx, method, req, reply, cc, opts...)

		duration := time.Since(start)
		st, _ := status.FromError(err)
		m.RecordRPC(method, st.Code().String(), duration.Seconds())

		log.Debug().
			Str("method", method).
			Str("code", st.Code().String()).
			Dur("duration", duration).
			Msg("gRPC unary call")

		return err
	}
}

// StreamClientInterceptor tracks client streams. A stream ends when the call
// finishes, not when the streamer returns, so the end is observed with
// grpc.OnFinish.
func StreamClientInterceptor(m *metrics.Metrics) grpc.StreamClientInterceptor {
	return func(
		ctx context.Context,
		desc *grpc.StreamDesc,
		cc *grpc.ClientConn,
		method string,
		streamer grpc.Streamer,
		opts ...grpc.CallOption,
	) (grpc.ClientStream, error) {
		start := time.Now()
		m.RecordStreamStart()

		var once sync.Once
		end := func(err error) {
			once.Do(func() {
				duration := time.Since(start)
				m.RecordStreamEnd(err == nil, duration.Seconds())

				st, _ := status.FromError(err)
				log.Debug().
					Str("method", method).
					Str("code", st.Code().String()).
					Dur("duration", duration).
					Msg("gRPC client stream finished")
			})
		}

		cs, err := streamer(ctx, desc, cc, method, append(opts, grpc.OnFinish(end))...)
		if err != nil {
			end(err)
		}
		return cs, err
	}
}

// UnaryServerInterceptor returns a gRPC unary interceptor for metrics and logging.
func UnaryServerInterceptor(m *metrics.Metrics) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		start := time.Now()

		resp, err := handler(ctx, req)

		duration := time.Since(start)
		st, _ := status.FromError(err)
		m.RecordRPC(info.FullMethod, st.Code().String(), duration.Seconds())

		log.Info().
			Str("method", info.FullMethod).
			Str("code", st.Code().String()).
			Dur("duration", duration).
			Msg("gRPC unary call")

		return resp, err
	}
}

// StreamServerInterceptor returns a gRPC stream interceptor for metrics and logging.
func StreamServerInterceptor(m *metrics.Metrics) grpc.StreamServerInterceptor {
	return func(
		srv any,
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		start := time.Now()
		m.RecordStreamStart()

		err := handler(srv, ss)

		duration := time.Since(start)
		success := err == nil
		m.RecordStreamEnd(success, duration.Seconds())

		st, _ := status.FromError(err)

		log.Info().
			Str("method", info.FullMethod).
			Str("code", st.Code().String()).
			Dur("duration", duration).
			Bool("success", success).
			Msg("gRPC stream completed")

		return err
	}
}
