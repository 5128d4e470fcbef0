// Command mockserver serves scripted Diatheke, Cubic and Luna services over
// gRPC and a WebRTC answering peer over HTTP, for running the demo clients
// without a speech backend.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	grpcapi "speech-demo-clients/internal/api/grpc"
	"speech-demo-clients/internal/app"
	"speech-demo-clients/internal/config"
	httpapi "speech-demo-clients/internal/http"
	"speech-demo-clients/internal/observability"
	"speech-demo-clients/internal/service/stt/mock"
	"speech-demo-clients/internal/webrtc"
	"speech-demo-clients/proto/cubicpb"
	"speech-demo-clients/proto/diathekepb"
	"speech-demo-clients/proto/lunapb"
)

var healthServices = []string{
	"",
	diathekepb.DiathekeService_ServiceDesc.ServiceName,
	cubicpb.TranscribeService_ServiceDesc.ServiceName,
	lunapb.LunaService_ServiceDesc.ServiceName,
}

func main() {
	cfg := config.Load()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := config.LoadFile(cfg, path); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
	}

	application := app.New("speech-mock-server", cfg)
	log := application.Logger

	lis, err := net.Listen("tcp", ":"+cfg.Service.GRPCPort)
	if err != nil {
		log.Fatal().Err(err).Str("port", cfg.Service.GRPCPort).Msg("Failed to listen")
	}

	server := grpc.NewServer(
		grpc.ChainUnaryInterceptor(observability.UnaryServerInterceptor(application.Metrics)),
		grpc.ChainStreamInterceptor(observability.StreamServerInterceptor(application.Metrics)),
	)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(server, healthServer)
	for _, svc := range healthServices {
		healthServer.SetServingStatus(svc, grpc_health_v1.HealthCheckResponse_SERVING)
	}

	// one script so dialog, cubic and webrtc walk the same utterances
	script := mock.NewScript()
	grpcapi.Register(server, script)
	reflection.Register(server)

	answerer := webrtc.NewAnswerer(script)
	httpServer := &http.Server{
		Addr:              ":" + cfg.Service.HTTPPort,
		Handler:           httpapi.NewRouter(application, answerer),
		ReadHeaderTimeout: 5 * time.Second,
	}

	if err := application.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	go func() {
		log.Info().Str("port", cfg.Service.GRPCPort).Msg("Mock speech server started")
		if err := server.Serve(lis); err != nil {
			log.Fatal().Err(err).Msg("gRPC serve failed")
		}
	}()
	go func() {
		log.Info().Str("port", cfg.Service.HTTPPort).Msg("HTTP server started")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP serve failed")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info().Msg("Shutting down")
	for _, svc := range healthServices {
		healthServer.SetServingStatus(svc, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("HTTP shutdown failed")
	}
	if err := answerer.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close peer connections")
	}
	server.GracefulStop()
	application.Shutdown(ctx)
}
