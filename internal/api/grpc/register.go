// Package grpcapi serves scripted Diatheke, Cubic and Luna services so the
// demo clients can run without a speech server.
package grpcapi

import (
	"google.golang.org/grpc"

	"speech-demo-clients/internal/service/stt/mock"
	"speech-demo-clients/proto/cubicpb"
	"speech-demo-clients/proto/diathekepb"
	"speech-demo-clients/proto/lunapb"
)

const mockVersion = "1.0.0"

// Servers holds the registered mock services.
type Servers struct {
	Diatheke *DiathekeServer
	Cubic    *CubicServer
	Luna     *LunaServer
}

// Register adds all mock services to g. The Diatheke and Cubic services share
// script, so a nil script starts a fresh default one.
func Register(g grpc.ServiceRegistrar, script *mock.Script) *Servers {
	if script == nil {
		script = mock.NewScript()
	}
	s := &Servers{
		Diatheke: NewDiathekeServer(script),
		Cubic:    NewCubicServer(script),
		Luna:     NewLunaServer(),
	}
	diathekepb.RegisterDiathekeServiceServer(g, s.Diatheke)
	cubicpb.RegisterTranscribeServiceServer(g, s.Cubic)
	lunapb.RegisterLunaServiceServer(g, s.Luna)
	return s
}
