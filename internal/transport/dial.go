// Package transport dials the speech servers.
package transport

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	"speech-demo-clients/internal/config"
	"speech-demo-clients/internal/observability"
	"speech-demo-clients/internal/observability/metrics"
)

var (
	// ErrClientCertificate means a client key was given without its certificate.
	ErrClientCertificate = errors.New("client certificate is required when a client key is set")
	// ErrClientKey means a client certificate was given without its key.
	ErrClientKey = errors.New("client key is required when a client certificate is set")
	// ErrBadServerCertificate means the root CA PEM held no usable certificate.
	ErrBadServerCertificate = errors.New("server certificate is not valid PEM")
)

// Options controls how a connection is established.
type Options struct {
	Address  string
	Insecure bool

	// ServerCertificate is a PEM root CA that replaces the system pool.
	ServerCertificate []byte
	// ClientCertificate and ClientKey enable mutual TLS. Both or neither.
	ClientCertificate []byte
	ClientKey         []byte

	// Metrics defaults to metrics.DefaultMetrics.
	Metrics *metrics.Metrics
	// DialOptions are appended after the transport credentials.
	DialOptions []grpc.DialOption
}

// Dial creates a client connection. The connection is lazy and is never
// re-established by this package.
func Dial(opts Options) (*grpc.ClientConn, error) {
	creds, err := transportCredentials(opts)
	if err != nil {
		return nil, err
	}

	m := opts.Metrics
	if m == nil {
		m = metrics.DefaultMetrics
	}

	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(creds),
		grpc.WithChainUnaryInterceptor(observability.UnaryClientInterceptor(m)),
		grpc.WithChainStreamInterceptor(observability.StreamClientInterceptor(m)),
	}
	dialOpts = append(dialOpts, opts.DialOptions...)

	cc, err := grpc.NewClient(opts.Address, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", opts.Address, err)
	}
	return cc, nil
}

func transportCredentials(opts Options) (credentials.TransportCredentials, error) {
	switch {
	case len(opts.ClientCertificate) > 0 && len(opts.ClientKey) == 0:
		return nil, ErrClientKey
	case len(opts.ClientKey) > 0 && len(opts.ClientCertificate) == 0:
		return nil, ErrClientCertificate
	}

	if opts.Insecure {
		return insecure.NewCredentials(), nil
	}

	tlsCfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if len(opts.ServerCertificate) > 0 {
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(opts.ServerCertificate) {
			return nil, ErrBadServerCertificate
		}
		tlsCfg.RootCAs = pool
	}
	if len(opts.ClientCertificate) > 0 {
		pair, err := tls.X509KeyPair(opts.ClientCertificate, opts.ClientKey)
		if err != nil {
			return nil, fmt.Errorf("load client key pair: %w", err)
		}
		tlsCfg.Certificates = []tls.Certificate{pair}
	}
	return credentials.NewTLS(tlsCfg), nil
}

// FromConfig builds Options from a server section, reading any PEM files.
func FromConfig(s config.ServerConfig) (Options, error) {
	opts := Options{Address: s.Address, Insecure: s.Insecure}

	var err error
	if opts.ServerCertificate, err = readOptional(s.ServerCertFile); err != nil {
		return Options{}, err
	}
	if opts.ClientCertificate, err = readOptional(s.ClientCertFile); err != nil {
		return Options{}, err
	}
	if opts.ClientKey, err = readOptional(s.ClientKeyFile); err != nil {
		return Options{}, err
	}
	return opts, nil
}

func readOptional(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return b, nil
}
