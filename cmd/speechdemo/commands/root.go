// Package commands implements the speechdemo command tree.
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"speech-demo-clients/internal/app"
	"speech-demo-clients/internal/config"
	"speech-demo-clients/internal/transport"
)

const shutdownTimeout = 5 * time.Second

type globalFlags struct {
	configFile  string
	json        bool
	server      string
	insecure    bool
	serverCert  string
	clientCert  string
	clientKey   string
	metricsAddr string
	verbose     bool
}

var (
	flags       globalFlags
	application *app.Application
)

var rootCmd = &cobra.Command{
	Use:   "speechdemo",
	Short: "Demo clients for the Diatheke, Cubic and Luna speech services",
	Long: `Demo clients for the Diatheke, Cubic and Luna speech services.

Settings come from the environment (and .env), then the --config YAML
profile, then flags. Run cmd/mockserver to try the clients without a
speech backend:

  speechdemo --server localhost:9002 --insecure diatheke text`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		application = app.New("speechdemo", cfg)
		return application.Start()
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		if application == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		application.Shutdown(ctx)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.configFile, "config", "c", "", "YAML configuration profile")
	pf.BoolVar(&flags.json, "json", false, "print listings as JSON instead of YAML")
	pf.StringVarP(&flags.server, "server", "s", "", "server address for the selected service")
	pf.BoolVar(&flags.insecure, "insecure", false, "connect without TLS")
	pf.StringVar(&flags.serverCert, "server-cert", "", "PEM root CA of the server")
	pf.StringVar(&flags.clientCert, "client-cert", "", "PEM client certificate for mutual TLS")
	pf.StringVar(&flags.clientKey, "client-key", "", "PEM client key for mutual TLS")
	pf.StringVar(&flags.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(diathekeCmd, cubicCmd, lunaCmd, webrtcCmd)
}

// Execute runs the root command until it returns or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// loadConfig layers the environment, the YAML profile and the flags that
// were set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Load()
	if flags.configFile != "" {
		if err := config.LoadFile(cfg, flags.configFile); err != nil {
			return nil, err
		}
	}

	pf := cmd.Flags()
	for _, s := range []*config.ServerConfig{&cfg.Diatheke.Server, &cfg.Cubic.Server, &cfg.Luna.Server} {
		if pf.Changed("server") {
			s.Address = flags.server
		}
		if pf.Changed("insecure") {
			s.Insecure = flags.insecure
		}
		if pf.Changed("server-cert") {
			s.ServerCertFile = flags.serverCert
		}
		if pf.Changed("client-cert") {
			s.ClientCertFile = flags.clientCert
		}
		if pf.Changed("client-key") {
			s.ClientKeyFile = flags.clientKey
		}
	}
	if pf.Changed("metrics-addr") {
		cfg.Observability.MetricsAddr = flags.metricsAddr
	}
	if flags.verbose {
		cfg.Observability.LogLevel = zerolog.LevelDebugValue
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func dial(s config.ServerConfig) (*grpc.ClientConn, error) {
	opts, err := transport.FromConfig(s)
	if err != nil {
		return nil, err
	}
	opts.Metrics = application.Metrics
	cc, err := transport.Dial(opts)
	if err != nil {
		return nil, err
	}
	application.Logger.Debug().
		Str("address", s.Address).
		Bool("insecure", s.Insecure).
		Msg("Connection created")
	return cc, nil
}

func closeConn(cc *grpc.ClientConn) {
	if err := cc.Close(); err != nil {
		application.Logger.Warn().Err(err).Msg("Failed to close connection")
	}
}

func cfg() *config.Config {
	return application.Cfg
}

// requireText fails when a flag that needs a value was left empty.
func requireText(name, value string) error {
	if value == "" {
		return fmt.Errorf("--%s is required", name)
	}
	return nil
}
