// Package mcp serves the packing list as Model Context Protocol tools.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/tripwise/packmate/client"
	"github.com/tripwise/packmate/internal/config"
	"github.com/tripwise/packmate/internal/packing"
	"github.com/tripwise/packmate/internal/session"
	"github.com/tripwise/packmate/mcp/internal/handlers"
)

// Transport values accepted by Settings.Transport.
const (
	TransportAuto  = "auto"
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Settings configures the MCP server. Environment variables are parsed with
// the PACKMATE_MCP_ prefix.
type Settings struct {
	Addr              string        `envconfig:"ADDR" default:":8766"`
	Transport         string        `envconfig:"TRANSPORT" default:"auto"`
	ServerName        string        `envconfig:"SERVER_NAME" default:"packmate-mcp"`
	ServerVersion     string        `envconfig:"SERVER_VERSION" default:"0.1.0"`
	ShutdownTimeout   time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	HTTPReadTimeout   time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"5s"`
	HTTPIdleTimeout   time.Duration `envconfig:"HTTP_IDLE_TIMEOUT" default:"120s"`
	HeartbeatInterval time.Duration `envconfig:"HEARTBEAT_INTERVAL" default:"30s"`
}

// LoadSettings reads Settings from the environment.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := envconfig.Process(config.Prefix+"_MCP", &s); err != nil {
		return s, fmt.Errorf("process env: %w", err)
	}
	switch s.Transport {
	case TransportAuto, TransportStdio, TransportHTTP:
	default:
		return s, fmt.Errorf("unknown transport %q", s.Transport)
	}
	return s, nil
}

type toolRegisterer interface {
	RegisterTools(s *server.MCPServer) error
}

// NewServer builds the tool server over an SDK client. The session starts
// out with the configured user and trip.
func NewServer(name, version string, sdk *client.Client, cfg *config.Config) (*server.MCPServer, error) {
	sess := session.New()
	sess.SetUserID(cfg.UserID)
	sess.SetTripID(cfg.TripID)
	rec := packing.NewReconciler(sdk, sess)
	limits := handlers.Limits{WeightKg: cfg.WeightLimitKg, VolumeCm3: cfg.VolumeLimitCm3}

	s := server.NewMCPServer(
		name,
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)
	for _, h := range []struct {
		name string
		h    toolRegisterer
	}{
		{"packing", handlers.NewPackingHandler(rec, sess, limits)},
		{"trip", handlers.NewTripHandler(sdk, sess)},
	} {
		if err := h.h.RegisterTools(s); err != nil {
			return nil, fmt.Errorf("register %s tools: %w", h.name, err)
		}
	}
	return s, nil
}

// Run loads configuration, builds the server and serves it until ctx is
// cancelled (HTTP) or stdin closes (stdio).
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	settings, err := LoadSettings()
	if err != nil {
		return err
	}
	cfg.Init()

	sdk, err := client.New(cfg.APIURL, client.WithHTTPTimeout(cfg.HTTPTimeout))
	if err != nil {
		log.Error().Stack().Err(err).Msg("failed to create client")
		return err
	}
	defer func() {
		if err := sdk.Close(); err != nil {
			log.Error().Err(err).Msg("error closing client")
		}
	}()

	s, err := NewServer(settings.ServerName, settings.ServerVersion, sdk, cfg)
	if err != nil {
		return err
	}

	if useStdio(settings.Transport) {
		log.Info().Str("api_url", cfg.APIURL).Msg("starting packmate MCP server (stdio transport)")
		return server.ServeStdio(s)
	}
	return serveHTTP(ctx, s, settings)
}

func serveHTTP(ctx context.Context, s *server.MCPServer, settings Settings) error {
	streamSrv := server.NewStreamableHTTPServer(
		s,
		server.WithEndpointPath("/mcp"),
		server.WithHeartbeatInterval(settings.HeartbeatInterval),
	)
	mux := http.NewServeMux()
	mux.Handle("/mcp", streamSrv)
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:         settings.Addr,
		Handler:      mux,
		ReadTimeout:  settings.HTTPReadTimeout,
		WriteTimeout: 0, // no deadline for streamed responses
		IdleTimeout:  settings.HTTPIdleTimeout,
	}

	shutdownComplete := make(chan struct{})
	go func() {
		defer close(shutdownComplete)
		<-ctx.Done()
		log.Info().Msg("shutting down MCP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), settings.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("error during HTTP server shutdown")
		}
		if err := streamSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("error during MCP server shutdown")
		}
	}()

	log.Info().Str("addr", settings.Addr).Msg("starting packmate MCP server (streamable HTTP)")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-shutdownComplete
	log.Info().Msg("MCP server shutdown complete")
	return nil
}

// useStdio resolves the auto transport: stdio when stdin is not a terminal,
// i.e. the server was launched by another process.
func useStdio(transport string) bool {
	switch transport {
	case TransportStdio:
		return true
	case TransportHTTP:
		return false
	}
	if fi, err := os.Stdin.Stat(); err == nil {
		return fi.Mode()&os.ModeCharDevice == 0
	}
	return false
}
