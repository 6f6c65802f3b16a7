// SPDX-License-Identifier: AGPL-3.0-or-later
// pulsewired - a wire-compatible PulseAudio native protocol server
// Copyright (C) 2026 pulsewired contributors

// Package cmd wires the CLI surface spec.md §6 and SPEC_FULL.md §6
// describe: "pulsewired serve [--config path]" runs the native
// protocol listener, "pulsewired trace <program> [args...]" runs the
// interposing trace proxy. Grounded on the teacher's cmd/root.go
// NewCommand/runRoot/setupLogger/setupTracing shape, replacing its
// DMR/HTTP/database bring-up with the listener + metrics server +
// signal handling an errgroup supervises (SPEC_FULL.md §5.1).
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/USA-RedDragon/configulator"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/nativesound/pulsewired/internal/catalog"
	"github.com/nativesound/pulsewired/internal/config"
	"github.com/nativesound/pulsewired/internal/cookie"
	"github.com/nativesound/pulsewired/internal/logging"
	"github.com/nativesound/pulsewired/internal/metrics"
	"github.com/nativesound/pulsewired/internal/pprof"
	"github.com/nativesound/pulsewired/internal/pulse"
	"github.com/nativesound/pulsewired/internal/server"
	"github.com/nativesound/pulsewired/internal/traceproxy"
)

// NewCommand builds the root command and its serve/trace subcommands.
func NewCommand(version, commit string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pulsewired",
		Version: fmt.Sprintf("%s - %s", version, commit),
		Annotations: map[string]string{
			"version": version,
			"commit":  commit,
		},
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the native protocol server",
		RunE:  runServe,
	}
	serveCmd.Flags().String("config", "", "path to a YAML config file layered over environment defaults")

	traceCmd := &cobra.Command{
		Use:                "trace <program> [args...]",
		Short:              "Run program under a trace proxy interposed on the native socket",
		Args:               cobra.MinimumNArgs(1),
		RunE:               runTrace,
		DisableFlagParsing: true,
	}

	cmd.AddCommand(serveCmd, traceCmd)
	return cmd
}

// loadConfig loads the base configuration via configulator, then
// layers an optional --config YAML file over it.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	base, err := configulator.New[config.Config]().Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	cfg := *base

	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return config.Config{}, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if cfg.SocketPath == "" && cfg.TCPAddr == "" {
		cfg.SocketPath = filepath.Join(discoverRuntimeDir(), "native")
	}
	if cfg.CookiePath == "" {
		cfg.CookiePath = filepath.Join(discoverConfigDir(), "cookie")
	}

	return cfg, cfg.Validate()
}

// discoverRuntimeDir follows spec.md §6: PULSE_RUNTIME_PATH, else
// $XDG_RUNTIME_DIR/pulse, else $HOME/.pulse.
func discoverRuntimeDir() string {
	if dir := os.Getenv("PULSE_RUNTIME_PATH"); dir != "" {
		return dir
	}
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "pulse")
	}
	return filepath.Join(os.Getenv("HOME"), ".pulse")
}

// discoverConfigDir follows the same environment chain for the
// authentication cookie's conventional location.
func discoverConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "pulse")
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "pulse")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	fmt.Printf("pulsewired - %s (%s)\n", cmd.Annotations["version"], cmd.Annotations["commit"])

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := logging.Setup(cfg.LogLevel)

	cleanup, err := setupTracing(cfg)
	if err != nil {
		return fmt.Errorf("failed to setup tracing: %w", err)
	}
	defer func() {
		if err := cleanup(ctx); err != nil {
			slog.Error("failed to shutdown tracer", "error", err)
		}
	}()

	clients := catalog.NewClientCatalog()
	sinks := catalog.NewSinkCatalog()
	if cfg.SinksFile != "" {
		if err := provisionSinks(sinks, cfg.SinksFile); err != nil {
			return fmt.Errorf("failed to provision static sinks: %w", err)
		}
	}

	ck, err := cookie.LoadOrCreate(cfg.CookiePath)
	if err != nil {
		return fmt.Errorf("failed to load or create cookie: %w", err)
	}

	var listener net.Listener
	if cfg.TCPAddr != "" {
		listener, err = net.Listen("tcp", cfg.ResolveAddr(cfg.TCPAddr))
	} else {
		_ = os.MkdirAll(filepath.Dir(cfg.SocketPath), 0o755)
		_ = os.Remove(cfg.SocketPath)
		listener, err = net.Listen("unix", cfg.SocketPath)
	}
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	srv := server.New(listener, clients, sinks, ck, cfg.MaxFrameLength)
	srv.Logger = logger

	serveCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(serveCtx)
	g.Go(func() error {
		return srv.Serve(gctx)
	})

	metricsServer := metrics.CreateMetricsServer(cfg)
	if metricsServer != nil {
		g.Go(func() error {
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			return metricsServer.Close()
		})
	}

	pprofServer := pprof.CreateServer(cfg)
	if pprofServer != nil {
		g.Go(func() error {
			if err := pprofServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			return pprofServer.Close()
		})
	}

	g.Go(func() error {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-sigCh:
			slog.Info("shutting down", "signal", sig)
			cancel()
			return nil
		case <-gctx.Done():
			return nil
		}
	})

	return g.Wait()
}

func runTrace(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logging.Setup(cfg.LogLevel)

	realDir := discoverRuntimeDir()
	fakeDir, err := os.MkdirTemp("", "pulsewired-trace-*")
	if err != nil {
		return fmt.Errorf("failed to create fake runtime dir: %w", err)
	}
	defer os.RemoveAll(fakeDir)

	proxy := traceproxy.New(filepath.Join(fakeDir, "native"), filepath.Join(realDir, "native"))
	if cfg.TraceCaptureFile != "" {
		captureFile, err := os.Create(cfg.TraceCaptureFile)
		if err != nil {
			return fmt.Errorf("failed to create trace capture file: %w", err)
		}
		defer captureFile.Close()
		proxy.CaptureWriter = captureFile
	}
	exitCode, err := proxy.RunChild(ctx, args[0], args[1:], fakeDir)
	if err != nil {
		return fmt.Errorf("trace proxy failed: %w", err)
	}
	if exitCode != 0 {
		os.Exit(exitCode)
	}
	return nil
}

// provisionSinks loads path's static sink definitions into sinks,
// mirroring spec.md §4.10's static provisioning.
func provisionSinks(sinks *catalog.SinkCatalog, path string) error {
	doc, err := config.LoadSinksFile(path)
	if err != nil {
		return err
	}
	for _, s := range doc.Sinks {
		format, ok := pulse.ParseSampleFormat(s.Format)
		if !ok {
			return fmt.Errorf("pulsewired: unknown sample format %q for sink %q", s.Format, s.Name)
		}
		spec, err := pulse.NewSampleSpec(format, s.Channels, s.Rate)
		if err != nil {
			return fmt.Errorf("pulsewired: sink %q: %w", s.Name, err)
		}
		chMap, err := pulse.DefaultChannelMap(s.Channels)
		if err != nil {
			return fmt.Errorf("pulsewired: sink %q: %w", s.Name, err)
		}
		volumes := make([]pulse.Volume, s.Channels)
		for i := range volumes {
			volumes[i] = pulse.Unity
		}
		var ports []catalog.SinkPort
		for _, name := range s.Ports {
			ports = append(ports, catalog.SinkPort{Name: name, Description: name, Available: 1})
		}
		activePort := -1
		if len(ports) > 0 {
			activePort = 0
		}
		sinks.Add(&catalog.Sink{
			Name:        s.Name,
			Description: s.Description,
			Properties:  pulse.NewPropList(),
			SampleSpec:  spec,
			ChannelMap:  chMap,
			Volume:      pulse.CumulativeVolume{Volumes: volumes},
			Ports:       ports,
			ActivePort:  activePort,
			Backend:     catalog.NullBackend{},
		})
	}
	return nil
}

// initTracer wires an OTLP gRPC exporter, mirroring the teacher's
// initTracer.
func initTracer(cfg config.Config) (func(context.Context) error, error) {
	exporter, err := otlptrace.New(
		context.Background(),
		otlptracegrpc.NewClient(
			otlptracegrpc.WithInsecure(),
			otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}
	resources, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			attribute.String("service.name", "pulsewired"),
			attribute.String("library.language", "go"),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace resources: %w", err)
	}

	otel.SetTracerProvider(
		sdktrace.NewTracerProvider(
			sdktrace.WithSampler(sdktrace.AlwaysSample()),
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(resources),
		),
	)
	return exporter.Shutdown, nil
}

// setupTracing returns initTracer's cleanup when OTLPEndpoint is set,
// or a no-op cleanup otherwise.
func setupTracing(cfg config.Config) (func(context.Context) error, error) {
	if cfg.OTLPEndpoint == "" {
		return func(context.Context) error { return nil }, nil
	}
	return initTracer(cfg)
}
