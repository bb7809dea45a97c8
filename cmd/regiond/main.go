package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
	"golang.org/x/time/rate"

	"github.com/regionkv/regiond/internal/infra/buildinfo"
	"github.com/regionkv/regiond/internal/infra/confloader"
	"github.com/regionkv/regiond/internal/infra/shutdown"
	"github.com/regionkv/regiond/internal/infra/tlsroots"
	"github.com/regionkv/regiond/internal/regionstore"
	"github.com/regionkv/regiond/internal/regionstore/snapshotfs"
	"github.com/regionkv/regiond/internal/server/clusterserver"
	"github.com/regionkv/regiond/internal/server/config"
	"github.com/regionkv/regiond/internal/server/httpserver"
	"github.com/regionkv/regiond/internal/telemetry/logger"
	"github.com/regionkv/regiond/internal/telemetry/metric"
)

func main() {
	app := &cli.App{
		Name:    "regiond",
		Usage:   "region-replica snapshot transport and storage node",
		Version: buildinfo.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to configuration file",
			},
		},
		Action: func(c *cli.Context) error {
			return run(c.String("config"))
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile string) error {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	slogLogger := slog.Default()

	log.Info("starting regiond",
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"config", configFile)

	engine, err := regionstore.NewBadgerEngine(regionstore.DefaultConfig(cfg.Storage.DataDir), slogLogger)
	if err != nil {
		return fmt.Errorf("open region store: %w", err)
	}

	promReg := prometheus.NewRegistry()
	metrics := metric.NewRegistry(promReg)
	promReg.MustRegister(metric.NewCollector(
		engineSizer{engine: engine, cf: regionstore.ColumnFamilyData},
		engineSizer{engine: engine, cf: regionstore.ColumnFamilyMeta},
	))

	fsm := clusterserver.NewFSM(slogLogger)
	raftNode, err := clusterserver.NewRaftNode(clusterserver.RaftConfig{
		NodeID:    cfg.Cluster.NodeID,
		BindAddr:  cfg.Cluster.RaftAddr,
		DataDir:   cfg.Cluster.DataDir,
		Bootstrap: cfg.Cluster.Bootstrap,
		Logger:    slogLogger,
	}, fsm)
	if err != nil {
		engine.Close()
		return fmt.Errorf("start raft node: %w", err)
	}

	adaptors := newAdaptorRegistry(engine, snapshotfs.NewRaftLogEntryReader(raftNode.LogStore()), cfg.Storage.SnapshotReadRateLimitBPS, metrics)

	router := httpserver.NewRouter(&httpserver.RouterConfig{
		Logger:     slogLogger,
		AdminToken: cfg.Security.AdminToken,
		Regions:    adaptors.lookup,
		Metrics:    metrics,
	})
	httpSrv := httpserver.New(cfg.Server.HTTP.Addr, router)

	var certWatcher *tlsroots.Watcher
	if cfg.Server.HTTP.TLSCertFile != "" && cfg.Server.HTTP.TLSKeyFile != "" {
		certWatcher, err = tlsroots.NewWatcher(cfg.Server.HTTP.TLSCertFile, cfg.Server.HTTP.TLSKeyFile,
			tlsroots.WithLogger(slogLogger))
		if err != nil {
			raftNode.Close()
			engine.Close()
			return fmt.Errorf("load tls certificate: %w", err)
		}
		certWatcher.StartAsync()
		httpSrv.UseTLSWatcher(certWatcher)
	}

	shutdownHandler := shutdown.NewHandler(30 * time.Second)

	// Hooks run in reverse registration order: HTTP server, cert watcher,
	// snapshot adaptors, Raft node, region store.
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("closing region store")
		return engine.Close()
	})
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down raft node")
		return raftNode.Close()
	})
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("draining snapshot adaptors")
		return adaptors.shutdown(ctx)
	})
	if certWatcher != nil {
		shutdownHandler.OnShutdown(func(ctx context.Context) error {
			certWatcher.Stop()
			return nil
		})
	}
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down admin http server")
		return httpSrv.Shutdown(ctx)
	})

	go func() {
		log.Info("admin http server listening", "addr", cfg.Server.HTTP.Addr, "tls", certWatcher != nil)

		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("admin http server error", "error", err)
		}
	}()

	log.Info("regiond started, waiting for shutdown signal")
	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("regiond stopped gracefully")
	return nil
}

func loadConfig(configFile string) (*config.ServerConfig, error) {
	cfg := config.Default()

	var opts []confloader.Option
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}
	loader := confloader.NewLoader(opts...)

	if err := loader.Load(cfg); err != nil {
		return nil, err
	}
	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func initLogger(cfg *config.ServerConfig) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return nil, err
	}
	logger.SetDefault(log)
	return log, nil
}

// engineSizer adapts one column family of a BadgerEngine to
// metric.EngineSizer.
type engineSizer struct {
	engine *regionstore.BadgerEngine
	cf     regionstore.ColumnFamily
}

func (e engineSizer) Size() (lsm, vlog int64) {
	return e.engine.Size(e.cf)
}

// adaptorRegistry lazily builds one snapshot adaptor per region over the
// node's shared region store, so the admin surface and the consensus
// library's snapshot transport always resolve the same adaptor instance
// for a given region id.
type adaptorRegistry struct {
	mu        sync.Mutex
	engine    *regionstore.BadgerEngine
	logReader snapshotfs.LogEntryReader
	rateBPS   int64
	metrics   *metric.Registry
	byRegion  map[int64]*snapshotfs.Adaptor
}

func newAdaptorRegistry(engine *regionstore.BadgerEngine, logReader snapshotfs.LogEntryReader, rateBPS int64, metrics *metric.Registry) *adaptorRegistry {
	return &adaptorRegistry{
		engine:    engine,
		logReader: logReader,
		rateBPS:   rateBPS,
		metrics:   metrics,
		byRegion:  make(map[int64]*snapshotfs.Adaptor),
	}
}

func (r *adaptorRegistry) lookup(regionID int64) (*snapshotfs.Adaptor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a, ok := r.byRegion[regionID]; ok {
		return a, true
	}

	opts := []snapshotfs.Option{snapshotfs.WithMetrics(r.metrics)}
	if r.rateBPS > 0 {
		opts = append(opts, snapshotfs.WithRateLimiter(rate.NewLimiter(rate.Limit(r.rateBPS), int(r.rateBPS))))
	}

	a := snapshotfs.New(regionID, r.engine, r.logReader, opts...)
	r.byRegion[regionID] = a
	return a, true
}

func (r *adaptorRegistry) shutdown(ctx context.Context) error {
	r.mu.Lock()
	adaptors := make([]*snapshotfs.Adaptor, 0, len(r.byRegion))
	for _, a := range r.byRegion {
		adaptors = append(adaptors, a)
	}
	r.mu.Unlock()

	var lastErr error
	for _, a := range adaptors {
		if err := a.Shutdown(ctx); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
