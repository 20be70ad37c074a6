package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/danielkucera/goflexit/flexit"
	"github.com/danielkucera/goflexit/flexit/mbtransport"
	"github.com/danielkucera/goflexit/internal/config"
)

var (
	flagConfig        = flag.String("config", "", "Path to YAML config file (optional, GOFLEXIT_* env vars override)")
	flagOnce          = flag.Bool("once", false, "Print one status snapshot as JSON and exit")
	flagDumpRegisters = flag.Bool("dump-registers", false, "Print the register table of the unit as YAML and exit")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*flagConfig)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	model, err := cfg.Flexit.ParsedModel()
	if err != nil {
		logger.Fatal("Invalid model", zap.String("model", cfg.Flexit.Model), zap.Error(err))
	}
	unit := uint8(cfg.Flexit.UnitID)
	opts := []flexit.Option{flexit.WithLogger(logger.Named("flexit"))}

	// An explicit model needs no device to list its registers.
	if *flagDumpRegisters && model != flexit.ModelAuto {
		agg, err := flexit.NewAggregate(nil, unit, model, opts...)
		if err != nil {
			logger.Fatal("Failed to create aggregate", zap.Error(err))
		}
		if err := dumpRegisters(os.Stdout, agg); err != nil {
			logger.Fatal("Failed to dump registers", zap.Error(err))
		}
		return
	}

	transport, err := mbtransport.Dial(cfg.Modbus.Transport(), logger.Named("modbus"))
	if err != nil {
		logger.Fatal("Failed to connect", zap.String("url", cfg.Modbus.URL), zap.Error(err))
	}
	defer transport.Close()

	agg, err := flexit.NewAggregate(transport, unit, model, opts...)
	if err != nil {
		logger.Fatal("Failed to create aggregate", zap.Error(err))
	}
	logger.Info("Aggregate ready", zap.String("model", string(agg.Model())), zap.Uint8("unit", unit))

	if *flagDumpRegisters {
		if err := dumpRegisters(os.Stdout, agg); err != nil {
			logger.Fatal("Failed to dump registers", zap.Error(err))
		}
		return
	}

	if *flagOnce {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(collectStatus(agg)); err != nil {
			logger.Fatal("Failed to encode status", zap.Error(err))
		}
		return
	}

	metrics := NewMetrics(prometheus.DefaultRegisterer, logger)
	srv := newServer(agg, metrics, logger)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv.routes(mux)

	httpServer := &http.Server{
		Addr:         cfg.HTTP.Listen,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	go func() {
		logger.Info("Starting HTTP server", zap.String("address", cfg.HTTP.Listen))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Flexit.PollInterval)
	defer ticker.Stop()

	srv.poll()
	for {
		select {
		case <-ticker.C:
			srv.poll()
		case <-sigChan:
			logger.Info("Shutdown signal received")
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := httpServer.Shutdown(ctx); err != nil {
				logger.Error("HTTP shutdown failed", zap.Error(err))
			}
			cancel()
			return
		}
	}
}

func newLogger(c config.LogConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if c.Development {
		zc = zap.NewDevelopmentConfig()
	}
	level, err := zap.ParseAtomicLevel(c.Level)
	if err != nil {
		return nil, err
	}
	zc.Level = level
	return zc.Build()
}
