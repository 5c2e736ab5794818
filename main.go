package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/skridlevsky/outliner/backend"
	"github.com/skridlevsky/outliner/boltstore"
	"github.com/skridlevsky/outliner/config"
	"github.com/skridlevsky/outliner/filestore"
	"github.com/skridlevsky/outliner/logging"
	"github.com/skridlevsky/outliner/metrics"
	"github.com/skridlevsky/outliner/sqlitestore"
	"github.com/skridlevsky/outliner/store"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	readOnly := flag.Bool("read-only", false, "Disable all write operations")
	dataPath := flag.String("data", "", "Data directory, or database file for bolt and sqlite (overrides config)")
	backendKind := flag.String("backend", "", "Storage backend: file, bolt, sqlite or memory (overrides config)")
	flag.Usage = usage
	flag.Parse()

	cfg, err := loadConfig(*configPath, *dataPath, *backendKind, *readOnly)
	if err != nil {
		fmt.Fprintf(os.Stderr, "outliner: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	defer log.Sync()

	if args := flag.Args(); len(args) > 0 {
		runCommand(args[0], args[1:], cfg, log)
		return
	}

	if err := serve(cfg, log); err != nil {
		fmt.Fprintf(os.Stderr, "outliner: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: outliner [flags]              serve MCP over stdio\n")
	fmt.Fprintf(os.Stderr, "       outliner [flags] COMMAND ARGS\n\n")
	fmt.Fprintf(os.Stderr, "Commands: add, new, ls, search, show, export, trash\n")
	fmt.Fprintf(os.Stderr, "Run 'outliner COMMAND -h' for command flags.\n\n")
	flag.PrintDefaults()
}

// loadConfig layers command-line flags over config.Load.
func loadConfig(path, data, kind string, readOnly bool) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if data != "" {
		cfg.DataPath = data
	}
	if kind != "" {
		cfg.Backend = kind
	}
	if readOnly {
		cfg.ReadOnly = true
	}
	return cfg, cfg.Validate()
}

// serve runs the MCP server on stdio until the client disconnects or the
// process is interrupted.
func serve(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opts []store.Option
	var m *metrics.Observer
	if cfg.MetricsAddr != "" {
		m = metrics.New()
		opts = append(opts, store.WithObserver(m))
	}

	st, err := openStore(ctx, cfg, log, opts...)
	if err != nil {
		return err
	}
	defer st.Close()

	if m != nil {
		m.SetCounts(st.PageCount(), len(st.Trash()))
		metricsSrv := startMetrics(cfg.MetricsAddr, m, log)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = metricsSrv.Shutdown(shutdownCtx)
		}()
	}

	log.Info("serving MCP on stdio",
		zap.String("version", version),
		zap.String("backend", backend.Name(st.Backend())),
		zap.Bool("readOnly", cfg.ReadOnly),
		zap.Int("pages", st.PageCount()))

	err = newServer(st, cfg.ReadOnly).Run(ctx, &mcp.StdioTransport{})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func startMetrics(addr string, m *metrics.Observer, log *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", zap.Error(err))
		}
	}()
	log.Info("metrics listening", zap.String("addr", addr))
	return srv
}

// openStore opens the configured backend and loads the document store from it.
func openStore(ctx context.Context, cfg config.Config, log *zap.Logger, opts ...store.Option) (*store.Store, error) {
	codec, err := backend.CodecByName(cfg.Codec)
	if err != nil {
		return nil, err
	}
	b, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	opts = append([]store.Option{store.WithCodec(codec), store.WithLogger(log)}, opts...)
	st, err := store.Open(ctx, b, opts...)
	if err != nil {
		b.Close()
		return nil, err
	}
	return st, nil
}

func openBackend(ctx context.Context, cfg config.Config) (backend.Backend, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return backend.NewMemory(), nil
	case config.BackendFile:
		return filestore.Open(cfg.DataPath)
	case config.BackendBolt:
		path, err := dbPath(cfg.DataPath, "outliner.db")
		if err != nil {
			return nil, err
		}
		return boltstore.Open(path)
	case config.BackendSQLite:
		path, err := dbPath(cfg.DataPath, "outliner.sqlite")
		if err != nil {
			return nil, err
		}
		return sqlitestore.Open(ctx, path)
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}

// dbPath treats a data path without an extension as a directory holding name.
func dbPath(data, name string) (string, error) {
	path := data
	if filepath.Ext(data) == "" {
		path = filepath.Join(data, name)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	return path, nil
}
