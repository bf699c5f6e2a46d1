package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bokwoon95/erro"
	"github.com/bokwoon95/richtext"
	"github.com/bokwoon95/richtext/searchindex"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	flagAddr     = flag.String("addr", ":8080", "address to listen on")
	flagConfig   = flag.String("config", "", "path to a widget-config.js file")
	flagDBDriver = flag.String("db-driver", searchindex.DriverSQLite3, "search index driver (sqlite3 or postgres), empty to disable indexing")
	flagDBDSN    = flag.String("db-dsn", "searchindex.sqlite3?_journal_mode=WAL&_synchronous=NORMAL", "search index data source name")
	flagLogLevel = flag.String("log-level", "info", "debug, info, warn or error")
	flagMaxBody  = flag.Int64("max-body", richtext.DefaultMaxBodySize, "largest accepted sanitize request body in bytes")
)

func main() {
	flag.Parse()
	logger := mustBuildLogger(*flagLogLevel)
	defer logger.Sync()

	opts := []richtext.Option{richtext.WithLogger(logger), richtext.WithMaxBodySize(*flagMaxBody)}
	if *flagConfig != "" {
		cfg, err := richtext.LoadConfig(*flagConfig)
		if err != nil {
			logger.Fatal("failed to load widget config", zap.String("path", *flagConfig), zap.Error(err))
		}
		opts = append(opts, richtext.WithConfig(cfg))
	}
	var idx *searchindex.Index
	if *flagDBDriver != "" {
		var err error
		idx, err = searchindex.Open(context.Background(), *flagDBDriver, *flagDBDSN)
		if err != nil {
			logger.Fatal("failed to open search index", zap.String("driver", *flagDBDriver), zap.Error(err))
		}
		defer idx.Close()
		opts = append(opts, richtext.WithSearchIndexer(idx))
	}
	rt := richtext.New(opts...)

	mux := chi.NewRouter()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.Recoverer)
	mux.Use(requestLogger(logger))
	mux.Use(middleware.Compress(5))
	mux.Post("/sanitize", rt.ServeSanitize)
	mux.Get("/browser-data", rt.ServeBrowserData)
	if idx != nil {
		mux.Get("/search", serveSearch(logger, idx))
	}

	srv := &http.Server{Addr: *flagAddr, Handler: mux}
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}()
	logger.Info("rich text widget server listening",
		zap.String("addr", *flagAddr),
		zap.String("widget", rt.Name()),
		zap.Strings("toolbar", rt.DefaultOptions().Toolbar),
	)
	err := srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.Fatal("server failed", zap.Error(erro.Wrap(err)))
	}
}

func serveSearch(logger *zap.Logger, idx *searchindex.Index) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		widgetIDs, err := idx.Search(r.Context(), r.FormValue("q"))
		if err != nil {
			logger.Error("search failed",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.Error(err),
			)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		if widgetIDs == nil {
			widgetIDs = []string{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string][]string{"widgetIDs": widgetIDs})
	}
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

func mustBuildLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}
	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}
	logger, err := cfg.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to build logger: %v", err))
	}
	return logger
}
