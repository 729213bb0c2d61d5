package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/billscan/internal/config"
	"github.com/mmynk/billscan/internal/metrics"
	"github.com/mmynk/billscan/internal/middleware"
	"github.com/mmynk/billscan/internal/ocr"
	"github.com/mmynk/billscan/internal/ocr/tesseract"
	"github.com/mmynk/billscan/internal/service"
	"github.com/mmynk/billscan/internal/session"
	"github.com/mmynk/billscan/internal/storage"
	"github.com/mmynk/billscan/internal/storage/sqlite"
	"github.com/mmynk/billscan/pkg/logging"
)

func serveCmd() *cobra.Command {
	var configPath string

	c := &cobra.Command{
		Use:   "serve",
		Short: "Run the Connect RPC server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logging.SetupWith(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)
			return serve(cmd.Context(), cfg)
		},
	}

	c.Flags().StringVarP(&configPath, "config", "c", "", "YAML config file (optional)")
	return c
}

func serve(ctx context.Context, cfg config.Config) error {
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		return err
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	var engine ocr.Recognizer
	if cfg.OCR.Enabled {
		engine = tesseract.New(tesseract.Options{Language: cfg.OCR.Language})
		slog.Info("OCR enabled", "language", cfg.OCR.Language, "mode", cfg.OCR.Mode)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions := session.NewManager(cfg.Reconcile.Epsilon)
	if cfg.Session.IdleTimeout > 0 {
		go sessions.Run(ctx, cfg.Session.SweepInterval(), cfg.Session.IdleTimeout)
		slog.Info("Idle session expiry enabled", "idle_timeout", cfg.Session.IdleTimeout)
	}

	handler, err := newHandler(cfg, store, sessions, engine)
	if err != nil {
		return err
	}

	// h2c serves HTTP/2 without TLS for Connect clients.
	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: h2c.NewHandler(handler, &http2.Server{}),
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newHandler mounts the RPC services and /metrics, plus cfg.StaticPath at "/"
// when one is configured. engine may be nil when OCR is disabled.
func newHandler(cfg config.Config, store storage.Store, sessions *session.Manager, engine ocr.Recognizer) (http.Handler, error) {
	interceptors := connect.WithInterceptors(
		middleware.SessionInterceptor(),
		middleware.LoggingInterceptor(),
		middleware.MetricsInterceptor(),
	)

	receiptSvc := service.NewReceiptService(sessions, store, engine)
	receiptSvc.SetDefaultMode(ocr.Mode(cfg.OCR.Mode))

	mux := http.NewServeMux()
	receiptPath, receiptHandler := service.NewReceiptServiceHandler(receiptSvc, interceptors)
	mux.Handle(receiptPath, receiptHandler)
	rosterPath, rosterHandler := service.NewRosterServiceHandler(service.NewRosterService(store), interceptors)
	mux.Handle(rosterPath, rosterHandler)
	mux.Handle("/metrics", metrics.Handler())

	if cfg.StaticPath != "" {
		dir, err := filepath.Abs(cfg.StaticPath)
		if err != nil {
			return nil, fmt.Errorf("static path %q: %w", cfg.StaticPath, err)
		}
		if _, err := os.Stat(dir); err != nil {
			return nil, fmt.Errorf("static path: %w", err)
		}
		mux.Handle("/", http.FileServer(http.Dir(dir)))
		slog.Info("Serving static files", "path", dir)
	}

	return accessLog(allowOrigin(cfg.CORSOrigin, mux)), nil
}

// statusWriter remembers the status code written through it.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// accessLog writes one line per HTTP request. RPC detail is logged by
// middleware.LoggingInterceptor, so this stays at debug level unless the
// request failed outside of Connect.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		level := slog.LevelDebug
		if sw.status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		slog.LogAttrs(r.Context(), level, "HTTP request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", sw.status),
			slog.Duration("elapsed", time.Since(start)),
		)
	})
}

var (
	corsAllowHeaders  = strings.Join([]string{"Content-Type", "Connect-Protocol-Version", "Connect-Timeout-Ms", middleware.SessionHeader}, ", ")
	corsExposeHeaders = strings.Join([]string{"Connect-Protocol-Version", middleware.SessionHeader}, ", ")
)

// allowOrigin lets browsers on origin call the API and answers preflights.
// An empty origin disables CORS headers.
func allowOrigin(origin string, next http.Handler) http.Handler {
	if origin == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Expose-Headers", corsExposeHeaders)
		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
