package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/cashier/internal/auth"
	"github.com/mmynk/cashier/internal/backend"
	"github.com/mmynk/cashier/internal/metrics"
	"github.com/mmynk/cashier/internal/middleware"
	"github.com/mmynk/cashier/internal/models"
	"github.com/mmynk/cashier/internal/notify"
	"github.com/mmynk/cashier/internal/register"
	"github.com/mmynk/cashier/internal/scan"
	"github.com/mmynk/cashier/internal/service"
	"github.com/mmynk/cashier/internal/storage"
	"github.com/mmynk/cashier/internal/storage/sqlite"
	"github.com/mmynk/cashier/pkg/api/apiconnect"
	"github.com/mmynk/cashier/pkg/config"
	"github.com/mmynk/cashier/pkg/logging"
	"github.com/mmynk/cashier/pkg/shutdown"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel, cfg.IsProduction())

	ctx, stop := shutdown.WithSignals(context.Background())
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)
	if err := seedAdmin(ctx, store, authenticator, cfg); err != nil {
		return err
	}

	var backendOpts []backend.Option
	if cfg.BackendToken != "" {
		backendOpts = append(backendOpts, backend.WithToken(cfg.BackendToken))
	}
	client, err := backend.New(cfg.BackendURL, backendOpts...)
	if err != nil {
		return fmt.Errorf("invalid backend url: %w", err)
	}

	reg := metrics.NewRegistry()
	notices := notify.NewQueue(100)
	terminal := register.New(client, register.Config{
		Scan:            scan.Policy{QuietPeriod: cfg.ScanQuietPeriod, MinLength: cfg.ScanMinLength},
		SearchDebounce:  cfg.SearchDebounce,
		CheckoutTimeout: cfg.CheckoutTimeout,
		LookupTimeout:   cfg.LookupTimeout,
		Notifier:        notify.Multi{notices, notify.NewLogNotifier(nil)},
		Metrics:         reg,
		Journal:         store,
	})
	defer terminal.Close()

	// the server still starts without a catalog; RefreshCatalog can be retried over RPC
	if err := terminal.RefreshCatalog(ctx); err != nil {
		slog.Warn("Initial catalog load failed", "backend", cfg.BackendURL, "error", err)
	}
	if cfg.CatalogRefresh > 0 {
		go terminal.RefreshEvery(ctx, cfg.CatalogRefresh)
	}

	mux := http.NewServeMux()

	registerPath, registerHandler := apiconnect.NewRegisterServiceHandler(
		service.NewRegisterService(terminal, notices, store, slog.Default()),
		connect.WithInterceptors(
			middleware.RequireAuth(jwtManager, models.RoleAdmin, models.RoleCashier),
			middleware.LoggingInterceptor(),
		),
	)
	mux.Handle(registerPath, registerHandler)

	authPath, authHandler := apiconnect.NewAuthServiceHandler(
		service.NewAuthService(authenticator, store, jwtManager, slog.Default()),
		connect.WithInterceptors(
			middleware.OptionalAuth(jwtManager),
			middleware.LoggingInterceptor(),
		),
	)
	mux.Handle(authPath, authHandler)

	mux.Handle("/metrics", reg.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Add logging and CORS middleware
	loggedHandler := loggingMiddleware(corsMiddleware(mux))

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	h2cHandler := h2c.NewHandler(loggedHandler, &http2.Server{})

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           h2cHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr), "env", cfg.AppEnv)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// seedAdmin creates the first operator from ADMIN_USERNAME/ADMIN_PASSWORD
// when the operators table is empty.
func seedAdmin(ctx context.Context, store storage.Store, authenticator auth.Authenticator, cfg config.Config) error {
	n, err := store.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to count operators: %w", err)
	}
	if n > 0 {
		return nil
	}
	if cfg.AdminPassword == "" {
		slog.Warn("No operators exist and ADMIN_PASSWORD is not set; nobody can log in")
		return nil
	}

	user, err := authenticator.Register(ctx, cfg.AdminUsername, "", cfg.AdminPassword, models.RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}
	slog.Info("Seeded admin operator", "user_id", user.ID, "username", user.Username)
	return nil
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
