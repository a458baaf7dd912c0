// Package server initializes and runs the empvault server: it opens the
// database, applies migrations, connects object storage and serves the HTTP
// and gRPC transports until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/empvault/internal/logging"
	"github.com/dmitrijs2005/empvault/internal/server/auth"
	"github.com/dmitrijs2005/empvault/internal/server/blobstore"
	"github.com/dmitrijs2005/empvault/internal/server/config"
	"github.com/dmitrijs2005/empvault/internal/server/httpapi"
	"github.com/dmitrijs2005/empvault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/empvault/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/empvault/internal/server/grpc"
)

// shutdownTimeout bounds the graceful HTTP shutdown.
const shutdownTimeout = 10 * time.Second

type App struct {
	config          *config.Config
	logger          logging.Logger
	db              *sql.DB
	userService     *services.UserService
	documentService *services.DocumentService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewLogger(os.Stdout, c.LogLevel)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	blobs, err := blobstore.NewS3Store(ctx, blobstore.Options{
		Region:       c.S3Region,
		AccessKey:    c.S3RootUser,
		SecretKey:    c.S3RootPassword,
		BaseEndpoint: c.S3BaseEndpoint,
		Bucket:       c.S3Bucket,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("blob store init error: %w", err)
	}
	if err := blobs.EnsureBucket(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("blob store bucket error: %w", err)
	}

	tokens, err := auth.NewTokenService([]byte(c.SecretKey), c.AccessTokenValidityDuration)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("token service error: %w", err)
	}

	us, err := services.NewUserService(db, rm, tokens, c, logger.With("module", "users"))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("user service error: %w", err)
	}
	ds := services.NewDocumentService(db, rm, blobs, logger.With("module", "documents"))

	return &App{config: c, logger: logger, db: db, userService: us, documentService: ds}, nil
}

func (app *App) httpHandler() http.Handler {
	h := httpapi.NewHandler(app.userService, app.documentService, httpapi.Options{
		CookieName:     app.config.CookieName,
		CookieSecure:   app.config.CookieSecure,
		TokenTTL:       app.config.AccessTokenValidityDuration,
		MaxUploadBytes: app.config.MaxUploadBytes,
		HealthCheck:    app.db.PingContext,
	}, app.logger.With("module", "http_server"))
	return h.Routes()
}

// serveHTTP serves handler on listen until ctx is cancelled.
func serveHTTP(ctx context.Context, listen net.Listener, handler http.Handler, logger logging.Logger) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error(ctx, "http shutdown", "error", err)
		}
	}()

	logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())
	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (app *App) startHTTPServer(ctx context.Context) error {
	listen, err := net.Listen("tcp", app.config.EndpointAddrHTTP)
	if err != nil {
		return err
	}
	return serveHTTP(ctx, listen, app.httpHandler(), app.logger)
}

func (app *App) startGRPCServer(ctx context.Context) error {
	s, err := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.userService, app.documentService)
	if err != nil {
		return err
	}
	return s.Run(ctx)
}

// Run serves both transports until SIGINT, SIGTERM or SIGQUIT, or until one
// of them fails, and then closes the database.
func (app *App) Run(ctx context.Context) error {

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return app.startHTTPServer(ctx) })
	g.Go(func() error { return app.startGRPCServer(ctx) })

	err := g.Wait()
	if cerr := app.db.Close(); cerr != nil {
		app.logger.Error(context.Background(), "db close", "error", cerr)
	}
	app.logger.Info(context.Background(), "App stopped")
	return err
}
