// Package server wires the PhoneAuth server together: storage, the
// authentication service, the HTTP API, the gRPC health endpoint and the
// revocation janitor. It also handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/phoneauth/internal/logging"
	"github.com/dmitrijs2005/phoneauth/internal/server/auth"
	"github.com/dmitrijs2005/phoneauth/internal/server/config"
	"github.com/dmitrijs2005/phoneauth/internal/server/httpapi"
	"github.com/dmitrijs2005/phoneauth/internal/server/metrics"
	"github.com/dmitrijs2005/phoneauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/phoneauth/internal/server/services"
	"github.com/redis/go-redis/v9"

	gs "github.com/dmitrijs2005/phoneauth/internal/server/grpc"
)

const connectTimeout = 5 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	redis   *redis.Client
	http    *httpapi.Server
	health  *gs.HealthServer
	janitor *services.Janitor
}

// NewApp connects to storage, applies migrations and builds every component.
// Nothing is served until Run.
func NewApp(c *config.Config) (*App, error) {
	return newApp(c, os.Stdout)
}

func newApp(c *config.Config, logOut io.Writer) (app *App, err error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	logger := logging.NewJSON(logOut, c.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	db, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	defer func() {
		if err != nil {
			_ = db.Close()
		}
	}()

	var (
		opts []repomanager.Option
		rdb  *redis.Client
	)
	if c.RevocationBackend == config.RevocationRedis {
		rdb, err = openRedis(ctx, c.RedisAddr, c.RedisPassword, c.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("redis init error: %w", err)
		}
		defer func() {
			if err != nil {
				_ = rdb.Close()
			}
		}()
		opts = append(opts, repomanager.WithRedisRevocation(rdb))
	}

	rm := repomanager.NewPostgresRepositoryManager(opts...)
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	hasher, err := auth.NewBcryptHasher(c.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hasher init error: %w", err)
	}

	m := metrics.New()
	svc := services.NewAuthService(db, rm, hasher, c,
		services.WithLogger(logger),
		services.WithRecorder(m),
	)

	router := httpapi.NewRouter(svc, httpapi.RouterOptions{
		AllowedOrigins: c.CORSAllowedOrigins,
		Metrics:        m.Handler(),
		Recorder:       m,
		Logger:         logger,
	})

	return &App{
		config:  c,
		logger:  logger,
		db:      db,
		redis:   rdb,
		http:    httpapi.NewServer(c.EndpointAddrHTTP, router, logger),
		health:  gs.NewHealthServer(c.EndpointAddrGRPC, logger),
		janitor: services.NewJanitor(rm.RevokedTokens(db), c.JanitorInterval, logger),
	}, nil
}

func openDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// openRedis creates and pings a Redis client.
func openRedis(ctx context.Context, addr, password string, dbIndex int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       dbIndex,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// runServer runs one server and cancels the whole app when it fails.
func (app *App) runServer(ctx context.Context, cancelFunc context.CancelFunc, name string, serve func(context.Context, net.Listener) error, lis net.Listener) {
	if err := serve(ctx, lis); err != nil {
		app.logger.Error(ctx, "server failed", "server", name, "error", err)
		cancelFunc()
	}
}

// listen binds both listeners up front so a bad address fails startup before
// anything is reported as serving.
func (app *App) listen() (httpLis, grpcLis net.Listener, err error) {
	httpLis, err = app.http.Listen()
	if err != nil {
		return nil, nil, fmt.Errorf("http listen: %w", err)
	}
	grpcLis, err = app.health.Listen()
	if err != nil {
		_ = httpLis.Close()
		return nil, nil, fmt.Errorf("grpc listen: %w", err)
	}
	return httpLis, grpcLis, nil
}

// Run serves until ctx is cancelled, a signal arrives or a server fails, then
// closes storage. Health turns SERVING only once both listeners are bound.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	httpLis, grpcLis, err := app.listen()
	if err != nil {
		app.logger.Error(ctx, "startup failed", "error", err)
		app.close(ctx)
		return
	}

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		app.runServer(ctx, cancelFunc, "http", app.http.Serve, httpLis)
	}()
	go func() {
		defer wg.Done()
		app.runServer(ctx, cancelFunc, "grpc", app.health.Serve, grpcLis)
	}()
	go func() {
		defer wg.Done()
		app.janitor.Run(ctx)
	}()

	app.health.SetServing(true)

	wg.Wait()

	app.close(ctx)
}

func (app *App) close(ctx context.Context) {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Warn(ctx, "closing redis", "error", err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Warn(ctx, "closing database", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
