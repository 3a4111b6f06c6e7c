// Package server assembles the application: configuration, database,
// cache, logging sinks, repositories, controllers, and the HTTP stack.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shashiranjanraj/rechargehub/app/controllers"
	"github.com/shashiranjanraj/rechargehub/app/repositories"
	"github.com/shashiranjanraj/rechargehub/app/routes"
	"github.com/shashiranjanraj/rechargehub/config"
	"github.com/shashiranjanraj/rechargehub/pkg/auth"
	"github.com/shashiranjanraj/rechargehub/pkg/cache"
	"github.com/shashiranjanraj/rechargehub/pkg/database"
	"github.com/shashiranjanraj/rechargehub/pkg/logger"
	"github.com/shashiranjanraj/rechargehub/pkg/metrics"
	"github.com/shashiranjanraj/rechargehub/pkg/middleware"
	"github.com/shashiranjanraj/rechargehub/pkg/reqid"
	"github.com/shashiranjanraj/rechargehub/pkg/router"
	"github.com/shashiranjanraj/rechargehub/pkg/storage"
)

const shutdownTimeout = 15 * time.Second

// App holds the wired application and the resources it must release.
type App struct {
	Cfg    *config.Config
	Router *router.Router

	mongo   *mongo.Client
	cache   *cache.Cache
	logSink *logger.MongoHandler
}

// Build connects the backing services and mounts the API. The returned
// App owns the connections; call Close when done.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	client, db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return nil, err
	}
	if err := repositories.EnsureIndexes(ctx, db); err != nil {
		disconnect(client)
		return nil, err
	}

	app := &App{Cfg: cfg, mongo: client}

	if cfg.LogToMongo {
		app.logSink = logger.NewMongoHandler(db.Collection(repositories.LogsCollection))
		logger.Setup(cfg.AppEnv, app.logSink)
	} else {
		logger.Setup(cfg.AppEnv)
	}

	app.cache, err = cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		logger.Warn("redis unavailable, hot-list caching disabled", "error", err)
	}

	var photoDisk storage.Disk
	if cfg.PhotoDisk != "inline" {
		photoDisk, err = storage.New(cfg)
		if err != nil {
			app.Close(ctx)
			return nil, err
		}
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret)

	users := repositories.NewUserRepository(db)
	plans := repositories.NewPlanRepository(db)
	txns := repositories.NewTransactionRepository(db)
	feedbacks := repositories.NewFeedbackRepository(db)

	r := router.New()
	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
	)

	routes.RegisterAPI(r, routes.Controllers{
		Users:        controllers.NewUserController(users, tokens, cfg, photoDisk),
		Plans:        controllers.NewPlanController(plans, app.cache),
		Transactions: controllers.NewTransactionController(txns),
		Feedbacks:    controllers.NewFeedbackController(feedbacks, users, app.cache, cfg),
	}, tokens, cfg)

	app.Router = r
	return app, nil
}

// Start serves HTTP until the context is cancelled or a SIGINT/SIGTERM
// arrives, then drains in-flight requests.
func (a *App) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + a.Cfg.AppPort,
		Handler:           a.Router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", srv.Addr, "env", a.Cfg.AppEnv)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close releases the database, cache, and log-sink resources.
func (a *App) Close(context.Context) {
	if a.logSink != nil {
		a.logSink.Close()
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			logger.Warn("closing redis", "error", err)
		}
	}
	if a.mongo != nil {
		disconnect(a.mongo)
	}
}

func disconnect(client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		logger.Warn("disconnecting mongo", "error", err)
	}
}
