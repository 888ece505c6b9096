package app

import (
	"net/http"

	"gorm.io/gorm"

	"list-app-go/internal/cache"
	"list-app-go/internal/config"
	"list-app-go/internal/db"
	"list-app-go/internal/realtime"
	"list-app-go/internal/repository/postgres"
	"list-app-go/internal/state"
	syncengine "list-app-go/internal/sync"
	"list-app-go/internal/transport/httpserver"
	"list-app-go/internal/transport/httpserver/handler"
	"list-app-go/internal/transport/wshub"
	"list-app-go/pkg/logger"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	engine     *syncengine.Engine
	db         *gorm.DB
	store      cache.Store
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	log.Info("app: applying migrations")
	if err := db.Migrate(dbConn); err != nil {
		return nil, err
	}

	store, err := newStore(cfg, log)
	if err != nil {
		return nil, err
	}

	var subscriber syncengine.Subscriber
	if cfg.Realtime.Enabled {
		subscriber = realtime.New(cfg.NotifyDSN(), cfg.Realtime, log)
	}

	hub := wshub.NewHub(log)
	engine := syncengine.New(
		cfg,
		state.New(),
		cache.NewLists(store),
		postgres.New(dbConn),
		subscriber,
		hub,
		log,
	)

	log.Info("app: initializing router")
	handlers := handler.New(engine, log)
	router := httpserver.NewRouter(handlers, hub, log)

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		engine:     engine,
		db:         dbConn,
		store:      store,
	}, nil
}

func newStore(cfg config.Config, log logger.Logger) (cache.Store, error) {
	if cfg.Cache.Path == "" {
		log.Info("app: cache path empty, using in-memory store")
		return cache.NewMemoryStore(), nil
	}

	store, err := cache.NewSQLiteStore(cfg.Cache.Path)
	if err != nil {
		return nil, err
	}
	log.Info("app: cache store ready", "path", cfg.Cache.Path)
	return store, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Engine() *syncengine.Engine {
	return a.engine
}

func (a *App) Close() error {
	if a.engine != nil {
		if err := a.engine.Teardown(); err != nil {
			return err
		}
	}

	if a.store != nil {
		if err := a.store.Close(); err != nil {
			return err
		}
	}

	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
