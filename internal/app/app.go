package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/moyo/product-approval/config"
	"github.com/moyo/product-approval/internal/adapter/auth"
	"github.com/moyo/product-approval/internal/adapter/datalake"
	"github.com/moyo/product-approval/internal/adapter/httphandler"
	"github.com/moyo/product-approval/internal/adapter/storage"
	"github.com/moyo/product-approval/internal/core/service"
)

type App struct {
	ctx        context.Context
	cfg        config.Config
	sqldb      storage.SQLDB
	catalog    service.Catalog
	httpServer httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	syncer := app.initStorage()
	app.initInboundAdapters()

	// Bootstrap seeding runs before the server accepts calls.
	if err := syncer.SeedIfEmpty(ctx); err != nil {
		app.fallDown("App.New", err)
	}

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initStorage() *service.Syncer {
	const op = "App.initStorage"

	sqldb, err := storage.NewSQLDB(app.ctx, app.cfg.StoragePath)
	if err != nil {
		app.fallDown(op, err)
	}
	app.sqldb = sqldb

	repo := storage.NewProductsRepository(sqldb)
	lake := datalake.NewFileStore(app.cfg.DataLakePath)
	syncer := service.NewSyncer(repo, lake)
	app.catalog = service.New(repo, syncer)
	return syncer
}

func (app *App) initInboundAdapters() {
	const op = "App.initInboundAdapters"

	authService, err := auth.NewService(app.cfg.JWTSigningKey)
	if err != nil {
		app.fallDown(op, err)
	}

	mux := http.NewServeMux()
	httphandler.RegisterAuth(mux, authService)
	httphandler.RegisterProducts(mux, app.catalog, authService)

	handler := httphandler.AllowJSON(mux)
	handler = httphandler.WithLogging(handler)
	handler = httphandler.WithRequestID(handler)
	app.httpServer = httphandler.NewHTTPServer(app.cfg.HTTPServerAddr, handler)
}

func (app *App) Run(stopFn context.CancelFunc) {
	go app.httpServer.Run(stopFn)

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	app.sqldb.Close()

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
