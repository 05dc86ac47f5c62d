package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"simas/alert"
	"simas/analytics"
	"simas/config"
	"simas/connection"
	"simas/loader"
	"simas/logger"
)

// App bundles everything the route handlers need. Managers are constructed
// here, once, and injected; none of them is a package global. Cfg holds the
// startup snapshot; Settings is the live, saveable view handlers read from.
type App struct {
	Cfg       *config.Config
	Settings  *config.Store
	DB        *sqlx.DB
	Analytics *analytics.Manager
	Monitor   *alert.Monitor
	Dedup     *alert.Deduplicator
	Conn      *connection.Manager
}

const configPath = "./simas.yaml"

func main() {
	cfg, err := config.Load(configPath)
	if err != nil {
		panic(err)
	}
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	settings := config.NewStore(cfg, configPath)

	log, err := logger.New(cfg.App.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	log.Infow("connecting to database", "path", cfg.Database.Path)
	db, err := sqlx.Open("sqlite3", cfg.Database.Path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		log.Fatalw("db open error", "error", err)
	}
	defer db.Close()

	if err := loader.InitDatabase(db); err != nil {
		log.Fatalw("database initialization failed", "error", err)
	}
	log.Info("database initialization complete")

	var source analytics.Source
	if cfg.Analytics.UpstreamURL != "" {
		source = analytics.NewHTTPSource(cfg.Analytics.UpstreamURL, cfg.Auth.Token, cfg.Analytics.RequestTimeout)
		log.Infow("analytics source: upstream PSB backend", "url", cfg.Analytics.UpstreamURL)
	} else {
		source = analytics.NewDBSource(db)
		log.Info("analytics source: local database")
	}

	dedup := alert.NewDeduplicator(cfg.Alert.DedupWindow)
	defer dedup.Close()

	conn := connection.NewManager(cfg.Connection.Debounce, log)
	defer conn.Close()

	app := &App{
		Cfg:       cfg,
		Settings:  settings,
		DB:        db,
		Analytics: analytics.NewManager(source, cfg.Analytics.CacheTTL, log),
		Monitor:   alert.NewMonitor(db, dedup, settings, cfg.Alert.MonitorInterval, log),
		Dedup:     dedup,
		Conn:      conn,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go app.Monitor.Run(ctx)

	mux := http.NewServeMux()
	SetupRoutes(mux, app, log)

	server := &http.Server{Addr: cfg.Server.Addr, Handler: mux}
	go func() {
		<-ctx.Done()
		server.Shutdown(context.Background())
	}()

	log.Infow("server starting", "addr", cfg.Server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalw("server error", "error", err)
	}
	log.Info("server stopped")
}
