package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_backoffice/internal/assets"
	"github.com/Skotchmaster/shop_backoffice/internal/config"
	"github.com/Skotchmaster/shop_backoffice/internal/db"
	"github.com/Skotchmaster/shop_backoffice/internal/hash"
	"github.com/Skotchmaster/shop_backoffice/internal/logging"
	"github.com/Skotchmaster/shop_backoffice/internal/middleware/csrf"
	loggingmw "github.com/Skotchmaster/shop_backoffice/internal/middleware/logging"
	"github.com/Skotchmaster/shop_backoffice/internal/mykafka"
	"github.com/Skotchmaster/shop_backoffice/internal/repo"
	"github.com/Skotchmaster/shop_backoffice/internal/repo/mongorepo"
	"github.com/Skotchmaster/shop_backoffice/internal/service"
	"github.com/Skotchmaster/shop_backoffice/internal/session"
	httpserver "github.com/Skotchmaster/shop_backoffice/internal/transport/http"
	"github.com/Skotchmaster/shop_backoffice/internal/upload"
	"github.com/Skotchmaster/shop_backoffice/internal/view"
)

const sessionPurgeInterval = time.Hour

// stores is whichever catalog backend DB_DRIVER selected.
type stores interface {
	service.UserStore
	service.CatalogStore
	httpserver.Pinger
}

func main() {
	cfg := config.Load(".env")
	config.MustNonEmptyBytes(cfg.SessionSecret, "SESSION_SECRET")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		store stores
		gdb   *gorm.DB
		mongo *mongorepo.Repo
	)
	openCtx, cancel := context.WithTimeout(rootCtx, 10*time.Second)
	switch cfg.DBDriver {
	case config.DriverMongo:
		r, err := mongorepo.Connect(openCtx, cfg.MongoURL, cfg.MongoDB)
		if err != nil {
			log.Fatalf("mongo open: %v", err)
		}
		mongo, store = r, r
	default:
		config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
		d, err := db.Open(openCtx, cfg.DBDriver, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db open: %v", err)
		}
		gdb, store = d, repo.New(d)
	}
	cancel()

	ready := []httpserver.Pinger{store}

	var sessions session.Store
	switch cfg.SessionDriver {
	case config.SessionDriverRedis:
		rs := session.NewRedisStore(cfg.RedisAddr)
		defer rs.Close()
		sessions = rs
		ready = append(ready, rs)
	default:
		if gdb == nil {
			log.Fatalf("SESSION_DRIVER=%s needs a SQL DB_DRIVER, got %s", config.SessionDriverDB, cfg.DBDriver)
		}
		gs := session.NewGormStore(gdb)
		go purgeSessions(rootCtx, gs, logger)
		sessions = gs
	}

	var events service.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		topicCtx, cancel := context.WithTimeout(rootCtx, 10*time.Second)
		if err := mykafka.EnsureTopics(topicCtx, cfg.KafkaBrokers[0], mykafka.TopicProductEvents); err != nil {
			logger.Warn("kafka_topics_unavailable", "error", err)
		}
		cancel()

		prod, err := mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Fatalf("kafka producer: %v", err)
		}
		defer func() {
			if err := prod.Close(); err != nil {
				log.Printf("kafka close error: %v", err)
			}
		}()
		events = prod
	} else {
		logger.Info("kafka_disabled", "reason", "KAFKA_BROKERS is empty")
	}

	renderer, err := view.New()
	if err != nil {
		log.Fatalf("templates: %v", err)
	}

	if err := os.MkdirAll(cfg.ContentDir, 0o755); err != nil {
		log.Fatalf("content dir: %v", err)
	}

	catalog := service.NewCatalogService(
		store,
		upload.New(cfg.ContentDir),
		assets.NewResolver(cfg.ContentDir, cfg.AssetURLPrefix),
		events,
	)
	auth := service.NewAuthService(store, hash.Bcrypt{})

	manager := session.NewManager(sessions, cfg.SessionSecret, cfg.SessionTTL)
	manager.Secure = !cfg.IsDevelopment()

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	e.HTTPErrorHandler = httpserver.ErrorHandler(cfg.IsDevelopment())

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(middleware.BodyLimit(httpserver.MaxBodySize))
	e.Use(manager.Middleware)
	if cfg.CSRFEnabled {
		cc := csrf.DefaultConfig()
		cc.Secure = manager.Secure
		cc.SkipPrefixes = []string{"/api/", "/health/"}
		e.Use(csrf.Middleware(cc))
	}

	e.Static(strings.TrimSuffix(cfg.AssetURLPrefix, "/"), cfg.ContentDir)
	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:    &httpserver.AuthHTTP{Svc: auth},
		CatalogHandler: &httpserver.CatalogHTTP{Svc: catalog},
		Ready:          ready,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server_listening", "addr", srv.Addr, "db_driver", cfg.DBDriver, "session_driver", cfg.SessionDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-rootCtx.Done()
	logger.Info("shutting_down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if gdb != nil {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if mongo != nil {
		_ = mongo.Close(shutdownCtx)
	}

	logger.Info("shutdown_complete")
}

func purgeSessions(ctx context.Context, st *session.GormStore, l *slog.Logger) {
	t := time.NewTicker(sessionPurgeInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := st.PurgeExpired(ctx)
			if err != nil {
				l.Warn("session_purge_failed", "error", err)
				continue
			}
			if n > 0 {
				l.Info("session_purge", "removed", n)
			}
		}
	}
}
