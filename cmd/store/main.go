package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/crochet_store/internal/auth"
	"github.com/Skotchmaster/crochet_store/internal/catalog"
	"github.com/Skotchmaster/crochet_store/internal/checkout"
	"github.com/Skotchmaster/crochet_store/internal/config"
	"github.com/Skotchmaster/crochet_store/internal/dashboard"
	"github.com/Skotchmaster/crochet_store/internal/httpserver"
	"github.com/Skotchmaster/crochet_store/internal/logging"
	middleware "github.com/Skotchmaster/crochet_store/internal/middleware/auth"
	"github.com/Skotchmaster/crochet_store/internal/middleware/csrf"
	loggingmw "github.com/Skotchmaster/crochet_store/internal/middleware/logging"
	"github.com/Skotchmaster/crochet_store/internal/repo"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()
	cfg.Validate()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	rootCtx, rootCancel := context.WithCancel(logging.IntoContext(context.Background(), logger))
	defer rootCancel()

	var cl closers
	defer cl.closeAll(logger)

	store, gdb, err := openDocStore(rootCtx, cfg, &cl)
	if err != nil {
		log.Fatalf("docstore: %v", err)
	}
	blobs, uploadDir, err := openBlobStore(rootCtx, cfg, &cl)
	if err != nil {
		log.Fatalf("blobstore: %v", err)
	}
	sessions := openSessions(rootCtx, cfg, logger, &cl)
	publisher := openPublisher(cfg, &cl)

	cat := catalog.Default()
	orders := repo.NewOrderRepo(store, cfg.OrdersCollection)

	dash := dashboard.New(dashboard.Deps{
		Feed:   orders.Feed(),
		Orders: orders,
		Events: publisher,
		Log:    logger,
	})
	if err := dash.Start(rootCtx); err != nil {
		logger.Warn("order_subscription_start_error", "error", err)
	}
	defer dash.Stop()

	authn := auth.NewLocal(cfg.AdminIdentifier, cfg.AdminPasswordHash, cfg.JWTSecret, cfg.AdminTokenTTL)
	authn.OnAuthStateChange(func(identifier string, s auth.State) {
		logger.Info("admin_auth_state", "identifier", identifier, "state", s.String())
	})

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	csrfCfg := csrf.DefaultConfig()
	csrfCfg.Secure = true

	httpserver.Register(e, &httpserver.Deps{
		CatalogHandler:   &httpserver.CatalogHTTP{Store: cat, Searcher: openSearcher(rootCtx, cfg, cat, logger)},
		CartHandler:      &httpserver.CartHTTP{Catalog: cat, Events: publisher},
		FavoritesHandler: &httpserver.FavoritesHTTP{Catalog: cat},
		CheckoutHandler: &httpserver.CheckoutHTTP{Service: &checkout.Service{
			Orders:      orders,
			Blobs:       blobs,
			Events:      publisher,
			Mailer:      openMailer(cfg),
			ShippingFee: cfg.ShippingFee,
		}},
		AdminHandler: &httpserver.AdminHTTP{Auth: authn, Dashboard: dash},
		Sessions:     sessions,
		SessionTTL:   cfg.SessionTTL,
		AdminMW:      middleware.NewAdminMiddleware(authn),
		CSRF:         csrfCfg,
		UploadDir:    uploadDir,
		Ready: func(ctx context.Context) error {
			if gdb == nil {
				return nil
			}
			sqlDB, err := gdb.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown_error", "error", err)
	}
	logger.Info("stopped")
}
