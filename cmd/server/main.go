package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"farmlink-be/internal/auth"
	"farmlink-be/internal/cart"
	"farmlink-be/internal/catalog"
	"farmlink-be/internal/checkout"
	"farmlink-be/internal/config"
	"farmlink-be/internal/db"
	"farmlink-be/internal/events"
	"farmlink-be/internal/graph"
	"farmlink-be/internal/httpapi"
	"farmlink-be/internal/logger"
	"farmlink-be/internal/message"
	"farmlink-be/internal/middleware"
	"farmlink-be/internal/order"
	"farmlink-be/internal/payment"
	"farmlink-be/internal/payment/webhook"
	"farmlink-be/internal/product"
	"farmlink-be/internal/storage"
	"farmlink-be/internal/user"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	shutdownTimeout = 10 * time.Second
	sweepInterval   = 10 * time.Minute
)

// Swapped in tests.
var (
	initDBFunc      = db.InitDB
	startServerFunc = func(srv *http.Server) error {
		return srv.ListenAndServe()
	}
)

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server exited", zap.Error(err))
	}
}

// server is the application context built once at startup.
type server struct {
	handler   http.Handler
	limiter   *middleware.RateLimiter
	checkout  checkout.Service
	publisher events.Publisher
}

func (s *server) Close() error {
	return s.publisher.Close()
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()
	log := logger.L()

	database := initDBFunc(cfg)
	defer database.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()

	app, err := newServer(cfg, database, rdb)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go app.limiter.Run(ctx)
	go runOrphanSweeper(ctx, app.checkout, cfg.OrderPendingTTL)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           app.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.AppEnv))
		errCh <- startServerFunc(srv)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// newServer wires repositories, services and handlers into one router.
func newServer(cfg *config.Config, database *sql.DB, rdb *redis.Client) (*server, error) {
	log := logger.L()

	tokens := auth.NewTokenManager(cfg.JWTSecret, auth.DefaultTokenTTL)
	publisher := events.NewPublisher(cfg.KafkaBrokers)

	images, err := storage.NewS3Store(context.Background(), cfg)
	if err != nil {
		log.Warn("product image storage disabled", zap.Error(err))
		images = nil
	}

	/* ---------- repositories ---------- */
	userRepo := user.NewRepository(database)
	productRepo := product.NewRepository(database)
	orderRepo := order.NewRepository(database)
	paymentRepo := payment.NewRepository(database)
	messageRepo := message.NewRepository(database)

	/* ---------- services ---------- */
	userSvc := user.NewService(userRepo, tokens, user.NewRedisRevoker(rdb))
	productSvc := product.NewService(productRepo, userSvc, images, publisher)
	catalogSvc := catalog.NewService(productRepo, userSvc)
	cartSvc := cart.NewService(cart.NewRedisStore(rdb), productSvc)
	gateway := payment.NewStripeGateway(cfg.PaymentSecretKey, cfg.PaymentWebhookSecret, cfg.PaymentBaseURL)
	checkoutSvc := checkout.NewService(checkout.Deps{
		Carts:     cartSvc,
		Consumers: userSvc,
		Orders:    orderRepo,
		Payments:  paymentRepo,
		Gateway:   gateway,
		Events:    publisher,
		Currency:  cfg.Currency,
		Origin:    cfg.CORSOrigin,
	})
	messageSvc := message.NewService(messageRepo, userSvc, publisher)

	/* ---------- transport ---------- */
	schema, err := graph.NewSchema(&graph.Resolver{
		Users:         userSvc,
		Catalog:       catalogSvc,
		Products:      productSvc,
		Carts:         cartSvc,
		Checkout:      checkoutSvc,
		Messages:      messageSvc,
		SecureCookies: cfg.AppEnv == "production",
	})
	if err != nil {
		publisher.Close()
		return nil, fmt.Errorf("build graphql schema: %w", err)
	}

	limiter := middleware.NewRateLimiter()
	handler := httpapi.NewRouter(httpapi.RouterConfig{
		CORSOrigin:     cfg.CORSOrigin,
		Tokens:         tokens,
		Revocation:     userSvc,
		Limiter:        limiter,
		GraphQL:        httpapi.NewGraphQLHandler(schema),
		PaymentSuccess: httpapi.NewPaymentSuccessHandler(checkoutSvc),
		Webhook:        webhook.NewWebhookHandler(checkoutSvc, gateway, paymentRepo),
		ImageUpload:    httpapi.NewImageUploadHandler(productSvc),
		Health: httpapi.NewHealthHandler(map[string]httpapi.Check{
			"postgres": database.PingContext,
			"redis": func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			},
		}),
	})

	return &server{
		handler:   handler,
		limiter:   limiter,
		checkout:  checkoutSvc,
		publisher: publisher,
	}, nil
}

type orphanSweeper interface {
	SweepOrphans(ctx context.Context, olderThan time.Duration) ([]string, error)
}

// runOrphanSweeper cancels unpaid pending orders until ctx is done.
func runOrphanSweeper(ctx context.Context, sweeper orphanSweeper, olderThan time.Duration) {
	if olderThan <= 0 {
		return
	}
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := sweeper.SweepOrphans(ctx, olderThan); err != nil {
				logger.L().Warn("orphan sweep failed", zap.Error(err))
			}
		}
	}
}
