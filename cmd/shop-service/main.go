package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/auth"
	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/db"
	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/dedup"
	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/events"
	httpapi "github.com/andreasstove999/ecommerce-system/shop-service-go/internal/http"
	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/image"
	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/sequence"
	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/user"
)

func main() {
	logger := log.New(os.Stdout, "", log.LstdFlags|log.Lmicroseconds)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- DB ---
	pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
			logger.Fatalf("db migrate: %v", err)
		}
	}

	// --- cache ---
	var productCache catalog.ProductCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Printf("redis unavailable, product cache disabled: %v", err)
		} else {
			productCache = catalog.NewRedisProductCache(rdb, cfg.ProductCacheTTL)
			logger.Printf("product cache enabled at %s", cfg.RedisAddr)
		}
	}

	// --- domain ---
	productRepo := catalog.NewPostgresProductRepository(pool)
	categoryRepo := catalog.NewPostgresCategoryRepository(pool)
	products := catalog.NewProductService(productRepo, categoryRepo, productCache, logger)
	categories := catalog.NewCategoryService(categoryRepo, products)
	images := image.NewService(image.NewPostgresRepository(pool), products, products)
	users := user.NewService(user.NewPostgresRepository(pool))
	carts := cart.NewService(cart.NewPostgresRepository(pool), products)

	// --- AMQP ---
	var publisher order.Publisher
	if cfg.EventsEnabled {
		conn, err := events.Dial(cfg.RabbitURL)
		if err != nil {
			logger.Fatalf("%v", err)
		}
		defer conn.Close()

		pub, err := events.NewPublisher(conn, sequence.NewRepository(pool), events.PublisherOptions{})
		if err != nil {
			logger.Fatalf("publisher: %v", err)
		}
		defer pub.Close()
		publisher = pub

		if cfg.ConsumeDeliveries {
			handler := events.ShipmentDeliveredHandler(pool, dedup.NewRepository(pool), logger)
			consumer := events.ConsumerConfig{RoutingKey: events.ShipmentDeliveredRoutingKey, Tag: events.ServiceName}
			if err := events.StartConsumer(ctx, conn, consumer, handler, logger); err != nil {
				logger.Fatalf("start delivery consumer: %v", err)
			}
		}
	}

	orders := order.NewService(order.NewPostgresStore(pool), order.NewPostgresRepository(pool), publisher, products, logger)

	// --- HTTP ---
	router := httpapi.NewRouter(httpapi.Deps{
		Logger:           logger,
		Products:         products,
		Categories:       categories,
		Images:           images,
		Carts:            carts,
		Orders:           orders,
		Users:            users,
		Tokens:           auth.NewTokens(cfg.JWTSecret, cfg.JWTExpiry),
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		Timeout:          cfg.HTTPTimeout,
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("http listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	select {
	case <-ctx.Done():
		logger.Printf("shutdown signal received")
	case err := <-errCh:
		logger.Printf("fatal error: %v", err)
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Printf("http shutdown: %v", err)
	}

	logger.Printf("shutdown complete")
}
