package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"maravi/config"
	"maravi/cron"
	"maravi/database"
	"maravi/database/repository"
	"maravi/handlers"
	"maravi/middleware"
	"maravi/routes"
	"maravi/services/booking"
	"maravi/services/checkout"
	"maravi/services/notification"
	"maravi/services/payment"
	"maravi/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()
	stripe.Key = config.AppConfig.StripeKey

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	catalogRepo := repository.NewMongoCatalogRepo()
	orderRepo := repository.NewMongoOrderRepo()
	bookingRepo := repository.NewMongoBookingRepo()
	inventoryRepo := repository.NewMongoInventoryRepo()
	ledgerRepo := repository.NewMongoLedgerRepo()
	sessionRepo := repository.NewMongoSessionRepo()

	// payment gateway.
	var gateway payment.Gateway
	switch config.AppConfig.PaymentGateway {
	case "stripe":
		gateway = payment.NewStripeGateway(
			config.AppConfig.CheckoutReturnURL,
			config.AppConfig.CheckoutCancelURL,
			logger,
		)
	default:
		gateway = payment.NewPayChanguGateway(
			config.AppConfig.PayChanguBaseURL,
			config.AppConfig.PayChanguSecretKey,
			config.AppConfig.CheckoutReturnURL,
			config.AppConfig.CheckoutCancelURL,
			logger,
		)
	}

	// services.
	enqueuer := cron.NewEnqueuer()
	checkoutService := &checkout.DefaultCheckoutService{
		Catalog:   catalogRepo,
		Orders:    orderRepo,
		Sessions:  sessionRepo,
		Inventory: inventoryRepo,
		Gateway:   gateway,
		Retry:     enqueuer,
		TaxRate:   config.AppConfig.TaxRate,
		Currency:  config.AppConfig.Currency,
		Logger:    logger,
	}
	bookingService := &booking.DefaultBookingService{
		Catalog:  catalogRepo,
		Bookings: bookingRepo,
		Sessions: sessionRepo,
		Gateway:  gateway,
		TaxRate:  config.AppConfig.TaxRate,
		Currency: config.AppConfig.Currency,
		Logger:   logger,
	}
	reconciler := &payment.Reconciler{
		Sessions:  sessionRepo,
		Orders:    orderRepo,
		Bookings:  bookingRepo,
		Ledger:    ledgerRepo,
		Inventory: inventoryRepo,
		Gateway:   gateway,
		Notifier:  &notification.LogNotificationService{Logger: logger},
		Dedup:     utils.GetDedupCacheClient(),
		Logger:    logger,
	}

	// handlers + routes.
	routes.RegisterRoutes(router, &routes.Handlers{
		Checkout: handlers.NewCheckoutHandler(checkoutService, logger),
		Booking:  handlers.NewBookingHandler(bookingService, logger),
		Store:    handlers.NewStoreHandler(orderRepo, bookingRepo),
		Payment:  handlers.NewPaymentHandler(reconciler, logger),
	})

	// background reservation retries.
	cron.InitReservationWorker(orderRepo, inventoryRepo)

	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetCacheClient(), utils.GetDedupCacheClient()},
		database.MongoClient,
	)

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
