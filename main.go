package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quickstay/config"
	"quickstay/cron"
	"quickstay/database"
	bookingRepoPkg "quickstay/database/repository/booking"
	hotelRepoPkg "quickstay/database/repository/hotel"
	roomRepoPkg "quickstay/database/repository/room"
	userRepoPkg "quickstay/database/repository/user"
	"quickstay/handlers"
	"quickstay/middleware"
	"quickstay/routes"
	"quickstay/services/booking"
	"quickstay/services/events"
	"quickstay/services/hotel"
	"quickstay/services/payment"
	"quickstay/services/room"
	"quickstay/services/storage"
	"quickstay/services/user"
	"quickstay/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	svix "github.com/svix/svix-webhooks/go"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer func() { _ = logger.Sync() }()

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	// Infrastructure clients.
	mongoClient, err := database.Connect(rootCtx, cfg.DatabaseURL)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	db := mongoClient.Database(cfg.DatabaseName)

	cacheClient, err := utils.NewRedisClient(rootCtx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisCacheDB)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	utils.StartHealthMonitor(rootCtx, []*redis.Client{cacheClient}, mongoClient)

	imageStore, err := storage.NewCloudinaryStorage(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize cloudinary storage service: %v", err)
	}

	clerkKeys, err := middleware.NewClerkKeyfunc(cfg.ClerkJWKSURL, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	defer clerkKeys.EndBackground()

	clerkWebhook, err := svix.NewWebhook(cfg.ClerkWebhookSecret)
	if err != nil {
		logger.Sugar().Fatalf("main: invalid CLERK_WEBHOOK_SECRET: %v", err)
	}

	var publisher events.Publisher = events.NopPublisher{Logger: logger}
	if cfg.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, logger)
		if err != nil {
			logger.Sugar().Fatalf("main: %v", err)
		}
		publisher = amqpPublisher
	}
	defer publisher.Close()

	// repositories.
	userRepo, err := userRepoPkg.NewMongoUserRepo(rootCtx, db)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	hotelRepo, err := hotelRepoPkg.NewMongoHotelRepo(rootCtx, db)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	roomRepo, err := roomRepoPkg.NewMongoRoomRepo(rootCtx, db)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	bookingRepo, err := bookingRepoPkg.NewMongoBookingRepo(rootCtx, db)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}

	// services.
	stripeGateway := payment.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret, cfg.Currency, cfg.FrontendURL, logger)

	userService := &user.DefaultUserService{Repo: userRepo, Logger: logger}
	hotelService := &hotel.DefaultHotelService{Hotels: hotelRepo, Users: userService, Logger: logger}
	roomService := &room.DefaultRoomService{Rooms: roomRepo, Hotels: hotelRepo, Storage: imageStore, Logger: logger}
	bookingService := &booking.DefaultBookingService{
		Bookings: bookingRepo,
		Rooms:    roomRepo,
		Hotels:   hotelRepo,
		Payments: stripeGateway,
		Events:   publisher,
		Logger:   logger,
		Currency: cfg.Currency,
		// Sessions close with the pending window so late payments cannot outlive a sweep.
		SessionLifetime: cfg.PendingBookingTTL,
	}

	// background sweeper.
	sweeper, err := cron.NewSweeper(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisQueueDB,
	}, cfg.SweepCron, cfg.PendingBookingTTL, bookingService, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	if err := sweeper.Start(); err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	defer sweeper.Shutdown()

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		UserRepo:      userRepo,
		Auth:          middleware.ClerkAuthMiddleware(clerkKeys.Keyfunc),
		Bookings:      handlers.NewBookingHandler(bookingService),
		Rooms:         handlers.NewRoomHandler(roomService),
		Hotels:        handlers.NewHotelHandler(hotelService),
		Users:         handlers.NewUserHandler(userService),
		StripeWebhook: handlers.NewStripeWebhookHandler(stripeGateway, bookingService, utils.NewStripeEventDeduper(cacheClient)),
		ClerkWebhook:  handlers.NewClerkWebhookHandler(clerkWebhook, userService),
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	// Forwarded client IPs are only honoured from these proxies.
	if err := router.SetTrustedProxies(cfg.TrustedProxyList()); err != nil {
		logger.Sugar().Fatalf("main: invalid TRUSTED_PROXIES: %v", err)
	}
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	routes.RegisterRoutes(router, handlerBundle, cfg.AllowedOrigins(), middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	// Start the HTTP server.
	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Starting server", zap.String("addr", srv.Addr))
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	stop()
	if err := mongoClient.Disconnect(ctx); err != nil {
		logger.Warn("main: mongo disconnect failed", zap.Error(err))
	}
	_ = cacheClient.Close()

	logger.Info("main: server stopped gracefully")
}
