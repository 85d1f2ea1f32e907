package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"classhub/config"
	"classhub/cron"
	"classhub/database"
	activityRepo "classhub/database/repository/activity"
	bookingRepo "classhub/database/repository/booking"
	catalogRepo "classhub/database/repository/catalog"
	conversationRepo "classhub/database/repository/conversation"
	subscriptionRepo "classhub/database/repository/subscription"
	userRepoPkg "classhub/database/repository/user"
	"classhub/handlers"
	"classhub/realtime"
	"classhub/routes"
	"classhub/services/booking"
	"classhub/services/chat"
	"classhub/services/push"
	"classhub/services/tasks"
	"classhub/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	if config.AppConfig.VAPIDPublicKey == "" || config.AppConfig.VAPIDPrivateKey == "" {
		logger.Sugar().Fatal("main: VAPID keypair missing; generate it once and store it in configuration")
	}

	database.InitDB()
	utils.InitCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	dbName := config.AppConfig.DatabaseName
	userRepo := userRepoPkg.NewMongoUserRepo(dbName)
	actRepo := activityRepo.NewMongoActivityRepo(dbName)
	bkRepo := bookingRepo.NewMongoBookingRepo(dbName)
	catRepo := catalogRepo.NewMongoCatalogRepo(dbName)
	subRepo := subscriptionRepo.NewMongoSubscriptionRepo(dbName)
	convRepo := conversationRepo.NewMongoConversationRepo(dbName)

	// live channel.
	hub := realtime.NewHub(logger)
	gateway := realtime.NewGateway(hub, logger)

	// push pipeline.
	transport := push.NewWebPushTransport(
		config.AppConfig.VAPIDPublicKey,
		config.AppConfig.VAPIDPrivateKey,
		config.AppConfig.VAPIDSubject,
	)
	pushService, err := push.NewDefaultPushService(subRepo, transport, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize push service: %v", err)
	}

	// services.
	bookingService := &booking.DefaultBookingService{
		Repo:         bkRepo,
		ActivityRepo: actRepo,
		CatalogRepo:  catRepo,
		UserRepo:     userRepo,
		Bus:          hub,
		Push:         pushService,
		Reminders:    tasks.NewReminderQueue(),
		Logger:       logger,
	}
	chatService := &chat.DefaultChatService{
		Repo:   convRepo,
		Bus:    hub,
		Push:   pushService,
		Logger: logger,
	}

	// reminder worker.
	cron.InitReminderWorker(pushService)

	// handlers.
	handlerSet := &routes.Handlers{
		Booking:  handlers.NewBookingHandler(bookingService, logger),
		Activity: handlers.NewActivityHandler(actRepo, logger),
		Catalog:  handlers.NewCatalogHandler(catRepo),
		Push:     handlers.NewPushHandler(pushService),
		Chat:     handlers.NewChatHandler(chatService),
		Gateway:  gateway,
	}
	routes.RegisterRoutes(router, handlerSet)

	// Start the HTTP server.
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

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}
	if err := database.MongoClient.Disconnect(ctx); err != nil {
		logger.Sugar().Warnf("main: mongo disconnect: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
