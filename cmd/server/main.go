package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/amiyamandal-dev/newscms/internal/api"
	"github.com/amiyamandal-dev/newscms/internal/api/handlers"
	"github.com/amiyamandal-dev/newscms/internal/auth"
	"github.com/amiyamandal-dev/newscms/internal/config"
	"github.com/amiyamandal-dev/newscms/internal/event"
	"github.com/amiyamandal-dev/newscms/internal/ipfs"
	"github.com/amiyamandal-dev/newscms/internal/render"
	"github.com/amiyamandal-dev/newscms/internal/repository/mongodb"
	"github.com/amiyamandal-dev/newscms/internal/search"
	"github.com/amiyamandal-dev/newscms/internal/service"
	"github.com/amiyamandal-dev/newscms/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting news CMS server",
		"version", "1.0.0",
		"mode", cfg.Server.Mode,
	)

	ctx := context.Background()

	// Connect to MongoDB
	connectCtx, cancelConnect := context.WithTimeout(ctx, cfg.Mongo.ConnectTimeout)
	mongoClient, err := mongodb.Connect(connectCtx, cfg.Mongo.URI, cfg.Mongo.ConnectTimeout)
	cancelConnect()
	if err != nil {
		log.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer mongoClient.Disconnect(context.Background())

	db := mongoClient.Database(cfg.Mongo.Database)
	log.Info("Connected to MongoDB", "database", cfg.Mongo.Database)

	// Initialize article repository (ensures indexes)
	articleRepo, err := mongodb.NewArticleRepo(db, log)
	if err != nil {
		log.Error("Failed to initialize article repository", "error", err)
		os.Exit(1)
	}

	// Initialize IPFS image store
	ipfsClient := ipfs.NewClient(
		cfg.IPFS.APIEndpoint,
		cfg.IPFS.GatewayURL,
		cfg.IPFS.Timeout,
		cfg.IPFS.PinImages,
		log,
	)
	if !ipfsClient.IsHealthy(ctx) {
		log.Warn("IPFS node is not reachable, image uploads will fail", "endpoint", cfg.IPFS.APIEndpoint)
	} else {
		log.Info("Connected to IPFS", "endpoint", cfg.IPFS.APIEndpoint)
	}

	// Initialize search index
	searchIndex := search.NewBleveIndex(log)
	if err := searchIndex.Open(cfg.Search.IndexPath); err != nil {
		log.Error("Failed to open search index", "error", err)
		os.Exit(1)
	}
	defer searchIndex.Close()

	count, _ := searchIndex.Count()
	log.Info("Search index opened", "path", cfg.Search.IndexPath, "document_count", count)

	// Initialize event publisher (optional)
	var publisher service.EventPublisher
	var rabbitPublisher *event.RabbitPublisher
	if cfg.Events.AMQPURI != "" {
		rabbitPublisher, err = event.NewRabbitPublisher(
			cfg.Events.AMQPURI,
			cfg.Events.Exchange,
			cfg.Events.RoutingKey,
			log,
		)
		if err != nil {
			log.Error("Failed to connect to RabbitMQ", "error", err)
			os.Exit(1)
		}
		defer rabbitPublisher.Close()
		publisher = rabbitPublisher
		log.Info("Event publishing enabled", "exchange", cfg.Events.Exchange)
	}

	// Initialize auth
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry)
	credentials := auth.NewStaticCredentials(cfg.Auth.AdminUsername, cfg.Auth.AdminPasswordHash)

	// Initialize services
	authService := service.NewAuthService(credentials, jwtManager, log)
	articleService := service.NewArticleService(articleRepo, ipfsClient, searchIndex, publisher, log)

	// Initialize handlers
	renderer := render.New()
	authHandler := handlers.NewAuthHandler(authService, log)
	articleHandler := handlers.NewArticleHandler(articleService, renderer, log)
	healthHandler := handlers.NewHealthHandler(mongoClient, ipfsClient, searchIndex, log)

	// Initialize router
	router := api.NewRouter(
		authHandler,
		articleHandler,
		healthHandler,
		jwtManager,
		cfg,
		log,
	)
	engine := router.Setup()

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info("HTTP server starting", "address", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("Server stopped gracefully")
}
