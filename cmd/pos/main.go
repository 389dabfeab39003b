package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-register/config"
	"github.com/fekuna/omnipos-register/internal/broker"
	"github.com/fekuna/omnipos-register/internal/cache"
	"github.com/fekuna/omnipos-register/internal/checkout"
	"github.com/fekuna/omnipos-register/internal/database"
	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/search"
	"github.com/fekuna/omnipos-register/internal/session"
	"github.com/fekuna/omnipos-register/internal/transport"

	catalogH "github.com/fekuna/omnipos-register/internal/catalog/handler"
	catalogListenerPkg "github.com/fekuna/omnipos-register/internal/catalog/listener"
	catalogRepoPkg "github.com/fekuna/omnipos-register/internal/catalog/repository"
	catalogUCPkg "github.com/fekuna/omnipos-register/internal/catalog/usecase"

	catH "github.com/fekuna/omnipos-register/internal/category/handler"
	catRepoPkg "github.com/fekuna/omnipos-register/internal/category/repository"
	catUCPkg "github.com/fekuna/omnipos-register/internal/category/usecase"

	expH "github.com/fekuna/omnipos-register/internal/expense/handler"
	expRepoPkg "github.com/fekuna/omnipos-register/internal/expense/repository"
	expUCPkg "github.com/fekuna/omnipos-register/internal/expense/usecase"

	invH "github.com/fekuna/omnipos-register/internal/inventory/handler"
	invRepoPkg "github.com/fekuna/omnipos-register/internal/inventory/repository"
	invUCPkg "github.com/fekuna/omnipos-register/internal/inventory/usecase"

	ledgerH "github.com/fekuna/omnipos-register/internal/ledger/handler"
	ledgerUCPkg "github.com/fekuna/omnipos-register/internal/ledger/usecase"

	memberH "github.com/fekuna/omnipos-register/internal/member/handler"
	memberRepoPkg "github.com/fekuna/omnipos-register/internal/member/repository"
	memberUCPkg "github.com/fekuna/omnipos-register/internal/member/usecase"

	orderH "github.com/fekuna/omnipos-register/internal/order/handler"
	orderPublisherPkg "github.com/fekuna/omnipos-register/internal/order/publisher"
	orderRepoPkg "github.com/fekuna/omnipos-register/internal/order/repository"
	orderUCPkg "github.com/fekuna/omnipos-register/internal/order/usecase"

	prodH "github.com/fekuna/omnipos-register/internal/product/handler"
	prodRepoPkg "github.com/fekuna/omnipos-register/internal/product/repository"
	prodUCPkg "github.com/fekuna/omnipos-register/internal/product/usecase"

	sessionH "github.com/fekuna/omnipos-register/internal/session/handler"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc/health/grpc_health_v1"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	register, err := config.LoadRegister(os.Getenv("REGISTER_CONFIG_FILE"))
	if err != nil {
		log.Fatalf("invalid register config: %v", err)
	}
	cfg.Register = register

	loc, err := time.LoadLocation(cfg.Server.Timezone)
	if err != nil {
		log.Fatalf("invalid timezone %q: %v", cfg.Server.Timezone, err)
	}

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "development" || cfg.Server.AppEnv == "dev" {
		logConfig.IsDevelopment = true
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Connect to Database
	dbConfig := &database.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	}
	db, err := database.NewPostgres(dbConfig)
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	if cfg.Postgres.AutoMigrate {
		if err := database.Migrate(dbConfig); err != nil {
			appLogger.Fatal("Could not run migrations", zap.Error(err))
		}
		appLogger.Info("Database migrations applied")
	}

	// 4. Initialize Repositories
	catalogRepo := catalogRepoPkg.NewPGRepository(db)
	catRepo := catRepoPkg.NewPGRepository(db)
	prodRepo := prodRepoPkg.NewPGRepository(db)
	invRepo := invRepoPkg.NewPGRepository(db)
	orderRepo := orderRepoPkg.NewPGRepository(db)
	memberRepo := memberRepoPkg.NewPGRepository(db)
	expRepo := expRepoPkg.NewPGRepository(db)

	// 5. Initialize Redis. The register keeps selling without it, just
	// without catalog caching and cross-instance stock locks.
	var (
		snapshotCache catalogUCPkg.SnapshotCache
		locker        invUCPkg.Locker
	)
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Warn("Could not connect to Redis (catalog cache and stock locks disabled)", zap.Error(err))
	} else {
		defer redisClient.Close()
		snapshotCache = redisClient
		locker = redisClient
		appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	}

	// 6. Initialize Kafka
	kafkaConfig := &broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
		GroupID: cfg.Kafka.GroupID,
	}
	kafkaProducer := broker.NewProducer(kafkaConfig)
	defer kafkaProducer.Close()
	kafkaConsumer := broker.NewConsumer(kafkaConfig)
	defer kafkaConsumer.Close()
	appLogger.Info("Kafka configured", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))

	// 7. Initialize Elasticsearch
	var (
		searcher catalogUCPkg.ProductSearcher
		indexer  prodUCPkg.Indexer
	)
	esClient, err := search.NewClient(&search.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		appLogger.Warn("Could not connect to Elasticsearch (Search features might be limited)", zap.Error(err))
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := esClient.CreateIndex(ctx, search.ProductIndex, search.ProductMapping); err != nil {
			appLogger.Warn("Could not create product index", zap.Error(err))
		}
		cancel()
		searcher = esClient
		indexer = esClient
		appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
	}

	// 8. Initialize UseCases
	catalogUC := catalogUCPkg.NewCatalogUseCase(catalogRepo, snapshotCache, searcher, time.Duration(cfg.Redis.CatalogTTL)*time.Second, appLogger)
	catUC := catUCPkg.NewCategoryUseCase(catRepo, catalogUC, appLogger)
	prodUC := prodUCPkg.NewProductUseCase(prodRepo, catalogUC, indexer, appLogger)
	invUC := invUCPkg.NewInventoryUseCase(invRepo, locker, catalogUC, appLogger)
	orderUC := orderUCPkg.NewOrderUseCase(orderRepo)
	memberUC := memberUCPkg.NewMemberUseCase(memberRepo, orderUC, appLogger)
	expUC := expUCPkg.NewExpenseUseCase(expRepo, appLogger)
	ledgerUC := ledgerUCPkg.NewLedgerUseCase(orderUC, expUC, cfg.Register.PaymentMethods, loc)

	committer := checkout.NewCommitter(
		orderRepo,
		invUC,
		orderPublisherPkg.NewOrderPublisher(kafkaProducer),
		appLogger,
		cfg.Checkout.Timeout(),
	).WithPublishTimeout(cfg.Checkout.PublishTimeout())
	sessions := session.NewManager(catalogUC, session.Deps{
		Committer: committer,
		Members:   memberUC,
		Expenses:  expUC,
		Register:  cfg.Register,
		Logger:    appLogger,
	})

	// 9. Start Listener
	orderListener := catalogListenerPkg.NewOrderListener(kafkaConsumer, catalogUC, sessions, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go orderListener.Start(ctx)

	// 10. Initialize Handlers
	router := transport.NewRouter(appLogger,
		sessionH.NewSessionHandler(sessions, cfg.Register, appLogger),
		catalogH.NewCatalogHandler(catalogUC, appLogger),
		catH.NewCategoryHandler(catUC, appLogger),
		prodH.NewProductHandler(prodUC, appLogger),
		invH.NewInventoryHandler(invUC, appLogger),
		orderH.NewOrderHandler(orderUC, loc, appLogger),
		memberH.NewMemberHandler(memberUC, appLogger),
		expH.NewExpenseHandler(expUC, appLogger),
		ledgerH.NewLedgerHandler(ledgerUC, appLogger),
	)

	// 11. Start HTTP and gRPC Servers
	httpServer := &http.Server{
		Addr:              listenAddr(cfg.Server.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve http", zap.Error(err))
		}
	}()

	grpcPort := listenAddr(cfg.Server.GRPCPort)
	lis, err := net.Listen("tcp", grpcPort)
	if err != nil {
		appLogger.Fatal("failed to listen", zap.String("port", grpcPort), zap.Error(err))
	}
	grpcServer, healthServer := transport.NewGRPCServer(appLogger)
	go func() {
		appLogger.Info("Starting gRPC server", zap.String("port", grpcPort))
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve grpc", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Checkout.Timeout()+5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("http shutdown failed", zap.Error(err))
	}
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}

func listenAddr(port string) string {
	if !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
