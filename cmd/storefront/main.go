package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	adminapp "github.com/wyfcoding/electronicsstore/internal/admin/application"
	adminhttp "github.com/wyfcoding/electronicsstore/internal/admin/interfaces/http"
	authapp "github.com/wyfcoding/electronicsstore/internal/auth/application"
	authdomain "github.com/wyfcoding/electronicsstore/internal/auth/domain"
	authmysql "github.com/wyfcoding/electronicsstore/internal/auth/infrastructure/persistence/mysql"
	authredis "github.com/wyfcoding/electronicsstore/internal/auth/infrastructure/persistence/redis"
	authhttp "github.com/wyfcoding/electronicsstore/internal/auth/interfaces/http"
	cartapp "github.com/wyfcoding/electronicsstore/internal/cart/application"
	cartdomain "github.com/wyfcoding/electronicsstore/internal/cart/domain"
	cartmessaging "github.com/wyfcoding/electronicsstore/internal/cart/infrastructure/messaging"
	cartmysql "github.com/wyfcoding/electronicsstore/internal/cart/infrastructure/persistence/mysql"
	cartredis "github.com/wyfcoding/electronicsstore/internal/cart/infrastructure/persistence/redis"
	carthttp "github.com/wyfcoding/electronicsstore/internal/cart/interfaces/http"
	catalogapp "github.com/wyfcoding/electronicsstore/internal/catalog/application"
	catalogdomain "github.com/wyfcoding/electronicsstore/internal/catalog/domain"
	catalogmysql "github.com/wyfcoding/electronicsstore/internal/catalog/infrastructure/persistence/mysql"
	catalogconsumer "github.com/wyfcoding/electronicsstore/internal/catalog/interfaces/consumer"
	cataloghttp "github.com/wyfcoding/electronicsstore/internal/catalog/interfaces/http"
	orderapp "github.com/wyfcoding/electronicsstore/internal/order/application"
	orderdomain "github.com/wyfcoding/electronicsstore/internal/order/domain"
	ordermessaging "github.com/wyfcoding/electronicsstore/internal/order/infrastructure/messaging"
	ordermysql "github.com/wyfcoding/electronicsstore/internal/order/infrastructure/persistence/mysql"
	orderhttp "github.com/wyfcoding/electronicsstore/internal/order/interfaces/http"
	"github.com/wyfcoding/electronicsstore/internal/seed"
	"github.com/wyfcoding/electronicsstore/pkg/cache"
	"github.com/wyfcoding/electronicsstore/pkg/config"
	"github.com/wyfcoding/electronicsstore/pkg/db"
	"github.com/wyfcoding/electronicsstore/pkg/logger"
	"github.com/wyfcoding/electronicsstore/pkg/metrics"
	"github.com/wyfcoding/electronicsstore/pkg/middleware"
	"github.com/wyfcoding/electronicsstore/pkg/mq"
	"github.com/wyfcoding/electronicsstore/pkg/utils"
)

func main() {
	var configPath string
	var seedDemo bool
	flag.StringVar(&configPath, "config", "configs/storefront/config.toml", "path to config file")
	flag.BoolVar(&seedDemo, "seed", false, "seed sample catalog and demo orders on startup")
	flag.Parse()

	// 1. 配置
	cfg, err := config.Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("load config failed: %v", err))
	}

	// 2. 日志
	if err := logger.Init(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	}); err != nil {
		panic(fmt.Sprintf("init logger failed: %v", err))
	}

	ctx := context.Background()
	logger.Info(ctx, "starting storefront service",
		"service", cfg.ServiceName, "version", cfg.Version, "environment", cfg.Environment)

	// 3. 数据库
	database, err := db.Init(db.Config{
		Driver:             cfg.Database.Driver,
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
	})
	if err != nil {
		logger.Fatal(ctx, "connect database failed", "error", err)
	}
	defer database.Close()

	if err := database.AutoMigrate(
		&catalogdomain.Category{},
		&catalogdomain.Brand{},
		&catalogdomain.Product{},
		&catalogdomain.ProductAttribute{},
		&catalogdomain.ProductReview{},
		&authdomain.User{},
		&cartdomain.Cart{},
		&cartdomain.CartItem{},
		&orderdomain.Order{},
		&orderdomain.OrderItem{},
	); err != nil {
		logger.Fatal(ctx, "migrate database failed", "error", err)
	}

	// 4. Redis
	redisCache, err := cache.New(cache.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxPoolSize:  cfg.Redis.MaxPoolSize,
		ConnTimeout:  cfg.Redis.ConnTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		logger.Fatal(ctx, "connect redis failed", "error", err)
	}

	// 5. Kafka
	kafkaCfg := mq.KafkaConfig{
		Brokers:        cfg.Kafka.Brokers,
		GroupID:        cfg.Kafka.GroupID,
		SessionTimeout: cfg.Kafka.SessionTimeout,
		MaxRetries:     cfg.Kafka.MaxRetries,
		RetryBackoff:   cfg.Kafka.RetryBackoff,
	}
	producer, err := mq.NewProducer(kafkaCfg)
	if err != nil {
		logger.Fatal(ctx, "create kafka producer failed", "error", err)
	}
	defer producer.Close()

	cartPublisher := cartmessaging.NewKafkaEventPublisher(producer)
	orderPublisher := ordermessaging.NewKafkaEventPublisher(producer)

	// 6. 仓储
	productRepo := catalogmysql.NewProductRepository(database.DB)
	categoryRepo := catalogmysql.NewCategoryRepository(database.DB)
	brandRepo := catalogmysql.NewBrandRepository(database.DB)
	reviewRepo := catalogmysql.NewReviewRepository(database.DB)
	userRepo := authmysql.NewUserRepository(database.DB)
	sessionRepo := authredis.NewSessionRepository(redisCache)
	cartRepo := cartmysql.NewCartRepository(database.DB)
	guestRepo := cartredis.NewGuestSessionRepository(redisCache)
	orderRepo := ordermysql.NewOrderRepository(database.DB)

	// 7. 应用服务
	m := metrics.New(cfg.ServiceName)
	idGen := utils.NewSnowflakeID(1)

	catalogService := catalogapp.NewCatalogApplicationService(
		productRepo, categoryRepo, brandRepo, reviewRepo, cartPublisher)
	authService := authapp.NewAuthApplicationService(
		userRepo, sessionRepo, cartPublisher,
		time.Duration(cfg.Session.AuthTTL)*time.Minute,
		time.Duration(cfg.Session.RememberTTL)*time.Minute)
	cartService := cartapp.NewCartApplicationService(cartRepo, productRepo, cartPublisher, m)
	identityService := cartapp.NewCartIdentityService(
		guestRepo, time.Duration(cfg.Session.CartTTL)*time.Minute)
	shippingPolicy := orderapp.ShippingPolicy{
		FreeThreshold: decimal.NewFromInt(cfg.Shipping.FreeThreshold),
		FlatFee:       decimal.NewFromInt(cfg.Shipping.FlatFee),
	}
	orderService := orderapp.NewOrderApplicationService(
		orderRepo, cartRepo, productRepo, orderPublisher, m, shippingPolicy, idGen)
	adminService := adminapp.NewAdminApplicationService(catalogService, authService, orderService)

	// 8. 初始数据
	seeder := seed.New(userRepo, productRepo, categoryRepo, brandRepo, orderRepo,
		rand.New(rand.NewSource(time.Now().UnixNano())))
	if cfg.Admin.Email != "" && cfg.Admin.Password != "" {
		if err := seeder.EnsureSuperAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			logger.Fatal(ctx, "seed super admin failed", "error", err)
		}
	}
	if seedDemo {
		if err := seeder.SeedCatalog(ctx); err != nil {
			logger.Fatal(ctx, "seed catalog failed", "error", err)
		}
		if err := seeder.SeedDemoOrders(ctx, shippingPolicy); err != nil {
			logger.Fatal(ctx, "seed demo orders failed", "error", err)
		}
	}

	// 9. 销量投影消费者
	consumerCtx, cancelConsumer := context.WithCancel(ctx)
	defer cancelConsumer()
	salesHandler := catalogconsumer.NewSalesProjectionHandler(
		catalogService.CatalogCommandService, logger.Get())
	orderConsumer, err := mq.NewConsumer(kafkaCfg, orderdomain.OrderPlacedEventType)
	if err != nil {
		logger.Fatal(ctx, "create kafka consumer failed", "error", err)
	}
	defer orderConsumer.Close()
	go func() {
		for {
			msg, err := orderConsumer.ReadMessage(consumerCtx)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return
				}
				logger.Error(consumerCtx, "read kafka message failed", "error", err)
				continue
			}
			kmsg := kafka.Message{
				Topic: msg.Topic,
				Key:   []byte(msg.Key),
				Value: msg.Value,
			}
			if err := salesHandler.Handle(consumerCtx, kmsg); err != nil {
				logger.Error(consumerCtx, "handle order event failed", "topic", msg.Topic, "error", err)
			}
		}
	}()

	// 10. HTTP
	if cfg.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.GinRecoveryMiddleware())
	r.Use(middleware.GinLoggingMiddleware())
	r.Use(middleware.GinCORSMiddleware())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method, c.FullPath(), strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDuration.Observe(time.Since(start).Seconds())
	})

	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, m.Handler())
	}
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authMW := authhttp.NewAuthMiddleware(authService)
	api := r.Group("/api", authMW.ResolveUser())

	cataloghttp.NewCatalogHandler(catalogService).RegisterRoutes(api)
	authhttp.NewAuthHandler(authService).RegisterRoutes(api, authMW)
	carthttp.NewCartHandler(cartService, identityService).RegisterRoutes(api)
	orderhttp.NewOrderHandler(orderService, identityService).RegisterRoutes(api, authMW)
	adminhttp.NewAdminHandler(adminService).RegisterRoutes(api, authMW)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info(ctx, "http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(ctx, "http server failed", "error", err)
		}
	}()

	// 11. 优雅退出
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx, "shutting down storefront service")

	cancelConsumer()
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "http server shutdown failed", "error", err)
	}
	logger.Info(ctx, "storefront service stopped")
}
