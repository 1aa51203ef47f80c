package main

import (
	"context"
	"encoding/base64"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"warungpos-backend/internal/cache"
	"warungpos-backend/internal/config"
	"warungpos-backend/internal/db"
	"warungpos-backend/internal/events"
	"warungpos-backend/internal/handler"
	"warungpos-backend/internal/repository"
	"warungpos-backend/internal/server"
	"warungpos-backend/internal/service"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"google.golang.org/api/option"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pg, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("failed to connect database", "err", err)
		os.Exit(1)
	}
	defer pg.Close()

	// Firebase Auth (optional)
	var firebaseAuth *auth.Client
	if cfg.FirebaseProjectID != "" {
		app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID}, firebaseOptions(cfg)...)
		if err != nil {
			logger.Error("failed to init firebase app", "err", err)
			os.Exit(1)
		}
		client, err := app.Auth(ctx)
		if err != nil {
			logger.Error("failed to init firebase auth", "err", err)
			os.Exit(1)
		}
		firebaseAuth = client
	}

	// Redis product cache (optional)
	var productCache *cache.ProductCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, catalog cache disabled", "err", err)
		} else {
			productCache = cache.NewProductCache(rdb, cfg.ProductCacheTTL)
			defer rdb.Close()
		}
	}

	// repositories
	userRepo := repository.UserRepository{DB: pg}
	outletRepo := repository.OutletRepository{DB: pg}
	employeeRepo := repository.EmployeeRepository{DB: pg}
	categoryRepo := repository.CategoryRepository{DB: pg}
	productRepo := repository.ProductRepository{DB: pg}
	txRepo := repository.TransactionRepository{DB: pg}
	shiftRepo := repository.ShiftRepository{DB: pg}
	cashFlowRepo := repository.CashFlowRepository{DB: pg}
	stockRepo := repository.StockRepository{DB: pg}
	attendanceRepo := repository.AttendanceRepository{DB: pg}
	kasbonRepo := repository.KasbonRepository{DB: pg}

	// services
	authSvc := service.AuthService{Config: cfg, Users: userRepo, Logger: logger, FirebaseAuth: firebaseAuth}
	checkoutSvc := &service.CheckoutService{
		Transactions: txRepo,
		CashFlows:    cashFlowRepo,
		Stock:        stockRepo,
		Shifts:       shiftRepo,
		Metrics:      service.NewCheckoutMetrics(prometheus.DefaultRegisterer),
		Logger:       logger,
	}
	if len(cfg.KafkaBrokers) > 0 {
		pub := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaSaleTopic, cfg.DefaultCurrency)
		defer pub.Close()
		checkoutSvc.Publisher = pub
	}
	shiftSvc := &service.ShiftService{
		Shifts:    shiftRepo,
		Sales:     txRepo,
		CashFlows: cashFlowRepo,
		Logger:    logger,
	}

	// handlers
	healthHandler := handler.HealthHandler{DB: pg}
	authHandler := handler.AuthHandler{Service: &authSvc, Employees: employeeRepo, Outlets: outletRepo}
	outletHandler := handler.OutletHandler{Outlets: outletRepo}
	employeeHandler := handler.EmployeeHandler{Employees: employeeRepo, Users: userRepo}
	categoryHandler := handler.CategoryHandler{Categories: categoryRepo, Employees: employeeRepo}
	productHandler := handler.ProductHandler{Products: productRepo, Employees: employeeRepo, Cache: productCache}
	posHandler := handler.POSHandler{Checkout: checkoutSvc, Employees: employeeRepo}
	shiftHandler := handler.ShiftHandler{Service: shiftSvc, Shifts: shiftRepo, Employees: employeeRepo}
	cashFlowHandler := handler.CashFlowHandler{CashFlows: cashFlowRepo, Employees: employeeRepo}
	stockHandler := handler.StockHandler{Stocks: stockRepo, Employees: employeeRepo, Cache: productCache}
	attendanceHandler := handler.AttendanceHandler{Attendance: attendanceRepo, Employees: employeeRepo}
	kasbonHandler := handler.KasbonHandler{Kasbons: kasbonRepo, Employees: employeeRepo}
	dashboardHandler := handler.DashboardHandler{Transactions: txRepo, Employees: employeeRepo}

	router := server.NewRouter(cfg, logger,
		healthHandler, authHandler, outletHandler, employeeHandler,
		categoryHandler, productHandler, posHandler, shiftHandler,
		cashFlowHandler, stockHandler, attendanceHandler, kasbonHandler,
		dashboardHandler)

	if err := server.Start(ctx, cfg, router, logger); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}

func firebaseOptions(cfg config.Config) []option.ClientOption {
	if cfg.FirebaseCredFile == "" {
		return nil
	}

	cred := cfg.FirebaseCredFile
	// Allow inline JSON or base64-encoded JSON in env to avoid writing a file.
	if strings.HasPrefix(strings.TrimSpace(cred), "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(cred))}
	}
	if decoded, err := base64.StdEncoding.DecodeString(cred); err == nil && strings.HasPrefix(strings.TrimSpace(string(decoded)), "{") {
		return []option.ClientOption{option.WithCredentialsJSON(decoded)}
	}

	return []option.ClientOption{option.WithCredentialsFile(cred)}
}
