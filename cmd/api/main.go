package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ayushi2311/loyalty-rewards-api/internal/auth"
	"github.com/ayushi2311/loyalty-rewards-api/internal/config"
	"github.com/ayushi2311/loyalty-rewards-api/internal/handlers"
	"github.com/ayushi2311/loyalty-rewards-api/internal/repository"
	"github.com/ayushi2311/loyalty-rewards-api/internal/services"
	xhttp "github.com/ayushi2311/loyalty-rewards-api/pkg/http"
	"github.com/ayushi2311/loyalty-rewards-api/pkg/logger"
	"github.com/ayushi2311/loyalty-rewards-api/pkg/pg"
	"github.com/ayushi2311/loyalty-rewards-api/pkg/prom"
	"github.com/ayushi2311/loyalty-rewards-api/pkg/redis"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {

	err := config.Load(argContainsEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}

	// transport (tcp for now)
	s := xhttp.NewServer(xhttp.DefaultServerOption)
	s.Server.ReadBufferSize = 1024 * 16
	s.Server.WriteBufferSize = 1024 * 16
	s.Use(xhttp.CompressMiddleware(6))
	s.Use(xhttp.TimeoutMiddleware(time.Second * 5))
	s.Use(xhttp.RequestLoggerMiddleware)
	s.Use(xhttp.RecoverMiddleware)
	s.Router = xhttp.CreateDefaultRouter()

	readConf := pg.Config{
		User:     config.Get().PostgresReadUser,
		Host:     config.Get().PostgresReadHost,
		Port:     config.Get().PostgresReadPort,
		Password: config.Get().PostgresReadPassword,
		Database: config.Get().PostgresReadDatabase,
	}
	writeConf := pg.Config{
		User:     config.Get().PostgresWriteUser,
		Host:     config.Get().PostgresWriteHost,
		Port:     config.Get().PostgresWritePort,
		Password: config.Get().PostgresWritePassword,
		Database: config.Get().PostgresWriteDatabase,
	}

	pgDebug := false
	if config.Get().AppEnv == "dev" {
		pgDebug = true
	}
	db, err := pg.CreateReadWrite(readConf, writeConf, pgDebug)
	if err != nil {
		logger.Error("failed connecting to pg", "error", err)
		return
	}

	redisAdap, err := redis.NewRedisAdapter("default", config.Get().RedisUniversalKeyPrefix, &redis.Options{
		Addrs:      []string{config.Get().RedisAddr},
		ClientName: "default",
		DB:         config.Get().RedisDatabase,
		Username:   config.Get().RedisUsername,
		Password:   config.Get().RedisPassword,
	})
	if err != nil {
		logger.Error("failed connecting to redis", "error", err)
		return
	}

	if config.Get().PromNamespace != "" {
		host, _ := os.Hostname()
		if err := prom.Create(host, config.Get().AppEnv, config.Get().PromNamespace); err != nil {
			logger.Error("failed creating metrics", "error", err)
		}
		if config.Get().AppDebugMetricsAddr != "" {
			go prom.ListenAndServer(config.Get().AppDebugMetricsAddr, config.Get().AppDebugMetricsURI)
		}
	}

	authCfg := auth.Config{
		Secret: config.Get().JwtSecret,
		Expiry: config.Get().JwtExpiry,
		Issuer: config.Get().JwtIssuer,
	}

	userRepo := repository.NewUserRepository(db)
	appRepo := repository.NewAppRepository(db)
	walletRepo := repository.NewWalletRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	rewardRepo := repository.NewRewardRepository(db)
	redemptionRepo := repository.NewRedemptionRepository(db)

	// services
	refGuard := services.NewReferenceGuard(redisAdap)
	pointsService := services.NewPointsService(userRepo, appRepo, transactionRepo, walletRepo, refGuard)
	rewardsService := services.NewRewardsService(rewardRepo, redemptionRepo, walletRepo, userRepo)
	userService := services.NewUserService(userRepo, walletRepo)
	healthService := services.NewHealthService(db)

	// v1 handlers
	pointsHandler := handlers.NewPointsHandler(pointsService)
	rewardsHandler := handlers.NewRewardsHandler(rewardsService)
	userHandler := handlers.NewUserHandler(userService, authCfg)
	healthHandler := handlers.NewHealthHandler(healthService)

	g := s.Router.Group("/api/v1")
	handlers.RegisterPointsRoutes(g, pointsHandler, authCfg)
	handlers.RegisterRewardsRoutes(g, rewardsHandler, authCfg)
	handlers.RegisterUserRoutes(g, userHandler)
	handlers.RegisterHealthRoutes(g, healthHandler)

	// Create new server
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		var err = s.ListenAndServe(config.Get().HttpListenAddr)
		if err != nil {
			logger.Error("error in running http-server", "error", err)
		}
	}()

	select {
	case <-c:
		s.Shutdown()
	}
}

func argContainsEnvPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--env=") {
			s := strings.Split(v, "=")
			if _, err := os.Open(s[1]); err != nil {
				logger.Error("failed to open the passed env file, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	return ""
}
