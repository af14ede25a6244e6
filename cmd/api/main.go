// Executável principal da API: carrega a configuração, inicializa dependências e sobe o servidor HTTP.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/marcelojr/urna-online/internal/app/httpapi"
	"github.com/marcelojr/urna-online/internal/app/registry"
	"github.com/marcelojr/urna-online/internal/app/results"
	"github.com/marcelojr/urna-online/internal/app/voting"
	"github.com/marcelojr/urna-online/internal/domain"
	"github.com/marcelojr/urna-online/internal/platform/antifraude"
	"github.com/marcelojr/urna-online/internal/platform/auth"
	"github.com/marcelojr/urna-online/internal/platform/clock"
	"github.com/marcelojr/urna-online/internal/platform/config"
	"github.com/marcelojr/urna-online/internal/platform/health"
	"github.com/marcelojr/urna-online/internal/platform/ids"
	"github.com/marcelojr/urna-online/internal/platform/logger"
	"github.com/marcelojr/urna-online/internal/platform/migrations"
	postgresstorage "github.com/marcelojr/urna-online/internal/platform/storage/postgres"
	redisstorage "github.com/marcelojr/urna-online/internal/platform/storage/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("configuracao invalida", "err", err)
	}
	logger.SetLevel(logger.ParseLevel(cfg.LogLevel))
	if err := cfg.RequireJWTSecret(); err != nil {
		logger.Fatal("configuracao invalida", "err", err)
	}

	db, err := postgresstorage.OpenDriver(ctx, cfg.DBDriver, cfg.PostgresDSN(), cfg.SQLitePath)
	if err != nil {
		logger.Fatal("falha ao conectar no banco", "driver", cfg.DBDriver, "err", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("falha ao resgatar sql.DB", "err", err)
	}
	defer sqlDB.Close()

	if cfg.AutoMigrate {
		if err := migrations.Run(db); err != nil {
			logger.Fatal("falha na migracao automatica", "err", err)
		}
	}

	// Redis carrega a fila de OTP e o antifraude; o voto em si depende só do banco.
	redisClient, err := redisstorage.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Fatal("falha ao conectar no redis", "err", err)
	}
	defer redisClient.Close()

	store := postgresstorage.NewStore(db)
	fila := redisstorage.NewFilaOTP(redisClient, cfg.OTPQueueKey)
	clockSystem := clock.NewSystemClock()
	idGen := ids.NewGenerator()
	tokens := auth.NewJWTIssuer(cfg.JWTSecret, cfg.TokenTTL, clockSystem)

	var castLimit, otpLimit domain.Antifraude = antifraude.NewNoop(), antifraude.NewNoop()
	if cfg.RateLimitEnabled {
		limiter := antifraude.NewRedisRateLimiter(redisClient, cfg.RateLimitMaxActions, cfg.RateLimitWindow(), cfg.RateLimitKeyPrefix)
		castLimit = limiter.WithPrefix("voto")
		otpLimit = limiter.WithPrefix("otp")
	}

	votingSvc := voting.NewService(store, store, castLimit, clockSystem, idGen, logger.L())
	resultsSvc := results.NewService(store, clockSystem)
	voters := registry.NewVoters(registry.VotersConfig{
		Store:    store,
		Hasher:   auth.NewBcryptHasher(0),
		Tokens:   tokens,
		Queue:    fila,
		OTPLimit: otpLimit,
		Clock:    clockSystem,
		IDs:      idGen,
		OTPTTL:   cfg.OTPTTL,
		Log:      logger.L(),
	})
	elections := registry.NewElections(store, clockSystem, idGen)

	mux := http.NewServeMux()
	checker := health.NewChecker(sqlDB, redisClient)

	api := httpapi.New(httpapi.Deps{
		Voting:    votingSvc,
		Results:   resultsSvc,
		Voters:    voters,
		Elections: elections,
		Tokens:    tokens,
		Logger:    logger.L(),
	})
	api.Register(mux)
	mux.HandleFunc("GET /healthz", checker.LiveHandler())
	mux.HandleFunc("GET /readyz", checker.ReadyHandler())
	mux.Handle("GET /metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              cfg.HTTPAddress,
		Handler:           httpapi.WithLogging(logger.L(), mux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("erro ao encerrar servidor", "err", err)
		}
	}()

	logger.Info("api ouvindo", "addr", cfg.HTTPAddress, "driver", cfg.DBDriver)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("erro no servidor", "err", err)
	}
	logger.Info("api finalizada")
}
