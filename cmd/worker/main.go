// Worker que consome a fila de OTP no Redis e entrega os códigos de verificação de e-mail.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/marcelojr/urna-online/internal/app/worker"
	"github.com/marcelojr/urna-online/internal/domain"
	"github.com/marcelojr/urna-online/internal/platform/clock"
	"github.com/marcelojr/urna-online/internal/platform/config"
	"github.com/marcelojr/urna-online/internal/platform/health"
	"github.com/marcelojr/urna-online/internal/platform/logger"
	"github.com/marcelojr/urna-online/internal/platform/mailer"
	redisstorage "github.com/marcelojr/urna-online/internal/platform/storage/redis"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("configuracao invalida", "err", err)
	}
	logger.SetLevel(logger.ParseLevel(cfg.LogLevel))

	redisClient, err := redisstorage.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Fatal("falha ao conectar no redis", "err", err)
	}
	defer redisClient.Close()

	fila := redisstorage.NewFilaOTP(redisClient, cfg.OTPQueueKey)
	dispatcher := worker.NewOTPDispatcher(mailer.NewLogMailer(logger.L()), clock.NewSystemClock())
	checker := health.NewChecker(nil, redisClient)

	if cfg.WorkerMetricsAddress != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			mux.HandleFunc("/readyz", checker.ReadyHandler())
			logger.Info("worker metrics ouvindo", "addr", cfg.WorkerMetricsAddress)
			if err := http.ListenAndServe(cfg.WorkerMetricsAddress, mux); err != nil {
				logger.Error("erro no servidor de metrics do worker", "err", err)
			}
		}()
	}

	logger.Info("worker iniciado, aguardando codigos", "fila", cfg.OTPQueueKey)
	err = fila.ConsumeOTP(ctx, func(ctx context.Context, msg domain.OTPMessage) error {
		// Falha de envio não derruba o consumo; o eleitor pode pedir reenvio.
		sent, err := dispatcher.Process(ctx, msg)
		switch {
		case err != nil:
			logger.Error("erro ao enviar otp", "voter_id", msg.VoterID, "err", err)
		case !sent:
			logger.Warn("otp expirado descartado", "voter_id", msg.VoterID)
		}
		return nil
	})

	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		logger.Fatal("worker finalizado com erro", "err", err)
	}

	logger.Info("worker finalizado")
}
