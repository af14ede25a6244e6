// votectl opera a urna direto no banco: cria administradores, libera eleitores e imprime apuração e auditoria.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"github.com/marcelojr/urna-online/internal/app/cli"
	"github.com/marcelojr/urna-online/internal/app/registry"
	"github.com/marcelojr/urna-online/internal/app/results"
	"github.com/marcelojr/urna-online/internal/platform/auth"
	"github.com/marcelojr/urna-online/internal/platform/clock"
	"github.com/marcelojr/urna-online/internal/platform/config"
	"github.com/marcelojr/urna-online/internal/platform/ids"
	"github.com/marcelojr/urna-online/internal/platform/logger"
	"github.com/marcelojr/urna-online/internal/platform/migrations"
	postgresstorage "github.com/marcelojr/urna-online/internal/platform/storage/postgres"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("configuracao invalida", "err", err)
	}
	logger.SetLevel(logger.ParseLevel(cfg.LogLevel))

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

	store := postgresstorage.NewStore(db)
	clockSystem := clock.NewSystemClock()

	// votectl não emite tokens nem publica OTP; só usa CreateAdmin e VerifyVoter.
	voters := registry.NewVoters(registry.VotersConfig{
		Store:  store,
		Hasher: auth.NewBcryptHasher(0),
		Clock:  clockSystem,
		IDs:    ids.NewGenerator(),
		Log:    logger.L(),
	})

	runner := cli.New(cli.Deps{
		Admins:  voters,
		Results: results.NewService(store, clockSystem),
		Audit:   store.Audit(),
		Out:     os.Stdout,
		Err:     os.Stderr,
	})

	if err := runner.Run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		color.New(color.FgRed).Fprintln(os.Stderr, err)
		sqlDB.Close()
		os.Exit(1)
	}
}
