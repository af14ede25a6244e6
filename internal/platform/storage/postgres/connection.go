// Pacote postgres implementa a camada de persistência via GORM (Postgres em produção, SQLite local e em testes).
package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

func gormConfig() *gorm.Config {
	// TranslateError converte violação de unicidade em gorm.ErrDuplicatedKey nos dois drivers.
	return &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			SingularTable: false,
		},
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}
}

func Open(ctx context.Context, dsn string) (*gorm.DB, error) {
	gormDB, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("postgres gorm: abrir conexao: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres gorm: obter sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	sqlDB.SetConnMaxLifetime(60 * time.Minute)

	if err := ping(ctx, gormDB); err != nil {
		return nil, err
	}
	return gormDB, nil
}

// OpenSQLite abre um arquivo (ou ":memory:") com chaves estrangeiras ligadas.
// Uma única conexão serializa as escritas e mantém o banco em memória compartilhado.
func OpenSQLite(ctx context.Context, path string) (*gorm.DB, error) {
	gormDB, err := gorm.Open(sqlite.Open(path+"?_foreign_keys=on&_busy_timeout=5000"), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("sqlite gorm: abrir conexao: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite gorm: obter sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := ping(ctx, gormDB); err != nil {
		return nil, err
	}
	return gormDB, nil
}

func ping(ctx context.Context, gormDB *gorm.DB) error {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return fmt.Errorf("gorm: obter sql.DB: %w", err)
	}

	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctxPing); err != nil {
		return fmt.Errorf("gorm: ping falhou: %w", err)
	}
	return nil
}

// OpenDriver escolhe o driver pelo nome configurado ("postgres" ou "sqlite").
func OpenDriver(ctx context.Context, driver, dsn, sqlitePath string) (*gorm.DB, error) {
	switch driver {
	case "postgres":
		return Open(ctx, dsn)
	case "sqlite":
		return OpenSQLite(ctx, sqlitePath)
	default:
		return nil, fmt.Errorf("gorm: driver desconhecido %q", driver)
	}
}
