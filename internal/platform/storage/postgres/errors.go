package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/marcelojr/urna-online/internal/domain"
)

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// wrap classifica o erro do gorm em ErrNotFound/ErrDuplicate mantendo a causa.
func wrap(entity, op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("gorm %s: %s: %w", entity, op, domain.ErrNotFound)
	case isUniqueViolation(err):
		return fmt.Errorf("gorm %s: %s: %w: %w", entity, op, domain.ErrDuplicate, err)
	default:
		return fmt.Errorf("gorm %s: %s: %w", entity, op, err)
	}
}

// mustAffect transforma um UPDATE que não encontrou linha em ErrNotFound.
func mustAffect(entity, op string, res *gorm.DB) error {
	if res.Error != nil {
		return wrap(entity, op, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("gorm %s: %s: %w", entity, op, domain.ErrNotFound)
	}
	return nil
}
