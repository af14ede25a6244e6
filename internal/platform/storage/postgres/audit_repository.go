package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/marcelojr/urna-online/internal/domain"
)

// AuditRepository só acrescenta; não existe update nem delete de auditoria.
type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Append(ctx context.Context, entry domain.AuditEntry) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&entry).Error; err != nil {
		return wrap("audit_log", "inserir", err)
	}
	return nil
}

func (r *AuditRepository) ListRecent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	var entries []domain.AuditEntry
	if err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, wrap("audit_log", "listar", err)
	}
	return entries, nil
}

var _ domain.AuditRepository = (*AuditRepository)(nil)
