package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/marcelojr/urna-online/internal/domain"
)

// ElectionRepository não carrega candidatos junto; eles vêm do CandidateRepository.
type ElectionRepository struct {
	db *gorm.DB
}

func NewElectionRepository(db *gorm.DB) *ElectionRepository {
	return &ElectionRepository{db: db}
}

func (r *ElectionRepository) Create(ctx context.Context, e domain.Election) error {
	e.Candidates = nil
	if err := r.db.WithContext(ctx).Omit("Candidates").Create(&e).Error; err != nil {
		return wrap("elections", "inserir", err)
	}
	return nil
}

func (r *ElectionRepository) FindByID(ctx context.Context, id domain.ElectionID) (domain.Election, error) {
	var e domain.Election
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error; err != nil {
		return domain.Election{}, wrap("elections", "buscar por id", err)
	}
	return e, nil
}

func (r *ElectionRepository) List(ctx context.Context) ([]domain.Election, error) {
	var elections []domain.Election
	if err := r.db.WithContext(ctx).
		Order("start_date DESC, id DESC").
		Find(&elections).Error; err != nil {
		return nil, wrap("elections", "listar", err)
	}
	return elections, nil
}

// ListActive recebe now do chamador para que o relógio da aplicação, e não o do banco, defina a janela.
func (r *ElectionRepository) ListActive(ctx context.Context, now time.Time) ([]domain.Election, error) {
	var elections []domain.Election
	if err := r.db.WithContext(ctx).
		Where("is_active = ? AND start_date <= ? AND end_date >= ?", true, now, now).
		Order("end_date ASC, id ASC").
		Find(&elections).Error; err != nil {
		return nil, wrap("elections", "listar ativas", err)
	}
	return elections, nil
}

func (r *ElectionRepository) SetActive(ctx context.Context, id domain.ElectionID, active bool) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Election{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_active": active})
	return mustAffect("elections", "alterar status", res)
}

func (r *ElectionRepository) MarkResultsPublished(ctx context.Context, id domain.ElectionID) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Election{}).
		Where("id = ?", id).
		Updates(map[string]any{"results_published": true})
	return mustAffect("elections", "publicar resultados", res)
}

var _ domain.ElectionRepository = (*ElectionRepository)(nil)
