package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/marcelojr/urna-online/internal/domain"
)

type CandidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) *CandidateRepository {
	return &CandidateRepository{db: db}
}

func (r *CandidateRepository) Create(ctx context.Context, c domain.Candidate) error {
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return wrap("candidates", "inserir", err)
	}
	return nil
}

func (r *CandidateRepository) FindByID(ctx context.Context, id domain.CandidateID) (domain.Candidate, error) {
	var c domain.Candidate
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return domain.Candidate{}, wrap("candidates", "buscar por id", err)
	}
	return c, nil
}

func (r *CandidateRepository) ListByElection(ctx context.Context, electionID domain.ElectionID) ([]domain.Candidate, error) {
	var candidates []domain.Candidate
	if err := r.db.WithContext(ctx).
		Where("election_id = ?", electionID).
		Order("full_name ASC, id ASC").
		Find(&candidates).Error; err != nil {
		return nil, wrap("candidates", "listar por eleicao", err)
	}
	return candidates, nil
}

// IncrementVotes usa UPDATE relativo; duas transações concorrentes nunca perdem incremento.
func (r *CandidateRepository) IncrementVotes(ctx context.Context, id domain.CandidateID) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Candidate{}).
		Where("id = ?", id).
		UpdateColumn("votes", gorm.Expr("votes + ?", 1))
	return mustAffect("candidates", "incrementar votos", res)
}

func (r *CandidateRepository) CountByElection(ctx context.Context, electionID domain.ElectionID) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&domain.Candidate{}).
		Where("election_id = ?", electionID).
		Count(&total).Error; err != nil {
		return 0, wrap("candidates", "contar por eleicao", err)
	}
	return total, nil
}

var _ domain.CandidateRepository = (*CandidateRepository)(nil)
