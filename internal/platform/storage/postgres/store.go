package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/marcelojr/urna-online/internal/domain"
)

// Store entrega repositórios ligados a um mesmo *gorm.DB, que pode ser a conexão ou uma transação.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Voters() domain.VoterRepository         { return NewVoterRepository(s.db) }
func (s *Store) Admins() domain.AdminRepository         { return NewAdminRepository(s.db) }
func (s *Store) Elections() domain.ElectionRepository   { return NewElectionRepository(s.db) }
func (s *Store) Candidates() domain.CandidateRepository { return NewCandidateRepository(s.db) }
func (s *Store) Votes() domain.VoteRepository           { return NewVoteRepository(s.db) }
func (s *Store) Audit() domain.AuditRepository          { return NewAuditRepository(s.db) }

// InTx executa fn numa transação: erro (ou panic) em fn desfaz tudo, sucesso faz COMMIT.
func (s *Store) InTx(ctx context.Context, fn func(domain.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

var (
	_ domain.Store      = (*Store)(nil)
	_ domain.Transactor = (*Store)(nil)
)
