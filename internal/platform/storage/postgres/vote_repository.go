package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/marcelojr/urna-online/internal/domain"
)

// VoteRepository é o livro de votos; o índice único (voter_id, election_id) é a última barreira contra voto duplo.
type VoteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) *VoteRepository {
	return &VoteRepository{db: db}
}

// Insert devolve erro que satisfaz errors.Is(err, domain.ErrDuplicate) quando o par já existe.
func (r *VoteRepository) Insert(ctx context.Context, v domain.Vote) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&v).Error; err != nil {
		return wrap("votes", "inserir", err)
	}
	return nil
}

func (r *VoteRepository) Exists(ctx context.Context, voterID domain.VoterID, electionID domain.ElectionID) (bool, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&domain.Vote{}).
		Where("voter_id = ? AND election_id = ?", voterID, electionID).
		Limit(1).
		Count(&total).Error; err != nil {
		return false, wrap("votes", "verificar existencia", err)
	}
	return total > 0, nil
}

func (r *VoteRepository) CountByElection(ctx context.Context, electionID domain.ElectionID) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&domain.Vote{}).
		Where("election_id = ?", electionID).
		Count(&total).Error; err != nil {
		return 0, wrap("votes", "contar por eleicao", err)
	}
	return total, nil
}

func (r *VoteRepository) CountDistinctVoters(ctx context.Context, electionID domain.ElectionID) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&domain.Vote{}).
		Where("election_id = ?", electionID).
		Distinct("voter_id").
		Count(&total).Error; err != nil {
		return 0, wrap("votes", "contar eleitores distintos", err)
	}
	return total, nil
}

// TallyByElection conta a partir das linhas de votos; candidatos sem voto aparecem com zero.
func (r *VoteRepository) TallyByElection(ctx context.Context, electionID domain.ElectionID) ([]domain.CandidateTally, error) {
	type resultado struct {
		CandidateID string
		Name        string
		Party       string
		VoteCount   int64
	}

	var res []resultado
	if err := r.db.WithContext(ctx).
		Raw(`
            SELECT c.id AS candidate_id, c.full_name AS name, c.party_name AS party, COUNT(v.id) AS vote_count
            FROM candidates c
            LEFT JOIN votes v ON v.candidate_id = c.id AND v.election_id = ?
            WHERE c.election_id = ?
            GROUP BY c.id, c.full_name, c.party_name
            ORDER BY vote_count DESC, c.full_name ASC
        `, electionID, electionID).
		Scan(&res).Error; err != nil {
		return nil, wrap("votes", "apurar", err)
	}

	tallies := make([]domain.CandidateTally, len(res))
	for i, item := range res {
		tallies[i] = domain.CandidateTally{
			CandidateID: domain.CandidateID(item.CandidateID),
			Name:        item.Name,
			Party:       item.Party,
			VoteCount:   item.VoteCount,
		}
	}
	return tallies, nil
}

type voteRecordRow struct {
	VoteID           string
	ConfirmationCode string
	VoterID          string
	ElectionID       string
	ElectionName     string
	CandidateID      string
	CandidateName    string
	PartyName        string
	CastAt           time.Time
}

func (row voteRecordRow) toDomain() domain.VoteRecord {
	return domain.VoteRecord{
		VoteID:           domain.VoteID(row.VoteID),
		ConfirmationCode: row.ConfirmationCode,
		VoterID:          domain.VoterID(row.VoterID),
		ElectionID:       domain.ElectionID(row.ElectionID),
		ElectionName:     row.ElectionName,
		CandidateID:      domain.CandidateID(row.CandidateID),
		CandidateName:    row.CandidateName,
		PartyName:        row.PartyName,
		CastAt:           row.CastAt,
	}
}

const voteRecordSelect = `
    SELECT v.id AS vote_id, v.confirmation_code, v.voter_id, v.election_id, e.name AS election_name,
           v.candidate_id, c.full_name AS candidate_name, c.party_name, v.cast_at
    FROM votes v
    JOIN elections e ON e.id = v.election_id
    JOIN candidates c ON c.id = v.candidate_id
`

func (r *VoteRepository) ListByVoter(ctx context.Context, voterID domain.VoterID) ([]domain.VoteRecord, error) {
	var rows []voteRecordRow
	if err := r.db.WithContext(ctx).
		Raw(voteRecordSelect+` WHERE v.voter_id = ? ORDER BY v.cast_at DESC, v.id DESC`, voterID).
		Scan(&rows).Error; err != nil {
		return nil, wrap("votes", "historico", err)
	}

	records := make([]domain.VoteRecord, len(rows))
	for i, row := range rows {
		records[i] = row.toDomain()
	}
	return records, nil
}

func (r *VoteRepository) FindByConfirmation(ctx context.Context, code string) (domain.VoteRecord, error) {
	var rows []voteRecordRow
	if err := r.db.WithContext(ctx).
		Raw(voteRecordSelect+` WHERE v.confirmation_code = ? ORDER BY v.cast_at ASC LIMIT 1`, code).
		Scan(&rows).Error; err != nil {
		return domain.VoteRecord{}, wrap("votes", "buscar comprovante", err)
	}
	if len(rows) == 0 {
		return domain.VoteRecord{}, wrap("votes", "buscar comprovante", gorm.ErrRecordNotFound)
	}
	return rows[0].toDomain(), nil
}

var _ domain.VoteRepository = (*VoteRepository)(nil)
