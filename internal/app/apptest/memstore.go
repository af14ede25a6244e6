// Pacote apptest oferece dublês em memória dos ports de domínio para testes de serviço.
package apptest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/marcelojr/urna-online/internal/domain"
)

type state struct {
	voters     map[domain.VoterID]domain.Voter
	admins     map[string]domain.Admin
	elections  map[domain.ElectionID]domain.Election
	candidates map[domain.CandidateID]domain.Candidate
	votes      []domain.Vote
	audit      []domain.AuditEntry
}

func newState() *state {
	return &state{
		voters:     map[domain.VoterID]domain.Voter{},
		admins:     map[string]domain.Admin{},
		elections:  map[domain.ElectionID]domain.Election{},
		candidates: map[domain.CandidateID]domain.Candidate{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.voters {
		c.voters[k] = v
	}
	for k, v := range s.admins {
		c.admins[k] = v
	}
	for k, v := range s.elections {
		c.elections[k] = v
	}
	for k, v := range s.candidates {
		c.candidates[k] = v
	}
	c.votes = append([]domain.Vote(nil), s.votes...)
	c.audit = append([]domain.AuditEntry(nil), s.audit...)
	return c
}

// MemStore implementa domain.Store e domain.Transactor. InTx trabalha numa cópia
// e só a publica no sucesso; transações são serializadas pelo mutex.
type MemStore struct {
	mu    sync.Mutex
	st    *state
	fails map[string]error
}

func NewMemStore() *MemStore {
	return &MemStore{st: newState(), fails: map[string]error{}}
}

// FailOn faz a operação nomeada (ex.: "candidates.IncrementVotes") devolver err.
func (m *MemStore) FailOn(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fails[op] = err
}

func (m *MemStore) run(op string, fn func(*state) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fails[op]; err != nil {
		return err
	}
	return fn(m.st)
}

func (m *MemStore) InTx(ctx context.Context, fn func(domain.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	work := m.st.clone()
	tx := &txStore{st: work, fails: m.fails}
	if err := fn(tx); err != nil {
		return err
	}
	m.st = work
	return nil
}

func (m *MemStore) Voters() domain.VoterRepository         { return voterRepo{m.run} }
func (m *MemStore) Admins() domain.AdminRepository         { return adminRepo{m.run} }
func (m *MemStore) Elections() domain.ElectionRepository   { return electionRepo{m.run} }
func (m *MemStore) Candidates() domain.CandidateRepository { return candidateRepo{m.run} }
func (m *MemStore) Votes() domain.VoteRepository           { return voteRepo{m.run} }
func (m *MemStore) Audit() domain.AuditRepository          { return auditRepo{m.run} }

// AuditEntries devolve uma cópia do log de auditoria confirmado.
func (m *MemStore) AuditEntries() []domain.AuditEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.AuditEntry(nil), m.st.audit...)
}

// VoteRows devolve uma cópia das linhas de voto confirmadas.
func (m *MemStore) VoteRows() []domain.Vote {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Vote(nil), m.st.votes...)
}

type txStore struct {
	st    *state
	fails map[string]error
}

func (t *txStore) run(op string, fn func(*state) error) error {
	if err := t.fails[op]; err != nil {
		return err
	}
	return fn(t.st)
}

func (t *txStore) Voters() domain.VoterRepository         { return voterRepo{t.run} }
func (t *txStore) Admins() domain.AdminRepository         { return adminRepo{t.run} }
func (t *txStore) Elections() domain.ElectionRepository   { return electionRepo{t.run} }
func (t *txStore) Candidates() domain.CandidateRepository { return candidateRepo{t.run} }
func (t *txStore) Votes() domain.VoteRepository           { return voteRepo{t.run} }
func (t *txStore) Audit() domain.AuditRepository          { return auditRepo{t.run} }

type runner func(op string, fn func(*state) error) error

func notFound(entity string) error {
	return fmt.Errorf("mem %s: %w", entity, domain.ErrNotFound)
}

type voterRepo struct{ run runner }

func (r voterRepo) Create(_ context.Context, v domain.Voter) error {
	return r.run("voters.Create", func(s *state) error {
		for _, cur := range s.voters {
			if cur.Email == v.Email || cur.NationalID == v.NationalID {
				return fmt.Errorf("mem voters: %w", domain.ErrDuplicate)
			}
		}
		if v.CreatedAt.IsZero() {
			v.CreatedAt = time.Now().UTC()
		}
		s.voters[v.ID] = v
		return nil
	})
}

func (r voterRepo) FindByID(_ context.Context, id domain.VoterID) (domain.Voter, error) {
	var out domain.Voter
	err := r.run("voters.FindByID", func(s *state) error {
		v, ok := s.voters[id]
		if !ok {
			return notFound("voters")
		}
		out = v
		return nil
	})
	return out, err
}

func (r voterRepo) FindByEmail(_ context.Context, email string) (domain.Voter, error) {
	var out domain.Voter
	err := r.run("voters.FindByEmail", func(s *state) error {
		for _, v := range s.voters {
			if v.Email == email {
				out = v
				return nil
			}
		}
		return notFound("voters")
	})
	return out, err
}

func (r voterRepo) ExistsByEmailOrNationalID(_ context.Context, email, nationalID string) (bool, error) {
	var found bool
	err := r.run("voters.ExistsByEmailOrNationalID", func(s *state) error {
		for _, v := range s.voters {
			if v.Email == email || v.NationalID == nationalID {
				found = true
			}
		}
		return nil
	})
	return found, err
}

func (r voterRepo) List(_ context.Context) ([]domain.Voter, error) {
	var out []domain.Voter
	err := r.run("voters.List", func(s *state) error {
		for _, v := range s.voters {
			out = append(out, v)
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].CreatedAt.Equal(out[j].CreatedAt) {
				return out[i].ID > out[j].ID
			}
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
		return nil
	})
	return out, err
}

func (r voterRepo) update(op string, id domain.VoterID, fn func(*domain.Voter)) error {
	return r.run(op, func(s *state) error {
		v, ok := s.voters[id]
		if !ok {
			return notFound("voters")
		}
		fn(&v)
		s.voters[id] = v
		return nil
	})
}

func (r voterRepo) SetVerified(_ context.Context, id domain.VoterID) error {
	return r.update("voters.SetVerified", id, func(v *domain.Voter) { v.IsVerified = true })
}

func (r voterRepo) SetOTP(_ context.Context, id domain.VoterID, code string, expiry time.Time) error {
	return r.update("voters.SetOTP", id, func(v *domain.Voter) {
		v.OTPCode = &code
		v.OTPExpiry = &expiry
	})
}

func (r voterRepo) ConfirmEmail(_ context.Context, id domain.VoterID) error {
	return r.update("voters.ConfirmEmail", id, func(v *domain.Voter) {
		v.EmailVerified = true
		v.OTPCode = nil
		v.OTPExpiry = nil
	})
}

func (r voterRepo) CountVerified(_ context.Context) (int64, error) {
	var n int64
	err := r.run("voters.CountVerified", func(s *state) error {
		for _, v := range s.voters {
			if v.IsVerified {
				n++
			}
		}
		return nil
	})
	return n, err
}

type adminRepo struct{ run runner }

func (r adminRepo) Create(_ context.Context, a domain.Admin) error {
	return r.run("admins.Create", func(s *state) error {
		if _, ok := s.admins[a.Username]; ok {
			return fmt.Errorf("mem admins: %w", domain.ErrDuplicate)
		}
		s.admins[a.Username] = a
		return nil
	})
}

func (r adminRepo) FindByUsername(_ context.Context, username string) (domain.Admin, error) {
	var out domain.Admin
	err := r.run("admins.FindByUsername", func(s *state) error {
		a, ok := s.admins[username]
		if !ok {
			return notFound("admins")
		}
		out = a
		return nil
	})
	return out, err
}

type electionRepo struct{ run runner }

func (r electionRepo) Create(_ context.Context, e domain.Election) error {
	return r.run("elections.Create", func(s *state) error {
		if _, ok := s.elections[e.ID]; ok {
			return fmt.Errorf("mem elections: %w", domain.ErrDuplicate)
		}
		e.Candidates = nil
		s.elections[e.ID] = e
		return nil
	})
}

func (r electionRepo) FindByID(_ context.Context, id domain.ElectionID) (domain.Election, error) {
	var out domain.Election
	err := r.run("elections.FindByID", func(s *state) error {
		e, ok := s.elections[id]
		if !ok {
			return notFound("elections")
		}
		out = e
		return nil
	})
	return out, err
}

func (r electionRepo) List(_ context.Context) ([]domain.Election, error) {
	var out []domain.Election
	err := r.run("elections.List", func(s *state) error {
		for _, e := range s.elections {
			out = append(out, e)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
		return nil
	})
	return out, err
}

func (r electionRepo) ListActive(_ context.Context, now time.Time) ([]domain.Election, error) {
	var out []domain.Election
	err := r.run("elections.ListActive", func(s *state) error {
		for _, e := range s.elections {
			if e.IsActive && !now.Before(e.StartDate) && !now.After(e.EndDate) {
				out = append(out, e)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].EndDate.Before(out[j].EndDate) })
		return nil
	})
	return out, err
}

func (r electionRepo) update(op string, id domain.ElectionID, fn func(*domain.Election)) error {
	return r.run(op, func(s *state) error {
		e, ok := s.elections[id]
		if !ok {
			return notFound("elections")
		}
		fn(&e)
		s.elections[id] = e
		return nil
	})
}

func (r electionRepo) SetActive(_ context.Context, id domain.ElectionID, active bool) error {
	return r.update("elections.SetActive", id, func(e *domain.Election) { e.IsActive = active })
}

func (r electionRepo) MarkResultsPublished(_ context.Context, id domain.ElectionID) error {
	return r.update("elections.MarkResultsPublished", id, func(e *domain.Election) { e.ResultsPublished = true })
}

type candidateRepo struct{ run runner }

func (r candidateRepo) Create(_ context.Context, c domain.Candidate) error {
	return r.run("candidates.Create", func(s *state) error {
		if _, ok := s.elections[c.ElectionID]; !ok {
			return fmt.Errorf("mem candidates: eleicao inexistente")
		}
		s.candidates[c.ID] = c
		return nil
	})
}

func (r candidateRepo) FindByID(_ context.Context, id domain.CandidateID) (domain.Candidate, error) {
	var out domain.Candidate
	err := r.run("candidates.FindByID", func(s *state) error {
		c, ok := s.candidates[id]
		if !ok {
			return notFound("candidates")
		}
		out = c
		return nil
	})
	return out, err
}

func (r candidateRepo) ListByElection(_ context.Context, electionID domain.ElectionID) ([]domain.Candidate, error) {
	var out []domain.Candidate
	err := r.run("candidates.ListByElection", func(s *state) error {
		for _, c := range s.candidates {
			if c.ElectionID == electionID {
				out = append(out, c)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
		return nil
	})
	return out, err
}

func (r candidateRepo) IncrementVotes(_ context.Context, id domain.CandidateID) error {
	return r.run("candidates.IncrementVotes", func(s *state) error {
		c, ok := s.candidates[id]
		if !ok {
			return notFound("candidates")
		}
		c.Votes++
		s.candidates[id] = c
		return nil
	})
}

func (r candidateRepo) CountByElection(_ context.Context, electionID domain.ElectionID) (int64, error) {
	var n int64
	err := r.run("candidates.CountByElection", func(s *state) error {
		for _, c := range s.candidates {
			if c.ElectionID == electionID {
				n++
			}
		}
		return nil
	})
	return n, err
}

type voteRepo struct{ run runner }

func (r voteRepo) Insert(_ context.Context, v domain.Vote) error {
	return r.run("votes.Insert", func(s *state) error {
		for _, cur := range s.votes {
			if cur.VoterID == v.VoterID && cur.ElectionID == v.ElectionID {
				return fmt.Errorf("mem votes: %w", domain.ErrDuplicate)
			}
		}
		s.votes = append(s.votes, v)
		return nil
	})
}

func (r voteRepo) Exists(_ context.Context, voterID domain.VoterID, electionID domain.ElectionID) (bool, error) {
	var found bool
	err := r.run("votes.Exists", func(s *state) error {
		for _, v := range s.votes {
			if v.VoterID == voterID && v.ElectionID == electionID {
				found = true
			}
		}
		return nil
	})
	return found, err
}

func (r voteRepo) CountByElection(_ context.Context, electionID domain.ElectionID) (int64, error) {
	var n int64
	err := r.run("votes.CountByElection", func(s *state) error {
		for _, v := range s.votes {
			if v.ElectionID == electionID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r voteRepo) CountDistinctVoters(_ context.Context, electionID domain.ElectionID) (int64, error) {
	var n int64
	err := r.run("votes.CountDistinctVoters", func(s *state) error {
		seen := map[domain.VoterID]bool{}
		for _, v := range s.votes {
			if v.ElectionID == electionID && !seen[v.VoterID] {
				seen[v.VoterID] = true
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r voteRepo) TallyByElection(_ context.Context, electionID domain.ElectionID) ([]domain.CandidateTally, error) {
	var out []domain.CandidateTally
	err := r.run("votes.TallyByElection", func(s *state) error {
		counts := map[domain.CandidateID]int64{}
		for _, v := range s.votes {
			if v.ElectionID == electionID {
				counts[v.CandidateID]++
			}
		}
		for _, c := range s.candidates {
			if c.ElectionID != electionID {
				continue
			}
			out = append(out, domain.CandidateTally{
				CandidateID: c.ID,
				Name:        c.FullName,
				Party:       c.PartyName,
				VoteCount:   counts[c.ID],
			})
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].VoteCount != out[j].VoteCount {
				return out[i].VoteCount > out[j].VoteCount
			}
			return strings.Compare(out[i].Name, out[j].Name) < 0
		})
		return nil
	})
	return out, err
}

func record(s *state, v domain.Vote) domain.VoteRecord {
	e := s.elections[v.ElectionID]
	c := s.candidates[v.CandidateID]
	return domain.VoteRecord{
		VoteID:           v.ID,
		ConfirmationCode: v.ConfirmationCode,
		VoterID:          v.VoterID,
		ElectionID:       v.ElectionID,
		ElectionName:     e.Name,
		CandidateID:      v.CandidateID,
		CandidateName:    c.FullName,
		PartyName:        c.PartyName,
		CastAt:           v.CastAt,
	}
}

func (r voteRepo) ListByVoter(_ context.Context, voterID domain.VoterID) ([]domain.VoteRecord, error) {
	var out []domain.VoteRecord
	err := r.run("votes.ListByVoter", func(s *state) error {
		for _, v := range s.votes {
			if v.VoterID == voterID {
				out = append(out, record(s, v))
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].CastAt.After(out[j].CastAt) })
		return nil
	})
	return out, err
}

func (r voteRepo) FindByConfirmation(_ context.Context, code string) (domain.VoteRecord, error) {
	var out domain.VoteRecord
	err := r.run("votes.FindByConfirmation", func(s *state) error {
		for _, v := range s.votes {
			if v.ConfirmationCode == code {
				out = record(s, v)
				return nil
			}
		}
		return notFound("votes")
	})
	return out, err
}

type auditRepo struct{ run runner }

func (r auditRepo) Append(_ context.Context, entry domain.AuditEntry) error {
	return r.run("audit.Append", func(s *state) error {
		s.audit = append(s.audit, entry)
		return nil
	})
}

func (r auditRepo) ListRecent(_ context.Context, limit int) ([]domain.AuditEntry, error) {
	var out []domain.AuditEntry
	err := r.run("audit.ListRecent", func(s *state) error {
		for i := len(s.audit) - 1; i >= 0 && len(out) < limit; i-- {
			out = append(out, s.audit[i])
		}
		return nil
	})
	return out, err
}

var (
	_ domain.Store      = (*MemStore)(nil)
	_ domain.Transactor = (*MemStore)(nil)
	_ domain.Store      = (*txStore)(nil)
)
