package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/marcelojr/urna-online/internal/domain"
	"github.com/marcelojr/urna-online/internal/platform/ids"
)

// Elections mantém eleições e candidatos. O contador de votos do candidato nunca é alterado aqui.
type Elections struct {
	store domain.Store
	clock domain.Clock
	ids   *ids.Generator
}

func NewElections(store domain.Store, clock domain.Clock, idsGen *ids.Generator) *Elections {
	if idsGen == nil {
		idsGen = ids.DefaultGenerator()
	}
	return &Elections{store: store, clock: clock, ids: idsGen}
}

func (s *Elections) CreateElection(ctx context.Context, e domain.Election) (domain.Election, error) {
	e.Name = strings.TrimSpace(e.Name)
	if e.Name == "" {
		return domain.Election{}, fmt.Errorf("%w: nome obrigatorio", ErrInvalidElection)
	}
	if e.StartDate.IsZero() || e.EndDate.IsZero() {
		return domain.Election{}, fmt.Errorf("%w: inicio e fim obrigatorios", ErrInvalidElection)
	}
	if !e.EndDate.After(e.StartDate) {
		return domain.Election{}, fmt.Errorf("%w: fim deve ser posterior ao inicio", ErrInvalidElection)
	}

	now := s.clock.Now()
	e.ID = domain.ElectionID(s.ids.New())
	e.StartDate = e.StartDate.UTC()
	e.EndDate = e.EndDate.UTC()
	e.ResultsPublished = false
	e.Candidates = nil
	e.CreatedAt = now
	e.UpdatedAt = now

	if err := s.store.Elections().Create(ctx, e); err != nil {
		return domain.Election{}, domain.AsStorageFailure(err)
	}
	return e, nil
}

func (s *Elections) ListElections(ctx context.Context) ([]domain.ElectionSummary, error) {
	elections, err := s.store.Elections().List(ctx)
	if err != nil {
		return nil, domain.AsStorageFailure(err)
	}
	return s.summaries(ctx, elections)
}

func (s *Elections) ListActiveElections(ctx context.Context) ([]domain.ElectionSummary, error) {
	elections, err := s.store.Elections().ListActive(ctx, s.clock.Now())
	if err != nil {
		return nil, domain.AsStorageFailure(err)
	}
	return s.summaries(ctx, elections)
}

func (s *Elections) GetElection(ctx context.Context, id domain.ElectionID) (domain.ElectionSummary, error) {
	e, err := s.election(ctx, id)
	if err != nil {
		return domain.ElectionSummary{}, err
	}
	out, err := s.summaries(ctx, []domain.Election{e})
	if err != nil {
		return domain.ElectionSummary{}, err
	}
	return out[0], nil
}

func (s *Elections) SetElectionActive(ctx context.Context, id domain.ElectionID, active bool) (domain.Election, error) {
	if err := s.store.Elections().SetActive(ctx, id, active); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Election{}, domain.ErrElectionNotFound
		}
		return domain.Election{}, domain.AsStorageFailure(err)
	}
	return s.election(ctx, id)
}

// PublishResults só marca a eleição; a liberação da apuração depende da data de fim.
func (s *Elections) PublishResults(ctx context.Context, id domain.ElectionID) (domain.Election, error) {
	if err := s.store.Elections().MarkResultsPublished(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Election{}, domain.ErrElectionNotFound
		}
		return domain.Election{}, domain.AsStorageFailure(err)
	}
	return s.election(ctx, id)
}

func (s *Elections) CreateCandidate(ctx context.Context, c domain.Candidate) (domain.Candidate, error) {
	c.FullName = strings.TrimSpace(c.FullName)
	if c.FullName == "" {
		return domain.Candidate{}, fmt.Errorf("%w: nome obrigatorio", ErrInvalidCandidateData)
	}
	if _, err := s.election(ctx, c.ElectionID); err != nil {
		return domain.Candidate{}, err
	}

	c.ID = domain.CandidateID(s.ids.New())
	c.PartyName = strings.TrimSpace(c.PartyName)
	c.Votes = 0
	c.CreatedAt = s.clock.Now()
	if err := s.store.Candidates().Create(ctx, c); err != nil {
		return domain.Candidate{}, domain.AsStorageFailure(err)
	}
	return c, nil
}

func (s *Elections) GetCandidate(ctx context.Context, id domain.CandidateID) (domain.Candidate, error) {
	c, err := s.store.Candidates().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Candidate{}, ErrCandidateNotFound
		}
		return domain.Candidate{}, domain.AsStorageFailure(err)
	}
	return c, nil
}

func (s *Elections) ListCandidates(ctx context.Context, electionID domain.ElectionID) ([]domain.Candidate, error) {
	candidates, err := s.store.Candidates().ListByElection(ctx, electionID)
	if err != nil {
		return nil, domain.AsStorageFailure(err)
	}
	return candidates, nil
}

func (s *Elections) election(ctx context.Context, id domain.ElectionID) (domain.Election, error) {
	e, err := s.store.Elections().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Election{}, domain.ErrElectionNotFound
		}
		return domain.Election{}, domain.AsStorageFailure(err)
	}
	return e, nil
}

func (s *Elections) summaries(ctx context.Context, elections []domain.Election) ([]domain.ElectionSummary, error) {
	now := s.clock.Now()
	out := make([]domain.ElectionSummary, len(elections))
	for i, e := range elections {
		candidates, err := s.store.Candidates().CountByElection(ctx, e.ID)
		if err != nil {
			return nil, domain.AsStorageFailure(err)
		}
		votes, err := s.store.Votes().CountByElection(ctx, e.ID)
		if err != nil {
			return nil, domain.AsStorageFailure(err)
		}
		out[i] = domain.ElectionSummary{
			Election:       e,
			Status:         e.StatusAt(now),
			CandidateCount: candidates,
			VoteCount:      votes,
		}
	}
	return out, nil
}

var _ domain.ElectionCatalog = (*Elections)(nil)
