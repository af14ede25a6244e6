// Pacote results apura eleições: resultado final (liberado após o encerramento), parcial em tempo real e estatísticas.
package results

import (
	"context"
	"errors"
	"math"

	"github.com/marcelojr/urna-online/internal/domain"
	"github.com/marcelojr/urna-online/internal/platform/metrics"
)

// Service só lê; a contagem vem sempre do livro de votos.
type Service struct {
	store domain.Store
	clock domain.Clock
}

func NewService(store domain.Store, clock domain.Clock) *Service {
	return &Service{store: store, clock: clock}
}

// Results devolve a apuração completa apenas quando a data de fim já passou.
func (s *Service) Results(ctx context.Context, electionID domain.ElectionID) (domain.ElectionResults, error) {
	metrics.IncResultsRequest("final")

	election, err := s.election(ctx, electionID)
	if err != nil {
		return domain.ElectionResults{}, err
	}
	if !election.HasEnded(s.clock.Now()) {
		return domain.ElectionResults{}, domain.ErrResultsNotYetAvailable
	}
	return s.tally(ctx, electionID)
}

// RealTime não tem trava de data; inclui o instante da leitura.
func (s *Service) RealTime(ctx context.Context, electionID domain.ElectionID) (domain.ElectionResults, error) {
	metrics.IncResultsRequest("realtime")

	if _, err := s.election(ctx, electionID); err != nil {
		return domain.ElectionResults{}, err
	}
	res, err := s.tally(ctx, electionID)
	if err != nil {
		return domain.ElectionResults{}, err
	}
	res.Timestamp = s.clock.Now()
	return res, nil
}

// Statistics usa como eleitorado todos os eleitores verificados do sistema, não só os da eleição.
func (s *Service) Statistics(ctx context.Context, electionID domain.ElectionID) (domain.ElectionStatistics, error) {
	metrics.IncResultsRequest("statistics")

	if _, err := s.election(ctx, electionID); err != nil {
		return domain.ElectionStatistics{}, err
	}

	eligible, err := s.store.Voters().CountVerified(ctx)
	if err != nil {
		return domain.ElectionStatistics{}, domain.AsStorageFailure(err)
	}
	cast, err := s.store.Votes().CountByElection(ctx, electionID)
	if err != nil {
		return domain.ElectionStatistics{}, domain.AsStorageFailure(err)
	}
	unique, err := s.store.Votes().CountDistinctVoters(ctx, electionID)
	if err != nil {
		return domain.ElectionStatistics{}, domain.AsStorageFailure(err)
	}
	candidates, err := s.store.Candidates().CountByElection(ctx, electionID)
	if err != nil {
		return domain.ElectionStatistics{}, domain.AsStorageFailure(err)
	}

	return domain.ElectionStatistics{
		ElectionID:          electionID,
		TotalEligibleVoters: eligible,
		TotalVotesCast:      cast,
		UniqueVoters:        unique,
		TotalCandidates:     candidates,
		TurnoutPercentage:   Percentage(cast, eligible),
	}, nil
}

func (s *Service) election(ctx context.Context, id domain.ElectionID) (domain.Election, error) {
	e, err := s.store.Elections().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Election{}, domain.ErrElectionNotFound
		}
		return domain.Election{}, domain.AsStorageFailure(err)
	}
	return e, nil
}

func (s *Service) tally(ctx context.Context, electionID domain.ElectionID) (domain.ElectionResults, error) {
	candidates, err := s.store.Votes().TallyByElection(ctx, electionID)
	if err != nil {
		return domain.ElectionResults{}, domain.AsStorageFailure(err)
	}

	var total int64
	for _, c := range candidates {
		total += c.VoteCount
	}
	for i := range candidates {
		candidates[i].Percentage = Percentage(candidates[i].VoteCount, total)
	}

	return domain.ElectionResults{
		ElectionID: electionID,
		TotalVotes: total,
		Candidates: candidates,
	}, nil
}

// Percentage devolve part*100/total com duas casas; total zero resulta em 0.
func Percentage(part, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(part)*10000/float64(total)) / 100
}

var _ domain.ResultsService = (*Service)(nil)
