package results

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcelojr/urna-online/internal/app/apptest"
	"github.com/marcelojr/urna-online/internal/domain"
)

var baseTime = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

// seed cria uma eleição com os candidatos e votos informados (nome -> quantidade).
func seed(t *testing.T, store *apptest.MemStore, end time.Time, votos map[string]int) domain.Election {
	t.Helper()
	ctx := context.Background()
	e := domain.Election{
		ID:        "eleicao-1",
		Name:      "Conselho",
		StartDate: baseTime.Add(-48 * time.Hour),
		EndDate:   end,
		IsActive:  true,
	}
	require.NoError(t, store.Elections().Create(ctx, e))

	n := 0
	for nome, qtd := range votos {
		c := domain.Candidate{ID: domain.CandidateID("cand-" + nome), ElectionID: e.ID, FullName: nome, PartyName: "P-" + nome}
		require.NoError(t, store.Candidates().Create(ctx, c))
		for i := 0; i < qtd; i++ {
			n++
			voter := domain.VoterID(fmt.Sprintf("eleitor-%d", n))
			require.NoError(t, store.Voters().Create(ctx, domain.Voter{
				ID: voter, Email: string(voter), NationalID: string(voter), IsVerified: true,
			}))
			require.NoError(t, store.Votes().Insert(ctx, domain.Vote{
				ID: domain.VoteID(fmt.Sprintf("voto-%d", n)), VoterID: voter, ElectionID: e.ID, CandidateID: c.ID, CastAt: baseTime,
			}))
		}
	}
	return e
}

func TestResults_QuandoEleicaoEncerrada_DeveRetornarApuracaoCompleta(t *testing.T) {
	store := apptest.NewMemStore()
	e := seed(t, store, baseTime.Add(-time.Hour), map[string]int{"Ana": 2, "Bruno": 1, "Carla": 0})
	svc := NewService(store, apptest.NewClock(baseTime))

	res, err := svc.Results(context.Background(), e.ID)

	require.NoError(t, err)
	assert.Equal(t, int64(3), res.TotalVotes)
	require.Len(t, res.Candidates, 3)
	assert.Equal(t, "Ana", res.Candidates[0].Name)
	assert.Equal(t, "P-Ana", res.Candidates[0].Party)
	assert.Equal(t, 66.67, res.Candidates[0].Percentage)
	assert.Equal(t, 33.33, res.Candidates[1].Percentage)
	assert.Equal(t, 0.0, res.Candidates[2].Percentage)
	assert.True(t, res.Timestamp.IsZero())
}

func TestResults_QuandoEleicaoEmAndamento_DeveSinalizarNaoDisponivelMasRealTimeResponde(t *testing.T) {
	store := apptest.NewMemStore()
	e := seed(t, store, baseTime.Add(time.Hour), map[string]int{"Ana": 1, "Bruno": 1})
	svc := NewService(store, apptest.NewClock(baseTime))

	_, err := svc.Results(context.Background(), e.ID)
	assert.ErrorIs(t, err, domain.ErrResultsNotYetAvailable)

	live, err := svc.RealTime(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), live.TotalVotes)
	assert.Equal(t, baseTime, live.Timestamp)
	assert.Equal(t, "Ana", live.Candidates[0].Name)
	assert.Equal(t, 50.0, live.Candidates[0].Percentage)
}

func TestResults_QuandoSemVotos_PercentuaisDevemSerZero(t *testing.T) {
	store := apptest.NewMemStore()
	e := seed(t, store, baseTime.Add(-time.Hour), map[string]int{"Ana": 0, "Bruno": 0})
	svc := NewService(store, apptest.NewClock(baseTime))

	res, err := svc.Results(context.Background(), e.ID)

	require.NoError(t, err)
	assert.Equal(t, int64(0), res.TotalVotes)
	for _, c := range res.Candidates {
		assert.Equal(t, 0.0, c.Percentage)
	}
}

func TestResults_SomaDosPercentuaisDeveSerProximaDeCem(t *testing.T) {
	distribuicoes := []map[string]int{
		{"A": 1, "B": 1, "C": 1},
		{"A": 7, "B": 5, "C": 3, "D": 1},
		{"A": 1, "B": 2, "C": 4, "D": 8, "E": 16, "F": 32},
		{"A": 999, "B": 1},
	}

	for i, dist := range distribuicoes {
		t.Run(fmt.Sprintf("dist-%d", i), func(t *testing.T) {
			store := apptest.NewMemStore()
			e := seed(t, store, baseTime.Add(-time.Hour), dist)
			svc := NewService(store, apptest.NewClock(baseTime))

			res, err := svc.Results(context.Background(), e.ID)
			require.NoError(t, err)

			var soma float64
			for _, c := range res.Candidates {
				soma += c.Percentage
			}
			// cada percentual erra no máximo 0.005 pelo arredondamento
			assert.InDelta(t, 100.0, soma, 0.005*float64(len(res.Candidates))+1e-9)
		})
	}
}

func TestResults_QuandoEleicaoInexistente_DeveRetornarElectionNotFound(t *testing.T) {
	svc := NewService(apptest.NewMemStore(), apptest.NewClock(baseTime))
	ctx := context.Background()

	_, err := svc.Results(ctx, "nao-existe")
	assert.ErrorIs(t, err, domain.ErrElectionNotFound)
	_, err = svc.RealTime(ctx, "nao-existe")
	assert.ErrorIs(t, err, domain.ErrElectionNotFound)
	_, err = svc.Statistics(ctx, "nao-existe")
	assert.ErrorIs(t, err, domain.ErrElectionNotFound)
}

func TestStatistics_DeveUsarEleitoresVerificadosDoSistema(t *testing.T) {
	store := apptest.NewMemStore()
	e := seed(t, store, baseTime.Add(time.Hour), map[string]int{"Ana": 2, "Bruno": 1})
	ctx := context.Background()
	// eleitores verificados que não votaram e um não verificado
	for i := 0; i < 3; i++ {
		id := domain.VoterID(fmt.Sprintf("extra-%d", i))
		require.NoError(t, store.Voters().Create(ctx, domain.Voter{ID: id, Email: string(id), NationalID: string(id), IsVerified: i < 2}))
	}
	svc := NewService(store, apptest.NewClock(baseTime))

	stats, err := svc.Statistics(ctx, e.ID)

	require.NoError(t, err)
	assert.Equal(t, int64(5), stats.TotalEligibleVoters)
	assert.Equal(t, int64(3), stats.TotalVotesCast)
	assert.Equal(t, int64(3), stats.UniqueVoters)
	assert.Equal(t, int64(2), stats.TotalCandidates)
	assert.Equal(t, 60.0, stats.TurnoutPercentage)
}

func TestStatistics_QuandoFalhaStorage_DeveClassificar(t *testing.T) {
	store := apptest.NewMemStore()
	e := seed(t, store, baseTime, map[string]int{"Ana": 1})
	store.FailOn("voters.CountVerified", errors.New("timeout"))

	_, err := NewService(store, apptest.NewClock(baseTime)).Statistics(context.Background(), e.ID)

	assert.ErrorIs(t, err, domain.ErrStorageFailure)
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0.0, Percentage(5, 0))
	assert.Equal(t, 100.0, Percentage(3, 3))
	assert.Equal(t, 33.33, Percentage(1, 3))
	assert.Equal(t, 66.67, Percentage(2, 3))
	assert.Equal(t, 14.29, Percentage(1, 7))
}
