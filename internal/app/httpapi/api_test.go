package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/marcelojr/urna-online/internal/app/registry"
	"github.com/marcelojr/urna-online/internal/app/voting"
	"github.com/marcelojr/urna-online/internal/domain"
	"github.com/marcelojr/urna-online/internal/platform/antifraude"
	"github.com/marcelojr/urna-online/internal/platform/auth"
)

type MockVotingService struct{ mock.Mock }

func (m *MockVotingService) CastVote(ctx context.Context, cmd domain.CastCommand) (domain.CastReceipt, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(domain.CastReceipt), args.Error(1)
}

func (m *MockVotingService) HasVoted(ctx context.Context, voterID domain.VoterID, electionID domain.ElectionID) (bool, error) {
	args := m.Called(ctx, voterID, electionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockVotingService) History(ctx context.Context, voterID domain.VoterID) ([]domain.VoteRecord, error) {
	args := m.Called(ctx, voterID)
	return args.Get(0).([]domain.VoteRecord), args.Error(1)
}

func (m *MockVotingService) Receipt(ctx context.Context, code string) (domain.VoteRecord, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(domain.VoteRecord), args.Error(1)
}

type MockResultsService struct{ mock.Mock }

func (m *MockResultsService) Results(ctx context.Context, id domain.ElectionID) (domain.ElectionResults, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.ElectionResults), args.Error(1)
}

func (m *MockResultsService) RealTime(ctx context.Context, id domain.ElectionID) (domain.ElectionResults, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.ElectionResults), args.Error(1)
}

func (m *MockResultsService) Statistics(ctx context.Context, id domain.ElectionID) (domain.ElectionStatistics, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.ElectionStatistics), args.Error(1)
}

type MockVoterDirectory struct{ mock.Mock }

func (m *MockVoterDirectory) Register(ctx context.Context, r domain.Registration) (domain.Voter, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(domain.Voter), args.Error(1)
}

func (m *MockVoterDirectory) VerifyOTP(ctx context.Context, email, code string) (domain.Voter, error) {
	args := m.Called(ctx, email, code)
	return args.Get(0).(domain.Voter), args.Error(1)
}

func (m *MockVoterDirectory) ResendOTP(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockVoterDirectory) Login(ctx context.Context, email, password string) (domain.Session, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(domain.Session), args.Error(1)
}

func (m *MockVoterDirectory) AdminLogin(ctx context.Context, username, password string) (domain.Session, error) {
	args := m.Called(ctx, username, password)
	return args.Get(0).(domain.Session), args.Error(1)
}

func (m *MockVoterDirectory) VerifyVoter(ctx context.Context, id domain.VoterID) (domain.Voter, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Voter), args.Error(1)
}

func (m *MockVoterDirectory) ListVoters(ctx context.Context) ([]domain.Voter, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Voter), args.Error(1)
}

type MockElectionCatalog struct{ mock.Mock }

func (m *MockElectionCatalog) CreateElection(ctx context.Context, e domain.Election) (domain.Election, error) {
	args := m.Called(ctx, e)
	return args.Get(0).(domain.Election), args.Error(1)
}

func (m *MockElectionCatalog) ListElections(ctx context.Context) ([]domain.ElectionSummary, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.ElectionSummary), args.Error(1)
}

func (m *MockElectionCatalog) ListActiveElections(ctx context.Context) ([]domain.ElectionSummary, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.ElectionSummary), args.Error(1)
}

func (m *MockElectionCatalog) GetElection(ctx context.Context, id domain.ElectionID) (domain.ElectionSummary, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.ElectionSummary), args.Error(1)
}

func (m *MockElectionCatalog) SetElectionActive(ctx context.Context, id domain.ElectionID, active bool) (domain.Election, error) {
	args := m.Called(ctx, id, active)
	return args.Get(0).(domain.Election), args.Error(1)
}

func (m *MockElectionCatalog) PublishResults(ctx context.Context, id domain.ElectionID) (domain.Election, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Election), args.Error(1)
}

func (m *MockElectionCatalog) CreateCandidate(ctx context.Context, c domain.Candidate) (domain.Candidate, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(domain.Candidate), args.Error(1)
}

func (m *MockElectionCatalog) GetCandidate(ctx context.Context, id domain.CandidateID) (domain.Candidate, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Candidate), args.Error(1)
}

func (m *MockElectionCatalog) ListCandidates(ctx context.Context, id domain.ElectionID) ([]domain.Candidate, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]domain.Candidate), args.Error(1)
}

// fakeTokens aceita tokens no formato "papel:sujeito".
type fakeTokens struct{}

func (fakeTokens) Parse(raw string) (auth.Claims, error) {
	role, subject, ok := strings.Cut(raw, ":")
	if !ok {
		return auth.Claims{}, auth.ErrInvalidToken
	}
	c := auth.Claims{Role: role}
	c.Subject = subject
	return c, nil
}

type apiFixture struct {
	handler   http.Handler
	voting    *MockVotingService
	results   *MockResultsService
	voters    *MockVoterDirectory
	elections *MockElectionCatalog
	logs      *bytes.Buffer
}

func setupAPI(t *testing.T) apiFixture {
	t.Helper()

	f := apiFixture{
		voting:    new(MockVotingService),
		results:   new(MockResultsService),
		voters:    new(MockVoterDirectory),
		elections: new(MockElectionCatalog),
		logs:      new(bytes.Buffer),
	}
	logger := slog.New(slog.NewTextHandler(f.logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	api := New(Deps{
		Voting:    f.voting,
		Results:   f.results,
		Voters:    f.voters,
		Elections: f.elections,
		Tokens:    fakeTokens{},
		Logger:    logger,
	})
	mux := http.NewServeMux()
	api.Register(mux)
	f.handler = WithLogging(logger, mux)

	t.Cleanup(func() {
		f.voting.AssertExpectations(t)
		f.results.AssertExpectations(t)
		f.voters.AssertExpectations(t)
		f.elections.AssertExpectations(t)
	})
	return f
}

func (f apiFixture) do(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCastVote_QuandoValido_DeveRetornar201ComConfirmacao(t *testing.T) {
	// Arrange
	f := setupAPI(t)
	castAt := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	// IPAddress vem do X-Forwarded-For; RemoteAddr é o peer que o httptest simula.
	cmd := domain.CastCommand{VoterID: "v1", ElectionID: "e1", CandidateID: "c1", IPAddress: "203.0.113.7", RemoteAddr: "192.0.2.1"}
	f.voting.On("CastVote", mock.Anything, cmd).Return(domain.CastReceipt{
		ConfirmationID: "VOTE-ABC-1234ABCD",
		Vote:           domain.Vote{ID: "vote1", VoterID: "v1", ElectionID: "e1", CandidateID: "c1", CastAt: castAt},
	}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/votes/cast",
		strings.NewReader(`{"voterId":"v1","electionId":"e1","candidateId":"c1"}`))
	req.Header.Set("Authorization", "Bearer voter:v1")
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	rec := httptest.NewRecorder()

	// Act
	f.handler.ServeHTTP(rec, req)

	// Assert
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "VOTE-ABC-1234ABCD", body["confirmationId"])
	vote := body["vote"].(map[string]any)
	assert.Equal(t, "vote1", vote["id"])
	assert.Equal(t, "v1", vote["voterId"])
	assert.Equal(t, "c1", vote["candidateId"])
	assert.Equal(t, "e1", vote["electionId"])
	assert.Equal(t, "2026-10-16T12:00:00Z", vote["timestamp"])
	assert.NotEmpty(t, rec.Header().Get(headerRequestID))
	assert.Contains(t, f.logs.String(), "requisicao concluida")
}

func TestCastVote_QuandoVoterIDOmitido_DeveUsarSujeitoDoToken(t *testing.T) {
	// Arrange
	f := setupAPI(t)
	f.voting.On("CastVote", mock.Anything, mock.MatchedBy(func(c domain.CastCommand) bool {
		return c.VoterID == "v9" && c.ElectionID == "e1" && c.CandidateID == "c1"
	})).Return(domain.CastReceipt{ConfirmationID: "VOTE-X-00000000"}, nil).Once()

	// Act
	rec := f.do(http.MethodPost, "/api/votes/cast", "voter:v9", `{"electionId":"e1","candidateId":"c1"}`)

	// Assert
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCastVote_QuandoVotandoPorOutroEleitor_DeveRetornar403(t *testing.T) {
	// Arrange
	f := setupAPI(t)

	// Act
	rec := f.do(http.MethodPost, "/api/votes/cast", "voter:v1", `{"voterId":"v2","electionId":"e1","candidateId":"c1"}`)

	// Assert
	assert.Equal(t, http.StatusForbidden, rec.Code)
	f.voting.AssertNotCalled(t, "CastVote", mock.Anything, mock.Anything)
}

func TestCastVote_QuandoSemToken_DeveRetornar401(t *testing.T) {
	// Arrange
	f := setupAPI(t)

	// Act
	rec := f.do(http.MethodPost, "/api/votes/cast", "", `{"electionId":"e1","candidateId":"c1"}`)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "token de acesso obrigatorio", decodeBody(t, rec)["erro"])
}

func TestCastVote_QuandoTokenDeAdmin_DeveRetornar403(t *testing.T) {
	// Arrange
	f := setupAPI(t)

	// Act
	rec := f.do(http.MethodPost, "/api/votes/cast", "admin:a1", `{"electionId":"e1","candidateId":"c1"}`)

	// Assert
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCastVote_QuandoPayloadInvalido_DeveRetornar400(t *testing.T) {
	// Arrange
	f := setupAPI(t)

	// Act
	rec := f.do(http.MethodPost, "/api/votes/cast", "voter:v1", `{"electionId":`)

	// Assert
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCastVote_ErrosDeDominio_DevemVirarStatusHTTP(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"ja votou", domain.ErrAlreadyVoted, http.StatusConflict},
		{"eleitor inexistente", domain.ErrVoterNotFound, http.StatusNotFound},
		{"eleitor nao verificado", domain.ErrVoterNotEligible, http.StatusForbidden},
		{"eleicao inexistente", domain.ErrElectionNotFound, http.StatusNotFound},
		{"fora da janela", fmt.Errorf("%w: encerrada", domain.ErrVotingWindowClosed), http.StatusConflict},
		{"candidato invalido", domain.ErrInvalidCandidate, http.StatusBadRequest},
		{"limite de taxa", antifraude.ErrRateLimitExceeded, http.StatusTooManyRequests},
		{"falha de armazenamento", domain.AsStorageFailure(errors.New("conexao perdida")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			f := setupAPI(t)
			f.voting.On("CastVote", mock.Anything, mock.Anything).Return(domain.CastReceipt{}, tt.err).Once()

			// Act
			rec := f.do(http.MethodPost, "/api/votes/cast", "voter:v1", `{"electionId":"e1","candidateId":"c1"}`)

			// Assert
			assert.Equal(t, tt.status, rec.Code)
			msg := decodeBody(t, rec)["erro"]
			if tt.status == http.StatusInternalServerError {
				assert.Equal(t, "erro interno", msg)
				assert.NotContains(t, msg, "conexao perdida")
			} else {
				assert.Equal(t, tt.err.Error(), msg)
			}
		})
	}
}

func TestHasVoted_DeveRetornarFlag(t *testing.T) {
	// Arrange
	f := setupAPI(t)
	f.voting.On("HasVoted", mock.Anything, domain.VoterID("v1"), domain.ElectionID("e1")).Return(true, nil).Once()

	// Act
	rec := f.do(http.MethodGet, "/api/votes/has-voted/v1/e1", "", "")

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["hasVoted"])
}

func TestHistory_QuandoOutroEleitor_DeveRetornar403(t *testing.T) {
	// Arrange
	f := setupAPI(t)

	// Act
	rec := f.do(http.MethodGet, "/api/votes/history/v2", "voter:v1", "")

	// Assert
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHistory_QuandoProprioEleitor_DeveListarVotos(t *testing.T) {
	// Arrange
	f := setupAPI(t)
	f.voting.On("History", mock.Anything, domain.VoterID("v1")).Return([]domain.VoteRecord{
		{VoteID: "vote1", ConfirmationCode: "VOTE-A-00000001", ElectionName: "Conselho", CandidateName: "Ana"},
	}, nil).Once()

	// Act
	rec := f.do(http.MethodGet, "/api/votes/history/v1", "voter:v1", "")

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)
	var out []voteRecordDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "VOTE-A-00000001", out[0].ConfirmationID)
	assert.Equal(t, "Ana", out[0].CandidateName)
}

func TestReceipt_QuandoInexistente_DeveRetornar404(t *testing.T) {
	// Arrange
	f := setupAPI(t)
	f.voting.On("Receipt", mock.Anything, "VOTE-NADA").Return(domain.VoteRecord{}, voting.ErrReceiptNotFound).Once()

	// Act
	rec := f.do(http.MethodGet, "/api/votes/receipt/VOTE-NADA", "", "")

	// Assert
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResults_QuandoEleicaoEmAndamento_DeveRetornar403(t *testing.T) {
	// Arrange
	f := setupAPI(t)
	f.results.On("Results", mock.Anything, domain.ElectionID("e1")).Return(domain.ElectionResults{}, domain.ErrResultsNotYetAvailable).Once()

	// Act
	rec := f.do(http.MethodGet, "/api/votes/results/e1", "", "")

	// Assert
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, domain.ErrResultsNotYetAvailable.Error(), decodeBody(t, rec)["erro"])
}

func TestResults_QuandoEncerrada_DeveRetornarApuracao(t *testing.T) {
	// Arrange
	f := setupAPI(t)
	f.results.On("Results", mock.Anything, domain.ElectionID("e1")).Return(domain.ElectionResults{
		ElectionID: "e1",
		TotalVotes: 3,
		Candidates: []domain.CandidateTally{
			{CandidateID: "c1", Name: "Ana", Party: "P1", VoteCount: 2, Percentage: 66.67},
			{CandidateID: "c2", Name: "Bia", Party: "P2", VoteCount: 1, Percentage: 33.33},
		},
	}, nil).Once()

	// Act
	rec := f.do(http.MethodGet, "/api/votes/results/e1", "", "")

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "e1", body["electionId"])
	assert.Equal(t, float64(3), body["totalVotes"])
	_, hasTimestamp := body["timestamp"]
	assert.False(t, hasTimestamp)
	candidates := body["candidates"].([]any)
	require.Len(t, candidates, 2)
	first := candidates[0].(map[string]any)
	assert.Equal(t, "c1", first["candidateId"])
	assert.Equal(t, "Ana", first["name"])
	assert.Equal(t, "P1", first["party"])
	assert.Equal(t, float64(2), first["voteCount"])
	assert.Equal(t, 66.67, first["votePercentage"])
}

func TestRealTime_DeveIncluirTimestamp(t *testing.T) {
	// Arrange
	f := setupAPI(t)
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	f.results.On("RealTime", mock.Anything, domain.ElectionID("e1")).Return(domain.ElectionResults{
		ElectionID: "e1",
		Timestamp:  now,
	}, nil).Once()

	// Act
	rec := f.do(http.MethodGet, "/api/votes/realtime/e1", "", "")

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "2026-10-16T12:00:00Z", body["timestamp"])
	assert.Empty(t, body["candidates"])
}

func TestStatistics_QuandoEleicaoInexistente_DeveRetornar404(t *testing.T) {
	// Arrange
	f := setupAPI(t)
	f.results.On("Statistics", mock.Anything, domain.ElectionID("nope")).Return(domain.ElectionStatistics{}, domain.ErrElectionNotFound).Once()

	// Act
	rec := f.do(http.MethodGet, "/api/votes/statistics/nope", "", "")

	// Assert
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRegister_QuandoEmailDuplicado_DeveRetornar409(t *testing.T) {
	// Arrange
	f := setupAPI(t)
	f.voters.On("Register", mock.Anything, domain.Registration{
		FullName: "Ana", NationalID: "123", Email: "ana@example.com", Password: "segredo123",
	}).Return(domain.Voter{}, registry.ErrVoterExists).Once()

	// Act
	rec := f.do(http.MethodPost, "/api/auth/register", "",
		`{"fullName":"Ana","nationalId":"123","email":"ana@example.com","password":"segredo123"}`)

	// Assert
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestVerifyOTP_QuandoCodigoExpirado_DeveRetornar400(t *testing.T) {
	// Arrange
	f := setupAPI(t)
	f.voters.On("VerifyOTP", mock.Anything, "ana@example.com", "123456").Return(domain.Voter{}, registry.ErrOTPExpired).Once()

	// Act
	rec := f.do(http.MethodPost, "/api/auth/verify-otp", "", `{"email":"ana@example.com","otp":"123456"}`)

	// Assert
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_QuandoCredenciaisInvalidas_DeveRetornar401(t *testing.T) {
	// Arrange
	f := setupAPI(t)
	f.voters.On("Login", mock.Anything, "ana@example.com", "errada").Return(domain.Session{}, registry.ErrInvalidCredentials).Once()

	// Act
	rec := f.do(http.MethodPost, "/api/auth/login", "", `{"email":"ana@example.com","password":"errada"}`)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminLogin_QuandoValido_DeveRetornarToken(t *testing.T) {
	// Arrange
	f := setupAPI(t)
	expires := time.Date(2026, 10, 16, 13, 0, 0, 0, time.UTC)
	f.voters.On("AdminLogin", mock.Anything, "root", "segredo123").Return(domain.Session{
		Token:     "tok",
		ExpiresAt: expires,
		Admin:     &domain.Admin{ID: "a1", Username: "root", Role: "admin"},
	}, nil).Once()

	// Act
	rec := f.do(http.MethodPost, "/api/admin/login", "", `{"username":"root","password":"segredo123"}`)

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "tok", body["token"])
	assert.Equal(t, "root", body["admin"].(map[string]any)["username"])
	assert.Nil(t, body["voter"])
}

func TestVerifyVoter_QuandoEleitor_DeveNegarAcesso(t *testing.T) {
	// Arrange
	f := setupAPI(t)

	// Act
	rec := f.do(http.MethodPut, "/api/voters/v1/verify", "voter:v1", "")

	// Assert
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestVerifyVoter_QuandoAdmin_DeveVerificar(t *testing.T) {
	// Arrange
	f := setupAPI(t)
	f.voters.On("VerifyVoter", mock.Anything, domain.VoterID("v1")).Return(domain.Voter{ID: "v1", IsVerified: true}, nil).Once()

	// Act
	rec := f.do(http.MethodPut, "/api/voters/v1/verify", "admin:a1", "")

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["isVerified"])
}

func TestSetElectionStatus_QuandoSemIsActive_DeveRetornar400(t *testing.T) {
	// Arrange
	f := setupAPI(t)

	// Act
	rec := f.do(http.MethodPut, "/api/elections/e1/status", "admin:a1", `{}`)

	// Assert
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetElectionStatus_QuandoAdmin_DeveDesativar(t *testing.T) {
	// Arrange
	f := setupAPI(t)
	f.elections.On("SetElectionActive", mock.Anything, domain.ElectionID("e1"), false).
		Return(domain.Election{ID: "e1", IsActive: false}, nil).Once()

	// Act
	rec := f.do(http.MethodPut, "/api/elections/e1/status", "admin:a1", `{"isActive":false}`)

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["isActive"])
}

func TestGetElection_DeveIncluirStatusEContagens(t *testing.T) {
	// Arrange
	f := setupAPI(t)
	f.elections.On("GetElection", mock.Anything, domain.ElectionID("e1")).Return(domain.ElectionSummary{
		Election:       domain.Election{ID: "e1", Name: "Conselho"},
		Status:         domain.StatusActive,
		CandidateCount: 2,
		VoteCount:      0,
	}, nil).Once()

	// Act
	rec := f.do(http.MethodGet, "/api/elections/e1", "", "")

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "active", body["status"])
	assert.Equal(t, float64(2), body["candidateCount"])
	assert.Equal(t, float64(0), body["voteCount"])
}

func TestListActiveElections_NaoDeveConflitarComRotaPorID(t *testing.T) {
	// Arrange
	f := setupAPI(t)
	f.elections.On("ListActiveElections", mock.Anything).Return([]domain.ElectionSummary{}, nil).Once()

	// Act
	rec := f.do(http.MethodGet, "/api/elections/active", "", "")

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestCreateCandidate_QuandoEleicaoInexistente_DeveRetornar404(t *testing.T) {
	// Arrange
	f := setupAPI(t)
	f.elections.On("CreateCandidate", mock.Anything, mock.MatchedBy(func(c domain.Candidate) bool {
		return c.ElectionID == "nope" && c.FullName == "Ana"
	})).Return(domain.Candidate{}, domain.ErrElectionNotFound).Once()

	// Act
	rec := f.do(http.MethodPost, "/api/candidates", "admin:a1", `{"electionId":"nope","fullName":"Ana"}`)

	// Assert
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestClientIPERemoteIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remote     string
		want       string
		wantRemote string
	}{
		{"x-forwarded-for primeiro salto", map[string]string{"X-Forwarded-For": "198.51.100.1, 10.0.0.2"}, "10.0.0.3:1234", "198.51.100.1", "10.0.0.3"},
		{"x-real-ip", map[string]string{"X-Real-IP": "198.51.100.9"}, "10.0.0.3:1234", "198.51.100.9", "10.0.0.3"},
		{"remote addr sem porta", nil, "192.0.2.10:5555", "192.0.2.10", "192.0.2.10"},
		{"remote addr ipv6", nil, "[2001:db8::1]:443", "2001:db8::1", "2001:db8::1"},
		{"sem endereco", nil, "", "unknown", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ClientIP(req))
			assert.Equal(t, tt.wantRemote, RemoteIP(req))
		})
	}
}

func TestWithLogging_DeveReaproveitarRequestIDDoCliente(t *testing.T) {
	// Arrange
	logs := new(bytes.Buffer)
	logger := slog.New(slog.NewTextHandler(logs, nil))
	var seen string
	h := WithLogging(logger, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(headerRequestID, "req-123")
	rec := httptest.NewRecorder()

	// Act
	h.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, "req-123", seen)
	assert.Equal(t, "req-123", rec.Header().Get(headerRequestID))
	assert.Contains(t, logs.String(), "status=418")
}
