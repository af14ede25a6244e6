// Pacote httpapi expõe a API REST da urna e traduz erros de domínio em status HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/marcelojr/urna-online/internal/app/registry"
	"github.com/marcelojr/urna-online/internal/app/voting"
	"github.com/marcelojr/urna-online/internal/domain"
	"github.com/marcelojr/urna-online/internal/platform/antifraude"
	"github.com/marcelojr/urna-online/internal/platform/auth"
)

// TokenParser valida o bearer token e devolve as claims.
type TokenParser interface {
	Parse(raw string) (auth.Claims, error)
}

type Deps struct {
	Voting    domain.VotingService
	Results   domain.ResultsService
	Voters    domain.VoterDirectory
	Elections domain.ElectionCatalog
	Tokens    TokenParser
	Logger    *slog.Logger
}

// API empacota os handlers HTTP e os serviços que eles chamam.
type API struct {
	voting    domain.VotingService
	results   domain.ResultsService
	voters    domain.VoterDirectory
	elections domain.ElectionCatalog
	tokens    TokenParser
	logger    *slog.Logger
}

func New(d Deps) *API {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &API{
		voting:    d.Voting,
		results:   d.Results,
		voters:    d.Voters,
		elections: d.Elections,
		tokens:    d.Tokens,
		logger:    logger,
	}
}

func (a *API) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/register", a.register)
	mux.HandleFunc("POST /api/auth/verify-otp", a.verifyOTP)
	mux.HandleFunc("POST /api/auth/resend-otp", a.resendOTP)
	mux.HandleFunc("POST /api/auth/login", a.login)
	mux.HandleFunc("POST /api/admin/login", a.adminLogin)

	mux.HandleFunc("GET /api/voters", a.requireRole(auth.RoleAdmin, a.listVoters))
	mux.HandleFunc("PUT /api/voters/{voterId}/verify", a.requireRole(auth.RoleAdmin, a.verifyVoter))

	mux.HandleFunc("GET /api/elections", a.listElections)
	mux.HandleFunc("GET /api/elections/active", a.listActiveElections)
	mux.HandleFunc("GET /api/elections/{id}", a.getElection)
	mux.HandleFunc("POST /api/elections", a.requireRole(auth.RoleAdmin, a.createElection))
	mux.HandleFunc("PUT /api/elections/{id}/status", a.requireRole(auth.RoleAdmin, a.setElectionStatus))
	mux.HandleFunc("PUT /api/elections/{id}/publish-results", a.requireRole(auth.RoleAdmin, a.publishResults))

	mux.HandleFunc("GET /api/candidates/election/{electionId}", a.listCandidates)
	mux.HandleFunc("GET /api/candidates/{id}", a.getCandidate)
	mux.HandleFunc("POST /api/candidates", a.requireRole(auth.RoleAdmin, a.createCandidate))

	mux.HandleFunc("POST /api/votes/cast", a.requireRole(auth.RoleVoter, a.castVote))
	mux.HandleFunc("GET /api/votes/has-voted/{voterId}/{electionId}", a.hasVoted)
	mux.HandleFunc("GET /api/votes/history/{voterId}", a.requireRole(auth.RoleVoter, a.history))
	mux.HandleFunc("GET /api/votes/receipt/{confirmationId}", a.receipt)
	mux.HandleFunc("GET /api/votes/results/{electionId}", a.electionResults)
	mux.HandleFunc("GET /api/votes/realtime/{electionId}", a.realTime)
	mux.HandleFunc("GET /api/votes/statistics/{electionId}", a.statistics)
}

func responderJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func responderMensagem(w http.ResponseWriter, status int, msg string) {
	responderJSON(w, status, map[string]string{"erro": msg})
}

// responderErro esconde a causa de falhas internas; erros de domínio vão com a mensagem.
func (a *API) responderErro(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		a.logger.ErrorContext(r.Context(), "erro interno", "path", r.URL.Path, "err", err)
		responderMensagem(w, status, "erro interno")
		return
	}
	responderMensagem(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrStorageFailure):
		return http.StatusInternalServerError
	case errors.Is(err, domain.ErrAlreadyVoted),
		errors.Is(err, domain.ErrVotingWindowClosed),
		errors.Is(err, registry.ErrVoterExists),
		errors.Is(err, registry.ErrAdminExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrVoterNotFound),
		errors.Is(err, domain.ErrElectionNotFound),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, registry.ErrCandidateNotFound),
		errors.Is(err, voting.ErrReceiptNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrVoterNotEligible),
		errors.Is(err, domain.ErrResultsNotYetAvailable):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidCandidate),
		errors.Is(err, registry.ErrInvalidRegistration),
		errors.Is(err, registry.ErrInvalidElection),
		errors.Is(err, registry.ErrInvalidCandidateData),
		errors.Is(err, registry.ErrEmailAlreadyVerified),
		errors.Is(err, registry.ErrOTPMissing),
		errors.Is(err, registry.ErrOTPInvalid),
		errors.Is(err, registry.ErrOTPExpired):
		return http.StatusBadRequest
	case errors.Is(err, registry.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, antifraude.ErrRateLimitExceeded):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
