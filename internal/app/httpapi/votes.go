package httpapi

import (
	"net/http"

	"github.com/marcelojr/urna-online/internal/domain"
)

func (a *API) castVote(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())

	var req castVoteRequest
	if err := decodeJSON(r, &req); err != nil {
		responderMensagem(w, http.StatusBadRequest, "payload invalido")
		return
	}
	if req.VoterID == "" {
		req.VoterID = claims.Subject
	}
	if req.VoterID != claims.Subject {
		responderMensagem(w, http.StatusForbidden, "voto permitido apenas em nome do proprio eleitor")
		return
	}
	if req.ElectionID == "" || req.CandidateID == "" {
		responderMensagem(w, http.StatusBadRequest, "electionId e candidateId sao obrigatorios")
		return
	}

	receipt, err := a.voting.CastVote(r.Context(), domain.CastCommand{
		VoterID:     domain.VoterID(req.VoterID),
		ElectionID:  domain.ElectionID(req.ElectionID),
		CandidateID: domain.CandidateID(req.CandidateID),
		IPAddress:   ClientIP(r),
		RemoteAddr:  RemoteIP(r),
	})
	if err != nil {
		a.responderErro(w, r, err)
		return
	}

	responderJSON(w, http.StatusCreated, castVoteResponse{
		ConfirmationID: receipt.ConfirmationID,
		Vote:           toVoteDTO(receipt.Vote),
	})
}

func (a *API) hasVoted(w http.ResponseWriter, r *http.Request) {
	voted, err := a.voting.HasVoted(r.Context(),
		domain.VoterID(r.PathValue("voterId")),
		domain.ElectionID(r.PathValue("electionId")))
	if err != nil {
		a.responderErro(w, r, err)
		return
	}
	responderJSON(w, http.StatusOK, map[string]bool{"hasVoted": voted})
}

func (a *API) history(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	voterID := r.PathValue("voterId")
	if voterID != claims.Subject {
		responderMensagem(w, http.StatusForbidden, "acesso negado")
		return
	}

	records, err := a.voting.History(r.Context(), domain.VoterID(voterID))
	if err != nil {
		a.responderErro(w, r, err)
		return
	}
	out := make([]voteRecordDTO, 0, len(records))
	for _, rec := range records {
		out = append(out, toVoteRecordDTO(rec))
	}
	responderJSON(w, http.StatusOK, out)
}

func (a *API) receipt(w http.ResponseWriter, r *http.Request) {
	rec, err := a.voting.Receipt(r.Context(), r.PathValue("confirmationId"))
	if err != nil {
		a.responderErro(w, r, err)
		return
	}
	responderJSON(w, http.StatusOK, toVoteRecordDTO(rec))
}

func (a *API) electionResults(w http.ResponseWriter, r *http.Request) {
	res, err := a.results.Results(r.Context(), domain.ElectionID(r.PathValue("electionId")))
	if err != nil {
		a.responderErro(w, r, err)
		return
	}
	responderJSON(w, http.StatusOK, toResultsDTO(res))
}

func (a *API) realTime(w http.ResponseWriter, r *http.Request) {
	res, err := a.results.RealTime(r.Context(), domain.ElectionID(r.PathValue("electionId")))
	if err != nil {
		a.responderErro(w, r, err)
		return
	}
	responderJSON(w, http.StatusOK, toResultsDTO(res))
}

func (a *API) statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := a.results.Statistics(r.Context(), domain.ElectionID(r.PathValue("electionId")))
	if err != nil {
		a.responderErro(w, r, err)
		return
	}
	responderJSON(w, http.StatusOK, toStatisticsDTO(stats))
}
