package httpapi

import (
	"net/http"

	"github.com/marcelojr/urna-online/internal/domain"
)

func (a *API) listElections(w http.ResponseWriter, r *http.Request) {
	summaries, err := a.elections.ListElections(r.Context())
	if err != nil {
		a.responderErro(w, r, err)
		return
	}
	responderJSON(w, http.StatusOK, summariesToDTO(summaries))
}

func (a *API) listActiveElections(w http.ResponseWriter, r *http.Request) {
	summaries, err := a.elections.ListActiveElections(r.Context())
	if err != nil {
		a.responderErro(w, r, err)
		return
	}
	responderJSON(w, http.StatusOK, summariesToDTO(summaries))
}

func (a *API) getElection(w http.ResponseWriter, r *http.Request) {
	summary, err := a.elections.GetElection(r.Context(), domain.ElectionID(r.PathValue("id")))
	if err != nil {
		a.responderErro(w, r, err)
		return
	}
	responderJSON(w, http.StatusOK, toSummaryDTO(summary))
}

func (a *API) createElection(w http.ResponseWriter, r *http.Request) {
	var req electionRequest
	if err := decodeJSON(r, &req); err != nil {
		responderMensagem(w, http.StatusBadRequest, "payload invalido")
		return
	}

	created, err := a.elections.CreateElection(r.Context(), domain.Election{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		IsActive:    req.IsActive,
	})
	if err != nil {
		a.responderErro(w, r, err)
		return
	}
	responderJSON(w, http.StatusCreated, toElectionDTO(created))
}

func (a *API) setElectionStatus(w http.ResponseWriter, r *http.Request) {
	var req electionStatusRequest
	if err := decodeJSON(r, &req); err != nil || req.IsActive == nil {
		responderMensagem(w, http.StatusBadRequest, "isActive e obrigatorio")
		return
	}

	updated, err := a.elections.SetElectionActive(r.Context(), domain.ElectionID(r.PathValue("id")), *req.IsActive)
	if err != nil {
		a.responderErro(w, r, err)
		return
	}
	responderJSON(w, http.StatusOK, toElectionDTO(updated))
}

func (a *API) publishResults(w http.ResponseWriter, r *http.Request) {
	updated, err := a.elections.PublishResults(r.Context(), domain.ElectionID(r.PathValue("id")))
	if err != nil {
		a.responderErro(w, r, err)
		return
	}
	responderJSON(w, http.StatusOK, toElectionDTO(updated))
}

func (a *API) listCandidates(w http.ResponseWriter, r *http.Request) {
	candidates, err := a.elections.ListCandidates(r.Context(), domain.ElectionID(r.PathValue("electionId")))
	if err != nil {
		a.responderErro(w, r, err)
		return
	}
	out := make([]candidateDTO, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, toCandidateDTO(c))
	}
	responderJSON(w, http.StatusOK, out)
}

func (a *API) getCandidate(w http.ResponseWriter, r *http.Request) {
	c, err := a.elections.GetCandidate(r.Context(), domain.CandidateID(r.PathValue("id")))
	if err != nil {
		a.responderErro(w, r, err)
		return
	}
	responderJSON(w, http.StatusOK, toCandidateDTO(c))
}

func (a *API) createCandidate(w http.ResponseWriter, r *http.Request) {
	var req candidateRequest
	if err := decodeJSON(r, &req); err != nil {
		responderMensagem(w, http.StatusBadRequest, "payload invalido")
		return
	}

	created, err := a.elections.CreateCandidate(r.Context(), domain.Candidate{
		ElectionID: domain.ElectionID(req.ElectionID),
		FullName:   req.FullName,
		PartyName:  req.PartyName,
		Bio:        req.Bio,
		PhotoURL:   req.PhotoURL,
	})
	if err != nil {
		a.responderErro(w, r, err)
		return
	}
	responderJSON(w, http.StatusCreated, toCandidateDTO(created))
}

func summariesToDTO(summaries []domain.ElectionSummary) []electionDTO {
	out := make([]electionDTO, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, toSummaryDTO(s))
	}
	return out
}
