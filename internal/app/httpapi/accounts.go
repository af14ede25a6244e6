package httpapi

import (
	"net/http"

	"github.com/marcelojr/urna-online/internal/domain"
)

func (a *API) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		responderMensagem(w, http.StatusBadRequest, "payload invalido")
		return
	}

	voter, err := a.voters.Register(r.Context(), domain.Registration{
		FullName:   req.FullName,
		NationalID: req.NationalID,
		Email:      req.Email,
		Password:   req.Password,
	})
	if err != nil {
		a.responderErro(w, r, err)
		return
	}
	responderJSON(w, http.StatusCreated, toVoterDTO(voter))
}

func (a *API) verifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		responderMensagem(w, http.StatusBadRequest, "payload invalido")
		return
	}

	voter, err := a.voters.VerifyOTP(r.Context(), req.Email, req.OTP)
	if err != nil {
		a.responderErro(w, r, err)
		return
	}
	responderJSON(w, http.StatusOK, toVoterDTO(voter))
}

func (a *API) resendOTP(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := decodeJSON(r, &req); err != nil {
		responderMensagem(w, http.StatusBadRequest, "payload invalido")
		return
	}

	if err := a.voters.ResendOTP(r.Context(), req.Email); err != nil {
		a.responderErro(w, r, err)
		return
	}
	responderJSON(w, http.StatusAccepted, map[string]string{"status": "codigo reenviado"})
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		responderMensagem(w, http.StatusBadRequest, "payload invalido")
		return
	}

	session, err := a.voters.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		a.responderErro(w, r, err)
		return
	}
	responderJSON(w, http.StatusOK, toSessionDTO(session))
}

func (a *API) adminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		responderMensagem(w, http.StatusBadRequest, "payload invalido")
		return
	}

	session, err := a.voters.AdminLogin(r.Context(), req.Username, req.Password)
	if err != nil {
		a.responderErro(w, r, err)
		return
	}
	responderJSON(w, http.StatusOK, toSessionDTO(session))
}

func (a *API) listVoters(w http.ResponseWriter, r *http.Request) {
	voters, err := a.voters.ListVoters(r.Context())
	if err != nil {
		a.responderErro(w, r, err)
		return
	}
	out := make([]voterDTO, 0, len(voters))
	for _, v := range voters {
		out = append(out, toVoterDTO(v))
	}
	responderJSON(w, http.StatusOK, out)
}

func (a *API) verifyVoter(w http.ResponseWriter, r *http.Request) {
	voter, err := a.voters.VerifyVoter(r.Context(), domain.VoterID(r.PathValue("voterId")))
	if err != nil {
		a.responderErro(w, r, err)
		return
	}
	responderJSON(w, http.StatusOK, toVoterDTO(voter))
}
