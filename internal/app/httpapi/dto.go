package httpapi

import (
	"time"

	"github.com/marcelojr/urna-online/internal/domain"
)

type castVoteRequest struct {
	VoterID     string `json:"voterId"`
	ElectionID  string `json:"electionId"`
	CandidateID string `json:"candidateId"`
}

type voteDTO struct {
	ID          string    `json:"id"`
	VoterID     string    `json:"voterId"`
	CandidateID string    `json:"candidateId"`
	ElectionID  string    `json:"electionId"`
	Timestamp   time.Time `json:"timestamp"`
}

type castVoteResponse struct {
	ConfirmationID string  `json:"confirmationId"`
	Vote           voteDTO `json:"vote"`
}

type voteRecordDTO struct {
	VoteID         string    `json:"voteId"`
	ConfirmationID string    `json:"confirmationId"`
	VoterID        string    `json:"voterId"`
	ElectionID     string    `json:"electionId"`
	ElectionName   string    `json:"electionName"`
	CandidateID    string    `json:"candidateId"`
	CandidateName  string    `json:"candidateName"`
	PartyName      string    `json:"partyName"`
	Timestamp      time.Time `json:"timestamp"`
}

type candidateTallyDTO struct {
	CandidateID    string  `json:"candidateId"`
	Name           string  `json:"name"`
	Party          string  `json:"party"`
	VoteCount      int64   `json:"voteCount"`
	VotePercentage float64 `json:"votePercentage"`
}

type resultsDTO struct {
	ElectionID string              `json:"electionId"`
	TotalVotes int64               `json:"totalVotes"`
	Candidates []candidateTallyDTO `json:"candidates"`
	Timestamp  *time.Time          `json:"timestamp,omitempty"`
}

type statisticsDTO struct {
	ElectionID          string  `json:"electionId"`
	TotalEligibleVoters int64   `json:"totalEligibleVoters"`
	TotalVotesCast      int64   `json:"totalVotesCast"`
	UniqueVoters        int64   `json:"uniqueVoters"`
	TotalCandidates     int64   `json:"totalCandidates"`
	TurnoutPercentage   float64 `json:"turnoutPercentage"`
}

type registerRequest struct {
	FullName   string `json:"fullName"`
	NationalID string `json:"nationalId"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type adminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type voterDTO struct {
	ID            string    `json:"id"`
	FullName      string    `json:"fullName"`
	NationalID    string    `json:"nationalId"`
	Email         string    `json:"email"`
	IsVerified    bool      `json:"isVerified"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
}

type adminDTO struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type sessionDTO struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Voter     *voterDTO `json:"voter,omitempty"`
	Admin     *adminDTO `json:"admin,omitempty"`
}

type electionRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	IsActive    bool      `json:"isActive"`
}

type electionStatusRequest struct {
	IsActive *bool `json:"isActive"`
}

type electionDTO struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	StartDate        time.Time `json:"startDate"`
	EndDate          time.Time `json:"endDate"`
	IsActive         bool      `json:"isActive"`
	ResultsPublished bool      `json:"resultsPublished"`
	Status           string    `json:"status,omitempty"`
	CandidateCount   *int64    `json:"candidateCount,omitempty"`
	VoteCount        *int64    `json:"voteCount,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

type candidateRequest struct {
	ElectionID string `json:"electionId"`
	FullName   string `json:"fullName"`
	PartyName  string `json:"partyName"`
	Bio        string `json:"bio"`
	PhotoURL   string `json:"photoUrl"`
}

type candidateDTO struct {
	ID         string `json:"id"`
	ElectionID string `json:"electionId"`
	FullName   string `json:"fullName"`
	PartyName  string `json:"partyName"`
	Bio        string `json:"bio,omitempty"`
	PhotoURL   string `json:"photoUrl,omitempty"`
	Votes      int64  `json:"votes"`
}

func toVoteDTO(v domain.Vote) voteDTO {
	return voteDTO{
		ID:          string(v.ID),
		VoterID:     string(v.VoterID),
		CandidateID: string(v.CandidateID),
		ElectionID:  string(v.ElectionID),
		Timestamp:   v.CastAt,
	}
}

func toVoteRecordDTO(r domain.VoteRecord) voteRecordDTO {
	return voteRecordDTO{
		VoteID:         string(r.VoteID),
		ConfirmationID: r.ConfirmationCode,
		VoterID:        string(r.VoterID),
		ElectionID:     string(r.ElectionID),
		ElectionName:   r.ElectionName,
		CandidateID:    string(r.CandidateID),
		CandidateName:  r.CandidateName,
		PartyName:      r.PartyName,
		Timestamp:      r.CastAt,
	}
}

func toResultsDTO(r domain.ElectionResults) resultsDTO {
	out := resultsDTO{
		ElectionID: string(r.ElectionID),
		TotalVotes: r.TotalVotes,
		Candidates: make([]candidateTallyDTO, 0, len(r.Candidates)),
	}
	for _, c := range r.Candidates {
		out.Candidates = append(out.Candidates, candidateTallyDTO{
			CandidateID:    string(c.CandidateID),
			Name:           c.Name,
			Party:          c.Party,
			VoteCount:      c.VoteCount,
			VotePercentage: c.Percentage,
		})
	}
	if !r.Timestamp.IsZero() {
		ts := r.Timestamp
		out.Timestamp = &ts
	}
	return out
}

func toStatisticsDTO(s domain.ElectionStatistics) statisticsDTO {
	return statisticsDTO{
		ElectionID:          string(s.ElectionID),
		TotalEligibleVoters: s.TotalEligibleVoters,
		TotalVotesCast:      s.TotalVotesCast,
		UniqueVoters:        s.UniqueVoters,
		TotalCandidates:     s.TotalCandidates,
		TurnoutPercentage:   s.TurnoutPercentage,
	}
}

func toVoterDTO(v domain.Voter) voterDTO {
	return voterDTO{
		ID:            string(v.ID),
		FullName:      v.FullName,
		NationalID:    v.NationalID,
		Email:         v.Email,
		IsVerified:    v.IsVerified,
		EmailVerified: v.EmailVerified,
		CreatedAt:     v.CreatedAt,
	}
}

func toSessionDTO(s domain.Session) sessionDTO {
	out := sessionDTO{Token: s.Token, ExpiresAt: s.ExpiresAt}
	if s.Voter != nil {
		v := toVoterDTO(*s.Voter)
		out.Voter = &v
	}
	if s.Admin != nil {
		out.Admin = &adminDTO{ID: string(s.Admin.ID), Username: s.Admin.Username, Role: s.Admin.Role}
	}
	return out
}

func toElectionDTO(e domain.Election) electionDTO {
	return electionDTO{
		ID:               string(e.ID),
		Name:             e.Name,
		Description:      e.Description,
		StartDate:        e.StartDate,
		EndDate:          e.EndDate,
		IsActive:         e.IsActive,
		ResultsPublished: e.ResultsPublished,
		CreatedAt:        e.CreatedAt,
	}
}

func toSummaryDTO(s domain.ElectionSummary) electionDTO {
	out := toElectionDTO(s.Election)
	out.Status = string(s.Status)
	candidates, votes := s.CandidateCount, s.VoteCount
	out.CandidateCount = &candidates
	out.VoteCount = &votes
	return out
}

func toCandidateDTO(c domain.Candidate) candidateDTO {
	return candidateDTO{
		ID:         string(c.ID),
		ElectionID: string(c.ElectionID),
		FullName:   c.FullName,
		PartyName:  c.PartyName,
		Bio:        c.Bio,
		PhotoURL:   c.PhotoURL,
		Votes:      c.Votes,
	}
}
