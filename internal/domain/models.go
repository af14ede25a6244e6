package domain

import (
	"time"
)

type (
	VoterID      string
	AdminID      string
	ElectionID   string
	CandidateID  string
	VoteID       string
	AuditEntryID string
)

type Voter struct {
	ID            VoterID    `gorm:"column:id;type:char(26);primaryKey"`
	FullName      string     `gorm:"column:full_name;type:text;not null"`
	NationalID    string     `gorm:"column:national_id;type:varchar(32);not null;uniqueIndex:idx_voters_national_id"`
	Email         string     `gorm:"column:email;type:varchar(255);not null;uniqueIndex:idx_voters_email"`
	PasswordHash  string     `gorm:"column:password_hash;type:text;not null"`
	IsVerified    bool       `gorm:"column:is_verified;not null;default:false;index"`
	EmailVerified bool       `gorm:"column:email_verified;not null;default:false"`
	OTPCode       *string    `gorm:"column:otp_code;type:varchar(6)"`
	OTPExpiry     *time.Time `gorm:"column:otp_expiry"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
}

type Admin struct {
	ID           AdminID   `gorm:"column:id;type:char(26);primaryKey"`
	Username     string    `gorm:"column:username;type:varchar(64);not null;uniqueIndex:idx_admins_username"`
	PasswordHash string    `gorm:"column:password_hash;type:text;not null"`
	Role         string    `gorm:"column:role;type:varchar(32);not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

type Election struct {
	ID               ElectionID  `gorm:"column:id;type:char(26);primaryKey"`
	Name             string      `gorm:"column:name;type:text;not null"`
	Description      string      `gorm:"column:description;type:text"`
	StartDate        time.Time   `gorm:"column:start_date;not null;index:idx_elections_window,priority:1"`
	EndDate          time.Time   `gorm:"column:end_date;not null;index:idx_elections_window,priority:2"`
	IsActive         bool        `gorm:"column:is_active;not null;default:false"`
	ResultsPublished bool        `gorm:"column:results_published;not null;default:false"`
	Candidates       []Candidate `gorm:"foreignKey:ElectionID;constraint:OnDelete:RESTRICT"`
	CreatedAt        time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}

type Candidate struct {
	ID         CandidateID `gorm:"column:id;type:char(26);primaryKey"`
	ElectionID ElectionID  `gorm:"column:election_id;type:char(26);not null;index"`
	FullName   string      `gorm:"column:full_name;type:text;not null"`
	PartyName  string      `gorm:"column:party_name;type:text"`
	Votes      int64       `gorm:"column:votes;not null;default:0"`
	Bio        string      `gorm:"column:bio;type:text"`
	PhotoURL   string      `gorm:"column:photo_url;type:text"`
	CreatedAt  time.Time   `gorm:"column:created_at;autoCreateTime"`
}

// Vote é imutável: uma linha por par (eleitor, eleição), garantida pelo índice único.
type Vote struct {
	ID               VoteID      `gorm:"column:id;type:char(26);primaryKey"`
	VoterID          VoterID     `gorm:"column:voter_id;type:char(26);not null;uniqueIndex:idx_votes_voter_election,priority:1"`
	ElectionID       ElectionID  `gorm:"column:election_id;type:char(26);not null;uniqueIndex:idx_votes_voter_election,priority:2;index:idx_votes_election"`
	CandidateID      CandidateID `gorm:"column:candidate_id;type:char(26);not null;index:idx_votes_candidate"`
	ConfirmationCode string      `gorm:"column:confirmation_code;type:varchar(48);not null;index:idx_votes_confirmation"`
	IPAddress        string      `gorm:"column:ip_address;type:text"`
	CastAt           time.Time   `gorm:"column:cast_at;not null"`

	// Associações só existem para o migrator criar as FKs; ficam sempre nil.
	Voter     *Voter     `gorm:"foreignKey:VoterID;constraint:OnDelete:RESTRICT" json:"-"`
	Election  *Election  `gorm:"foreignKey:ElectionID;constraint:OnDelete:RESTRICT" json:"-"`
	Candidate *Candidate `gorm:"foreignKey:CandidateID;constraint:OnDelete:RESTRICT" json:"-"`
}

type AuditEntry struct {
	ID        AuditEntryID `gorm:"column:id;type:char(26);primaryKey"`
	VoterID   *VoterID     `gorm:"column:voter_id;type:char(26);index"`
	Action    string       `gorm:"column:action;type:text;not null"`
	IPAddress string       `gorm:"column:ip_address;type:text"`
	CreatedAt time.Time    `gorm:"column:created_at;not null"`

	Voter *Voter `gorm:"foreignKey:VoterID;constraint:OnDelete:SET NULL" json:"-"`
}

// CandidateTally é a contagem recalculada a partir do livro de votos, nunca do contador do candidato.
type CandidateTally struct {
	CandidateID CandidateID
	Name        string
	Party       string
	VoteCount   int64
	Percentage  float64
}

type ElectionResults struct {
	ElectionID ElectionID
	TotalVotes int64
	Candidates []CandidateTally
	Timestamp  time.Time
}

type ElectionStatistics struct {
	ElectionID          ElectionID
	TotalEligibleVoters int64
	TotalVotesCast      int64
	UniqueVoters        int64
	TotalCandidates     int64
	TurnoutPercentage   float64
}

type ElectionSummary struct {
	Election       Election
	Status         ElectionStatus
	CandidateCount int64
	VoteCount      int64
}

// VoteRecord junta o voto com os nomes de eleição e candidato para histórico e comprovante.
type VoteRecord struct {
	VoteID           VoteID
	ConfirmationCode string
	VoterID          VoterID
	ElectionID       ElectionID
	ElectionName     string
	CandidateID      CandidateID
	CandidateName    string
	PartyName        string
	CastAt           time.Time
}

type CastReceipt struct {
	ConfirmationID string
	Vote           Vote
}

// OTPMessage é o pedido de entrega do código de verificação de e-mail.
type OTPMessage struct {
	VoterID   VoterID   `json:"voter_id"`
	Email     string    `json:"email"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (Voter) TableName() string { return "voters" }

func (Admin) TableName() string { return "admins" }

func (Election) TableName() string { return "elections" }

func (Candidate) TableName() string { return "candidates" }

func (Vote) TableName() string { return "votes" }

func (AuditEntry) TableName() string { return "audit_log" }
