package domain

import (
	"context"
	"time"
)

type VoterRepository interface {
	Create(ctx context.Context, v Voter) error
	FindByID(ctx context.Context, id VoterID) (Voter, error)
	FindByEmail(ctx context.Context, email string) (Voter, error)
	ExistsByEmailOrNationalID(ctx context.Context, email, nationalID string) (bool, error)
	List(ctx context.Context) ([]Voter, error)
	SetVerified(ctx context.Context, id VoterID) error
	SetOTP(ctx context.Context, id VoterID, code string, expiry time.Time) error
	ConfirmEmail(ctx context.Context, id VoterID) error
	CountVerified(ctx context.Context) (int64, error)
}

type AdminRepository interface {
	Create(ctx context.Context, a Admin) error
	FindByUsername(ctx context.Context, username string) (Admin, error)
}

type ElectionRepository interface {
	Create(ctx context.Context, e Election) error
	FindByID(ctx context.Context, id ElectionID) (Election, error)
	List(ctx context.Context) ([]Election, error)
	ListActive(ctx context.Context, now time.Time) ([]Election, error)
	SetActive(ctx context.Context, id ElectionID, active bool) error
	MarkResultsPublished(ctx context.Context, id ElectionID) error
}

type CandidateRepository interface {
	Create(ctx context.Context, c Candidate) error
	FindByID(ctx context.Context, id CandidateID) (Candidate, error)
	ListByElection(ctx context.Context, electionID ElectionID) ([]Candidate, error)
	// IncrementVotes soma 1 no próprio banco (votes = votes + 1), sem ler o valor antes.
	IncrementVotes(ctx context.Context, id CandidateID) error
	CountByElection(ctx context.Context, electionID ElectionID) (int64, error)
}

type VoteRepository interface {
	Insert(ctx context.Context, v Vote) error
	Exists(ctx context.Context, voterID VoterID, electionID ElectionID) (bool, error)
	CountByElection(ctx context.Context, electionID ElectionID) (int64, error)
	CountDistinctVoters(ctx context.Context, electionID ElectionID) (int64, error)
	TallyByElection(ctx context.Context, electionID ElectionID) ([]CandidateTally, error)
	ListByVoter(ctx context.Context, voterID VoterID) ([]VoteRecord, error)
	FindByConfirmation(ctx context.Context, code string) (VoteRecord, error)
}

type AuditRepository interface {
	Append(ctx context.Context, entry AuditEntry) error
	ListRecent(ctx context.Context, limit int) ([]AuditEntry, error)
}

// Store agrupa os repositórios; dentro de InTx todos compartilham a mesma transação.
type Store interface {
	Voters() VoterRepository
	Admins() AdminRepository
	Elections() ElectionRepository
	Candidates() CandidateRepository
	Votes() VoteRepository
	Audit() AuditRepository
}

// Transactor abre um escopo transacional: fn devolvendo erro faz rollback de tudo.
type Transactor interface {
	InTx(ctx context.Context, fn func(Store) error) error
}

type MailQueue interface {
	PublishOTP(ctx context.Context, msg OTPMessage) error
	ConsumeOTP(ctx context.Context, handler func(context.Context, OTPMessage) error) error
}

type Mailer interface {
	SendOTP(ctx context.Context, msg OTPMessage) error
}

type Antifraude interface {
	Validar(ctx context.Context, chave string) error
}

type Clock interface {
	Now() time.Time
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type TokenIssuer interface {
	Issue(subject, role string) (string, time.Time, error)
}

// CastCommand carrega dois endereços: IPAddress (cabeçalhos de proxy) vai para o voto e a auditoria;
// RemoteAddr (peer da conexão) alimenta o limitador. RemoteAddr vazio cai para IPAddress.
type CastCommand struct {
	VoterID     VoterID
	ElectionID  ElectionID
	CandidateID CandidateID
	IPAddress   string
	RemoteAddr  string
}

type Registration struct {
	FullName   string
	NationalID string
	Email      string
	Password   string
}

type Session struct {
	Token     string
	ExpiresAt time.Time
	Voter     *Voter
	Admin     *Admin
}

type VotingService interface {
	CastVote(ctx context.Context, cmd CastCommand) (CastReceipt, error)
	HasVoted(ctx context.Context, voterID VoterID, electionID ElectionID) (bool, error)
	History(ctx context.Context, voterID VoterID) ([]VoteRecord, error)
	Receipt(ctx context.Context, confirmationCode string) (VoteRecord, error)
}

type ResultsService interface {
	Results(ctx context.Context, electionID ElectionID) (ElectionResults, error)
	RealTime(ctx context.Context, electionID ElectionID) (ElectionResults, error)
	Statistics(ctx context.Context, electionID ElectionID) (ElectionStatistics, error)
}

type VoterDirectory interface {
	Register(ctx context.Context, r Registration) (Voter, error)
	VerifyOTP(ctx context.Context, email, code string) (Voter, error)
	ResendOTP(ctx context.Context, email string) error
	Login(ctx context.Context, email, password string) (Session, error)
	AdminLogin(ctx context.Context, username, password string) (Session, error)
	VerifyVoter(ctx context.Context, id VoterID) (Voter, error)
	ListVoters(ctx context.Context) ([]Voter, error)
}

type ElectionCatalog interface {
	CreateElection(ctx context.Context, e Election) (Election, error)
	ListElections(ctx context.Context) ([]ElectionSummary, error)
	ListActiveElections(ctx context.Context) ([]ElectionSummary, error)
	GetElection(ctx context.Context, id ElectionID) (ElectionSummary, error)
	SetElectionActive(ctx context.Context, id ElectionID, active bool) (Election, error)
	PublishResults(ctx context.Context, id ElectionID) (Election, error)
	CreateCandidate(ctx context.Context, c Candidate) (Candidate, error)
	GetCandidate(ctx context.Context, id CandidateID) (Candidate, error)
	ListCandidates(ctx context.Context, electionID ElectionID) ([]Candidate, error)
}
