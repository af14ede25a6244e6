// Pacote registry mantém os cadastros: eleitores e administradores, eleições e candidatos.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/marcelojr/urna-online/internal/domain"
	"github.com/marcelojr/urna-online/internal/platform/antifraude"
	"github.com/marcelojr/urna-online/internal/platform/auth"
	"github.com/marcelojr/urna-online/internal/platform/ids"
)

const minPasswordLen = 8

// Voters cuida do ciclo de vida do eleitor: cadastro, confirmação de e-mail por OTP, login e verificação pelo admin.
type Voters struct {
	store    domain.Store
	hasher   domain.PasswordHasher
	tokens   domain.TokenIssuer
	queue    domain.MailQueue
	otpLimit domain.Antifraude
	clock    domain.Clock
	ids      *ids.Generator
	otpTTL   time.Duration
	newOTP   func() (string, error)
	log      *slog.Logger
}

type VotersConfig struct {
	Store    domain.Store
	Hasher   domain.PasswordHasher
	Tokens   domain.TokenIssuer
	Queue    domain.MailQueue
	OTPLimit domain.Antifraude
	Clock    domain.Clock
	IDs      *ids.Generator
	OTPTTL   time.Duration
	// NewOTP permite fixar o código em testes; nil usa auth.NewOTP.
	NewOTP func() (string, error)
	Log    *slog.Logger
}

func NewVoters(cfg VotersConfig) *Voters {
	v := &Voters{
		store:    cfg.Store,
		hasher:   cfg.Hasher,
		tokens:   cfg.Tokens,
		queue:    cfg.Queue,
		otpLimit: cfg.OTPLimit,
		clock:    cfg.Clock,
		ids:      cfg.IDs,
		otpTTL:   cfg.OTPTTL,
		newOTP:   cfg.NewOTP,
		log:      cfg.Log,
	}
	if v.ids == nil {
		v.ids = ids.DefaultGenerator()
	}
	if v.otpLimit == nil {
		v.otpLimit = antifraude.NewNoop()
	}
	if v.otpTTL <= 0 {
		v.otpTTL = 10 * time.Minute
	}
	if v.newOTP == nil {
		v.newOTP = auth.NewOTP
	}
	if v.log == nil {
		v.log = slog.Default()
	}
	return v
}

// Register cria o eleitor não verificado e enfileira o OTP de confirmação de e-mail.
func (s *Voters) Register(ctx context.Context, r domain.Registration) (domain.Voter, error) {
	r.FullName = strings.TrimSpace(r.FullName)
	r.NationalID = strings.TrimSpace(r.NationalID)
	r.Email = normalizeEmail(r.Email)
	if err := validateRegistration(r); err != nil {
		return domain.Voter{}, err
	}

	exists, err := s.store.Voters().ExistsByEmailOrNationalID(ctx, r.Email, r.NationalID)
	if err != nil {
		return domain.Voter{}, domain.AsStorageFailure(err)
	}
	if exists {
		return domain.Voter{}, ErrVoterExists
	}

	hash, err := s.hasher.Hash(r.Password)
	if err != nil {
		return domain.Voter{}, err
	}
	code, err := s.newOTP()
	if err != nil {
		return domain.Voter{}, err
	}

	now := s.clock.Now()
	expiry := now.Add(s.otpTTL)
	voter := domain.Voter{
		ID:           domain.VoterID(s.ids.New()),
		FullName:     r.FullName,
		NationalID:   r.NationalID,
		Email:        r.Email,
		PasswordHash: hash,
		OTPCode:      &code,
		OTPExpiry:    &expiry,
		CreatedAt:    now,
	}
	if err := s.store.Voters().Create(ctx, voter); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return domain.Voter{}, ErrVoterExists
		}
		return domain.Voter{}, domain.AsStorageFailure(err)
	}

	s.publishOTP(ctx, voter.ID, voter.Email, code, expiry)
	s.log.InfoContext(ctx, "eleitor cadastrado", "voter_id", voter.ID)
	return voter, nil
}

// VerifyOTP confirma o e-mail; tentativas por e-mail passam pelo limitador.
func (s *Voters) VerifyOTP(ctx context.Context, email, code string) (domain.Voter, error) {
	email = normalizeEmail(email)
	if err := s.otpLimit.Validar(ctx, email); err != nil {
		if errors.Is(err, antifraude.ErrRateLimitExceeded) {
			return domain.Voter{}, err
		}
		s.log.WarnContext(ctx, "antifraude indisponivel", "error", err)
	}

	voter, err := s.findByEmail(ctx, email)
	if err != nil {
		return domain.Voter{}, err
	}
	if voter.EmailVerified {
		return domain.Voter{}, ErrEmailAlreadyVerified
	}
	if voter.OTPCode == nil || voter.OTPExpiry == nil {
		return domain.Voter{}, ErrOTPMissing
	}
	if *voter.OTPCode != strings.TrimSpace(code) {
		return domain.Voter{}, ErrOTPInvalid
	}
	if s.clock.Now().After(*voter.OTPExpiry) {
		return domain.Voter{}, ErrOTPExpired
	}

	if err := s.store.Voters().ConfirmEmail(ctx, voter.ID); err != nil {
		return domain.Voter{}, domain.AsStorageFailure(err)
	}
	voter.EmailVerified = true
	voter.OTPCode = nil
	voter.OTPExpiry = nil
	return voter, nil
}

func (s *Voters) ResendOTP(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	voter, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}
	if voter.EmailVerified {
		return ErrEmailAlreadyVerified
	}

	code, err := s.newOTP()
	if err != nil {
		return err
	}
	expiry := s.clock.Now().Add(s.otpTTL)
	if err := s.store.Voters().SetOTP(ctx, voter.ID, code, expiry); err != nil {
		return domain.AsStorageFailure(err)
	}

	s.publishOTP(ctx, voter.ID, voter.Email, code, expiry)
	return nil
}

// Login responde 404 para e-mail desconhecido e ErrInvalidCredentials para senha errada.
func (s *Voters) Login(ctx context.Context, email, password string) (domain.Session, error) {
	voter, err := s.findByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return domain.Session{}, err
	}
	if err := s.hasher.Compare(voter.PasswordHash, password); err != nil {
		return domain.Session{}, ErrInvalidCredentials
	}

	token, expires, err := s.tokens.Issue(string(voter.ID), auth.RoleVoter)
	if err != nil {
		return domain.Session{}, err
	}
	return domain.Session{Token: token, ExpiresAt: expires, Voter: &voter}, nil
}

func (s *Voters) AdminLogin(ctx context.Context, username, password string) (domain.Session, error) {
	admin, err := s.store.Admins().FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Session{}, ErrInvalidCredentials
		}
		return domain.Session{}, domain.AsStorageFailure(err)
	}
	if err := s.hasher.Compare(admin.PasswordHash, password); err != nil {
		return domain.Session{}, ErrInvalidCredentials
	}

	token, expires, err := s.tokens.Issue(string(admin.ID), auth.RoleAdmin)
	if err != nil {
		return domain.Session{}, err
	}
	return domain.Session{Token: token, ExpiresAt: expires, Admin: &admin}, nil
}

// CreateAdmin é usado pelo votectl para o primeiro acesso administrativo.
func (s *Voters) CreateAdmin(ctx context.Context, username, password, role string) (domain.Admin, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(password) < minPasswordLen {
		return domain.Admin{}, fmt.Errorf("%w: usuario e senha (minimo %d caracteres) obrigatorios", ErrInvalidRegistration, minPasswordLen)
	}
	if role == "" {
		role = auth.RoleAdmin
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return domain.Admin{}, err
	}
	admin := domain.Admin{
		ID:           domain.AdminID(s.ids.New()),
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.store.Admins().Create(ctx, admin); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return domain.Admin{}, ErrAdminExists
		}
		return domain.Admin{}, domain.AsStorageFailure(err)
	}
	return admin, nil
}

// VerifyVoter libera o eleitor para votar.
func (s *Voters) VerifyVoter(ctx context.Context, id domain.VoterID) (domain.Voter, error) {
	if err := s.store.Voters().SetVerified(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Voter{}, domain.ErrVoterNotFound
		}
		return domain.Voter{}, domain.AsStorageFailure(err)
	}
	voter, err := s.store.Voters().FindByID(ctx, id)
	if err != nil {
		return domain.Voter{}, domain.AsStorageFailure(err)
	}
	s.log.InfoContext(ctx, "eleitor verificado", "voter_id", id)
	return voter, nil
}

func (s *Voters) ListVoters(ctx context.Context) ([]domain.Voter, error) {
	voters, err := s.store.Voters().List(ctx)
	if err != nil {
		return nil, domain.AsStorageFailure(err)
	}
	return voters, nil
}

func (s *Voters) findByEmail(ctx context.Context, email string) (domain.Voter, error) {
	voter, err := s.store.Voters().FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Voter{}, domain.ErrVoterNotFound
		}
		return domain.Voter{}, domain.AsStorageFailure(err)
	}
	return voter, nil
}

// publishOTP não falha o cadastro: o eleitor pode pedir reenvio.
func (s *Voters) publishOTP(ctx context.Context, id domain.VoterID, email, code string, expiry time.Time) {
	if s.queue == nil {
		return
	}
	msg := domain.OTPMessage{VoterID: id, Email: email, Code: code, ExpiresAt: expiry}
	if err := s.queue.PublishOTP(ctx, msg); err != nil {
		s.log.ErrorContext(ctx, "falha ao enfileirar otp", "voter_id", id, "error", err)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateRegistration(r domain.Registration) error {
	switch {
	case r.FullName == "":
		return fmt.Errorf("%w: nome obrigatorio", ErrInvalidRegistration)
	case r.NationalID == "":
		return fmt.Errorf("%w: documento obrigatorio", ErrInvalidRegistration)
	case len(r.Password) < minPasswordLen:
		return fmt.Errorf("%w: senha deve ter ao menos %d caracteres", ErrInvalidRegistration, minPasswordLen)
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return fmt.Errorf("%w: email invalido", ErrInvalidRegistration)
	}
	return nil
}

var _ domain.VoterDirectory = (*Voters)(nil)
