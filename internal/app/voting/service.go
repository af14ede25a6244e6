// Pacote voting implementa a transação de voto: validação, gravação no livro, contador do candidato e auditoria.
package voting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/marcelojr/urna-online/internal/domain"
	"github.com/marcelojr/urna-online/internal/platform/antifraude"
	"github.com/marcelojr/urna-online/internal/platform/ids"
	"github.com/marcelojr/urna-online/internal/platform/metrics"
)

var ErrReceiptNotFound = errors.New("comprovante nao encontrado")

// Service registra votos. Toda a checagem e a escrita acontecem dentro de uma transação do Transactor.
type Service struct {
	tx         domain.Transactor
	store      domain.Store
	antifraude domain.Antifraude
	clock      domain.Clock
	ids        *ids.Generator
	log        *slog.Logger
}

func NewService(
	tx domain.Transactor,
	store domain.Store,
	af domain.Antifraude,
	clock domain.Clock,
	idsGen *ids.Generator,
	log *slog.Logger,
) *Service {
	if idsGen == nil {
		idsGen = ids.DefaultGenerator()
	}
	if af == nil {
		af = antifraude.NewNoop()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		tx:         tx,
		store:      store,
		antifraude: af,
		clock:      clock,
		ids:        idsGen,
		log:        log,
	}
}

// CastVote grava um voto ou devolve um dos erros de domínio; nada é persistido em caso de erro.
func (s *Service) CastVote(ctx context.Context, cmd domain.CastCommand) (domain.CastReceipt, error) {
	start := time.Now()
	receipt, err := s.castVote(ctx, cmd)
	metrics.ObserveCastDuration(time.Since(start).Seconds())
	metrics.ObserveCastRequest(castStatus(err))

	if err != nil {
		attrs := []any{
			"voter_id", cmd.VoterID,
			"election_id", cmd.ElectionID,
			"candidate_id", cmd.CandidateID,
			"error", err,
		}
		if errors.Is(err, domain.ErrStorageFailure) {
			s.log.ErrorContext(ctx, "falha ao registrar voto", attrs...)
		} else {
			s.log.WarnContext(ctx, "voto rejeitado", attrs...)
		}
		return domain.CastReceipt{}, err
	}

	s.log.InfoContext(ctx, "voto registrado",
		"vote_id", receipt.Vote.ID,
		"election_id", receipt.Vote.ElectionID,
		"confirmation_id", receipt.ConfirmationID,
	)
	return receipt, nil
}

func (s *Service) castVote(ctx context.Context, cmd domain.CastCommand) (domain.CastReceipt, error) {
	if err := s.antifraude.Validar(ctx, antifraude.Key(string(cmd.ElectionID), limitAddr(cmd))); err != nil {
		if errors.Is(err, antifraude.ErrRateLimitExceeded) {
			return domain.CastReceipt{}, err
		}
		// Redis fora do ar não pode impedir o voto; o índice único continua garantindo a regra.
		s.log.WarnContext(ctx, "antifraude indisponivel", "error", err)
	}

	// Iniciada a transação, ela termina em COMMIT ou ROLLBACK mesmo que o cliente desista.
	ctx = context.WithoutCancel(ctx)

	var receipt domain.CastReceipt
	err := s.tx.InTx(ctx, func(st domain.Store) error {
		now := s.clock.Now()

		voted, err := st.Votes().Exists(ctx, cmd.VoterID, cmd.ElectionID)
		if err != nil {
			return err
		}
		if voted {
			return domain.ErrAlreadyVoted
		}

		voter, err := st.Voters().FindByID(ctx, cmd.VoterID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrVoterNotFound
			}
			return err
		}
		if !voter.IsVerified {
			return domain.ErrVoterNotEligible
		}

		election, err := st.Elections().FindByID(ctx, cmd.ElectionID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrElectionNotFound
			}
			return err
		}
		if err := election.AcceptsVotesAt(now); err != nil {
			return err
		}

		candidate, err := st.Candidates().FindByID(ctx, cmd.CandidateID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrInvalidCandidate
			}
			return err
		}
		if candidate.ElectionID != cmd.ElectionID {
			return domain.ErrInvalidCandidate
		}

		code, err := ids.ConfirmationCode(now)
		if err != nil {
			return err
		}

		vote := domain.Vote{
			ID:               domain.VoteID(s.ids.New()),
			VoterID:          cmd.VoterID,
			ElectionID:       cmd.ElectionID,
			CandidateID:      cmd.CandidateID,
			ConfirmationCode: code,
			IPAddress:        cmd.IPAddress,
			CastAt:           now,
		}
		if err := st.Votes().Insert(ctx, vote); err != nil {
			// Outra transação gravou o mesmo par entre o Exists e o Insert.
			if errors.Is(err, domain.ErrDuplicate) {
				return domain.ErrAlreadyVoted
			}
			return err
		}

		if err := st.Candidates().IncrementVotes(ctx, cmd.CandidateID); err != nil {
			return err
		}

		voterID := cmd.VoterID
		if err := st.Audit().Append(ctx, domain.AuditEntry{
			ID:        domain.AuditEntryID(s.ids.New()),
			VoterID:   &voterID,
			Action:    fmt.Sprintf("Votou no candidato %s na eleicao %s", cmd.CandidateID, cmd.ElectionID),
			IPAddress: cmd.IPAddress,
			CreatedAt: now,
		}); err != nil {
			return err
		}

		receipt = domain.CastReceipt{ConfirmationID: code, Vote: vote}
		return nil
	})
	if err != nil {
		return domain.CastReceipt{}, domain.AsStorageFailure(err)
	}
	return receipt, nil
}

func (s *Service) HasVoted(ctx context.Context, voterID domain.VoterID, electionID domain.ElectionID) (bool, error) {
	voted, err := s.store.Votes().Exists(ctx, voterID, electionID)
	if err != nil {
		return false, domain.AsStorageFailure(err)
	}
	return voted, nil
}

// History lista os votos do eleitor do mais recente para o mais antigo.
func (s *Service) History(ctx context.Context, voterID domain.VoterID) ([]domain.VoteRecord, error) {
	records, err := s.store.Votes().ListByVoter(ctx, voterID)
	if err != nil {
		return nil, domain.AsStorageFailure(err)
	}
	return records, nil
}

func (s *Service) Receipt(ctx context.Context, confirmationCode string) (domain.VoteRecord, error) {
	record, err := s.store.Votes().FindByConfirmation(ctx, confirmationCode)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.VoteRecord{}, ErrReceiptNotFound
		}
		return domain.VoteRecord{}, domain.AsStorageFailure(err)
	}
	return record, nil
}

func castStatus(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrAlreadyVoted):
		return "already_voted"
	case errors.Is(err, domain.ErrVoterNotFound), errors.Is(err, domain.ErrElectionNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrVoterNotEligible):
		return "not_eligible"
	case errors.Is(err, domain.ErrVotingWindowClosed):
		return "window_closed"
	case errors.Is(err, domain.ErrInvalidCandidate):
		return "invalid_candidate"
	case errors.Is(err, antifraude.ErrRateLimitExceeded):
		return "rate_limited"
	default:
		return "error"
	}
}

// limitAddr prefere o peer da conexão; X-Forwarded-For é controlado pelo cliente.
func limitAddr(cmd domain.CastCommand) string {
	if cmd.RemoteAddr != "" {
		return cmd.RemoteAddr
	}
	return cmd.IPAddress
}

var _ domain.VotingService = (*Service)(nil)
