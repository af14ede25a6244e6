package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("registro nao encontrado")
	ErrDuplicate = errors.New("registro duplicado")
)

var (
	ErrAlreadyVoted           = errors.New("eleitor ja votou nesta eleicao")
	ErrVoterNotFound          = errors.New("eleitor nao encontrado")
	ErrVoterNotEligible       = errors.New("eleitor nao verificado")
	ErrElectionNotFound       = errors.New("eleicao nao encontrada")
	ErrVotingWindowClosed     = errors.New("eleicao fora do periodo de votacao")
	ErrInvalidCandidate       = errors.New("candidato invalido para esta eleicao")
	ErrResultsNotYetAvailable = errors.New("resultados disponiveis apenas apos o encerramento")
	ErrStorageFailure         = errors.New("falha de armazenamento")
)

var classified = []error{
	ErrAlreadyVoted,
	ErrVoterNotFound,
	ErrVoterNotEligible,
	ErrElectionNotFound,
	ErrVotingWindowClosed,
	ErrInvalidCandidate,
	ErrResultsNotYetAvailable,
	ErrStorageFailure,
}

// AsStorageFailure mantém erros já classificados e embrulha o resto em ErrStorageFailure,
// preservando a causa original para errors.Is/As.
func AsStorageFailure(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range classified {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", ErrStorageFailure, err)
}
