package domain

import (
	"fmt"
	"time"
)

type ElectionStatus string

const (
	StatusUpcoming ElectionStatus = "upcoming"
	StatusActive   ElectionStatus = "active"
	StatusEnded    ElectionStatus = "ended"
	StatusInactive ElectionStatus = "inactive"
)

// StatusAt deriva o status sem persistir nada; o intervalo [início, fim] é fechado nas duas pontas.
func (e Election) StatusAt(now time.Time) ElectionStatus {
	switch {
	case e.EndDate.Before(now):
		return StatusEnded
	case e.StartDate.After(now):
		return StatusUpcoming
	case e.IsActive:
		return StatusActive
	default:
		return StatusInactive
	}
}

// AcceptsVotesAt devolve ErrVotingWindowClosed com o motivo quando a eleição não recebe votos em now.
func (e Election) AcceptsVotesAt(now time.Time) error {
	switch {
	case !e.IsActive:
		return fmt.Errorf("%w: desativada", ErrVotingWindowClosed)
	case now.Before(e.StartDate):
		return fmt.Errorf("%w: nao iniciada", ErrVotingWindowClosed)
	case now.After(e.EndDate):
		return fmt.Errorf("%w: encerrada", ErrVotingWindowClosed)
	}
	return nil
}

func (e Election) HasEnded(now time.Time) bool {
	return e.EndDate.Before(now)
}
