package antifraude

import (
	"context"

	"github.com/marcelojr/urna-online/internal/domain"
)

// Noop representa uma estratégia de antifraude desabilitada.
type Noop struct{}

func NewNoop() Noop {
	return Noop{}
}

func (Noop) Validar(ctx context.Context, chave string) error {
	return nil
}

var _ domain.Antifraude = Noop{}
