// Pacote mailer entrega códigos OTP aos eleitores.
package mailer

import (
	"context"
	"log/slog"

	"github.com/marcelojr/urna-online/internal/domain"
)

// LogMailer registra o código no log em vez de enviar e-mail; serve para ambientes locais.
type LogMailer struct {
	log *slog.Logger
}

func NewLogMailer(log *slog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendOTP(ctx context.Context, msg domain.OTPMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.log.InfoContext(ctx, "otp enviado",
		"voter_id", msg.VoterID,
		"email", msg.Email,
		"code", msg.Code,
		"expires_at", msg.ExpiresAt,
	)
	return nil
}

var _ domain.Mailer = (*LogMailer)(nil)
