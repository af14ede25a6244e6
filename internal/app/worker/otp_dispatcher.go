// Pacote worker entrega os códigos OTP publicados na fila Redis.
package worker

import (
	"context"
	"fmt"

	"github.com/marcelojr/urna-online/internal/domain"
	"github.com/marcelojr/urna-online/internal/platform/metrics"
)

// OTPDispatcher envia cada código pelo Mailer e descarta os que expiraram na fila.
type OTPDispatcher struct {
	mailer domain.Mailer
	clock  domain.Clock
}

func NewOTPDispatcher(mailer domain.Mailer, clock domain.Clock) *OTPDispatcher {
	return &OTPDispatcher{mailer: mailer, clock: clock}
}

// Process devolve erro apenas quando o envio falha; código vencido não é erro.
func (d *OTPDispatcher) Process(ctx context.Context, msg domain.OTPMessage) (bool, error) {
	if !msg.ExpiresAt.IsZero() && msg.ExpiresAt.Before(d.clock.Now()) {
		metrics.IncOTPDispatched("expired")
		return false, nil
	}

	if err := d.mailer.SendOTP(ctx, msg); err != nil {
		metrics.IncOTPDispatched("failed")
		return false, fmt.Errorf("worker: enviar otp para %s: %w", msg.VoterID, err)
	}

	metrics.IncOTPDispatched("sent")
	return true, nil
}
