// Pacote redis implementa a fila de entrega de OTP sobre listas Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/marcelojr/urna-online/internal/domain"
)

const popTimeout = 5 * time.Second

// FilaOTP publica com LPUSH e consome com BRPOP, entregando na ordem de chegada.
type FilaOTP struct {
	client *redis.Client
	key    string
}

func NewFilaOTP(client *redis.Client, key string) *FilaOTP {
	return &FilaOTP{
		client: client,
		key:    key,
	}
}

func (f *FilaOTP) PublishOTP(ctx context.Context, msg domain.OTPMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("redis fila otp: serializar: %w", err)
	}
	if err := f.client.LPush(ctx, f.key, payload).Err(); err != nil {
		return fmt.Errorf("redis fila otp: enfileirar: %w", err)
	}
	return nil
}

// ConsumeOTP bloqueia até o contexto acabar ou o handler devolver erro.
// Payload inválido é descartado para não travar a fila.
func (f *FilaOTP) ConsumeOTP(ctx context.Context, handler func(context.Context, domain.OTPMessage) error) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		res, err := f.client.BRPop(ctx, popTimeout, f.key).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return fmt.Errorf("redis fila otp: consumir: %w", err)
		}

		if len(res) != 2 {
			continue
		}

		var msg domain.OTPMessage
		if err := json.Unmarshal([]byte(res[1]), &msg); err != nil {
			continue
		}

		if err := handler(ctx, msg); err != nil {
			return err
		}
	}
}

// Len devolve quantas mensagens aguardam entrega.
func (f *FilaOTP) Len(ctx context.Context) (int64, error) {
	n, err := f.client.LLen(ctx, f.key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis fila otp: tamanho: %w", err)
	}
	return n, nil
}

var _ domain.MailQueue = (*FilaOTP)(nil)
