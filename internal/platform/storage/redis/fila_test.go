package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcelojr/urna-online/internal/domain"
)

var errParar = errors.New("parar consumo")

func setupRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return client, mr
}

func TestFilaOTP_PublicarEConsumir_DeveEntregarNaOrdem(t *testing.T) {
	client, _ := setupRedis(t)
	fila := NewFilaOTP(client, "fila:otp")

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	// Arrange
	expira := time.Date(2026, 10, 16, 12, 10, 0, 0, time.UTC)
	mensagens := []domain.OTPMessage{
		{VoterID: "eleitor-1", Email: "ana@exemplo.com", Code: "111111", ExpiresAt: expira},
		{VoterID: "eleitor-2", Email: "bia@exemplo.com", Code: "222222", ExpiresAt: expira},
	}
	for _, m := range mensagens {
		require.NoError(t, fila.PublishOTP(ctx, m))
	}

	// Act
	var recebidas []domain.OTPMessage
	err := fila.ConsumeOTP(ctx, func(_ context.Context, m domain.OTPMessage) error {
		recebidas = append(recebidas, m)
		if len(recebidas) == len(mensagens) {
			return errParar
		}
		return nil
	})

	// Assert
	assert.ErrorIs(t, err, errParar)
	require.Len(t, recebidas, 2)
	assert.Equal(t, "111111", recebidas[0].Code)
	assert.Equal(t, "222222", recebidas[1].Code)
	assert.True(t, expira.Equal(recebidas[0].ExpiresAt))
}

func TestFilaOTP_ConsumeOTP_QuandoPayloadInvalido_DeveDescartar(t *testing.T) {
	client, mr := setupRedis(t)
	fila := NewFilaOTP(client, "fila:otp")
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := mr.Lpush("fila:otp", "{nao-e-json")
	require.NoError(t, err)
	require.NoError(t, fila.PublishOTP(ctx, domain.OTPMessage{Code: "333333"}))

	var codigo string
	err = fila.ConsumeOTP(ctx, func(_ context.Context, m domain.OTPMessage) error {
		codigo = m.Code
		return errParar
	})

	assert.ErrorIs(t, err, errParar)
	assert.Equal(t, "333333", codigo)
}

func TestFilaOTP_ConsumeOTP_QuandoContextoCancelado_DeveParar(t *testing.T) {
	client, _ := setupRedis(t)
	fila := NewFilaOTP(client, "fila:otp")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := fila.ConsumeOTP(ctx, func(context.Context, domain.OTPMessage) error {
		t.Fatal("handler nao deveria ser chamado")
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestFilaOTP_Len(t *testing.T) {
	client, _ := setupRedis(t)
	fila := NewFilaOTP(client, "fila:otp")
	ctx := context.Background()

	require.NoError(t, fila.PublishOTP(ctx, domain.OTPMessage{Code: "1"}))
	require.NoError(t, fila.PublishOTP(ctx, domain.OTPMessage{Code: "2"}))

	n, err := fila.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
