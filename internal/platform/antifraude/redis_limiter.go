// Pacote antifraude limita ações repetidas (tentativas de voto, tentativas de OTP) em janelas fixas.
package antifraude

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/marcelojr/urna-online/internal/domain"
)

var ErrRateLimitExceeded = errors.New("limite de tentativas atingido")

// Key compõe a chave de limitação a partir de partes como eleição e IP.
func Key(parts ...string) string {
	return strings.Join(parts, "|")
}

// RedisRateLimiter conta ações por chave em janelas fixas usando INCR + EXPIRE.
type RedisRateLimiter struct {
	client    *redis.Client
	limit     int
	window    time.Duration
	keyPrefix string
}

func NewRedisRateLimiter(client *redis.Client, limit int, window time.Duration, prefix string) *RedisRateLimiter {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RedisRateLimiter{
		client:    client,
		limit:     limit,
		window:    window,
		keyPrefix: prefix,
	}
}

// WithPrefix devolve um limitador que divide o mesmo cliente mas conta em outro espaço de chaves.
func (r *RedisRateLimiter) WithPrefix(prefix string) *RedisRateLimiter {
	cp := *r
	cp.keyPrefix = r.keyPrefix + ":" + prefix
	return &cp
}

func (r *RedisRateLimiter) Validar(ctx context.Context, chave string) error {
	if r.client == nil || r.limit <= 0 || r.window <= 0 {
		// Configurações inválidas caem no modo permissivo.
		return nil
	}

	key := r.buildKey(chave)
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("antifraude: falha ao incrementar chave: %w", err)
	}

	if count == 1 {
		if err := r.client.Expire(ctx, key, r.window).Err(); err != nil {
			return fmt.Errorf("antifraude: falha ao definir expiracao: %w", err)
		}
	}

	if int(count) > r.limit {
		return ErrRateLimitExceeded
	}

	return nil
}

// buildKey aplica SHA-1 para não gravar IP ou e-mail em claro no Redis.
func (r *RedisRateLimiter) buildKey(chave string) string {
	hash := sha1.Sum([]byte(chave))
	return fmt.Sprintf("%s:%s", r.keyPrefix, hex.EncodeToString(hash[:]))
}

var _ domain.Antifraude = (*RedisRateLimiter)(nil)
