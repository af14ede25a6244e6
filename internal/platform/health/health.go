// Pacote health expõe liveness e readiness dos binários.
package health

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

const readyTimeout = 2 * time.Second

// Checker verifica as dependências na ordem: banco primeiro, depois Redis.
type Checker struct {
	db    *sql.DB
	redis *redis.Client
}

func NewChecker(db *sql.DB, redis *redis.Client) *Checker {
	return &Checker{db: db, redis: redis}
}

// LiveHandler só confirma que o processo responde; não toca dependências.
func (c *Checker) LiveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

func (c *Checker) ReadyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		if dep, err := c.Check(ctx); err != nil {
			http.Error(w, dep+" unavailable", http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}

// Check devolve o nome da primeira dependência indisponível.
func (c *Checker) Check(ctx context.Context) (string, error) {
	if c.db != nil {
		if err := c.db.PingContext(ctx); err != nil {
			return "database", err
		}
	}
	if c.redis != nil {
		if err := c.redis.Ping(ctx).Err(); err != nil {
			return "redis", err
		}
	}
	return "", nil
}
