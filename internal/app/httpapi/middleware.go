package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/marcelojr/urna-online/internal/platform/auth"
)

const headerRequestID = "X-Request-ID"

type ctxKey int

const (
	ctxKeyClaims ctxKey = iota
	ctxKeyRequestID
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// WithLogging marca a requisição com um request id (reaproveitado do cliente quando vier) e registra o término.
func WithLogging(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := r.Header.Get(headerRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set(headerRequestID, reqID)

		ctx := context.WithValue(r.Context(), ctxKeyRequestID, reqID)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		logger.InfoContext(ctx, "requisicao concluida",
			"request_id", reqID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// RequestID devolve o id gravado pelo WithLogging, ou vazio.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID).(string)
	return id
}

// requireRole exige bearer token válido com o papel pedido.
func (a *API) requireRole(role string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			responderMensagem(w, http.StatusUnauthorized, "token de acesso obrigatorio")
			return
		}
		if a.tokens == nil {
			responderMensagem(w, http.StatusUnauthorized, "token invalido")
			return
		}

		claims, err := a.tokens.Parse(strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")))
		if err != nil {
			a.logger.WarnContext(r.Context(), "token rejeitado", "path", r.URL.Path, "err", err)
			responderMensagem(w, http.StatusUnauthorized, "token invalido")
			return
		}
		if claims.Role != role {
			responderMensagem(w, http.StatusForbidden, "acesso negado")
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), ctxKeyClaims, claims)))
	}
}

func claimsFrom(ctx context.Context) (auth.Claims, bool) {
	c, ok := ctx.Value(ctxKeyClaims).(auth.Claims)
	return c, ok
}

// ClientIP segue X-Forwarded-For (primeiro salto), X-Real-IP e por fim RemoteAddr sem porta.
// Os cabeçalhos vêm do cliente: o valor serve para registro, nunca para limitar requisições.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	return RemoteIP(r)
}

// RemoteIP é o endereço da conexão TCP, sem porta; é a chave do limitador de votos.
func RemoteIP(r *http.Request) string {
	addr := r.RemoteAddr
	if i := strings.LastIndex(addr, ":"); i >= 0 {
		addr = addr[:i]
	}
	addr = strings.Trim(addr, "[]")
	if addr == "" {
		return "unknown"
	}
	return addr
}
