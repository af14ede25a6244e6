package apptest

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/marcelojr/urna-online/internal/domain"
)

// Clock é um relógio manual; Advance move o tempo para frente.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(at time.Time) *Clock {
	return &Clock{now: at}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Set(at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = at
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Antifraude conta chamadas por chave e devolve Err quando definido.
type Antifraude struct {
	mu    sync.Mutex
	Err   error
	Calls map[string]int
}

func (a *Antifraude) Validar(_ context.Context, chave string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Calls == nil {
		a.Calls = map[string]int{}
	}
	a.Calls[chave]++
	return a.Err
}

// MailQueue guarda as mensagens publicadas.
type MailQueue struct {
	mu       sync.Mutex
	Messages []domain.OTPMessage
	Err      error
}

func (q *MailQueue) PublishOTP(_ context.Context, msg domain.OTPMessage) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.Err != nil {
		return q.Err
	}
	q.Messages = append(q.Messages, msg)
	return nil
}

func (q *MailQueue) ConsumeOTP(ctx context.Context, handler func(context.Context, domain.OTPMessage) error) error {
	q.mu.Lock()
	pending := q.Messages
	q.Messages = nil
	q.mu.Unlock()

	for _, m := range pending {
		if err := handler(ctx, m); err != nil {
			return err
		}
	}
	<-ctx.Done()
	return ctx.Err()
}

func (q *MailQueue) Last() (domain.OTPMessage, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.Messages) == 0 {
		return domain.OTPMessage{}, false
	}
	return q.Messages[len(q.Messages)-1], true
}

var ErrMismatch = errors.New("senha nao confere")

// PlainHasher evita o custo do bcrypt nos testes de serviço.
type PlainHasher struct{}

func (PlainHasher) Hash(password string) (string, error) { return "plain:" + password, nil }

func (PlainHasher) Compare(hash, password string) error {
	if hash != "plain:"+password {
		return ErrMismatch
	}
	return nil
}

// Tokens emite tokens previsíveis "<role>:<subject>".
type Tokens struct {
	TTL time.Duration
	Now func() time.Time
}

func (t Tokens) Issue(subject, role string) (string, time.Time, error) {
	now := time.Now()
	if t.Now != nil {
		now = t.Now()
	}
	return role + ":" + subject, now.Add(t.TTL), nil
}

var (
	_ domain.Clock          = (*Clock)(nil)
	_ domain.Antifraude     = (*Antifraude)(nil)
	_ domain.MailQueue      = (*MailQueue)(nil)
	_ domain.PasswordHasher = PlainHasher{}
	_ domain.TokenIssuer    = Tokens{}
)

