package ids

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	mathrand "math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

type Generator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func NewGenerator() *Generator {
	src := mathrand.New(mathrand.NewSource(time.Now().UnixNano()))
	return &Generator{
		entropy: ulid.Monotonic(src, 0),
	}
}

func (g *Generator) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now().UTC()), g.entropy).String()
}

// ConfirmationCode monta o comprovante do voto: VOTE-<timestamp base36>-<8 hex>.
// Serve só para o eleitor localizar o recibo; não é token de segurança.
func ConfirmationCode(at time.Time) (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("ids: gerar comprovante: %w", err)
	}
	ts := strconv.FormatInt(at.UnixMilli(), 36)
	return fmt.Sprintf("VOTE-%s-%s", strings.ToUpper(ts), strings.ToUpper(hex.EncodeToString(buf))), nil
}

var (
	defaultOnce sync.Once
	defaultGen  *Generator
)

func DefaultGenerator() *Generator {
	defaultOnce.Do(func() {
		defaultGen = NewGenerator()
	})
	return defaultGen
}

func NewULID() string {
	return DefaultGenerator().New()
}
