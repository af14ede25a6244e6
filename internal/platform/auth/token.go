package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/marcelojr/urna-online/internal/domain"
)

const (
	RoleVoter = "voter"
	RoleAdmin = "admin"
)

var ErrInvalidToken = errors.New("token invalido")

// Claims carrega o papel junto das claims registradas; Subject é o id do eleitor ou admin.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTIssuer assina e valida tokens HS256.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTIssuer(secret string, ttl time.Duration, clock domain.Clock) *JWTIssuer {
	return &JWTIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    clock.Now,
	}
}

func (i *JWTIssuer) Issue(subject, role string) (string, time.Time, error) {
	issuedAt := i.now()
	expires := issuedAt.Add(i.ttl)
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth: assinar token: %w", err)
	}
	return signed, expires, nil
}

// Parse aceita apenas HS256 e devolve ErrInvalidToken para qualquer falha de validação.
func (i *JWTIssuer) Parse(raw string) (Claims, error) {
	var claims Claims
	// Expiração é conferida abaixo com o relógio injetado, não com jwt.TimeFunc global.
	parser := jwt.Parser{
		ValidMethods:         []string{jwt.SigningMethodHS256.Alg()},
		SkipClaimsValidation: true,
	}

	token, err := parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !claims.VerifyExpiresAt(i.now(), true) {
		return Claims{}, fmt.Errorf("%w: expirado", ErrInvalidToken)
	}
	if claims.Subject == "" || claims.Role == "" {
		return Claims{}, fmt.Errorf("%w: claims incompletas", ErrInvalidToken)
	}
	return claims, nil
}

var _ domain.TokenIssuer = (*JWTIssuer)(nil)
