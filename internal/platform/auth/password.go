// Pacote auth reúne hash de senha, tokens de acesso e geração de códigos OTP.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/marcelojr/urna-online/internal/domain"
)

var ErrPasswordMismatch = errors.New("senha invalida")

type BcryptHasher struct {
	cost int
}

// NewBcryptHasher aceita cost 0 para usar bcrypt.DefaultCost.
func NewBcryptHasher(cost int) BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return BcryptHasher{cost: cost}
}

func (h BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hash de senha: %w", err)
	}
	return string(hashed), nil
}

func (h BcryptHasher) Compare(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return fmt.Errorf("auth: comparar senha: %w", err)
	}
	return nil
}

var _ domain.PasswordHasher = BcryptHasher{}
