package auth

import (
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/config"
)

var ErrPasswordMismatch = errors.New("password does not match")

type Hasher struct {
	cost int
}

func NewHasher(cfg *config.Config) *Hasher {
	return &Hasher{cost: cfg.BcryptCost}
}

// NewHasherWithCost is used by tests and the seeder, which do not need a
// production work factor.
func NewHasherWithCost(cost int) *Hasher {
	return &Hasher{cost: cost}
}

func (h *Hasher) Hash(pass string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(pass), h.cost)
	if err != nil {
		return "", errors.Wrap(err, "generate hash")
	}
	return string(bytes), nil
}

func (h *Hasher) Check(hash, pass string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pass)); err != nil {
		return ErrPasswordMismatch
	}
	return nil
}
