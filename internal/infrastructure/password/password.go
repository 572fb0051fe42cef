package password

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/Xeyame/sharry/internal/application/ports"
)

type Hasher struct {
	cost int
}

func New() ports.PasswordHasher {
	return &Hasher{cost: bcrypt.DefaultCost}
}

func (h *Hasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h *Hasher) Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
