package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var ErrMismatch = errors.New("password mismatch")

const dummyPassword = "artisanhub-dummy-password"

// Hasher hashes and verifies passwords with a fixed bcrypt cost.
type Hasher struct {
	cost  int
	dummy []byte
}

// NewHasher also hashes the dummy password used by CompareDummy, so no login
// pays for it later.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte(dummyPassword), cost)
	return &Hasher{cost: cost, dummy: dummy}
}

// Hash hashes a plaintext password.
func (h *Hasher) Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Compare verifies plain against hashed in constant time. It returns
// ErrMismatch on a wrong password and a wrapped error when the stored hash
// itself is unusable.
func (h *Hasher) Compare(hashed, plain string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatch
	}
	return fmt.Errorf("compare password: %w", err)
}

// CompareDummy spends one comparison at the hasher's cost and discards the
// result, so a login for an unknown account takes as long as a real one.
func (h *Hasher) CompareDummy(plain string) {
	if h.dummy == nil {
		return
	}
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(plain))
}
