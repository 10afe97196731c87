package token

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// 32 random bytes gives 256 bits of entropy per token.
const tokenRandomBytes = 32

// Generator issues URL-safe login tokens and their storage hashes. Only the
// SHA-256 digest is ever persisted.
type Generator interface {
	Generate() (plainToken string, hash string, err error)
	Hash(plainToken string) string
	Verify(plainToken, hash string) bool
}

type generator struct{}

func NewGenerator() Generator {
	return &generator{}
}

func (g *generator) Generate() (string, string, error) {
	randomBytes := make([]byte, tokenRandomBytes)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	plainToken := hex.EncodeToString(randomBytes)
	return plainToken, g.Hash(plainToken), nil
}

func (g *generator) Hash(plainToken string) string {
	hash := sha256.Sum256([]byte(plainToken))
	return hex.EncodeToString(hash[:])
}

func (g *generator) Verify(plainToken, hash string) bool {
	computedHash := g.Hash(plainToken)
	return subtle.ConstantTimeCompare([]byte(computedHash), []byte(hash)) == 1
}
