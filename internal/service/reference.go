package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"

	"tutorpay/internal/domain"
	"tutorpay/internal/logger"
)

// ErrReferenceExhausted means the generator kept colliding past its
// retry cap. The store's unique index would still reject a duplicate;
// hitting this error at all points at a broken random source.
var ErrReferenceExhausted = errors.New("could not generate a unique reference")

// referenceStore is the one store lookup the generator needs.
type referenceStore interface {
	ReferenceExists(ctx context.Context, reference string) (bool, error)
}

// ReferenceGenerator produces prefix-tagged, collision-checked
// transaction references. The lookup loop is best-effort: it keeps
// expected retries low on the hot path, while the unique index on
// transactions.reference remains the actual correctness guarantee.
type ReferenceGenerator struct {
	store       referenceStore
	maxAttempts int
}

func NewReferenceGenerator(store referenceStore, maxAttempts int) *ReferenceGenerator {
	if maxAttempts <= 0 {
		maxAttempts = 8
	}
	return &ReferenceGenerator{store: store, maxAttempts: maxAttempts}
}

func (g *ReferenceGenerator) Generate(ctx context.Context, prefix domain.ReferencePrefix) (string, error) {
	for i := 0; i < g.maxAttempts; i++ {
		reference := NewReference(prefix)

		exists, err := g.store.ReferenceExists(ctx, reference)
		if err != nil {
			return "", err
		}
		if !exists {
			return reference, nil
		}

		logger.Warn("non-unique reference generated", "reference", reference)
	}
	return "", ErrReferenceExhausted
}

// NewReference builds one candidate: prefix tag, dash, random suffix.
func NewReference(prefix domain.ReferencePrefix) string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return string(prefix) + "-" + strings.ToUpper(hex.EncodeToString(b))
}
