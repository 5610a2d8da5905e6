package provider

import (
	"context"
	"errors"

	"tutorpay/internal/domain"
)

// Verifier answers "what does the provider say about this reference"
// in canonical terms. One implementation per payment channel.
type Verifier interface {
	Verify(ctx context.Context, reference string) (domain.TransactionStatus, error)
}

// Checkout starts a provider-hosted payment for a freshly created
// transaction and returns the handle (checkout URL etc.) to send back
// to the payer. Channels without hosted checkout return ErrNoCheckout.
type Checkout interface {
	InitCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutHandle, error)
}

type CheckoutRequest struct {
	Reference   string
	Amount      float64
	Currency    string
	Email       string
	CallbackURL string
}

type CheckoutHandle struct {
	CheckoutURL string `json:"checkout_url"`
	AccessCode  string `json:"access_code,omitempty"`
	Reference   string `json:"reference"`
}

var ErrNoCheckout = errors.New("channel has no hosted checkout")

// Registry maps channels to their verifiers. Channels without an entry
// (external/offline payments) never resolve on their own; they are only
// settled by manual administrative action.
type Registry struct {
	verifiers map[domain.PaymentChannel]Verifier
}

func NewRegistry() *Registry {
	return &Registry{verifiers: make(map[domain.PaymentChannel]Verifier)}
}

func (r *Registry) Register(ch domain.PaymentChannel, v Verifier) {
	r.verifiers[ch] = v
}

// Verify returns the canonical status for the channel, or pending when
// the channel has no verifier: an unintegrated channel must not move a
// transaction by itself.
func (r *Registry) Verify(ctx context.Context, ch domain.PaymentChannel, reference string) (domain.TransactionStatus, error) {
	v, ok := r.verifiers[ch]
	if !ok {
		return domain.StatusPending, nil
	}
	return v.Verify(ctx, reference)
}
