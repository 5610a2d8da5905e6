package provider

import (
	"context"

	"tutorpay/internal/domain"
)

// StripeAPI is the slice of the Stripe SDK this engine needs.
type StripeAPI interface {
	GetSessionByReference(ctx context.Context, reference string) (StripeSession, error)
}

type StripeSession struct {
	Status string `json:"status"`
}

// StripeVerifier translates Stripe's checkout-session vocabulary:
// expired -> expired, complete -> success, everything else pending.
type StripeVerifier struct {
	api StripeAPI
}

func NewStripeVerifier(api StripeAPI) *StripeVerifier {
	return &StripeVerifier{api: api}
}

func (v *StripeVerifier) Verify(ctx context.Context, reference string) (domain.TransactionStatus, error) {
	session, err := v.api.GetSessionByReference(ctx, reference)
	if err != nil {
		return domain.StatusPending, err
	}

	switch session.Status {
	case "expired":
		return domain.StatusExpired, nil
	case "complete":
		return domain.StatusSuccess, nil
	default:
		return domain.StatusPending, nil
	}
}
