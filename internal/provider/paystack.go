package provider

import (
	"context"

	"tutorpay/internal/domain"
)

// PaystackAPI is the slice of the Paystack SDK this engine needs. The
// SDK itself (signature checks, HTTP plumbing) lives outside the engine.
type PaystackAPI interface {
	VerifyTransaction(ctx context.Context, reference string) (PaystackVerification, error)
	InitTransaction(ctx context.Context, req PaystackInit) (PaystackCheckout, error)
}

type PaystackVerification struct {
	Status string `json:"status"`
}

type PaystackInit struct {
	// Paystack wants the amount in subunits.
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Email       string `json:"email"`
	Reference   string `json:"reference"`
	CallbackURL string `json:"callback_url"`
}

type PaystackCheckout struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// PaystackVerifier maps Paystack's status string straight onto the
// canonical set; anything it does not recognise stays pending.
type PaystackVerifier struct {
	api PaystackAPI
}

func NewPaystackVerifier(api PaystackAPI) *PaystackVerifier {
	return &PaystackVerifier{api: api}
}

func (v *PaystackVerifier) Verify(ctx context.Context, reference string) (domain.TransactionStatus, error) {
	res, err := v.api.VerifyTransaction(ctx, reference)
	if err != nil {
		return domain.StatusPending, err
	}
	return domain.ParseStatus(res.Status), nil
}

func (v *PaystackVerifier) InitCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutHandle, error) {
	res, err := v.api.InitTransaction(ctx, PaystackInit{
		Amount:      int64(req.Amount * 100),
		Currency:    req.Currency,
		Email:       req.Email,
		Reference:   req.Reference,
		CallbackURL: req.CallbackURL,
	})
	if err != nil {
		return nil, err
	}
	return &CheckoutHandle{
		CheckoutURL: res.AuthorizationURL,
		AccessCode:  res.AccessCode,
		Reference:   res.Reference,
	}, nil
}
