package provider

import (
	"context"
	"errors"
	"testing"

	"tutorpay/internal/domain"
)

type stubPaystack struct {
	verification PaystackVerification
	checkout     PaystackCheckout
	err          error
	initReq      PaystackInit
}

func (s *stubPaystack) VerifyTransaction(context.Context, string) (PaystackVerification, error) {
	return s.verification, s.err
}

func (s *stubPaystack) InitTransaction(_ context.Context, req PaystackInit) (PaystackCheckout, error) {
	s.initReq = req
	return s.checkout, s.err
}

func TestPaystackStatusMapping(t *testing.T) {
	cases := []struct {
		provider string
		want     domain.TransactionStatus
	}{
		{"success", domain.StatusSuccess},
		{"expired", domain.StatusExpired},
		{"pending", domain.StatusPending},
		{"abandoned", domain.StatusPending},
		{"", domain.StatusPending},
	}

	for _, tc := range cases {
		v := NewPaystackVerifier(&stubPaystack{verification: PaystackVerification{Status: tc.provider}})
		got, err := v.Verify(context.Background(), "WTU-TEST")
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.provider, err)
		}
		if got != tc.want {
			t.Errorf("%q: got %s, want %s", tc.provider, got, tc.want)
		}
	}
}

func TestPaystackVerifyError(t *testing.T) {
	apiErr := errors.New("timeout")
	v := NewPaystackVerifier(&stubPaystack{err: apiErr})

	got, err := v.Verify(context.Background(), "WTU-TEST")
	if !errors.Is(err, apiErr) {
		t.Fatalf("got %v, want api error", err)
	}
	if got != domain.StatusPending {
		t.Errorf("errored verify returned %s, want pending", got)
	}
}

func TestPaystackCheckoutAmountInSubunits(t *testing.T) {
	api := &stubPaystack{checkout: PaystackCheckout{
		AuthorizationURL: "https://checkout.paystack.com/abc",
		Reference:        "WTU-TEST",
	}}
	v := NewPaystackVerifier(api)

	handle, err := v.InitCheckout(context.Background(), CheckoutRequest{
		Reference: "WTU-TEST",
		Amount:    250.5,
		Currency:  "NGN",
		Email:     "ada@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if api.initReq.Amount != 25050 {
		t.Errorf("subunit amount = %d, want 25050", api.initReq.Amount)
	}
	if handle.CheckoutURL != "https://checkout.paystack.com/abc" {
		t.Errorf("checkout url = %q", handle.CheckoutURL)
	}
}

type stubStripe struct {
	session StripeSession
	err     error
}

func (s stubStripe) GetSessionByReference(context.Context, string) (StripeSession, error) {
	return s.session, s.err
}

func TestStripeStatusMapping(t *testing.T) {
	cases := []struct {
		provider string
		want     domain.TransactionStatus
	}{
		{"complete", domain.StatusSuccess},
		{"expired", domain.StatusExpired},
		{"open", domain.StatusPending},
		{"", domain.StatusPending},
	}

	for _, tc := range cases {
		v := NewStripeVerifier(stubStripe{session: StripeSession{Status: tc.provider}})
		got, err := v.Verify(context.Background(), "WTU-TEST")
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.provider, err)
		}
		if got != tc.want {
			t.Errorf("%q: got %s, want %s", tc.provider, got, tc.want)
		}
	}
}

func TestRegistryUnknownChannelStaysPending(t *testing.T) {
	r := NewRegistry()

	got, err := r.Verify(context.Background(), domain.ChannelExternal, "EXT-TEST")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != domain.StatusPending {
		t.Errorf("unregistered channel returned %s, want pending", got)
	}
}

func TestRegistryDelegates(t *testing.T) {
	r := NewRegistry()
	r.Register(domain.ChannelStripe, NewStripeVerifier(stubStripe{session: StripeSession{Status: "complete"}}))

	got, err := r.Verify(context.Background(), domain.ChannelStripe, "WTU-TEST")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != domain.StatusSuccess {
		t.Errorf("got %s, want success", got)
	}
}
