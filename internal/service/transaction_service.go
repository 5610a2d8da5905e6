package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"tutorpay/internal/domain"
	"tutorpay/internal/logger"
	"tutorpay/internal/metrics"
	"tutorpay/internal/provider"
	"tutorpay/internal/repository"
	"tutorpay/internal/search"
	"tutorpay/internal/sideeffect"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrTransactionNotFound = errors.New("we cannot seem to find that transaction, please check the reference and try again")
	ErrNothingNew          = errors.New("nothing new has happened with this transaction")
	ErrNotSuccessful       = errors.New("you cannot fulfil an unsuccessful transaction")
	ErrAlreadyFulfilled    = errors.New("transaction has already been fulfilled")
	ErrCannotFulfil        = errors.New("you cannot fulfil this transaction, please contact your admin")
)

// errLostFulfilRace aborts the atomic unit when the conditional
// mark-fulfilled matched no row, rolling the wallet write back.
var errLostFulfilRace = errors.New("fulfilment lost conditional update race")

// TransactionService owns the transaction lifecycle: initiation,
// verification (automatic and manual), fulfilment and the read paths.
type TransactionService struct {
	trx       repository.Transactions
	wallets   repository.Wallets
	media     repository.Media
	refs      *ReferenceGenerator
	providers *provider.Registry
	checkouts map[domain.PaymentChannel]provider.Checkout
	index     search.Index
	effects   *sideeffect.Propagator

	verifyTimeout time.Duration
}

func NewTransactionService(
	trx repository.Transactions,
	wallets repository.Wallets,
	media repository.Media,
	refs *ReferenceGenerator,
	providers *provider.Registry,
	effects *sideeffect.Propagator,
	index search.Index,
	verifyTimeout time.Duration,
) *TransactionService {
	if verifyTimeout <= 0 {
		verifyTimeout = 15 * time.Second
	}
	return &TransactionService{
		trx:           trx,
		wallets:       wallets,
		media:         media,
		refs:          refs,
		providers:     providers,
		checkouts:     make(map[domain.PaymentChannel]provider.Checkout),
		index:         index,
		effects:       effects,
		verifyTimeout: verifyTimeout,
	}
}

// RegisterCheckout wires a hosted-checkout capable channel.
func (s *TransactionService) RegisterCheckout(ch domain.PaymentChannel, c provider.Checkout) {
	s.checkouts[ch] = c
}

// InitParams carries everything needed to open a pending transaction.
type InitParams struct {
	UserID          string
	UserType        domain.UserType
	FirstName       string
	LastName        string
	Email           string
	Amount          float64
	Currency        string
	DiscountPercent *float64
	DiscountAmount  *float64
	Narration       string
	Scope           domain.TransactionScope
	Type            domain.TransactionType
	Channel         domain.PaymentChannel
	ReferencePrefix domain.ReferencePrefix
	SessionID       *string
	EngagementID    *string
	CallbackURL     string
}

type InitResult struct {
	Transaction *domain.Transaction      `json:"transaction"`
	Checkout    *provider.CheckoutHandle `json:"checkout,omitempty"`
}

// InitTransaction allocates a unique reference, inserts the pending
// record and, for channels with hosted checkout, returns the handle the
// payer is redirected to.
func (s *TransactionService) InitTransaction(ctx context.Context, p InitParams) (*InitResult, error) {
	reference, err := s.refs.Generate(ctx, p.ReferencePrefix)
	if err != nil {
		return nil, err
	}

	txn := &domain.Transaction{
		Reference:       reference,
		UserID:          p.UserID,
		UserType:        p.UserType,
		FirstName:       p.FirstName,
		LastName:        p.LastName,
		Email:           p.Email,
		Amount:          domain.ApprAmount(p.Amount),
		Currency:        p.Currency,
		DiscountPercent: p.DiscountPercent,
		DiscountAmount:  p.DiscountAmount,
		Narration:       p.Narration,
		Scope:           p.Scope,
		Type:            p.Type,
		Channel:         p.Channel,
		SessionID:       p.SessionID,
		EngagementID:    p.EngagementID,
		Status:          domain.StatusPending,
	}

	if err := s.trx.Create(ctx, txn); err != nil {
		return nil, err
	}
	metrics.TransactionsCreated.WithLabelValues(string(txn.Channel)).Inc()
	s.effects.TransactionCreated(txn)

	res := &InitResult{Transaction: txn}

	if checkout, ok := s.checkouts[p.Channel]; ok {
		cctx, cancel := context.WithTimeout(ctx, s.verifyTimeout)
		defer cancel()

		handle, err := checkout.InitCheckout(cctx, provider.CheckoutRequest{
			Reference:   reference,
			Amount:      txn.Amount,
			Currency:    txn.Currency,
			Email:       txn.Email,
			CallbackURL: p.CallbackURL,
		})
		if err != nil {
			return nil, err
		}
		res.Checkout = handle
	}

	return res, nil
}

// ExternalParams describes a transaction that happened out-of-band,
// optionally with proof-of-payment media.
type ExternalParams struct {
	InitParams
	Media []string
}

// AddExternalTransaction pre-allocates the transaction id so the media
// row can be written first, then records the transaction itself.
func (s *TransactionService) AddExternalTransaction(ctx context.Context, p ExternalParams) (*domain.Transaction, error) {
	transactionID := uuid.NewString()

	if len(p.Media) > 0 {
		m := &domain.ExternalVerificationMedia{
			TransactionID: transactionID,
			Media:         p.Media,
		}
		if err := s.media.Create(ctx, m); err != nil {
			return nil, err
		}
	}

	reference, err := s.refs.Generate(ctx, p.ReferencePrefix)
	if err != nil {
		return nil, err
	}

	txn := &domain.Transaction{
		ID:              transactionID,
		Reference:       reference,
		UserID:          p.UserID,
		UserType:        p.UserType,
		FirstName:       p.FirstName,
		LastName:        p.LastName,
		Email:           p.Email,
		Amount:          domain.ApprAmount(p.Amount),
		Currency:        p.Currency,
		DiscountPercent: p.DiscountPercent,
		DiscountAmount:  p.DiscountAmount,
		Narration:       p.Narration,
		Scope:           p.Scope,
		Type:            p.Type,
		Channel:         domain.ChannelExternal,
		SessionID:       p.SessionID,
		EngagementID:    p.EngagementID,
		Status:          domain.StatusPending,
	}

	if err := s.trx.Create(ctx, txn); err != nil {
		return nil, err
	}
	metrics.TransactionsCreated.WithLabelValues(string(txn.Channel)).Inc()
	s.effects.TransactionCreated(txn)

	return txn, nil
}

// AutoVerify handles a verification-requested event for a reference.
// It is idempotent: a missing or already-settled transaction is a
// logged no-op, never an error, because duplicate and stale events are
// expected. Fulfilment failure does not undo the verification; the two
// are independently retryable.
func (s *TransactionService) AutoVerify(ctx context.Context, reference string) (*domain.Transaction, error) {
	logger.Info("attempting to verify transaction", "reference", reference)

	txn, err := s.trx.GetPendingByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		logger.Error("transaction not found", "reference", reference)
		return nil, nil
	}

	verified, err := s.trx.MarkVerified(ctx, reference, domain.StatusSuccess, true, nil)
	if err != nil {
		return nil, err
	}
	if verified == nil {
		// concurrent verifier won; nothing left to do
		return nil, nil
	}

	metrics.TransactionsVerified.WithLabelValues("auto", string(domain.StatusSuccess)).Inc()
	logger.Info("transaction verified successfully", "channel", txn.Channel, "reference", reference)

	fulfilled, err := s.Fulfil(ctx, verified, nil)
	if err != nil {
		logger.Error("there was an error auto-fulfilling a transaction",
			"error", err, "reference", reference)
	}

	if fulfilled != nil {
		s.effects.TransactionFulfilled(fulfilled)
		return fulfilled, nil
	}
	s.effects.TransactionVerified(verified)
	return verified, nil
}

// ManualVerify asks the channel's provider for the current status and
// applies it. A status that is still pending is an error to the admin:
// nothing new has happened.
func (s *TransactionService) ManualVerify(ctx context.Context, reference, adminID string) (*domain.Transaction, error) {
	txn, err := s.trx.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, ErrTransactionNotFound
	}
	if txn.Status != domain.StatusPending {
		// already settled, auto or by another admin
		return nil, ErrNothingNew
	}

	vctx, cancel := context.WithTimeout(ctx, s.verifyTimeout)
	status, err := s.providers.Verify(vctx, txn.Channel, reference)
	cancel()
	if err != nil {
		return nil, err
	}

	if status == domain.StatusPending {
		return nil, ErrNothingNew
	}

	updated, err := s.trx.MarkVerified(ctx, reference, status, false, &adminID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		// verified concurrently between the lookup and the update
		return nil, ErrNothingNew
	}

	metrics.TransactionsVerified.WithLabelValues("manual", string(status)).Inc()
	s.effects.TransactionVerified(updated)

	return updated, nil
}

// Fulfil applies a successful transaction's financial effect: exactly
// one wallet operation chosen by reference prefix, and the conditional
// fulfilled-flag write, in one atomic unit. A lost race or an unmatched
// prefix returns (nil, nil): no wallet effect happened and none will
// from this call.
func (s *TransactionService) Fulfil(ctx context.Context, txn *domain.Transaction, adminID *string) (*domain.Transaction, error) {
	// fail-safe: verification races can hand us a transaction whose
	// success has not committed elsewhere
	if txn.Status != domain.StatusSuccess {
		logger.Warn("cannot fulfil a transaction that is not successful",
			"transaction_id", txn.ID, "status", txn.Status)
		return nil, nil
	}

	prefix, known := txn.Prefix()
	if !known || prefix == domain.PrefixExternal {
		// deliberate no-op: externally settled money never moves a
		// wallet, and an unrecognised prefix stays unfulfilled for an
		// operator to inspect
		logger.Warn("no wallet action for reference prefix", "reference", txn.Reference)
		return nil, nil
	}

	op := repository.WalletOp{
		Amount:    txn.Amount,
		UserID:    txn.UserID,
		UserType:  txn.UserType,
		Reference: txn.Reference,
	}

	var updated *domain.Transaction
	err := s.trx.WithTx(ctx, func(tx pgx.Tx) error {
		var (
			wallet *domain.Wallet
			err    error
		)

		switch prefix {
		case domain.PrefixWalletTopUp:
			wallet, err = s.wallets.TopUp(ctx, tx, op)
		case domain.PrefixAwardBonus:
			wallet, err = s.wallets.AwardBonus(ctx, tx, op)
		case domain.PrefixLoadOverdraft:
			wallet, err = s.wallets.LoadOverdraft(ctx, tx, op)
		case domain.PrefixUnloadOverdraft:
			wallet, err = s.wallets.UnloadOverdraft(ctx, tx, op)
		case domain.PrefixTransfer:
			wallet, err = s.wallets.ExternalTransfer(ctx, tx, op)
		}
		if err != nil {
			return err
		}

		updated, err = s.trx.MarkFulfilled(ctx, tx, txn.Reference,
			wallet.NetBalanceFor(txn.UserType), wallet, adminID)
		if err != nil {
			return err
		}
		if updated == nil {
			// already fulfilled by a concurrent caller: abort so the
			// wallet write rolls back
			return errLostFulfilRace
		}
		return nil
	})
	if errors.Is(err, errLostFulfilRace) {
		metrics.FulfilmentNoOps.Inc()
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	metrics.TransactionsFulfilled.WithLabelValues(string(prefix)).Inc()

	// automatic wallet top-ups page the admins
	if prefix == domain.PrefixWalletTopUp && adminID == nil {
		s.effects.NotifyAdminsWalletTopUp(
			sentenceCase(updated.PayerName()),
			formatAmount(updated.Amount, updated.Currency),
		)
	}

	return updated, nil
}

// ManualFulfil is the administrator entry point, with typed errors
// for each way the transaction can be in the wrong state.
func (s *TransactionService) ManualFulfil(ctx context.Context, reference, adminID string) (*domain.Transaction, error) {
	txn, err := s.trx.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, ErrTransactionNotFound
	}
	if txn.Status != domain.StatusSuccess {
		return nil, ErrNotSuccessful
	}
	if txn.Fulfilled {
		return nil, ErrAlreadyFulfilled
	}

	updated, err := s.Fulfil(ctx, txn, &adminID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrCannotFulfil
	}

	s.effects.TransactionFulfilled(updated)
	return updated, nil
}

func (s *TransactionService) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	txn, err := s.trx.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, ErrTransactionNotFound
	}
	return txn, nil
}

func (s *TransactionService) GetTransactionMedia(ctx context.Context, transactionID string) (*domain.ExternalVerificationMedia, error) {
	return s.media.GetByTransactionID(ctx, transactionID)
}

// SearchTransactions rewrites logical timestamp field names to their
// physical indexed names and delegates to the search boundary.
func (s *TransactionService) SearchTransactions(ctx context.Context, p search.Params) (*search.Result, error) {
	if s.index == nil {
		return nil, search.ErrIndexUnavailable
	}
	return s.index.Search(ctx, search.RewriteParams(p))
}

func formatAmount(amount float64, currency string) string {
	return fmt.Sprintf("%s %.2f", strings.ToUpper(currency), amount)
}

// sentenceCase uppercases the first letter of each word of a name.
func sentenceCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
