package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"tutorpay/internal/domain"
	"tutorpay/internal/notify"
	"tutorpay/internal/provider"
	"tutorpay/internal/repository"
	"tutorpay/internal/sideeffect"
	"tutorpay/internal/worker"

	"github.com/jackc/pgx/v5"
)

// fakeLedger implements repository.Transactions and repository.Wallets
// in memory, with the same conditional-update semantics as the SQL
// store. WithTx snapshots state and restores it when fn errors.
type fakeLedger struct {
	mu      sync.Mutex
	byRef   map[string]*domain.Transaction
	wallets map[string]*domain.Wallet
	nextID  int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		byRef:   make(map[string]*domain.Transaction),
		wallets: make(map[string]*domain.Wallet),
	}
}

func (f *fakeLedger) Create(_ context.Context, txn *domain.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byRef[txn.Reference]; ok {
		return errors.New("duplicate reference")
	}
	if txn.ID == "" {
		f.nextID++
		txn.ID = "txn-" + strconv.Itoa(f.nextID)
	}
	txn.CreatedAt = time.Now()
	txn.UpdatedAt = txn.CreatedAt
	cp := *txn
	f.byRef[txn.Reference] = &cp
	return nil
}

func (f *fakeLedger) GetByID(_ context.Context, id string) (*domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.byRef {
		if t.ID == id {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeLedger) GetByReference(_ context.Context, reference string) (*domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.byRef[reference]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (f *fakeLedger) GetPendingByReference(_ context.Context, reference string) (*domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.byRef[reference]
	if !ok || t.Status != domain.StatusPending {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (f *fakeLedger) ReferenceExists(_ context.Context, reference string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.byRef[reference]
	return ok, nil
}

func (f *fakeLedger) MarkVerified(_ context.Context, reference string, status domain.TransactionStatus, auto bool, adminID *string) (*domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.byRef[reference]
	if !ok || t.Status != domain.StatusPending {
		return nil, nil
	}
	now := time.Now()
	t.Status = status
	t.AutoVerified = auto
	t.VerifiedBy = adminID
	t.VerifiedAt = &now
	t.UpdatedAt = now
	cp := *t
	return &cp, nil
}

func (f *fakeLedger) MarkFulfilled(_ context.Context, _ pgx.Tx, reference string, balanceAfter float64, wallet *domain.Wallet, adminID *string) (*domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.byRef[reference]
	if !ok || t.Status != domain.StatusSuccess || t.Fulfilled {
		return nil, nil
	}
	now := time.Now()
	t.Fulfilled = true
	t.AutoFulfilled = adminID == nil
	t.FulfilledBy = adminID
	t.BalanceAfter = &balanceAfter
	t.WalletAfter = wallet
	t.FulfilledAt = &now
	t.UpdatedAt = now
	cp := *t
	return &cp, nil
}

func (f *fakeLedger) WithTx(_ context.Context, fn func(pgx.Tx) error) error {
	f.mu.Lock()
	walletSnap := make(map[string]*domain.Wallet, len(f.wallets))
	for k, v := range f.wallets {
		cp := *v
		walletSnap[k] = &cp
	}
	txnSnap := make(map[string]*domain.Transaction, len(f.byRef))
	for k, v := range f.byRef {
		cp := *v
		txnSnap[k] = &cp
	}
	f.mu.Unlock()

	if err := fn(nil); err != nil {
		f.mu.Lock()
		f.wallets = walletSnap
		f.byRef = txnSnap
		f.mu.Unlock()
		return err
	}
	return nil
}

func (f *fakeLedger) Get(_ context.Context, userID string) (*domain.Wallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.wallets[userID]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (f *fakeLedger) wallet(userID string) (*domain.Wallet, error) {
	w, ok := f.wallets[userID]
	if !ok {
		return nil, repository.ErrWalletNotFound
	}
	return w, nil
}

func (f *fakeLedger) snapshot(w *domain.Wallet) *domain.Wallet {
	cp := *w
	return &cp
}

func (f *fakeLedger) TopUp(_ context.Context, _ pgx.Tx, op repository.WalletOp) (*domain.Wallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.wallet(op.UserID)
	if err != nil {
		return nil, err
	}
	w.Balance += op.Amount
	return f.snapshot(w), nil
}

func (f *fakeLedger) AwardBonus(_ context.Context, _ pgx.Tx, op repository.WalletOp) (*domain.Wallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.wallet(op.UserID)
	if err != nil {
		return nil, err
	}
	w.Bonus += op.Amount
	return f.snapshot(w), nil
}

func (f *fakeLedger) LoadOverdraft(_ context.Context, _ pgx.Tx, op repository.WalletOp) (*domain.Wallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.wallet(op.UserID)
	if err != nil {
		return nil, err
	}
	w.Balance += op.Amount
	w.Overdraft += op.Amount
	return f.snapshot(w), nil
}

func (f *fakeLedger) UnloadOverdraft(_ context.Context, _ pgx.Tx, op repository.WalletOp) (*domain.Wallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.wallet(op.UserID)
	if err != nil {
		return nil, err
	}
	if w.Overdraft < op.Amount {
		return nil, repository.ErrInsufficientFunds
	}
	w.Balance -= op.Amount
	w.Overdraft -= op.Amount
	return f.snapshot(w), nil
}

func (f *fakeLedger) ExternalTransfer(_ context.Context, _ pgx.Tx, op repository.WalletOp) (*domain.Wallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.wallet(op.UserID)
	if err != nil {
		return nil, err
	}
	if op.UserType == domain.UserTutor {
		if w.Earnings < op.Amount {
			return nil, repository.ErrInsufficientFunds
		}
		w.Earnings -= op.Amount
	} else {
		if w.Balance < op.Amount {
			return nil, repository.ErrInsufficientFunds
		}
		w.Balance -= op.Amount
	}
	return f.snapshot(w), nil
}

type fakeMedia struct {
	mu    sync.Mutex
	saved []*domain.ExternalVerificationMedia
}

func (m *fakeMedia) Create(_ context.Context, media *domain.ExternalVerificationMedia) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, media)
	return nil
}

func (m *fakeMedia) GetByTransactionID(_ context.Context, transactionID string) (*domain.ExternalVerificationMedia, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.saved {
		if s.TransactionID == transactionID {
			return s, nil
		}
	}
	return nil, nil
}

type fakeNotifyQueue struct {
	mu   sync.Mutex
	sent []notify.Notification
}

func (q *fakeNotifyQueue) Enqueue(_ context.Context, n notify.Notification) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.sent = append(q.sent, n)
	return nil
}

type fakeAdmins struct{}

func (fakeAdmins) GetActiveAdmins(context.Context) ([]*domain.User, error) {
	return []*domain.User{
		{ID: "admin-1", PrimaryEmail: "ops@example.com", Role: domain.RoleAdmin, IsActive: true},
	}, nil
}

type fakeVerifier struct {
	status domain.TransactionStatus
	err    error
}

func (v fakeVerifier) Verify(context.Context, string) (domain.TransactionStatus, error) {
	return v.status, v.err
}

type testEnv struct {
	ledger   *fakeLedger
	media    *fakeMedia
	notices  *fakeNotifyQueue
	pool     *worker.Pool
	registry *provider.Registry
	svc      *TransactionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ledger := newFakeLedger()
	media := &fakeMedia{}
	notices := &fakeNotifyQueue{}
	pool := worker.NewPool(1)
	registry := provider.NewRegistry()

	effects := sideeffect.NewPropagator(pool, nil, notices, fakeAdmins{}, nil, time.Second)
	refs := NewReferenceGenerator(ledger, 8)
	svc := NewTransactionService(ledger, ledger, media, refs, registry, effects, nil, time.Second)

	return &testEnv{
		ledger:   ledger,
		media:    media,
		notices:  notices,
		pool:     pool,
		registry: registry,
		svc:      svc,
	}
}

// drain waits for queued side effects. One-shot per env.
func (e *testEnv) drain() {
	e.pool.Stop()
}

func (e *testEnv) seedWallet(userID string, w domain.Wallet) {
	w.UserID = userID
	e.ledger.wallets[userID] = &w
}

func (e *testEnv) seedTxn(t *testing.T, reference string, status domain.TransactionStatus, mut func(*domain.Transaction)) *domain.Transaction {
	t.Helper()
	txn := &domain.Transaction{
		Reference: reference,
		UserID:    "user-1",
		UserType:  domain.UserClient,
		FirstName: "ada",
		LastName:  "obi",
		Email:     "ada@example.com",
		Amount:    250,
		Currency:  "NGN",
		Scope:     domain.ScopeWallet,
		Type:      domain.TypeCredit,
		Channel:   domain.ChannelPaystack,
		Status:    domain.StatusPending,
	}
	if mut != nil {
		mut(txn)
	}
	if err := e.ledger.Create(context.Background(), txn); err != nil {
		t.Fatalf("seed transaction: %v", err)
	}
	if status != domain.StatusPending {
		updated, err := e.ledger.MarkVerified(context.Background(), reference, status, true, nil)
		if err != nil || updated == nil {
			t.Fatalf("seed status transition failed: %v", err)
		}
		return updated
	}
	return txn
}

func TestAutoVerifyFulfilsWalletTopUp(t *testing.T) {
	env := newTestEnv(t)
	env.seedWallet("user-1", domain.Wallet{Balance: 100})
	env.seedTxn(t, "WTU-AAAA0001", domain.StatusPending, nil)

	got, err := env.svc.AutoVerify(context.Background(), "WTU-AAAA0001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatal("expected a fulfilled transaction")
	}
	if got.Status != domain.StatusSuccess {
		t.Errorf("status = %s, want success", got.Status)
	}
	if !got.Fulfilled || !got.AutoFulfilled || !got.AutoVerified {
		t.Errorf("flags = fulfilled:%v autoFulfilled:%v autoVerified:%v, want all true",
			got.Fulfilled, got.AutoFulfilled, got.AutoVerified)
	}
	if got.BalanceAfter == nil || *got.BalanceAfter != 350 {
		t.Errorf("balance_after = %v, want 350", got.BalanceAfter)
	}

	w, _ := env.ledger.Get(context.Background(), "user-1")
	if w.Balance != 350 {
		t.Errorf("wallet balance = %v, want 350", w.Balance)
	}

	env.drain()
	if len(env.notices.sent) != 1 {
		t.Fatalf("admin notices = %d, want 1", len(env.notices.sent))
	}
	n := env.notices.sent[0]
	if n.Title != "A client just loaded their wallet" {
		t.Errorf("notice title = %q", n.Title)
	}
	if n.Body != "Obi Ada just added NGN 250.00 to their wallet" {
		t.Errorf("notice body = %q", n.Body)
	}
	if n.RecipientEmail != "ops@example.com" {
		t.Errorf("notice recipient = %q", n.RecipientEmail)
	}
}

func TestAutoVerifyMissingReferenceIsNoOp(t *testing.T) {
	env := newTestEnv(t)

	got, err := env.svc.AutoVerify(context.Background(), "WTU-DOESNOTEXIST")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("got %+v, want nil", got)
	}
}

func TestAutoVerifyAlreadySettledIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	env.seedWallet("user-1", domain.Wallet{})
	env.seedTxn(t, "BON-AAAA0002", domain.StatusExpired, nil)

	got, err := env.svc.AutoVerify(context.Background(), "BON-AAAA0002")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("got %+v, want nil", got)
	}
}

func TestFulfilIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	env.seedWallet("user-1", domain.Wallet{Balance: 100})
	txn := env.seedTxn(t, "WTU-AAAA0003", domain.StatusSuccess, nil)

	first, err := env.svc.Fulfil(context.Background(), txn, nil)
	if err != nil || first == nil {
		t.Fatalf("first fulfilment failed: %v %v", first, err)
	}

	second, err := env.svc.Fulfil(context.Background(), txn, nil)
	if err != nil {
		t.Fatalf("second fulfilment errored: %v", err)
	}
	if second != nil {
		t.Fatal("second fulfilment should be a no-op")
	}

	w, _ := env.ledger.Get(context.Background(), "user-1")
	if w.Balance != 350 {
		t.Errorf("wallet credited twice: balance = %v, want 350", w.Balance)
	}
}

func TestFulfilRequiresSuccess(t *testing.T) {
	env := newTestEnv(t)
	env.seedWallet("user-1", domain.Wallet{Balance: 100})
	txn := env.seedTxn(t, "WTU-AAAA0004", domain.StatusPending, nil)

	got, err := env.svc.Fulfil(context.Background(), txn, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatal("pending transaction must not fulfil")
	}

	w, _ := env.ledger.Get(context.Background(), "user-1")
	if w.Balance != 100 {
		t.Errorf("wallet touched: balance = %v, want 100", w.Balance)
	}
}

func TestFulfilUnknownPrefixIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	env.seedWallet("user-1", domain.Wallet{Balance: 100})
	txn := env.seedTxn(t, "ZZZ-AAAA0005", domain.StatusSuccess, nil)

	got, err := env.svc.Fulfil(context.Background(), txn, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatal("unknown prefix must not fulfil")
	}

	stored, _ := env.ledger.GetByReference(context.Background(), "ZZZ-AAAA0005")
	if stored.Fulfilled {
		t.Error("record marked fulfilled without a wallet action")
	}
}

func TestFulfilPrefixDispatch(t *testing.T) {
	cases := []struct {
		name      string
		reference string
		userType  domain.UserType
		seed      domain.Wallet
		check     func(t *testing.T, w *domain.Wallet)
	}{
		{
			name:      "top up credits balance",
			reference: "WTU-B0000001",
			userType:  domain.UserClient,
			seed:      domain.Wallet{Balance: 10},
			check: func(t *testing.T, w *domain.Wallet) {
				if w.Balance != 260 {
					t.Errorf("balance = %v, want 260", w.Balance)
				}
			},
		},
		{
			name:      "bonus credits bonus",
			reference: "BON-B0000002",
			userType:  domain.UserClient,
			seed:      domain.Wallet{Bonus: 5},
			check: func(t *testing.T, w *domain.Wallet) {
				if w.Bonus != 255 {
					t.Errorf("bonus = %v, want 255", w.Bonus)
				}
			},
		},
		{
			name:      "overdraft load raises balance and overdraft",
			reference: "ODL-B0000003",
			userType:  domain.UserClient,
			seed:      domain.Wallet{},
			check: func(t *testing.T, w *domain.Wallet) {
				if w.Balance != 250 || w.Overdraft != 250 {
					t.Errorf("balance/overdraft = %v/%v, want 250/250", w.Balance, w.Overdraft)
				}
			},
		},
		{
			name:      "overdraft unload lowers both",
			reference: "ODU-B0000004",
			userType:  domain.UserClient,
			seed:      domain.Wallet{Balance: 400, Overdraft: 300},
			check: func(t *testing.T, w *domain.Wallet) {
				if w.Balance != 150 || w.Overdraft != 50 {
					t.Errorf("balance/overdraft = %v/%v, want 150/50", w.Balance, w.Overdraft)
				}
			},
		},
		{
			name:      "transfer debits tutor earnings",
			reference: "TRF-B0000005",
			userType:  domain.UserTutor,
			seed:      domain.Wallet{Earnings: 400},
			check: func(t *testing.T, w *domain.Wallet) {
				if w.Earnings != 150 {
					t.Errorf("earnings = %v, want 150", w.Earnings)
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.seedWallet("user-1", tc.seed)
			txn := env.seedTxn(t, tc.reference, domain.StatusSuccess, func(x *domain.Transaction) {
				x.UserType = tc.userType
			})

			got, err := env.svc.Fulfil(context.Background(), txn, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got == nil || !got.Fulfilled {
				t.Fatal("expected fulfilment")
			}

			w, _ := env.ledger.Get(context.Background(), "user-1")
			tc.check(t, w)
		})
	}
}

func TestFulfilRollsBackWalletOnGuardFailure(t *testing.T) {
	env := newTestEnv(t)
	env.seedWallet("user-1", domain.Wallet{Balance: 50})
	txn := env.seedTxn(t, "TRF-C0000001", domain.StatusSuccess, nil)

	_, err := env.svc.Fulfil(context.Background(), txn, nil)
	if !errors.Is(err, repository.ErrInsufficientFunds) {
		t.Fatalf("got %v, want ErrInsufficientFunds", err)
	}

	stored, _ := env.ledger.GetByReference(context.Background(), "TRF-C0000001")
	if stored.Fulfilled {
		t.Error("record marked fulfilled after failed wallet op")
	}
	w, _ := env.ledger.Get(context.Background(), "user-1")
	if w.Balance != 50 {
		t.Errorf("balance = %v, want 50", w.Balance)
	}
}

func TestManualVerifyStillPending(t *testing.T) {
	env := newTestEnv(t)
	env.registry.Register(domain.ChannelPaystack, fakeVerifier{status: domain.StatusPending})
	env.seedTxn(t, "WTU-D0000001", domain.StatusPending, nil)

	_, err := env.svc.ManualVerify(context.Background(), "WTU-D0000001", "admin-1")
	if !errors.Is(err, ErrNothingNew) {
		t.Fatalf("got %v, want ErrNothingNew", err)
	}
}

func TestManualVerifyExpired(t *testing.T) {
	env := newTestEnv(t)
	env.registry.Register(domain.ChannelPaystack, fakeVerifier{status: domain.StatusExpired})
	env.seedWallet("user-1", domain.Wallet{})
	env.seedTxn(t, "WTU-D0000002", domain.StatusPending, nil)

	got, err := env.svc.ManualVerify(context.Background(), "WTU-D0000002", "admin-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != domain.StatusExpired {
		t.Errorf("status = %s, want expired", got.Status)
	}
	if got.AutoVerified {
		t.Error("manual verification must not set auto_verified")
	}
	if got.VerifiedBy == nil || *got.VerifiedBy != "admin-1" {
		t.Errorf("verified_by = %v, want admin-1", got.VerifiedBy)
	}

	w, _ := env.ledger.Get(context.Background(), "user-1")
	if w.Balance != 0 {
		t.Error("expired transaction moved money")
	}
}

func TestManualVerifyNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.ManualVerify(context.Background(), "WTU-MISSING", "admin-1")
	if !errors.Is(err, ErrTransactionNotFound) {
		t.Fatalf("got %v, want ErrTransactionNotFound", err)
	}
}

func TestManualVerifyAlreadySettled(t *testing.T) {
	env := newTestEnv(t)
	env.seedWallet("user-1", domain.Wallet{})
	env.seedTxn(t, "WTU-D0000003", domain.StatusSuccess, nil)

	_, err := env.svc.ManualVerify(context.Background(), "WTU-D0000003", "admin-1")
	if !errors.Is(err, ErrNothingNew) {
		t.Fatalf("got %v, want ErrNothingNew", err)
	}
}

func TestManualFulfilStateErrors(t *testing.T) {
	env := newTestEnv(t)
	env.seedWallet("user-1", domain.Wallet{})
	env.seedTxn(t, "WTU-E0000001", domain.StatusPending, nil)
	fulfilled := env.seedTxn(t, "WTU-E0000002", domain.StatusSuccess, nil)
	if _, err := env.svc.Fulfil(context.Background(), fulfilled, nil); err != nil {
		t.Fatalf("setup fulfilment failed: %v", err)
	}

	if _, err := env.svc.ManualFulfil(context.Background(), "WTU-MISSING", "admin-1"); !errors.Is(err, ErrTransactionNotFound) {
		t.Errorf("missing: got %v, want ErrTransactionNotFound", err)
	}
	if _, err := env.svc.ManualFulfil(context.Background(), "WTU-E0000001", "admin-1"); !errors.Is(err, ErrNotSuccessful) {
		t.Errorf("pending: got %v, want ErrNotSuccessful", err)
	}
	if _, err := env.svc.ManualFulfil(context.Background(), "WTU-E0000002", "admin-1"); !errors.Is(err, ErrAlreadyFulfilled) {
		t.Errorf("fulfilled: got %v, want ErrAlreadyFulfilled", err)
	}
}

func TestManualFulfilRecordsAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.seedWallet("user-1", domain.Wallet{})
	env.seedTxn(t, "BON-F0000001", domain.StatusSuccess, nil)

	got, err := env.svc.ManualFulfil(context.Background(), "BON-F0000001", "admin-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.AutoFulfilled {
		t.Error("manual fulfilment must not set auto_fulfilled")
	}
	if got.FulfilledBy == nil || *got.FulfilledBy != "admin-1" {
		t.Errorf("fulfilled_by = %v, want admin-1", got.FulfilledBy)
	}

	env.drain()
	if len(env.notices.sent) != 0 {
		t.Error("manual fulfilment must not page admins")
	}
}

func TestConcurrentAutoVerifyCreditsOnce(t *testing.T) {
	env := newTestEnv(t)
	env.seedWallet("user-1", domain.Wallet{})
	env.seedTxn(t, "WTU-G0000001", domain.StatusPending, nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = env.svc.AutoVerify(context.Background(), "WTU-G0000001")
		}()
	}
	wg.Wait()

	w, _ := env.ledger.Get(context.Background(), "user-1")
	if w.Balance != 250 {
		t.Fatalf("balance = %v, want exactly one credit of 250", w.Balance)
	}
}

func TestInitTransactionCreatesPending(t *testing.T) {
	env := newTestEnv(t)

	res, err := env.svc.InitTransaction(context.Background(), InitParams{
		UserID:          "user-1",
		UserType:        domain.UserClient,
		FirstName:       "ada",
		LastName:        "obi",
		Email:           "ada@example.com",
		Amount:          99.999,
		Currency:        "NGN",
		Scope:           domain.ScopeWallet,
		Type:            domain.TypeCredit,
		Channel:         domain.ChannelPaystack,
		ReferencePrefix: domain.PrefixWalletTopUp,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	txn := res.Transaction
	if txn.Status != domain.StatusPending {
		t.Errorf("status = %s, want pending", txn.Status)
	}
	if txn.Amount != 100 {
		t.Errorf("amount = %v, want rounded 100", txn.Amount)
	}
	stored, _ := env.ledger.GetByReference(context.Background(), txn.Reference)
	if stored == nil {
		t.Fatal("transaction not persisted")
	}
}

func TestAddExternalTransactionSavesMediaFirst(t *testing.T) {
	env := newTestEnv(t)

	txn, err := env.svc.AddExternalTransaction(context.Background(), ExternalParams{
		InitParams: InitParams{
			UserID:          "user-1",
			UserType:        domain.UserClient,
			FirstName:       "ada",
			LastName:        "obi",
			Email:           "ada@example.com",
			Amount:          500,
			Currency:        "NGN",
			Scope:           domain.ScopeTuition,
			Type:            domain.TypeCredit,
			ReferencePrefix: domain.PrefixExternal,
		},
		Media: []string{"https://cdn.example.com/proof.png"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if txn.Channel != domain.ChannelExternal {
		t.Errorf("channel = %s, want external", txn.Channel)
	}
	media, _ := env.media.GetByTransactionID(context.Background(), txn.ID)
	if media == nil {
		t.Fatal("media not linked to the pre-allocated transaction id")
	}
	if media.TransactionID != txn.ID {
		t.Errorf("media transaction id = %s, want %s", media.TransactionID, txn.ID)
	}
}

func TestSentenceCase(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"obi ada", "Obi Ada"},
		{"OBI ADA", "Obi Ada"},
		{"édith nwosu", "Édith Nwosu"},
		{"  obi   ada  ", "Obi Ada"},
		{"", ""},
	}
	for _, c := range cases {
		if got := sentenceCase(c.in); got != c.want {
			t.Errorf("sentenceCase(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
