package repository

import (
	"context"
	"time"

	"tutorpay/internal/domain"

	"github.com/jackc/pgx/v5"
)

// WalletOp is the argument every wallet operation takes. The pgx.Tx is
// the caller's atomic unit: the wallet write and the transaction-record
// write commit or roll back together.
type WalletOp struct {
	Amount    float64
	UserID    string
	UserType  domain.UserType
	Reference string
}

// Transactions is the transaction store. All state transitions are
// conditional updates: the predicate carries the expected prior state,
// and a no-match means a concurrent caller won the race. No-match is
// reported as (nil, nil), never as an error.
type Transactions interface {
	Create(ctx context.Context, txn *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	GetByReference(ctx context.Context, reference string) (*domain.Transaction, error)
	GetPendingByReference(ctx context.Context, reference string) (*domain.Transaction, error)
	ReferenceExists(ctx context.Context, reference string) (bool, error)

	// MarkVerified moves pending -> status, keyed on status=pending.
	MarkVerified(ctx context.Context, reference string, status domain.TransactionStatus, auto bool, adminID *string) (*domain.Transaction, error)

	// MarkFulfilled flips fulfilled, keyed on status=success AND
	// fulfilled=false. Runs inside the caller's transaction handle.
	MarkFulfilled(ctx context.Context, tx pgx.Tx, reference string, balanceAfter float64, wallet *domain.Wallet, adminID *string) (*domain.Transaction, error)

	// WithTx runs fn inside a single database transaction.
	WithTx(ctx context.Context, fn func(pgx.Tx) error) error
}

// Wallets is the wallet collaborator boundary: five named operations,
// each returning the post-operation snapshot. Balance arithmetic lives
// behind this interface, not in the engine.
type Wallets interface {
	Get(ctx context.Context, userID string) (*domain.Wallet, error)
	TopUp(ctx context.Context, tx pgx.Tx, op WalletOp) (*domain.Wallet, error)
	AwardBonus(ctx context.Context, tx pgx.Tx, op WalletOp) (*domain.Wallet, error)
	LoadOverdraft(ctx context.Context, tx pgx.Tx, op WalletOp) (*domain.Wallet, error)
	UnloadOverdraft(ctx context.Context, tx pgx.Tx, op WalletOp) (*domain.Wallet, error)
	ExternalTransfer(ctx context.Context, tx pgx.Tx, op WalletOp) (*domain.Wallet, error)
}

type Users interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetActiveAdmins(ctx context.Context) ([]*domain.User, error)
}

type Media interface {
	Create(ctx context.Context, m *domain.ExternalVerificationMedia) error
	GetByTransactionID(ctx context.Context, transactionID string) (*domain.ExternalVerificationMedia, error)
}

// EarningsRow is one fulfilled tuition transaction joined with its
// session's tutee and its engagement, as consumed by the aggregator.
type EarningsRow struct {
	Amount         float64
	Type           domain.TransactionType
	Currency       string
	Engagement     domain.Engagement
	TuteeFirstName string
	TuteeLastName  string
}

type Earnings interface {
	TutorRows(ctx context.Context, userID string, from, to time.Time) ([]EarningsRow, error)
}
