package repository

import (
	"context"
	"encoding/json"
	"errors"

	"tutorpay/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionColumns = `
	id, reference, user_id, user_type, first_name, last_name, email,
	amount, currency, discount_percent, discount_amount, narration,
	scope, type, channel, session_id, engagement_id,
	status, fulfilled, auto_verified, auto_fulfilled,
	verified_by, fulfilled_by, balance_after, wallet_after,
	verified_at, fulfilled_at, created_at, updated_at`

type TransactionRepository struct {
	db *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create inserts a new pending transaction. The unique index on
// reference is the hard uniqueness guarantee; the generator's lookup
// loop only keeps collisions rare.
func (r *TransactionRepository) Create(ctx context.Context, txn *domain.Transaction) error {
	if txn.Status == "" {
		txn.Status = domain.StatusPending
	}

	var id any
	if txn.ID != "" {
		// pre-allocated id (external transactions with media)
		id = txn.ID
	}

	return r.db.QueryRow(ctx, `
		INSERT INTO transactions (
			id, reference, user_id, user_type, first_name, last_name, email,
			amount, currency, discount_percent, discount_amount, narration,
			scope, type, channel, session_id, engagement_id, status
		)
		VALUES (
			COALESCE($1::uuid, gen_random_uuid()), $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18
		)
		RETURNING id, created_at, updated_at
	`,
		id, txn.Reference, txn.UserID, txn.UserType, txn.FirstName, txn.LastName, txn.Email,
		txn.Amount, txn.Currency, txn.DiscountPercent, txn.DiscountAmount, txn.Narration,
		txn.Scope, txn.Type, txn.Channel, txn.SessionID, txn.EngagementID, txn.Status,
	).Scan(&txn.ID, &txn.CreatedAt, &txn.UpdatedAt)
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id)
	return scanTransaction(row)
}

func (r *TransactionRepository) GetByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE reference = $1`, reference)
	return scanTransaction(row)
}

func (r *TransactionRepository) GetPendingByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE reference = $1 AND status = 'pending'`,
		reference)
	return scanTransaction(row)
}

func (r *TransactionRepository) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM transactions WHERE reference = $1)`, reference).Scan(&exists)
	return exists, err
}

// MarkVerified is the pending -> success|expired transition. The WHERE
// clause carries the expected prior state, so two concurrent verifiers
// race safely: one row for the winner, no rows for the loser.
func (r *TransactionRepository) MarkVerified(ctx context.Context, reference string, status domain.TransactionStatus, auto bool, adminID *string) (*domain.Transaction, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE transactions
		SET status = $2, verified_at = now(), auto_verified = $3,
		    verified_by = $4, updated_at = now()
		WHERE reference = $1 AND status = 'pending'
		RETURNING `+transactionColumns,
		reference, status, auto, adminID)
	return scanTransaction(row)
}

// MarkFulfilled flips the fulfilled flag inside the caller's database
// transaction, keyed on status=success AND fulfilled=false. The wallet
// write in the same tx therefore never commits without this row.
func (r *TransactionRepository) MarkFulfilled(ctx context.Context, tx pgx.Tx, reference string, balanceAfter float64, wallet *domain.Wallet, adminID *string) (*domain.Transaction, error) {
	snapshot, err := json.Marshal(wallet)
	if err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, `
		UPDATE transactions
		SET fulfilled = TRUE, fulfilled_at = now(), balance_after = $2,
		    wallet_after = $3, auto_fulfilled = $4, fulfilled_by = $5,
		    updated_at = now()
		WHERE reference = $1 AND status = 'success' AND fulfilled = FALSE
		RETURNING `+transactionColumns,
		reference, balanceAfter, snapshot, adminID == nil, adminID)
	return scanTransaction(row)
}

// WithTx runs fn inside a single database transaction with rollback on
// error and on panic-free early returns.
func (r *TransactionRepository) WithTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		t           domain.Transaction
		walletAfter []byte
	)

	err := row.Scan(
		&t.ID, &t.Reference, &t.UserID, &t.UserType, &t.FirstName, &t.LastName, &t.Email,
		&t.Amount, &t.Currency, &t.DiscountPercent, &t.DiscountAmount, &t.Narration,
		&t.Scope, &t.Type, &t.Channel, &t.SessionID, &t.EngagementID,
		&t.Status, &t.Fulfilled, &t.AutoVerified, &t.AutoFulfilled,
		&t.VerifiedBy, &t.FulfilledBy, &t.BalanceAfter, &walletAfter,
		&t.VerifiedAt, &t.FulfilledAt, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if len(walletAfter) > 0 {
		var w domain.Wallet
		if err := json.Unmarshal(walletAfter, &w); err == nil {
			t.WalletAfter = &w
		}
	}

	return &t, nil
}
