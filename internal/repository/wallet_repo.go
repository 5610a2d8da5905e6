package repository

import (
	"context"
	"errors"

	"tutorpay/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrWalletNotFound    = errors.New("wallet not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("invalid amount")
)

const walletColumns = `id, user_id, user_type, currency, balance, bonus, overdraft, earnings, updated_at`

// WalletRepository implements the wallet collaborator boundary. Every
// mutating operation takes the caller's pgx.Tx so the wallet write and
// the fulfilled-flag write share one atomic unit.
type WalletRepository struct {
	db *pgxpool.Pool
}

func NewWalletRepository(db *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{db: db}
}

func (r *WalletRepository) Get(ctx context.Context, userID string) (*domain.Wallet, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+walletColumns+` FROM wallets WHERE user_id = $1`, userID)
	return scanWallet(row)
}

// TopUp credits the spendable balance.
func (r *WalletRepository) TopUp(ctx context.Context, tx pgx.Tx, op WalletOp) (*domain.Wallet, error) {
	if op.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	row := tx.QueryRow(ctx, `
		UPDATE wallets SET balance = balance + $1, updated_at = now()
		WHERE user_id = $2
		RETURNING `+walletColumns,
		op.Amount, op.UserID)
	return scanWalletStrict(row)
}

// AwardBonus credits the bonus bucket.
func (r *WalletRepository) AwardBonus(ctx context.Context, tx pgx.Tx, op WalletOp) (*domain.Wallet, error) {
	if op.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	row := tx.QueryRow(ctx, `
		UPDATE wallets SET bonus = bonus + $1, updated_at = now()
		WHERE user_id = $2
		RETURNING `+walletColumns,
		op.Amount, op.UserID)
	return scanWalletStrict(row)
}

// LoadOverdraft grants spendable credit backed by an overdraft line.
func (r *WalletRepository) LoadOverdraft(ctx context.Context, tx pgx.Tx, op WalletOp) (*domain.Wallet, error) {
	if op.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	row := tx.QueryRow(ctx, `
		UPDATE wallets
		SET balance = balance + $1, overdraft = overdraft + $1, updated_at = now()
		WHERE user_id = $2
		RETURNING `+walletColumns,
		op.Amount, op.UserID)
	return scanWalletStrict(row)
}

// UnloadOverdraft pays an overdraft line back down. The predicate keeps
// the line from going negative.
func (r *WalletRepository) UnloadOverdraft(ctx context.Context, tx pgx.Tx, op WalletOp) (*domain.Wallet, error) {
	if op.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	row := tx.QueryRow(ctx, `
		UPDATE wallets
		SET balance = balance - $1, overdraft = overdraft - $1, updated_at = now()
		WHERE user_id = $2 AND overdraft >= $1
		RETURNING `+walletColumns,
		op.Amount, op.UserID)

	w, err := scanWallet(row)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, r.noRowReason(ctx, tx, op.UserID)
	}
	return w, nil
}

// ExternalTransfer debits money that left the platform: a tutor payout
// comes out of earnings, a client refund out of the spendable balance.
func (r *WalletRepository) ExternalTransfer(ctx context.Context, tx pgx.Tx, op WalletOp) (*domain.Wallet, error) {
	if op.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var row pgx.Row
	if op.UserType == domain.UserTutor {
		row = tx.QueryRow(ctx, `
			UPDATE wallets SET earnings = earnings - $1, updated_at = now()
			WHERE user_id = $2 AND earnings >= $1
			RETURNING `+walletColumns,
			op.Amount, op.UserID)
	} else {
		row = tx.QueryRow(ctx, `
			UPDATE wallets SET balance = balance - $1, updated_at = now()
			WHERE user_id = $2 AND balance >= $1
			RETURNING `+walletColumns,
			op.Amount, op.UserID)
	}

	w, err := scanWallet(row)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, r.noRowReason(ctx, tx, op.UserID)
	}
	return w, nil
}

// noRowReason tells a missing wallet apart from a failed funds check.
func (r *WalletRepository) noRowReason(ctx context.Context, tx pgx.Tx, userID string) error {
	var exists bool
	_ = tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM wallets WHERE user_id = $1)`, userID).Scan(&exists)
	if !exists {
		return ErrWalletNotFound
	}
	return ErrInsufficientFunds
}

func scanWallet(row pgx.Row) (*domain.Wallet, error) {
	var w domain.Wallet
	err := row.Scan(&w.ID, &w.UserID, &w.UserType, &w.Currency,
		&w.Balance, &w.Bonus, &w.Overdraft, &w.Earnings, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}

func scanWalletStrict(row pgx.Row) (*domain.Wallet, error) {
	w, err := scanWallet(row)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, ErrWalletNotFound
	}
	return w, nil
}
