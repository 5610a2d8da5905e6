package repository

import (
	"context"
	"errors"

	"tutorpay/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MediaRepository stores proof-of-payment attachments for external
// transactions. The media row is written before the transaction it
// documents, against the pre-allocated transaction id.
type MediaRepository struct {
	db *pgxpool.Pool
}

func NewMediaRepository(db *pgxpool.Pool) *MediaRepository {
	return &MediaRepository{db: db}
}

func (r *MediaRepository) Create(ctx context.Context, m *domain.ExternalVerificationMedia) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO external_verification_media (transaction_id, media)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, m.TransactionID, m.Media).Scan(&m.ID, &m.CreatedAt)
}

func (r *MediaRepository) GetByTransactionID(ctx context.Context, transactionID string) (*domain.ExternalVerificationMedia, error) {
	var m domain.ExternalVerificationMedia
	err := r.db.QueryRow(ctx, `
		SELECT id, transaction_id, media, created_at
		FROM external_verification_media
		WHERE transaction_id = $1
	`, transactionID).Scan(&m.ID, &m.TransactionID, &m.Media, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}
