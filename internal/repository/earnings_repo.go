package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EarningsRepository feeds the earnings aggregator: fulfilled
// tuition-scoped tutor transactions joined with the session that earned
// them and the engagement they belong to. Read-only.
type EarningsRepository struct {
	db *pgxpool.Pool
}

func NewEarningsRepository(db *pgxpool.Pool) *EarningsRepository {
	return &EarningsRepository{db: db}
}

// TutorRows returns rows ordered by engagement end date then start
// date, both descending, matching the breakdown's display order.
func (r *EarningsRepository) TutorRows(ctx context.Context, userID string, from, to time.Time) ([]EarningsRow, error) {
	rows, err := r.db.Query(ctx, `
		SELECT t.amount, t.type, t.currency,
		       e.id, e.status, e.type,
		       e.subjects, e.languages, e.exam, e.skills, e.activities, e.special_needs,
		       e.start_date, e.end_date,
		       w.first_name, w.last_name
		FROM transactions t
		JOIN sessions s    ON s.id = t.session_id
		                  AND s.start_at >= $2 AND s.start_at <= $3
		JOIN engagements e ON e.id = t.engagement_id
		JOIN tutees w      ON w.id = s.tutee_id
		WHERE t.user_id = $1
		  AND t.user_type = 'tutor'
		  AND t.fulfilled
		  AND t.scope = 'tuition'
		ORDER BY e.end_date DESC, e.start_date DESC
	`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EarningsRow
	for rows.Next() {
		var row EarningsRow
		if err := rows.Scan(
			&row.Amount, &row.Type, &row.Currency,
			&row.Engagement.ID, &row.Engagement.Status, &row.Engagement.Type,
			&row.Engagement.Subjects, &row.Engagement.Languages, &row.Engagement.Exam,
			&row.Engagement.Skills, &row.Engagement.Activities, &row.Engagement.SpecialNeeds,
			&row.Engagement.StartDate, &row.Engagement.EndDate,
			&row.TuteeFirstName, &row.TuteeLastName,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
