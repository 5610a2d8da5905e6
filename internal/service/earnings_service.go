package service

import (
	"context"
	"time"

	"tutorpay/internal/domain"
	"tutorpay/internal/repository"
)

// EarningsService builds a tutor's per-engagement earnings report from
// fulfilled tuition transactions. Read-only: no state changes here.
type EarningsService struct {
	earnings repository.Earnings
}

func NewEarningsService(earnings repository.Earnings) *EarningsService {
	return &EarningsService{earnings: earnings}
}

// Breakdown totals debits and credits per engagement and overall for
// sessions in [from, to]. Engagements keep the order their rows arrive
// in, which the store sorts by engagement end then start date.
func (s *EarningsService) Breakdown(ctx context.Context, tutorID string, from, to time.Time) (*domain.EarningsBreakdown, error) {
	rows, err := s.earnings.TutorRows(ctx, tutorID, from, to)
	if err != nil {
		return nil, err
	}

	breakdown := &domain.EarningsBreakdown{
		Engagements: []domain.EngagementEarnings{},
	}
	byEngagement := make(map[string]int)

	for _, row := range rows {
		idx, ok := byEngagement[row.Engagement.ID]
		if !ok {
			breakdown.Engagements = append(breakdown.Engagements, domain.EngagementEarnings{
				ID:        row.Engagement.ID,
				Status:    row.Engagement.Status,
				Tutee:     sentenceCase(row.TuteeLastName + " " + row.TuteeFirstName),
				Currency:  row.Currency,
				Taught:    row.Engagement.Taught(),
				StartDate: row.Engagement.StartDate,
				EndDate:   row.Engagement.EndDate,
			})
			idx = len(breakdown.Engagements) - 1
			byEngagement[row.Engagement.ID] = idx
		}

		eng := &breakdown.Engagements[idx]
		switch row.Type {
		case domain.TypeDebit:
			eng.TotalDebit += row.Amount
			breakdown.TotalDebit += row.Amount
		case domain.TypeCredit:
			eng.TotalCredit += row.Amount
			breakdown.TotalCredit += row.Amount
		}
	}

	for i := range breakdown.Engagements {
		breakdown.Engagements[i].TotalDebit = domain.ApprAmount(breakdown.Engagements[i].TotalDebit)
		breakdown.Engagements[i].TotalCredit = domain.ApprAmount(breakdown.Engagements[i].TotalCredit)
	}
	breakdown.TotalDebit = domain.ApprAmount(breakdown.TotalDebit)
	breakdown.TotalCredit = domain.ApprAmount(breakdown.TotalCredit)

	return breakdown, nil
}
