package domain

import "time"

// Wallet is the post-operation snapshot returned by the wallet
// collaborator. The engine never touches the columns directly; it only
// invokes named operations and records the snapshot it gets back.
type Wallet struct {
	ID        int64     `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	UserType  UserType  `db:"user_type" json:"user_type"`
	Currency  string    `db:"currency" json:"currency"`
	Balance   float64   `db:"balance" json:"balance"`
	Bonus     float64   `db:"bonus" json:"bonus"`
	Overdraft float64   `db:"overdraft" json:"overdraft"`
	Earnings  float64   `db:"earnings" json:"earnings"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ClientNetBalance is what a client can still spend.
func (w *Wallet) ClientNetBalance() float64 {
	return ApprAmount(w.Balance + w.Bonus - w.Overdraft)
}

// TutorNetBalance is what a tutor has earned and not yet withdrawn.
func (w *Wallet) TutorNetBalance() float64 {
	return ApprAmount(w.Earnings)
}

// NetBalanceFor picks the snapshot balance by party type.
func (w *Wallet) NetBalanceFor(ut UserType) float64 {
	if ut == UserTutor {
		return w.TutorNetBalance()
	}
	return w.ClientNetBalance()
}

// ApprAmount rounds a monetary amount to two decimal places.
func ApprAmount(v float64) float64 {
	if v < 0 {
		return -ApprAmount(-v)
	}
	return float64(int64(v*100+0.5)) / 100
}
