package domain

import "time"

// TransactionStatus is the canonical three-valued outcome of a
// transaction, independent of any provider's own vocabulary.
type TransactionStatus string

const (
	StatusPending TransactionStatus = "pending"
	StatusSuccess TransactionStatus = "success"
	StatusExpired TransactionStatus = "expired"
)

// ParseStatus maps a provider status string onto the canonical set.
// Anything unknown stays pending: no regression, no silent success.
func ParseStatus(s string) TransactionStatus {
	switch TransactionStatus(s) {
	case StatusSuccess, StatusExpired, StatusPending:
		return TransactionStatus(s)
	default:
		return StatusPending
	}
}

// TransactionType marks the direction of the money movement.
type TransactionType string

const (
	TypeDebit  TransactionType = "debit"
	TypeCredit TransactionType = "credit"
)

// PaymentChannel is how the transaction was paid.
type PaymentChannel string

const (
	ChannelPaystack PaymentChannel = "paystack"
	ChannelStripe   PaymentChannel = "stripe"
	ChannelExternal PaymentChannel = "external"
)

// TransactionScope is the business context of a transaction.
type TransactionScope string

const (
	ScopeTuition TransactionScope = "tuition"
	ScopeWallet  TransactionScope = "wallet"
)

// ReferencePrefix tags a reference with the wallet action it funds.
type ReferencePrefix string

const (
	PrefixWalletTopUp     ReferencePrefix = "WTU"
	PrefixAwardBonus      ReferencePrefix = "BON"
	PrefixLoadOverdraft   ReferencePrefix = "ODL"
	PrefixUnloadOverdraft ReferencePrefix = "ODU"
	PrefixTransfer        ReferencePrefix = "TRF"
	PrefixExternal        ReferencePrefix = "EXT"
)

// knownPrefixes is ordered; every prefix dispatches to exactly one
// wallet operation.
var knownPrefixes = []ReferencePrefix{
	PrefixWalletTopUp,
	PrefixAwardBonus,
	PrefixLoadOverdraft,
	PrefixUnloadOverdraft,
	PrefixTransfer,
	PrefixExternal,
}

// UserType distinguishes the two sides of the marketplace.
type UserType string

const (
	UserClient UserType = "client"
	UserTutor  UserType = "tutor"
)

// Transaction is the append-only ledger entry. Status moves
// pending -> success|expired at most once, and fulfilled flips
// false -> true at most once, only while status is success.
type Transaction struct {
	ID              string            `db:"id" json:"id"`
	Reference       string            `db:"reference" json:"reference"`
	UserID          string            `db:"user_id" json:"user_id"`
	UserType        UserType          `db:"user_type" json:"user_type"`
	FirstName       string            `db:"first_name" json:"first_name"`
	LastName        string            `db:"last_name" json:"last_name"`
	Email           string            `db:"email" json:"email"`
	Amount          float64           `db:"amount" json:"amount"`
	Currency        string            `db:"currency" json:"currency"`
	DiscountPercent *float64          `db:"discount_percent" json:"discount_percent,omitempty"`
	DiscountAmount  *float64          `db:"discount_amount" json:"discount_amount,omitempty"`
	Narration       string            `db:"narration" json:"narration,omitempty"`
	Scope           TransactionScope  `db:"scope" json:"scope"`
	Type            TransactionType   `db:"type" json:"type"`
	Channel         PaymentChannel    `db:"channel" json:"channel"`
	SessionID       *string           `db:"session_id" json:"session_id,omitempty"`
	EngagementID    *string           `db:"engagement_id" json:"engagement_id,omitempty"`
	Status          TransactionStatus `db:"status" json:"status"`
	Fulfilled       bool              `db:"fulfilled" json:"fulfilled"`
	AutoVerified    bool              `db:"auto_verified" json:"auto_verified"`
	AutoFulfilled   bool              `db:"auto_fulfilled" json:"auto_fulfilled"`
	VerifiedBy      *string           `db:"verified_by" json:"verified_by,omitempty"`
	FulfilledBy     *string           `db:"fulfilled_by" json:"fulfilled_by,omitempty"`
	BalanceAfter    *float64          `db:"balance_after" json:"balance_after,omitempty"`
	WalletAfter     *Wallet           `db:"wallet_after" json:"wallet_after,omitempty"`
	VerifiedAt      *time.Time        `db:"verified_at" json:"verified_at,omitempty"`
	FulfilledAt     *time.Time        `db:"fulfilled_at" json:"fulfilled_at,omitempty"`
	CreatedAt       time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time         `db:"updated_at" json:"updated_at"`
}

// Prefix classifies the transaction by its reference. Classification is
// a prefix match, never equality: the rest of the reference is random.
func (t *Transaction) Prefix() (ReferencePrefix, bool) {
	for _, p := range knownPrefixes {
		if len(t.Reference) >= len(p) && ReferencePrefix(t.Reference[:len(p)]) == p {
			return p, true
		}
	}
	return "", false
}

// PayerName is the display name used in admin notifications.
func (t *Transaction) PayerName() string {
	return t.LastName + " " + t.FirstName
}

// ExternalVerificationMedia is the proof-of-payment attachment for a
// transaction created out-of-band. It is written before the transaction
// it documents, against a pre-allocated transaction id.
type ExternalVerificationMedia struct {
	ID            int64     `db:"id" json:"id"`
	TransactionID string    `db:"transaction_id" json:"transaction_id"`
	Media         []string  `db:"media" json:"media"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
