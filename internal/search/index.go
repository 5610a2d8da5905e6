package search

import (
	"context"
	"strings"

	"tutorpay/internal/domain"
)

// Doc is the denormalized transaction record pushed to the search
// boundary. Timestamps are indexed under *_timestamp physical fields;
// callers address them by their logical names and the engine rewrites.
type Doc struct {
	ID                 string  `json:"id"`
	Reference          string  `json:"reference"`
	FirstName          string  `json:"firstName"`
	LastName           string  `json:"lastName"`
	Email              string  `json:"email"`
	Narration          string  `json:"narration"`
	Amount             float64 `json:"amount"`
	Currency           string  `json:"currency"`
	Channel            string  `json:"channel"`
	Type               string  `json:"type"`
	Scope              string  `json:"scope"`
	Status             string  `json:"status"`
	Fulfilled          bool    `json:"fulfilled"`
	CreatedAtTS        int64   `json:"createdAt_timestamp"`
	UpdatedAtTS        int64   `json:"updatedAt_timestamp"`
	VerifiedAtTS       int64   `json:"verifiedAt_timestamp,omitempty"`
	FulfilledAtTS      int64   `json:"fulfilledAt_timestamp,omitempty"`
}

// Params mirrors the boundary's query surface.
type Params struct {
	Query         string
	FilterBy      string
	SortBy        string
	ExcludeFields string
	Page          int
	PerPage       int
}

type Result struct {
	Found int   `json:"found"`
	Hits  []Doc `json:"hits"`
}

// Index is the search boundary. IndexDocument is idempotent on ID;
// pushes are best-effort and must never block the financial path.
type Index interface {
	IndexDocument(ctx context.Context, doc Doc) error
	Search(ctx context.Context, p Params) (*Result, error)
}

// timestampFields are the logical names the query surface accepts.
var timestampFields = []string{"createdAt", "updatedAt", "verifiedAt", "fulfilledAt"}

// RewriteParams maps logical timestamp field names to the physical
// indexed names, and applies the default most-recent-first sort.
func RewriteParams(p Params) Params {
	for _, f := range timestampFields {
		p.FilterBy = strings.ReplaceAll(p.FilterBy, f+":", f+"_timestamp:")
		p.SortBy = strings.ReplaceAll(p.SortBy, f+":", f+"_timestamp:")
	}
	if p.SortBy == "" {
		p.SortBy = "createdAt_timestamp:desc"
	}
	return p
}

// DocFromTransaction denormalizes a ledger record for indexing.
func DocFromTransaction(t *domain.Transaction) Doc {
	d := Doc{
		ID:          t.ID,
		Reference:   t.Reference,
		FirstName:   t.FirstName,
		LastName:    t.LastName,
		Email:       t.Email,
		Narration:   t.Narration,
		Amount:      t.Amount,
		Currency:    t.Currency,
		Channel:     string(t.Channel),
		Type:        string(t.Type),
		Scope:       string(t.Scope),
		Status:      string(t.Status),
		Fulfilled:   t.Fulfilled,
		CreatedAtTS: t.CreatedAt.Unix(),
		UpdatedAtTS: t.UpdatedAt.Unix(),
	}
	if t.VerifiedAt != nil {
		d.VerifiedAtTS = t.VerifiedAt.Unix()
	}
	if t.FulfilledAt != nil {
		d.FulfilledAtTS = t.FulfilledAt.Unix()
	}
	return d
}

func (d Doc) timestamp(field string) int64 {
	switch field {
	case "updatedAt_timestamp":
		return d.UpdatedAtTS
	case "verifiedAt_timestamp":
		return d.VerifiedAtTS
	case "fulfilledAt_timestamp":
		return d.FulfilledAtTS
	default:
		return d.CreatedAtTS
	}
}
