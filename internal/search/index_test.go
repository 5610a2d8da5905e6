package search

import (
	"testing"
	"time"

	"tutorpay/internal/domain"
)

func TestRewriteParamsTimestampFields(t *testing.T) {
	got := RewriteParams(Params{
		FilterBy: "createdAt:>1700000000 && fulfilledAt:<1800000000",
		SortBy:   "verifiedAt:desc",
	})

	if got.FilterBy != "createdAt_timestamp:>1700000000 && fulfilledAt_timestamp:<1800000000" {
		t.Errorf("filter_by = %q", got.FilterBy)
	}
	if got.SortBy != "verifiedAt_timestamp:desc" {
		t.Errorf("sort_by = %q", got.SortBy)
	}
}

func TestRewriteParamsDefaultSort(t *testing.T) {
	got := RewriteParams(Params{})
	if got.SortBy != "createdAt_timestamp:desc" {
		t.Errorf("default sort_by = %q, want createdAt_timestamp:desc", got.SortBy)
	}
}

func TestRewriteParamsLeavesPlainFieldsAlone(t *testing.T) {
	got := RewriteParams(Params{FilterBy: "status:=success && channel:=paystack"})
	if got.FilterBy != "status:=success && channel:=paystack" {
		t.Errorf("filter_by = %q", got.FilterBy)
	}
}

func TestDocFromTransaction(t *testing.T) {
	created := time.Unix(1700000000, 0)
	verified := time.Unix(1700000100, 0)
	txn := &domain.Transaction{
		ID:         "txn-1",
		Reference:  "WTU-ABCD1234",
		FirstName:  "ada",
		LastName:   "obi",
		Amount:     250,
		Currency:   "NGN",
		Channel:    domain.ChannelPaystack,
		Status:     domain.StatusSuccess,
		Fulfilled:  true,
		CreatedAt:  created,
		UpdatedAt:  verified,
		VerifiedAt: &verified,
	}

	doc := DocFromTransaction(txn)
	if doc.ID != "txn-1" || doc.Reference != "WTU-ABCD1234" {
		t.Errorf("identity fields wrong: %+v", doc)
	}
	if doc.CreatedAtTS != 1700000000 {
		t.Errorf("createdAt_timestamp = %d", doc.CreatedAtTS)
	}
	if doc.VerifiedAtTS != 1700000100 {
		t.Errorf("verifiedAt_timestamp = %d", doc.VerifiedAtTS)
	}
	if doc.FulfilledAtTS != 0 {
		t.Errorf("fulfilledAt_timestamp = %d, want 0 for unset", doc.FulfilledAtTS)
	}
}
