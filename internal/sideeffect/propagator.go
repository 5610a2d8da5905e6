package sideeffect

import (
	"context"
	"time"

	"tutorpay/internal/domain"
	"tutorpay/internal/logger"
	"tutorpay/internal/metrics"
	"tutorpay/internal/notify"
	"tutorpay/internal/search"
	"tutorpay/internal/worker"
	"tutorpay/internal/ws"
)

// adminSource is the slice of the user store the propagator needs.
type adminSource interface {
	GetActiveAdmins(ctx context.Context) ([]*domain.User, error)
}

// Propagator pushes post-commit effects: search indexing, the admin
// websocket feed, and admin notifications. Every effect runs on the
// worker pool with its own timeout; failures are logged and swallowed.
// The ledger is strongly consistent, the rest of this is not.
type Propagator struct {
	pool    *worker.Pool
	index   search.Index
	queue   notify.Queue
	admins  adminSource
	hub     *ws.Hub
	timeout time.Duration
}

func NewPropagator(pool *worker.Pool, index search.Index, queue notify.Queue, admins adminSource, hub *ws.Hub, timeout time.Duration) *Propagator {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Propagator{
		pool:    pool,
		index:   index,
		queue:   queue,
		admins:  admins,
		hub:     hub,
		timeout: timeout,
	}
}

func (p *Propagator) TransactionCreated(txn *domain.Transaction) {
	p.push(ws.EventCreated, txn)
}

func (p *Propagator) TransactionVerified(txn *domain.Transaction) {
	p.push(ws.EventVerified, txn)
}

func (p *Propagator) TransactionFulfilled(txn *domain.Transaction) {
	p.push(ws.EventFulfilled, txn)
}

// push snapshots the record and schedules indexing plus the feed
// broadcast. Runs after the financial commit and holds nothing from it.
func (p *Propagator) push(kind ws.EventKind, txn *domain.Transaction) {
	if txn == nil {
		return
	}
	snapshot := *txn

	p.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()

		if p.index != nil {
			if err := p.index.IndexDocument(ctx, search.DocFromTransaction(&snapshot)); err != nil {
				metrics.SideEffectFailures.WithLabelValues("index").Inc()
				logger.Warn("error whilst indexing a transaction document",
					"error", err, "reference", snapshot.Reference)
			}
		}

		if p.hub != nil {
			p.hub.Broadcast(ws.Event{Kind: kind, Transaction: &snapshot})
		}
	})
}

// NotifyAdminsWalletTopUp tells every active administrator that a
// client just loaded their wallet. Fire-and-forget: a failure here
// never fails the fulfilment that triggered it.
func (p *Propagator) NotifyAdminsWalletTopUp(name, amount string) {
	if p.queue == nil {
		return
	}
	p.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()

		logger.Info("attempting to notify admins of wallet top up", "name", name, "amount", amount)

		admins, err := p.admins.GetActiveAdmins(ctx)
		if err != nil {
			metrics.SideEffectFailures.WithLabelValues("notify").Inc()
			logger.Error("could not load admins for wallet top up notice", "error", err)
			return
		}

		for _, admin := range admins {
			n := notify.Notification{
				RecipientEmail: admin.PrimaryEmail,
				Title:          "A client just loaded their wallet",
				Body:           name + " just added " + amount + " to their wallet",
			}
			if err := p.queue.Enqueue(ctx, n); err != nil {
				metrics.SideEffectFailures.WithLabelValues("notify").Inc()
				logger.Error("there was an error notifying admins about wallet top up",
					"error", err, "recipient", admin.PrimaryEmail)
				return
			}
		}

		logger.Info("successfully notified admins of wallet top up", "name", name, "amount", amount)
	})
}
