package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/Kha-Noob/liteflow-sub002/internal/model"
	"github.com/Kha-Noob/liteflow-sub002/internal/repository"
)

// fakeStore is an in-memory persistence port. WithTx runs one unit at a time and restores a
// snapshot when the unit fails, which is what the conditional UPDATE gives us in MySQL.
type fakeStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	transactions map[string]model.Transaction
	sessions     map[int64]model.Session
	orders       map[int64]model.Order
	tables       map[int64]model.Table
	events       []model.SettlementEvent

	nextSessionID int64
	sessionPaid   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		transactions:  map[string]model.Transaction{},
		sessions:      map[int64]model.Session{},
		orders:        map[int64]model.Order{},
		tables:        map[int64]model.Table{},
		nextSessionID: 100,
	}
}

type fakeSnapshot struct {
	transactions map[string]model.Transaction
	sessions     map[int64]model.Session
	orders       map[int64]model.Order
	tables       map[int64]model.Table
	events       []model.SettlementEvent
	sessionPaid  int
}

func (s *fakeStore) snapshot() fakeSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := fakeSnapshot{
		transactions: make(map[string]model.Transaction, len(s.transactions)),
		sessions:     make(map[int64]model.Session, len(s.sessions)),
		orders:       make(map[int64]model.Order, len(s.orders)),
		tables:       make(map[int64]model.Table, len(s.tables)),
		events:       append([]model.SettlementEvent(nil), s.events...),
		sessionPaid:  s.sessionPaid,
	}
	for k, v := range s.transactions {
		snap.transactions[k] = v
	}
	for k, v := range s.sessions {
		snap.sessions[k] = v
	}
	for k, v := range s.orders {
		snap.orders[k] = v
	}
	for k, v := range s.tables {
		snap.tables[k] = v
	}
	return snap
}

func (s *fakeStore) restore(snap fakeSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transactions = snap.transactions
	s.sessions = snap.sessions
	s.orders = snap.orders
	s.tables = snap.tables
	s.events = snap.events
	s.sessionPaid = snap.sessionPaid
}

func (s *fakeStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(ctx); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (s *fakeStore) transaction(id string) model.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transactions[id]
}

func (s *fakeStore) cascadeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionPaid
}

func (s *fakeStore) eventCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

type fakeTransactions struct{ s *fakeStore }

func (f fakeTransactions) Create(_ context.Context, tx *model.Transaction) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	if _, exists := f.s.transactions[tx.ID]; exists {
		return repository.ErrTransactionExists
	}
	f.s.transactions[tx.ID] = *tx
	return nil
}

func (f fakeTransactions) GetByID(_ context.Context, id string) (*model.Transaction, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	tx, ok := f.s.transactions[id]
	if !ok {
		return nil, repository.ErrTransactionNotFound
	}
	return &tx, nil
}

func (f fakeTransactions) SettleFromPending(_ context.Context, id string, update repository.SettleUpdate) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	tx, ok := f.s.transactions[id]
	if !ok || tx.Status != model.TransactionStatusPending {
		return repository.ErrNoRowsAffected
	}

	tx.Status = update.Status
	tx.GatewayResponseCode = optional(update.ResponseCode)
	tx.GatewayReferenceNumber = optional(update.ReferenceNumber)
	tx.Note = optional(update.Note)
	settledAt := update.SettledAt
	tx.SettledAt = &settledAt
	f.s.transactions[id] = tx
	return nil
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

type fakeSessions struct{ s *fakeStore }

func (f fakeSessions) Create(_ context.Context, session *model.Session) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	f.s.nextSessionID++
	session.ID = f.s.nextSessionID
	f.s.sessions[session.ID] = *session
	return nil
}

func (f fakeSessions) GetByID(_ context.Context, id int64) (*model.Session, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	session, ok := f.s.sessions[id]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	return &session, nil
}

func (f fakeSessions) FindOpenByTableID(_ context.Context, tableID int64) (*model.Session, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	for _, session := range f.s.sessions {
		if session.TableID != nil && *session.TableID == tableID && session.Status == model.SessionStatusOpen {
			return &session, nil
		}
	}
	return nil, repository.ErrSessionNotFound
}

func (f fakeSessions) MarkPaid(_ context.Context, id int64, checkoutAt time.Time) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	session, ok := f.s.sessions[id]
	if !ok {
		return repository.ErrSessionNotFound
	}
	session.Status = model.SessionStatusPaid
	session.CheckoutAt = &checkoutAt
	f.s.sessions[id] = session
	f.s.sessionPaid++
	return nil
}

type fakeOrders struct{ s *fakeStore }

func (f fakeOrders) MarkPaidBySessionID(_ context.Context, sessionID int64, at time.Time) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	var affected int64
	for id, order := range f.s.orders {
		if order.SessionID != nil && *order.SessionID == sessionID {
			order.Status = model.OrderStatusServed
			order.PaymentStatus = model.OrderPaymentStatusPaid
			order.UpdatedAt = at
			f.s.orders[id] = order
			affected++
		}
	}
	return affected, nil
}

func (f fakeOrders) MarkPaid(_ context.Context, orderID int64, at time.Time) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	order, ok := f.s.orders[orderID]
	if !ok {
		return nil
	}
	order.Status = model.OrderStatusServed
	order.PaymentStatus = model.OrderPaymentStatusPaid
	order.UpdatedAt = at
	f.s.orders[orderID] = order
	return nil
}

type fakeTables struct{ s *fakeStore }

func (f fakeTables) GetByID(_ context.Context, id int64) (*model.Table, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	table, ok := f.s.tables[id]
	if !ok {
		return nil, repository.ErrTableNotFound
	}
	return &table, nil
}

func (f fakeTables) UpdateStatus(_ context.Context, id int64, status model.TableStatus) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	table := f.s.tables[id]
	table.Status = status
	f.s.tables[id] = table
	return nil
}

type fakeEvents struct{ s *fakeStore }

func (f fakeEvents) Create(_ context.Context, event *model.SettlementEvent) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	for _, existing := range f.s.events {
		if existing.TransactionID == event.TransactionID {
			return repository.ErrTransactionExists
		}
	}
	event.ID = int64(len(f.s.events) + 1)
	f.s.events = append(f.s.events, *event)
	return nil
}

func (f fakeEvents) FindUnpublished(_ context.Context, limit int) ([]model.SettlementEvent, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	var events []model.SettlementEvent
	for _, event := range f.s.events {
		if !event.Published && len(events) < limit {
			events = append(events, event)
		}
	}
	return events, nil
}

func (f fakeEvents) MarkPublished(_ context.Context, id int64, publishedAt time.Time) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	for i := range f.s.events {
		if f.s.events[i].ID == id {
			f.s.events[i].Published = true
			f.s.events[i].PublishedAt = &publishedAt
		}
	}
	return nil
}
