package transfer

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"fundflow/internal/models"
	"fundflow/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLedger is an in-memory stand-in for the wallet repository. It
// mirrors the storage contract: per-wallet row locks acquired in
// ascending id order, relative balance adjustments, and all-or-nothing
// visibility of the callback's changes.
type fakeLedger struct {
	mu       sync.Mutex
	rowLocks map[uint]*sync.Mutex
	wallets  map[uint]*models.Wallet
	records  []*models.Transaction
	nextTxID uint

	adjustErr error // injected storage failure
}

func newFakeLedger(balances map[uint]string) *fakeLedger {
	l := &fakeLedger{
		rowLocks: make(map[uint]*sync.Mutex),
		wallets:  make(map[uint]*models.Wallet),
	}
	for id, balance := range balances {
		l.wallets[id] = &models.Wallet{
			ID:      id,
			Balance: decimal.RequireFromString(balance),
			Status:  models.WalletStatusActive,
		}
		l.rowLocks[id] = &sync.Mutex{}
	}
	return l
}

func (l *fakeLedger) WithLockedWallets(_ context.Context, ids []uint, fn func(repositories.LedgerTx) error) error {
	seen := make(map[uint]bool, len(ids))
	locked := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			locked = append(locked, id)
		}
	}
	sort.Slice(locked, func(i, j int) bool { return locked[i] < locked[j] })

	for _, id := range locked {
		if m, ok := l.rowLocks[id]; ok {
			m.Lock()
			defer m.Unlock()
		}
	}

	tx := &fakeTx{
		ledger: l,
		rows:   make(map[uint]*models.Wallet, len(locked)),
		deltas: make(map[uint]decimal.Decimal),
	}
	l.mu.Lock()
	for _, id := range locked {
		if w, ok := l.wallets[id]; ok {
			row := *w
			tx.rows[id] = &row
		}
	}
	l.mu.Unlock()

	if err := fn(tx); err != nil {
		return err // rollback: pending changes are dropped
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for id, delta := range tx.deltas {
		l.wallets[id].Balance = l.wallets[id].Balance.Add(delta)
	}
	l.records = append(l.records, tx.pending...)
	return nil
}

func (l *fakeLedger) balance(id uint) decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.wallets[id].Balance
}

func (l *fakeLedger) totalBalance() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	total := decimal.Zero
	for _, w := range l.wallets {
		total = total.Add(w.Balance)
	}
	return total
}

func (l *fakeLedger) recordCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

func (l *fakeLedger) recordsByGroup() map[string][]*models.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	groups := make(map[string][]*models.Transaction)
	for _, r := range l.records {
		groups[r.GroupID] = append(groups[r.GroupID], r)
	}
	return groups
}

type fakeTx struct {
	ledger  *fakeLedger
	rows    map[uint]*models.Wallet
	deltas  map[uint]decimal.Decimal
	pending []*models.Transaction
}

func (t *fakeTx) Wallet(id uint) (*models.Wallet, bool) {
	w, ok := t.rows[id]
	return w, ok
}

func (t *fakeTx) AdjustBalance(id uint, delta decimal.Decimal) error {
	if t.ledger.adjustErr != nil {
		return t.ledger.adjustErr
	}
	if _, ok := t.rows[id]; !ok {
		return repositories.ErrWalletNotFound
	}
	t.deltas[id] = t.deltas[id].Add(delta)
	return nil
}

func (t *fakeTx) CreateTransaction(txn *models.Transaction) error {
	t.ledger.mu.Lock()
	t.ledger.nextTxID++
	txn.ID = t.ledger.nextTxID
	t.ledger.mu.Unlock()
	t.pending = append(t.pending, txn)
	return nil
}

type scheduledCall struct {
	RecipientID uint
	SenderID    uint
	Amount      decimal.Decimal
	GroupID     string
}

type stubScheduler struct {
	mu    sync.Mutex
	calls []scheduledCall
}

func (s *stubScheduler) Schedule(recipientID uint, amount decimal.Decimal, senderID uint, groupID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, scheduledCall{recipientID, senderID, amount, groupID})
}

func (s *stubScheduler) Calls() []scheduledCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]scheduledCall(nil), s.calls...)
}

const collectorID uint = 1

func newTestService(ledger *fakeLedger, scheduler NotificationScheduler) Service {
	return NewService(ledger, scheduler, Config{CollectorWalletID: collectorID})
}

func TestExecuteTransfer_Validation(t *testing.T) {
	tests := []struct {
		name        string
		senderID    uint
		recipientID uint
		amount      string
		wantErr     error
	}{
		{"same wallet", 2, 2, "10.00", ErrSelfTransfer},
		{"zero amount", 2, 3, "0.00", ErrInvalidAmount},
		{"negative amount", 2, 3, "-5.00", ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := newFakeLedger(map[uint]string{collectorID: "0", 2: "100.00", 3: "100.00"})
			scheduler := &stubScheduler{}
			s := newTestService(ledger, scheduler)

			_, err := s.ExecuteTransfer(context.Background(), tt.senderID, tt.recipientID, decimal.RequireFromString(tt.amount), "")
			require.ErrorIs(t, err, tt.wantErr)

			assert.Equal(t, 0, ledger.recordCount())
			assert.Empty(t, scheduler.Calls())
			assert.True(t, ledger.balance(2).Equal(decimal.RequireFromString("100.00")))
		})
	}
}

func TestExecuteTransfer_WalletNotFound(t *testing.T) {
	ledger := newFakeLedger(map[uint]string{collectorID: "0", 2: "100.00"})
	s := newTestService(ledger, nil)

	_, err := s.ExecuteTransfer(context.Background(), 2, 99, decimal.RequireFromString("10.00"), "")
	var notFound *WalletNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "recipient", notFound.Role)
	assert.Equal(t, uint(99), notFound.WalletID)

	_, err = s.ExecuteTransfer(context.Background(), 98, 2, decimal.RequireFromString("10.00"), "")
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "sender", notFound.Role)

	assert.Equal(t, 0, ledger.recordCount())
}

func TestExecuteTransfer_Success(t *testing.T) {
	ledger := newFakeLedger(map[uint]string{collectorID: "0", 2: "500.00", 3: "50.00"})
	scheduler := &stubScheduler{}
	s := newTestService(ledger, scheduler)

	result, err := s.ExecuteTransfer(context.Background(), 2, 3, decimal.RequireFromString("120.50"), "rent")
	require.NoError(t, err)

	assert.True(t, result.Commission.IsZero())
	assert.True(t, result.TotalDebited.Equal(decimal.RequireFromString("120.50")))
	assert.NotEmpty(t, result.GroupID)
	assert.NotZero(t, result.TransactionID)

	assert.True(t, ledger.balance(2).Equal(decimal.RequireFromString("379.50")))
	assert.True(t, ledger.balance(3).Equal(decimal.RequireFromString("170.50")))
	assert.True(t, ledger.balance(collectorID).IsZero())

	require.Equal(t, 1, ledger.recordCount())
	record := ledger.records[0]
	assert.Equal(t, models.TransactionTypeTransfer, record.Type)
	assert.Equal(t, models.TransactionStatusCompleted, record.Status)
	assert.Equal(t, "rent", record.Description)
	require.NotNil(t, record.SenderID)
	assert.Equal(t, uint(2), *record.SenderID)

	calls := scheduler.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, uint(3), calls[0].RecipientID)
	assert.Equal(t, uint(2), calls[0].SenderID)
	assert.Equal(t, result.GroupID, calls[0].GroupID)
	assert.True(t, calls[0].Amount.Equal(result.Amount))
}

func TestExecuteTransfer_CommissionThreshold(t *testing.T) {
	tests := []struct {
		name           string
		amount         string
		wantCommission string
		wantDebit      string
	}{
		{"at threshold no commission", "1000.00", "0", "1000.00"},
		{"just above threshold", "1000.01", "100.00", "1100.01"},
		{"well above threshold", "2000.00", "200.00", "2200.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := newFakeLedger(map[uint]string{collectorID: "0", 2: "5000.00", 3: "0"})
			s := newTestService(ledger, nil)

			result, err := s.ExecuteTransfer(context.Background(), 2, 3, decimal.RequireFromString(tt.amount), "")
			require.NoError(t, err)

			assert.True(t, result.Commission.Equal(decimal.RequireFromString(tt.wantCommission)),
				"commission %s, want %s", result.Commission, tt.wantCommission)
			assert.True(t, result.TotalDebited.Equal(decimal.RequireFromString(tt.wantDebit)))

			assert.True(t, ledger.balance(collectorID).Equal(result.Commission))
			assert.True(t, ledger.balance(3).Equal(result.Amount))

			wantRecords := 1
			if !result.Commission.IsZero() {
				wantRecords = 2
			}
			assert.Equal(t, wantRecords, ledger.recordCount())
		})
	}
}

func TestExecuteTransfer_InsufficientFunds(t *testing.T) {
	ledger := newFakeLedger(map[uint]string{collectorID: "0", 2: "500.00", 3: "0"})
	scheduler := &stubScheduler{}
	s := newTestService(ledger, scheduler)

	_, err := s.ExecuteTransfer(context.Background(), 2, 3, decimal.RequireFromString("500.01"), "")
	var insufficient *InsufficientFundsError
	require.ErrorAs(t, err, &insufficient)
	assert.True(t, insufficient.Available.Equal(decimal.RequireFromString("500.00")))
	assert.True(t, insufficient.Required.Equal(decimal.RequireFromString("500.01")))

	// Nothing committed, nothing scheduled.
	assert.True(t, ledger.balance(2).Equal(decimal.RequireFromString("500.00")))
	assert.True(t, ledger.balance(3).IsZero())
	assert.Equal(t, 0, ledger.recordCount())
	assert.Empty(t, scheduler.Calls())
}

func TestExecuteTransfer_InsufficientForCommission(t *testing.T) {
	// Balance covers the amount but not amount plus commission.
	ledger := newFakeLedger(map[uint]string{collectorID: "0", 2: "1500.00", 3: "0"})
	s := newTestService(ledger, nil)

	_, err := s.ExecuteTransfer(context.Background(), 2, 3, decimal.RequireFromString("1400.00"), "")
	var insufficient *InsufficientFundsError
	require.ErrorAs(t, err, &insufficient)
	assert.True(t, insufficient.Required.Equal(decimal.RequireFromString("1540.00")))
	assert.True(t, ledger.balance(2).Equal(decimal.RequireFromString("1500.00")))
}

func TestExecuteTransfer_PersistenceFailure(t *testing.T) {
	ledger := newFakeLedger(map[uint]string{collectorID: "0", 2: "500.00", 3: "0"})
	ledger.adjustErr = errors.New("connection reset")
	scheduler := &stubScheduler{}
	s := newTestService(ledger, scheduler)

	_, err := s.ExecuteTransfer(context.Background(), 2, 3, decimal.RequireFromString("10.00"), "")
	require.ErrorIs(t, err, ErrPersistenceFailure)

	assert.True(t, ledger.balance(2).Equal(decimal.RequireFromString("500.00")))
	assert.Equal(t, 0, ledger.recordCount())
	assert.Empty(t, scheduler.Calls())
}

func TestExecuteTransfer_GroupInvariants(t *testing.T) {
	ledger := newFakeLedger(map[uint]string{collectorID: "0", 2: "10000.00", 3: "10000.00"})
	s := newTestService(ledger, nil)

	groups := make(map[string]bool)
	for i := 0; i < 20; i++ {
		result, err := s.ExecuteTransfer(context.Background(), 2, 3, decimal.RequireFromString("1500.00"), "")
		require.NoError(t, err)
		assert.False(t, groups[result.GroupID], "group id reused")
		groups[result.GroupID] = true

		_, err = s.ExecuteTransfer(context.Background(), 3, 2, decimal.RequireFromString("1500.00"), "")
		require.NoError(t, err)
	}

	for groupID, records := range ledger.recordsByGroup() {
		transfers, commissions := 0, 0
		for _, r := range records {
			switch r.Type {
			case models.TransactionTypeTransfer:
				transfers++
			case models.TransactionTypeCommission:
				commissions++
			}
		}
		assert.Equal(t, 1, transfers, "group %s", groupID)
		assert.LessOrEqual(t, commissions, 1, "group %s", groupID)
	}
}

func TestExecuteTransfer_Conservation(t *testing.T) {
	ledger := newFakeLedger(map[uint]string{collectorID: "0", 2: "10000.00", 3: "5000.00", 4: "2500.00"})
	s := newTestService(ledger, nil)
	before := ledger.totalBalance()

	transfers := []struct {
		from, to uint
		amount   string
	}{
		{2, 3, "1500.00"}, // with commission
		{3, 4, "200.00"},
		{4, 2, "999.99"},
		{2, 4, "1000.01"}, // with commission
	}
	for _, tr := range transfers {
		_, err := s.ExecuteTransfer(context.Background(), tr.from, tr.to, decimal.RequireFromString(tr.amount), "")
		require.NoError(t, err)
	}

	// Closed system: commissions move money to the collector, they never
	// create or destroy it.
	assert.True(t, ledger.totalBalance().Equal(before),
		"total balance drifted from %s to %s", before, ledger.totalBalance())
}

func TestExecuteTransfer_OpposingTransfersDoNotDeadlock(t *testing.T) {
	ledger := newFakeLedger(map[uint]string{collectorID: "0", 2: "10000.00", 3: "10000.00"})
	s := newTestService(ledger, nil)
	before := ledger.totalBalance()

	const rounds = 200
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			_, err := s.ExecuteTransfer(context.Background(), 2, 3, decimal.RequireFromString("10.00"), "")
			assert.NoError(t, err)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			_, err := s.ExecuteTransfer(context.Background(), 3, 2, decimal.RequireFromString("10.00"), "")
			assert.NoError(t, err)
		}
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("opposing transfers deadlocked")
	}

	assert.True(t, ledger.balance(2).Equal(decimal.RequireFromString("10000.00")))
	assert.True(t, ledger.balance(3).Equal(decimal.RequireFromString("10000.00")))
	assert.True(t, ledger.totalBalance().Equal(before))
	assert.Equal(t, 2*rounds, ledger.recordCount())
}

func TestNewService_Defaults(t *testing.T) {
	ledger := newFakeLedger(map[uint]string{1: "0", 2: "5000.00", 3: "0"})
	s := NewService(ledger, nil, Config{})

	// Default policy: 10% above 1000.00, collector wallet 1.
	result, err := s.ExecuteTransfer(context.Background(), 2, 3, decimal.RequireFromString("2000.00"), "")
	require.NoError(t, err)
	assert.True(t, result.Commission.Equal(decimal.RequireFromString("200.00")))
	assert.True(t, ledger.balance(1).Equal(decimal.RequireFromString("200.00")))
}
