package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/bekzod-t/trade_ledger_app/internal/apperrors"
	"github.com/bekzod-t/trade_ledger_app/internal/core/domain"
	"github.com/bekzod-t/trade_ledger_app/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestApply_NegatesDebtSignedEffect(t *testing.T) {
	mockClients := new(MockClientRepository)
	ledger := services.NewBalanceLedger(mockClients)

	// A positive effect (debt up) decrements the stored balance.
	mockClients.On("ApplyBalanceDelta", context.Background(), "client-1", dec("-100")).
		Return(int64(1), nil).Once()

	err := ledger.Apply(context.Background(), "client-1", dec("100"))
	require.NoError(t, err)
	mockClients.AssertExpectations(t)
}

func TestApply_ZeroEffectIsNoOp(t *testing.T) {
	mockClients := new(MockClientRepository)
	ledger := services.NewBalanceLedger(mockClients)

	err := ledger.Apply(context.Background(), "client-1", decimal.Zero)
	require.NoError(t, err)
	mockClients.AssertNotCalled(t, "ApplyBalanceDelta")
}

func TestApply_ZeroRowsIsConcurrentModification(t *testing.T) {
	mockClients := new(MockClientRepository)
	ledger := services.NewBalanceLedger(mockClients)

	mockClients.On("ApplyBalanceDelta", mock.Anything, "client-1", mock.Anything).
		Return(int64(0), nil).Once()

	err := ledger.Apply(context.Background(), "client-1", dec("100"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConcurrentModification)
}

func TestRevert_IsExactInverseOfApply(t *testing.T) {
	mockClients := new(MockClientRepository)
	ledger := services.NewBalanceLedger(mockClients)

	mockClients.On("ApplyBalanceDelta", context.Background(), "client-1", dec("100")).
		Return(int64(1), nil).Once()

	err := ledger.Revert(context.Background(), "client-1", dec("100"))
	require.NoError(t, err)
	mockClients.AssertExpectations(t)
}

func TestApplyTransfer_BothLegs(t *testing.T) {
	mockClients := new(MockClientRepository)
	ledger := services.NewBalanceLedger(mockClients)

	// Sender's debt decreases (negative effect), receiver's increases.
	mockClients.On("ApplyBalanceDelta", mock.Anything, "sender", dec("100")).
		Return(int64(1), nil).Once()
	mockClients.On("ApplyBalanceDelta", mock.Anything, "receiver", dec("-367")).
		Return(int64(1), nil).Once()

	err := ledger.ApplyTransfer(context.Background(), "sender", dec("-100"), "receiver", dec("367"))
	require.NoError(t, err)
	mockClients.AssertExpectations(t)
}

func TestApplyTransfer_ReceiverFailureCompensatesSender(t *testing.T) {
	mockClients := new(MockClientRepository)
	ledger := services.NewBalanceLedger(mockClients)

	mockClients.On("ApplyBalanceDelta", mock.Anything, "sender", dec("100")).
		Return(int64(1), nil).Once()
	mockClients.On("ApplyBalanceDelta", mock.Anything, "receiver", dec("-367")).
		Return(int64(0), nil).Once()
	// Compensating revert of the sender leg.
	mockClients.On("ApplyBalanceDelta", mock.Anything, "sender", dec("-100")).
		Return(int64(1), nil).Once()

	err := ledger.ApplyTransfer(context.Background(), "sender", dec("-100"), "receiver", dec("367"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConcurrentModification)
	assert.NotErrorIs(t, err, apperrors.ErrReconciliationRequired)
	mockClients.AssertExpectations(t)
}

func TestApplyTransfer_FailedCompensationIsReconciliationRequired(t *testing.T) {
	mockClients := new(MockClientRepository)
	ledger := services.NewBalanceLedger(mockClients)

	mockClients.On("ApplyBalanceDelta", mock.Anything, "sender", dec("100")).
		Return(int64(1), nil).Once()
	mockClients.On("ApplyBalanceDelta", mock.Anything, "receiver", dec("-367")).
		Return(int64(0), errors.New("connection lost")).Once()
	mockClients.On("ApplyBalanceDelta", mock.Anything, "sender", dec("-100")).
		Return(int64(0), errors.New("connection lost")).Once()

	err := ledger.ApplyTransfer(context.Background(), "sender", dec("-100"), "receiver", dec("367"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrReconciliationRequired)
}

func TestRevertTransfer_ReceiverFirstThenSender(t *testing.T) {
	mockClients := new(MockClientRepository)
	ledger := services.NewBalanceLedger(mockClients)

	var order []string
	mockClients.On("ApplyBalanceDelta", mock.Anything, "receiver", dec("367")).
		Run(func(args mock.Arguments) { order = append(order, "receiver") }).
		Return(int64(1), nil).Once()
	mockClients.On("ApplyBalanceDelta", mock.Anything, "sender", dec("-100")).
		Run(func(args mock.Arguments) { order = append(order, "sender") }).
		Return(int64(1), nil).Once()

	err := ledger.RevertTransfer(context.Background(), "sender", dec("-100"), "receiver", dec("367"))
	require.NoError(t, err)
	require.Equal(t, []string{"receiver", "sender"}, order)
}

// fakeBalanceStore is an in-memory ClientRepositoryFacade whose increments
// are serialized by a mutex, mirroring the database's atomic update.
type fakeBalanceStore struct {
	mu       sync.Mutex
	balances map[string]decimal.Decimal
}

func newFakeBalanceStore() *fakeBalanceStore {
	return &fakeBalanceStore{balances: make(map[string]decimal.Decimal)}
}

func (f *fakeBalanceStore) FindClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	balance, ok := f.balances[clientID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &domain.Client{ClientID: clientID, CurrentBalance: balance, IsActive: true}, nil
}

func (f *fakeBalanceStore) ApplyBalanceDelta(ctx context.Context, clientID string, delta decimal.Decimal) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.balances[clientID]; !ok {
		return 0, nil
	}
	f.balances[clientID] = f.balances[clientID].Add(delta)
	return 1, nil
}

func TestApply_ConcurrentIncrementsDoNotLoseUpdates(t *testing.T) {
	store := newFakeBalanceStore()
	store.balances["client-1"] = decimal.Zero
	ledger := services.NewBalanceLedger(store)

	const workers = 2
	const perWorker = 50

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				if err := ledger.Apply(context.Background(), "client-1", dec("1")); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()

	// 100 applications of a +1 debt effect: stored balance must be exactly -100.
	assert.True(t, store.balances["client-1"].Equal(dec("-100")),
		"got %s", store.balances["client-1"])
}

func TestApplyThenRevert_LeavesBalanceUnchanged(t *testing.T) {
	store := newFakeBalanceStore()
	store.balances["client-1"] = dec("42")
	ledger := services.NewBalanceLedger(store)

	effect := dec("17.5")
	require.NoError(t, ledger.Apply(context.Background(), "client-1", effect))
	require.NoError(t, ledger.Revert(context.Background(), "client-1", effect))

	assert.True(t, store.balances["client-1"].Equal(dec("42")))
}
