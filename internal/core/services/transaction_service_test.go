package services_test

import (
	"context"
	"testing"

	"github.com/bekzod-t/trade_ledger_app/internal/apperrors"
	"github.com/bekzod-t/trade_ledger_app/internal/core/domain"
	portssvc "github.com/bekzod-t/trade_ledger_app/internal/core/ports/services"
	"github.com/bekzod-t/trade_ledger_app/internal/core/services"
	"github.com/bekzod-t/trade_ledger_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type TransactionServiceTestSuite struct {
	suite.Suite
	mockTxns     *MockTransactionRepository
	mockClients  *MockClientRepository
	mockProducts *MockProductRepository
	mockCurr     *MockCurrencyRepository
	mockRates    *MockExchangeRateRepository
	mockAudit    *MockAuditLogRepository
	service      portssvc.TransactionSvcFacade
}

func (s *TransactionServiceTestSuite) SetupTest() {
	s.mockTxns = new(MockTransactionRepository)
	s.mockClients = new(MockClientRepository)
	s.mockProducts = new(MockProductRepository)
	s.mockCurr = new(MockCurrencyRepository)
	s.mockRates = new(MockExchangeRateRepository)
	s.mockAudit = new(MockAuditLogRepository)

	resolver := services.NewExchangeRateResolver(s.mockRates)
	calculator := services.NewTransactionCalculator(resolver, services.NewLineItemPricer(), s.mockProducts)
	ledger := services.NewBalanceLedger(s.mockClients)

	s.service = services.NewTransactionService(s.mockTxns, s.mockClients, s.mockCurr, s.mockAudit, calculator, ledger)
}

func (s *TransactionServiceTestSuite) activeClient(id string) *domain.Client {
	return &domain.Client{
		ClientID:          id,
		Name:              "Client " + id,
		BalanceCurrencyID: "cur-usd",
		IsActive:          true,
	}
}

func (s *TransactionServiceTestSuite) expectUSDCurrency() {
	cur := currency("cur-usd", "USD")
	s.mockCurr.On("FindCurrencyByID", mock.Anything, "cur-usd").Return(&cur, nil)
}

func (s *TransactionServiceTestSuite) TestCreateSale_Success() {
	ctx := context.Background()
	s.mockClients.On("FindClientByID", ctx, "client-1").Return(s.activeClient("client-1"), nil).Once()
	s.expectUSDCurrency()
	s.mockProducts.On("FindProductsByIDs", ctx, []string{"prod-1"}).
		Return(map[string]domain.Product{"prod-1": testProduct("prod-1", "Widget", "500")}, nil).Once()
	s.mockTxns.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction"), mock.Anything, mock.Anything).Return(nil).Once()
	// Debt effect +1000 decrements the stored balance.
	s.mockClients.On("ApplyBalanceDelta", ctx, "client-1", dec("-1000")).Return(int64(1), nil).Once()

	txn, err := s.service.CreateTransaction(ctx, dto.CreateTransactionRequest{
		Type:       string(domain.TypeSale),
		ClientID:   "client-1",
		CurrencyID: "cur-usd",
		Items:      []dto.TransactionItemRequest{{ProductID: "prod-1", Quantity: 2}},
	}, "user-1")

	s.Require().NoError(err)
	s.Require().NotNil(txn)
	s.NotEmpty(txn.TransactionID)
	s.Equal(domain.StatusCompleted, txn.Status)
	s.True(txn.UsdAmount.Equal(dec("1000")))
	s.True(txn.BalanceAmount.Equal(dec("1000")))
	s.Len(txn.Items, 1)
	s.Equal("user-1", txn.CreatedBy)
	s.mockTxns.AssertExpectations(s.T())
	s.mockClients.AssertExpectations(s.T())
}

func (s *TransactionServiceTestSuite) TestCreate_InvalidRateNothingPersisted() {
	ctx := context.Background()
	uzsCur := currency("cur-uzs", "UZS")
	s.mockClients.On("FindClientByID", ctx, "client-1").Return(s.activeClient("client-1"), nil).Once()
	s.mockCurr.On("FindCurrencyByID", mock.Anything, "cur-uzs").Return(&uzsCur, nil)
	s.expectUSDCurrency()

	amount := dec("100")
	rate := dec("12.5") // mistyped magnitude, outside [1000, 50000]
	_, err := s.service.CreateTransaction(ctx, dto.CreateTransactionRequest{
		Type:           string(domain.TypePayment),
		ClientID:       "client-1",
		CurrencyID:     "cur-uzs",
		ExchangeRate:   &rate,
		OriginalAmount: &amount,
	}, "user-1")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrInvalidRate)
	s.mockTxns.AssertNotCalled(s.T(), "SaveTransaction")
	s.mockClients.AssertNotCalled(s.T(), "ApplyBalanceDelta")
}

func (s *TransactionServiceTestSuite) TestCreate_BalanceFailureUnwindsPersistence() {
	ctx := context.Background()
	s.mockClients.On("FindClientByID", ctx, "client-1").Return(s.activeClient("client-1"), nil).Once()
	s.expectUSDCurrency()
	s.mockTxns.On("SaveTransaction", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	s.mockClients.On("ApplyBalanceDelta", ctx, "client-1", mock.Anything).Return(int64(0), nil).Once()
	s.mockTxns.On("HardDeleteTransaction", ctx, mock.AnythingOfType("string")).Return(nil).Once()

	amount := dec("100")
	_, err := s.service.CreateTransaction(ctx, dto.CreateTransactionRequest{
		Type:           string(domain.TypePayment),
		ClientID:       "client-1",
		CurrencyID:     "cur-usd",
		OriginalAmount: &amount,
	}, "user-1")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConcurrentModification)
	s.mockTxns.AssertExpectations(s.T())
}

func (s *TransactionServiceTestSuite) TestCreateTransfer_AppliesBothLegs() {
	ctx := context.Background()
	receiverID := "client-2"
	sender := s.activeClient("client-1")
	receiver := s.activeClient(receiverID)
	s.mockClients.On("FindClientByID", ctx, "client-1").Return(sender, nil).Once()
	s.mockClients.On("FindClientByID", ctx, receiverID).Return(receiver, nil).Once()
	s.expectUSDCurrency()
	s.mockTxns.On("SaveTransaction", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	// Sender's debt drops by 100 (stored balance +100), receiver's rises.
	s.mockClients.On("ApplyBalanceDelta", ctx, "client-1", dec("100")).Return(int64(1), nil).Once()
	s.mockClients.On("ApplyBalanceDelta", ctx, receiverID, dec("-100")).Return(int64(1), nil).Once()

	amount := dec("100")
	txn, err := s.service.CreateTransaction(ctx, dto.CreateTransactionRequest{
		Type:             string(domain.TypeTransfer),
		ClientID:         "client-1",
		ReceiverClientID: &receiverID,
		CurrencyID:       "cur-usd",
		OriginalAmount:   &amount,
	}, "user-1")

	s.Require().NoError(err)
	s.True(txn.BalanceAmount.Equal(dec("-100")))
	s.True(txn.ReceiverBalanceAmount().Equal(dec("100")))
	s.mockClients.AssertExpectations(s.T())
}

func (s *TransactionServiceTestSuite) TestCreateTransfer_SelfTransferRejected() {
	ctx := context.Background()
	clientID := "client-1"
	s.mockClients.On("FindClientByID", ctx, clientID).Return(s.activeClient(clientID), nil)
	s.expectUSDCurrency()

	amount := dec("100")
	_, err := s.service.CreateTransaction(ctx, dto.CreateTransactionRequest{
		Type:             string(domain.TypeTransfer),
		ClientID:         clientID,
		ReceiverClientID: &clientID,
		CurrencyID:       "cur-usd",
		OriginalAmount:   &amount,
	}, "user-1")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrBadRequest)
}

func (s *TransactionServiceTestSuite) storedPayment() *domain.Transaction {
	amount := dec("100")
	return &domain.Transaction{
		TransactionID:      "txn-1",
		Type:               domain.TypePayment,
		Status:             domain.StatusCompleted,
		ClientID:           "client-1",
		CurrencyID:         "cur-usd",
		ExchangeRate:       decimal.NewFromInt(1),
		ClientExchangeRate: decimal.NewFromInt(1),
		OriginalAmount:     &amount,
		UsdAmount:          dec("100"),
		BalanceAmount:      dec("-100"),
		FeeAmount:          decimal.Zero,
		Description:        "monthly payment",
	}
}

func (s *TransactionServiceTestSuite) TestDelete_RevertsThenSoftDeletes() {
	ctx := context.Background()
	stored := s.storedPayment()
	s.mockTxns.On("FindTransactionByID", ctx, "txn-1").Return(stored, nil).Once()
	// Reverting a -100 effect decrements the stored balance by 100.
	s.mockClients.On("ApplyBalanceDelta", ctx, "client-1", dec("-100")).Return(int64(1), nil).Once()
	s.mockTxns.On("SoftDeleteTransaction", ctx, "txn-1", domain.StatusCancelled, "user-1", mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := s.service.DeleteTransaction(ctx, "txn-1", "user-1")
	s.Require().NoError(err)
	s.mockTxns.AssertExpectations(s.T())
	s.mockClients.AssertExpectations(s.T())
}

func (s *TransactionServiceTestSuite) TestDelete_RevertFailureKeepsRecord() {
	ctx := context.Background()
	stored := s.storedPayment()
	s.mockTxns.On("FindTransactionByID", ctx, "txn-1").Return(stored, nil).Once()
	s.mockClients.On("ApplyBalanceDelta", ctx, "client-1", dec("-100")).Return(int64(0), nil).Once()

	err := s.service.DeleteTransaction(ctx, "txn-1", "user-1")
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConcurrentModification)
	s.mockTxns.AssertNotCalled(s.T(), "SoftDeleteTransaction")
}

func (s *TransactionServiceTestSuite) TestDelete_SoftDeleteFailureRestoresEffect() {
	ctx := context.Background()
	stored := s.storedPayment()
	s.mockTxns.On("FindTransactionByID", ctx, "txn-1").Return(stored, nil).Once()
	s.mockClients.On("ApplyBalanceDelta", ctx, "client-1", dec("-100")).Return(int64(1), nil).Once()
	s.mockTxns.On("SoftDeleteTransaction", ctx, "txn-1", domain.StatusCancelled, "user-1", mock.Anything).
		Return(apperrors.NewAppError(500, "db down", nil)).Once()
	// The reverted effect is reapplied so the ledger matches the kept record.
	s.mockClients.On("ApplyBalanceDelta", ctx, "client-1", dec("100")).Return(int64(1), nil).Once()

	err := s.service.DeleteTransaction(ctx, "txn-1", "user-1")
	s.Require().Error(err)
	s.NotErrorIs(err, apperrors.ErrReconciliationRequired)
	s.mockClients.AssertExpectations(s.T())
}

func (s *TransactionServiceTestSuite) TestUpdate_RevalidatesStoredRates() {
	ctx := context.Background()
	stored := s.storedPayment()
	stored.CurrencyID = "cur-uzs"
	stored.ExchangeRate = dec("60000") // outside UZS bounds; must fail re-validation
	uzsCur := currency("cur-uzs", "UZS")

	s.mockTxns.On("FindTransactionByID", ctx, "txn-1").Return(stored, nil).Once()
	s.mockCurr.On("FindCurrencyByID", mock.Anything, "cur-uzs").Return(&uzsCur, nil)
	s.expectUSDCurrency()
	s.mockClients.On("FindClientByID", ctx, "client-1").Return(s.activeClient("client-1"), nil).Once()
	// Revert of the stored effect, then the compensating reapply after the
	// calculation rejects the stored rate.
	s.mockClients.On("ApplyBalanceDelta", ctx, "client-1", dec("-100")).Return(int64(1), nil).Once()
	s.mockClients.On("ApplyBalanceDelta", ctx, "client-1", dec("100")).Return(int64(1), nil).Once()

	_, err := s.service.UpdateTransaction(ctx, "txn-1", dto.UpdateTransactionRequest{}, "user-1")
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrInvalidRate)
	s.mockTxns.AssertNotCalled(s.T(), "UpdateTransaction")
	s.mockClients.AssertExpectations(s.T())
}

func (s *TransactionServiceTestSuite) TestUpdate_AmountChangeRecalculatesEffect() {
	ctx := context.Background()
	stored := s.storedPayment()

	s.mockTxns.On("FindTransactionByID", ctx, "txn-1").Return(stored, nil).Once()
	s.expectUSDCurrency()
	s.mockClients.On("FindClientByID", ctx, "client-1").Return(s.activeClient("client-1"), nil).Once()
	// Revert of the stored -100 effect.
	s.mockClients.On("ApplyBalanceDelta", ctx, "client-1", dec("-100")).Return(int64(1), nil).Once()
	s.mockTxns.On("UpdateTransaction", ctx, mock.AnythingOfType("domain.Transaction"), mock.Anything, mock.Anything).Return(nil).Once()
	// Apply of the new -250 effect.
	s.mockClients.On("ApplyBalanceDelta", ctx, "client-1", dec("250")).Return(int64(1), nil).Once()

	newAmount := dec("250")
	txn, err := s.service.UpdateTransaction(ctx, "txn-1", dto.UpdateTransactionRequest{
		OriginalAmount: &newAmount,
	}, "user-1")

	s.Require().NoError(err)
	s.True(txn.UsdAmount.Equal(dec("250")))
	s.True(txn.BalanceAmount.Equal(dec("-250")))
	s.Equal("user-1", txn.LastUpdatedBy)
	s.mockClients.AssertExpectations(s.T())
	s.mockTxns.AssertExpectations(s.T())
}

func (s *TransactionServiceTestSuite) TestUpdate_SyntheticItemsKeepStoredPricing() {
	ctx := context.Background()
	stored := &domain.Transaction{
		TransactionID:      "txn-2",
		Type:               domain.TypeSale,
		Status:             domain.StatusCompleted,
		ClientID:           "client-1",
		CurrencyID:         "cur-usd",
		ExchangeRate:       decimal.NewFromInt(1),
		ClientExchangeRate: decimal.NewFromInt(1),
		UsdAmount:          dec("90"),
		BalanceAmount:      dec("90"),
		FeeAmount:          decimal.Zero,
		Items: []domain.TransactionItem{{
			ItemID:        "item-1",
			TransactionID: "txn-2",
			ProductID:     "prod-1",
			Quantity:      1,
			UnitPrice:     dec("90"), // discounted at create time, note already logged
			TotalPrice:    dec("90"),
		}},
	}

	s.mockTxns.On("FindTransactionByID", ctx, "txn-2").Return(stored, nil).Once()
	s.expectUSDCurrency()
	s.mockClients.On("FindClientByID", ctx, "client-1").Return(s.activeClient("client-1"), nil).Once()
	s.mockProducts.On("FindProductsByIDs", ctx, []string{"prod-1"}).
		Return(map[string]domain.Product{"prod-1": testProduct("prod-1", "Widget", "100")}, nil).Once()
	s.mockClients.On("ApplyBalanceDelta", ctx, "client-1", dec("-90")).Return(int64(1), nil).Once()

	var persisted domain.Transaction
	s.mockTxns.On("UpdateTransaction", ctx, mock.AnythingOfType("domain.Transaction"), mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { persisted = args.Get(1).(domain.Transaction) }).
		Return(nil).Once()
	s.mockClients.On("ApplyBalanceDelta", ctx, "client-1", dec("90")).Return(int64(1), nil).Once()

	// Change only the description; items are replayed from storage.
	newDesc := "corrected description"
	txn, err := s.service.UpdateTransaction(ctx, "txn-2", dto.UpdateTransactionRequest{
		Description: &newDesc,
	}, "user-1")

	s.Require().NoError(err)
	s.True(txn.UsdAmount.Equal(dec("90")), "stored pricing survives the replay")
	s.Equal("corrected description", persisted.Description,
		"no duplicate deviation note on replayed items")
}

func (s *TransactionServiceTestSuite) TestList_DelegatesWithDefaultLimit() {
	ctx := context.Background()
	s.mockTxns.On("ListTransactionsByClient", ctx, "client-1", 20, (*string)(nil)).
		Return([]domain.Transaction{*s.storedPayment()}, nil, nil).Once()

	page, err := s.service.ListTransactionsByClient(ctx, "client-1", dto.ListTransactionsParams{})
	s.Require().NoError(err)
	s.Len(page.Transactions, 1)
	s.Nil(page.NextToken)
}

func TestTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
