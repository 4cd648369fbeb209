package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/welth_backend/internal/apperrors"
	"github.com/SscSPs/welth_backend/internal/core/domain"
	portssvc "github.com/SscSPs/welth_backend/internal/core/ports/services"
	"github.com/SscSPs/welth_backend/internal/core/services"
	"github.com/SscSPs/welth_backend/internal/dto"
)

type BudgetServiceTestSuite struct {
	suite.Suite
	mockBudgetRepo  *MockBudgetRepository
	mockTxnRepo     *MockTransactionRepository
	mockAccountRepo *MockAccountRepository
	service         portssvc.BudgetSvcFacade
}

func (suite *BudgetServiceTestSuite) SetupTest() {
	suite.mockBudgetRepo = new(MockBudgetRepository)
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewBudgetService(suite.mockBudgetRepo, suite.mockTxnRepo, suite.mockAccountRepo)
}

func (suite *BudgetServiceTestSuite) TestGetBudget_IncludesMonthToDateExpenses() {
	ctx := context.Background()
	userID := uuid.NewString()
	budget := &domain.Budget{BudgetID: uuid.NewString(), UserID: userID, Amount: decimal.NewFromInt(1000)}
	account := &domain.Account{AccountID: uuid.NewString(), UserID: userID, IsDefault: true}

	suite.mockBudgetRepo.On("FindBudgetByUserID", ctx, userID).Return(budget, nil).Once()
	suite.mockAccountRepo.On("FindDefaultAccount", ctx, userID).Return(account, nil).Once()
	suite.mockTxnRepo.On("SumExpenses", ctx, userID, &account.AccountID, mock.Anything, mock.Anything).
		Return(decimal.NewFromInt(420), nil).Once()

	resp, err := suite.service.GetBudget(ctx, userID)

	suite.Require().NoError(err)
	suite.Equal(budget.BudgetID, resp.BudgetID)
	suite.True(resp.CurrentExpenses.Equal(decimal.NewFromInt(420)))
}

func (suite *BudgetServiceTestSuite) TestGetBudget_NoDefaultAccountMeansZeroExpenses() {
	ctx := context.Background()
	userID := uuid.NewString()
	budget := &domain.Budget{BudgetID: uuid.NewString(), UserID: userID, Amount: decimal.NewFromInt(1000)}

	suite.mockBudgetRepo.On("FindBudgetByUserID", ctx, userID).Return(budget, nil).Once()
	suite.mockAccountRepo.On("FindDefaultAccount", ctx, userID).Return(nil, apperrors.ErrNotFound).Once()

	resp, err := suite.service.GetBudget(ctx, userID)

	suite.Require().NoError(err)
	suite.True(resp.CurrentExpenses.IsZero())
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SumExpenses", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BudgetServiceTestSuite) TestGetBudget_NotSet() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockBudgetRepo.On("FindBudgetByUserID", ctx, userID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetBudget(ctx, userID)

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *BudgetServiceTestSuite) TestUpsertBudget_NegativeAmountRejected() {
	ctx := context.Background()
	userID := uuid.NewString()
	req := dto.UpsertBudgetRequest{Amount: decimal.NewFromInt(-100)}

	_, err := suite.service.UpsertBudget(ctx, req, userID)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockBudgetRepo.AssertNotCalled(suite.T(), "UpsertBudget", mock.Anything, mock.Anything)
}

func (suite *BudgetServiceTestSuite) TestUpsertBudget_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	req := dto.UpsertBudgetRequest{Amount: decimal.NewFromInt(1500)}
	saved := &domain.Budget{BudgetID: uuid.NewString(), UserID: userID, Amount: decimal.NewFromInt(1500)}

	suite.mockBudgetRepo.On("UpsertBudget", ctx, mock.MatchedBy(func(b domain.Budget) bool {
		return b.UserID == userID && b.Amount.Equal(decimal.NewFromInt(1500))
	})).Return(saved, nil).Once()
	suite.mockAccountRepo.On("FindDefaultAccount", ctx, userID).Return(nil, apperrors.ErrNotFound).Once()

	resp, err := suite.service.UpsertBudget(ctx, req, userID)

	suite.Require().NoError(err)
	suite.Equal(saved.BudgetID, resp.BudgetID)
	suite.True(resp.Amount.Equal(decimal.NewFromInt(1500)))
	suite.mockBudgetRepo.AssertExpectations(suite.T())
}

func TestBudgetServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BudgetServiceTestSuite))
}
