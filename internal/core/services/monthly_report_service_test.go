package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/welth_backend/internal/core/domain"
	portssvc "github.com/SscSPs/welth_backend/internal/core/ports/services"
	"github.com/SscSPs/welth_backend/internal/core/services"
)

type MonthlyReportServiceTestSuite struct {
	suite.Suite
	mockTxnRepo    *MockTransactionRepository
	mockUserRepo   *MockUserRepository
	mockInsights   *MockInsightGenerator
	mockDispatcher *MockNotificationDispatcher
	service        portssvc.MonthlyReportSvcFacade
}

func (suite *MonthlyReportServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockInsights = new(MockInsightGenerator)
	suite.mockDispatcher = new(MockNotificationDispatcher)
	suite.service = services.NewMonthlyReportService(suite.mockTxnRepo, suite.mockUserRepo, suite.mockInsights, suite.mockDispatcher)
}

func completedTxn(userID string, txnType domain.TransactionType, amount int64, category string) domain.Transaction {
	return domain.Transaction{
		TransactionID: uuid.NewString(),
		UserID:        userID,
		AccountID:     uuid.NewString(),
		Type:          txnType,
		Amount:        decimal.NewFromInt(amount),
		Category:      category,
		Status:        domain.StatusCompleted,
	}
}

func (suite *MonthlyReportServiceTestSuite) TestBuildMonthlyStats_AggregatesByTypeAndCategory() {
	ctx := context.Background()
	userID := uuid.NewString()
	monthOf := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	txns := []domain.Transaction{
		completedTxn(userID, domain.Income, 3000, "salary"),
		completedTxn(userID, domain.Expense, 1200, "rent"),
		completedTxn(userID, domain.Expense, 300, "groceries"),
		completedTxn(userID, domain.Expense, 200, "groceries"),
	}
	suite.mockTxnRepo.On("ListTransactionsInRange", ctx, userID,
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		mock.AnythingOfType("time.Time")).
		Return(txns, nil).Once()

	stats, err := suite.service.BuildMonthlyStats(ctx, userID, monthOf)

	suite.Require().NoError(err)
	suite.Equal(4, stats.TransactionCount)
	suite.True(stats.TotalIncome.Equal(decimal.NewFromInt(3000)))
	suite.True(stats.TotalExpenses.Equal(decimal.NewFromInt(1700)))
	suite.True(stats.ByCategory["rent"].Equal(decimal.NewFromInt(1200)))
	suite.True(stats.ByCategory["groceries"].Equal(decimal.NewFromInt(500)))
	suite.NotContains(stats.ByCategory, "salary")
}

func (suite *MonthlyReportServiceTestSuite) TestBuildMonthlyStats_EmptyMonth() {
	ctx := context.Background()
	userID := uuid.NewString()
	monthOf := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	suite.mockTxnRepo.On("ListTransactionsInRange", ctx, userID, mock.Anything, mock.Anything).
		Return([]domain.Transaction{}, nil).Once()

	stats, err := suite.service.BuildMonthlyStats(ctx, userID, monthOf)

	suite.Require().NoError(err)
	suite.Equal(0, stats.TransactionCount)
	suite.True(stats.TotalIncome.IsZero())
	suite.True(stats.TotalExpenses.IsZero())
	suite.Empty(stats.ByCategory)
}

func (suite *MonthlyReportServiceTestSuite) TestRunMonthlyReports_DispatchesPreviousMonthPerUser() {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 0, 30, 0, 0, time.UTC)
	user := domain.User{UserID: uuid.NewString(), Email: "user@example.com", Name: "Test User"}

	suite.mockUserRepo.On("ListUsers", ctx).Return([]domain.User{user}, nil).Once()
	// The report covers February, not March.
	suite.mockTxnRepo.On("ListTransactionsInRange", mock.Anything, user.UserID,
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		mock.AnythingOfType("time.Time")).
		Return([]domain.Transaction{completedTxn(user.UserID, domain.Expense, 100, "misc")}, nil).Once()
	suite.mockInsights.On("GenerateInsights", mock.Anything, mock.Anything, "February 2024").
		Return([]string{"one", "two", "three"}, nil).Once()
	suite.mockDispatcher.On("Send", mock.Anything, user.Email,
		"Your Monthly Financial Report - February 2024",
		mock.MatchedBy(func(body string) bool { return strings.Contains(body, "one") })).
		Return(nil).Once()
	suite.mockUserRepo.On("MarkReportSent", mock.Anything, user.UserID, now).Return(nil).Once()

	err := suite.service.RunMonthlyReports(ctx, now)

	suite.Require().NoError(err)
	suite.mockDispatcher.AssertExpectations(suite.T())
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *MonthlyReportServiceTestSuite) TestRunMonthlyReports_InsightFailureFallsBack() {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 0, 30, 0, 0, time.UTC)
	user := domain.User{UserID: uuid.NewString(), Email: "user@example.com", Name: "Test User"}

	suite.mockUserRepo.On("ListUsers", ctx).Return([]domain.User{user}, nil).Once()
	suite.mockTxnRepo.On("ListTransactionsInRange", mock.Anything, user.UserID, mock.Anything, mock.Anything).
		Return([]domain.Transaction{}, nil).Once()
	suite.mockInsights.On("GenerateInsights", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("model unavailable")).Once()
	// Fallback insights still produce a complete report.
	suite.mockDispatcher.On("Send", mock.Anything, user.Email, mock.Anything,
		mock.MatchedBy(func(body string) bool {
			return strings.Contains(body, services.FallbackInsights[0])
		})).
		Return(nil).Once()
	suite.mockUserRepo.On("MarkReportSent", mock.Anything, user.UserID, now).Return(nil).Once()

	err := suite.service.RunMonthlyReports(ctx, now)

	suite.Require().NoError(err)
	suite.mockDispatcher.AssertExpectations(suite.T())
}

func (suite *MonthlyReportServiceTestSuite) TestRunMonthlyReports_WrongInsightCountFallsBack() {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 0, 30, 0, 0, time.UTC)
	user := domain.User{UserID: uuid.NewString(), Email: "user@example.com", Name: "Test User"}

	suite.mockUserRepo.On("ListUsers", ctx).Return([]domain.User{user}, nil).Once()
	suite.mockTxnRepo.On("ListTransactionsInRange", mock.Anything, user.UserID, mock.Anything, mock.Anything).
		Return([]domain.Transaction{}, nil).Once()
	suite.mockInsights.On("GenerateInsights", mock.Anything, mock.Anything, mock.Anything).
		Return([]string{"only one"}, nil).Once()
	suite.mockDispatcher.On("Send", mock.Anything, user.Email, mock.Anything,
		mock.MatchedBy(func(body string) bool {
			return strings.Contains(body, services.FallbackInsights[2])
		})).
		Return(nil).Once()
	suite.mockUserRepo.On("MarkReportSent", mock.Anything, user.UserID, now).Return(nil).Once()

	err := suite.service.RunMonthlyReports(ctx, now)

	suite.Require().NoError(err)
	suite.mockDispatcher.AssertExpectations(suite.T())
}

func (suite *MonthlyReportServiceTestSuite) TestRunMonthlyReports_UserFailureIsIsolated() {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 0, 30, 0, 0, time.UTC)
	broken := domain.User{UserID: uuid.NewString(), Email: "broken@example.com"}
	healthy := domain.User{UserID: uuid.NewString(), Email: "healthy@example.com"}
	listErr := errors.New("query timeout")

	suite.mockUserRepo.On("ListUsers", ctx).Return([]domain.User{broken, healthy}, nil).Once()
	suite.mockTxnRepo.On("ListTransactionsInRange", mock.Anything, broken.UserID, mock.Anything, mock.Anything).
		Return(nil, listErr).Once()
	suite.mockTxnRepo.On("ListTransactionsInRange", mock.Anything, healthy.UserID, mock.Anything, mock.Anything).
		Return([]domain.Transaction{}, nil).Once()
	suite.mockInsights.On("GenerateInsights", mock.Anything, mock.Anything, mock.Anything).
		Return([]string{"one", "two", "three"}, nil).Once()
	suite.mockDispatcher.On("Send", mock.Anything, healthy.Email, mock.Anything, mock.Anything).
		Return(nil).Once()
	suite.mockUserRepo.On("MarkReportSent", mock.Anything, healthy.UserID, now).Return(nil).Once()

	err := suite.service.RunMonthlyReports(ctx, now)

	// The healthy user still got a report; the failure is reported for the run.
	suite.ErrorIs(err, listErr)
	suite.mockDispatcher.AssertExpectations(suite.T())
	// The broken user never reached dispatch, so no marker for them.
	suite.mockUserRepo.AssertNotCalled(suite.T(), "MarkReportSent", mock.Anything, broken.UserID, mock.Anything)
}

func (suite *MonthlyReportServiceTestSuite) TestRunMonthlyReports_RestartDoesNotResend() {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 2, 0, 0, 0, time.UTC)
	// Reported by the previous process an hour before it restarted.
	earlier := now.Add(-time.Hour)
	reported := domain.User{UserID: uuid.NewString(), Email: "done@example.com", LastReportSent: &earlier}
	pending := domain.User{UserID: uuid.NewString(), Email: "pending@example.com"}

	suite.mockUserRepo.On("ListUsers", ctx).Return([]domain.User{reported, pending}, nil).Once()
	suite.mockTxnRepo.On("ListTransactionsInRange", mock.Anything, pending.UserID, mock.Anything, mock.Anything).
		Return([]domain.Transaction{}, nil).Once()
	suite.mockInsights.On("GenerateInsights", mock.Anything, mock.Anything, mock.Anything).
		Return([]string{"one", "two", "three"}, nil).Once()
	suite.mockDispatcher.On("Send", mock.Anything, pending.Email, mock.Anything, mock.Anything).
		Return(nil).Once()
	suite.mockUserRepo.On("MarkReportSent", mock.Anything, pending.UserID, now).Return(nil).Once()

	err := suite.service.RunMonthlyReports(ctx, now)

	suite.Require().NoError(err)
	// The already-reported user gets nothing a second time this month.
	suite.mockDispatcher.AssertNotCalled(suite.T(), "Send", mock.Anything, reported.Email, mock.Anything, mock.Anything)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "ListTransactionsInRange", mock.Anything, reported.UserID, mock.Anything, mock.Anything)
	suite.mockDispatcher.AssertExpectations(suite.T())
}

func (suite *MonthlyReportServiceTestSuite) TestRunMonthlyReports_LastMonthMarkerDoesNotSuppress() {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 0, 30, 0, 0, time.UTC)
	lastMonth := time.Date(2024, 2, 1, 0, 30, 0, 0, time.UTC)
	user := domain.User{UserID: uuid.NewString(), Email: "user@example.com", LastReportSent: &lastMonth}

	suite.mockUserRepo.On("ListUsers", ctx).Return([]domain.User{user}, nil).Once()
	suite.mockTxnRepo.On("ListTransactionsInRange", mock.Anything, user.UserID, mock.Anything, mock.Anything).
		Return([]domain.Transaction{}, nil).Once()
	suite.mockInsights.On("GenerateInsights", mock.Anything, mock.Anything, mock.Anything).
		Return([]string{"one", "two", "three"}, nil).Once()
	suite.mockDispatcher.On("Send", mock.Anything, user.Email, mock.Anything, mock.Anything).
		Return(nil).Once()
	suite.mockUserRepo.On("MarkReportSent", mock.Anything, user.UserID, now).Return(nil).Once()

	err := suite.service.RunMonthlyReports(ctx, now)

	suite.Require().NoError(err)
	suite.mockDispatcher.AssertExpectations(suite.T())
}

func (suite *MonthlyReportServiceTestSuite) TestRunMonthlyReports_DispatchFailureStillMarked() {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 0, 30, 0, 0, time.UTC)
	user := domain.User{UserID: uuid.NewString(), Email: "user@example.com"}
	sendErr := errors.New("smtp relay down")

	suite.mockUserRepo.On("ListUsers", ctx).Return([]domain.User{user}, nil).Once()
	suite.mockTxnRepo.On("ListTransactionsInRange", mock.Anything, user.UserID, mock.Anything, mock.Anything).
		Return([]domain.Transaction{}, nil).Once()
	suite.mockInsights.On("GenerateInsights", mock.Anything, mock.Anything, mock.Anything).
		Return([]string{"one", "two", "three"}, nil).Once()
	suite.mockDispatcher.On("Send", mock.Anything, user.Email, mock.Anything, mock.Anything).
		Return(sendErr).Once()
	// Once per month means per attempt, not per successful delivery.
	suite.mockUserRepo.On("MarkReportSent", mock.Anything, user.UserID, now).Return(nil).Once()

	err := suite.service.RunMonthlyReports(ctx, now)

	suite.ErrorIs(err, sendErr)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func TestMonthlyReportServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MonthlyReportServiceTestSuite))
}
