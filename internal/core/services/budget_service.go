package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/welth_backend/internal/apperrors"
	"github.com/SscSPs/welth_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/welth_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/welth_backend/internal/core/ports/services"
	"github.com/SscSPs/welth_backend/internal/dto"
	"github.com/SscSPs/welth_backend/internal/middleware"
	"github.com/SscSPs/welth_backend/internal/utils/money"
	"github.com/SscSPs/welth_backend/internal/utils/schedule"
)

// budgetService provides budget upsert and month-to-date usage reads.
type budgetService struct {
	budgetRepo  portsrepo.BudgetRepositoryFacade
	txnRepo     portsrepo.TransactionReader
	accountRepo portsrepo.AccountReader
}

// NewBudgetService creates a new budget service.
func NewBudgetService(budgetRepo portsrepo.BudgetRepositoryFacade, txnRepo portsrepo.TransactionReader, accountRepo portsrepo.AccountReader) portssvc.BudgetSvcFacade {
	return &budgetService{budgetRepo: budgetRepo, txnRepo: txnRepo, accountRepo: accountRepo}
}

var _ portssvc.BudgetSvcFacade = (*budgetService)(nil)

func (s *budgetService) GetBudget(ctx context.Context, userID string) (*dto.BudgetResponse, error) {
	budget, err := s.budgetRepo.FindBudgetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	currentExpenses, err := s.monthToDateExpenses(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &dto.BudgetResponse{
		BudgetID:        budget.BudgetID,
		Amount:          budget.Amount,
		CurrentExpenses: currentExpenses,
		LastAlertSent:   budget.LastAlertSent,
	}, nil
}

func (s *budgetService) UpsertBudget(ctx context.Context, req dto.UpsertBudgetRequest, userID string) (*dto.BudgetResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	amount, err := money.ToAmount(req.Amount)
	if err != nil || amount.IsNegative() {
		return nil, fmt.Errorf("%w: budget amount must be a non-negative decimal", apperrors.ErrValidation)
	}

	now := time.Now()
	budget := domain.Budget{
		BudgetID: uuid.NewString(),
		UserID:   userID,
		Amount:   amount,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	saved, err := s.budgetRepo.UpsertBudget(ctx, budget)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert budget: %w", err)
	}

	currentExpenses, err := s.monthToDateExpenses(ctx, userID)
	if err != nil {
		return nil, err
	}

	logger.Info("Budget upserted", slog.String("budget_id", saved.BudgetID), slog.String("amount", amount.String()))
	return &dto.BudgetResponse{
		BudgetID:        saved.BudgetID,
		Amount:          saved.Amount,
		CurrentExpenses: currentExpenses,
		LastAlertSent:   saved.LastAlertSent,
	}, nil
}

// monthToDateExpenses sums COMPLETED expenses on the user's default account
// for the current calendar month. No default account means no usage to report.
func (s *budgetService) monthToDateExpenses(ctx context.Context, userID string) (decimal.Decimal, error) {
	defaultAccount, err := s.accountRepo.FindDefaultAccount(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}

	now := time.Now()
	start, _ := schedule.MonthWindow(now)
	return s.txnRepo.SumExpenses(ctx, userID, &defaultAccount.AccountID, start, now)
}
