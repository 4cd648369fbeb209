package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/welth_backend/internal/apperrors"
	portssvc "github.com/SscSPs/welth_backend/internal/core/ports/services"
	"github.com/SscSPs/welth_backend/internal/dto"
	"github.com/SscSPs/welth_backend/internal/middleware"
)

const dashboardRecentLimit = 10

// dashboardHandler aggregates the data the dashboard page renders in one call.
type dashboardHandler struct {
	accountService     portssvc.AccountSvcFacade
	transactionService portssvc.TransactionSvcFacade
	budgetService      portssvc.BudgetSvcFacade
}

func registerDashboardRoutes(
	rg *gin.RouterGroup,
	accountService portssvc.AccountSvcFacade,
	transactionService portssvc.TransactionSvcFacade,
	budgetService portssvc.BudgetSvcFacade,
) {
	h := &dashboardHandler{
		accountService:     accountService,
		transactionService: transactionService,
		budgetService:      budgetService,
	}
	rg.GET("/dashboard", h.getDashboard)
}

func (h *dashboardHandler) getDashboard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to list accounts for dashboard", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}

	recent, err := h.transactionService.ListRecentTransactions(c.Request.Context(), userID, dashboardRecentLimit)
	if err != nil {
		logger.Error("Failed to list recent transactions for dashboard", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}

	// No budget is a normal state for a new user, not a dashboard failure.
	var budget *dto.BudgetResponse
	budget, err = h.budgetService.GetBudget(c.Request.Context(), userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to get budget for dashboard", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
			return
		}
		budget = nil
	}

	c.JSON(http.StatusOK, dto.DashboardResponse{
		Accounts:           dto.ToAccountResponses(accounts),
		Budget:             budget,
		RecentTransactions: dto.ToTransactionResponses(recent),
	})
}
