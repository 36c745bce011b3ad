package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/invobook/invoicing_app/internal/core/ports/services"
	"github.com/invobook/invoicing_app/internal/dto"
	"github.com/invobook/invoicing_app/internal/middleware"
)

// cashAccountHandler handles HTTP requests related to cash accounts.
type cashAccountHandler struct {
	accountService portssvc.CashAccountSvcFacade
}

// registerCashAccountRoutes registers routes related to cash accounts.
func registerCashAccountRoutes(rg *gin.RouterGroup, accountService portssvc.CashAccountSvcFacade) {
	h := &cashAccountHandler{accountService: accountService}

	accounts := rg.Group("/cash-accounts")
	{
		accounts.POST("", h.createCashAccount)
		accounts.GET("", h.listCashAccounts)
		accounts.GET("/:id", h.getCashAccount)
		accounts.PUT("/:id", h.updateCashAccount)
	}
}

// createCashAccount godoc
// @Summary Create a cash account
// @Description Creates a cash account in the caller's company. The running balance starts at the initial balance.
// @Tags cash-accounts
// @Accept json
// @Produce json
// @Param account body dto.CreateCashAccountRequest true "Account details"
// @Success 201 {object} dto.CashAccountResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /cash-accounts [post]
func (h *cashAccountHandler) createCashAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	callerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateCashAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	account, err := h.accountService.CreateCashAccount(c.Request.Context(), callerID, req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create cash account")
		return
	}

	logger.Info("Cash account created", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.ToCashAccountResponse(account))
}

// listCashAccounts godoc
// @Summary List cash accounts
// @Description Lists the caller's company's cash accounts.
// @Tags cash-accounts
// @Produce json
// @Success 200 {object} dto.ListCashAccountsResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /cash-accounts [get]
func (h *cashAccountHandler) listCashAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	callerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	accounts, err := h.accountService.ListCashAccounts(c.Request.Context(), callerID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list cash accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ToListCashAccountsResponse(accounts))
}

// getCashAccount godoc
// @Summary Get a cash account by ID
// @Tags cash-accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} dto.CashAccountResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /cash-accounts/{id} [get]
func (h *cashAccountHandler) getCashAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	callerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	account, err := h.accountService.GetCashAccountByID(c.Request.Context(), callerID, c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve cash account")
		return
	}
	c.JSON(http.StatusOK, dto.ToCashAccountResponse(account))
}

// updateCashAccount godoc
// @Summary Update a cash account
// @Description Updates a cash account's name or active flag. Balances move only through transactions.
// @Tags cash-accounts
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param account body dto.UpdateCashAccountRequest true "Fields to update"
// @Success 200 {object} dto.CashAccountResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /cash-accounts/{id} [put]
func (h *cashAccountHandler) updateCashAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	callerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdateCashAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	account, err := h.accountService.UpdateCashAccount(c.Request.Context(), callerID, c.Param("id"), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update cash account")
		return
	}
	c.JSON(http.StatusOK, dto.ToCashAccountResponse(account))
}
