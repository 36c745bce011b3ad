package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/invobook/invoicing_app/internal/core/domain"
	portssvc "github.com/invobook/invoicing_app/internal/core/ports/services"
	"github.com/invobook/invoicing_app/internal/dto"
	"github.com/invobook/invoicing_app/internal/middleware"
)

// invoiceHandler handles HTTP requests related to invoices.
type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvcFacade
	userService    portssvc.UserSvcFacade
}

// registerInvoiceRoutes registers routes related to invoices.
func registerInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceSvcFacade, userService portssvc.UserSvcFacade) {
	h := &invoiceHandler{invoiceService: invoiceService, userService: userService}

	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.createInvoice)
		invoices.GET("", h.listInvoices)
		invoices.GET("/:id", h.getInvoice)
		invoices.PUT("/:id", h.updateInvoice)
		invoices.DELETE("/:id", h.deleteInvoice)
		invoices.POST("/:id/send", h.sendInvoice)
		invoices.POST("/:id/payments", h.recordPayment)
		invoices.POST("/:id/mark-paid", h.markPaid)
		invoices.POST("/sweep-overdue", h.sweepOverdue)
	}
}

// createInvoice godoc
// @Summary Create a draft invoice
// @Description Creates a DRAFT invoice, snapshotting the client's details and assigning the next invoice number for the company.
// @Tags invoices
// @Accept json
// @Produce json
// @Param invoice body dto.CreateInvoiceRequest true "Invoice details"
// @Success 201 {object} dto.InvoiceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Client not found"
// @Security BearerAuth
// @Router /invoices [post]
func (h *invoiceHandler) createInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	callerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), callerID, req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create invoice")
		return
	}

	logger.Info("Invoice created", slog.String("invoice_id", invoice.InvoiceID), slog.String("invoice_number", invoice.InvoiceNumber))
	c.JSON(http.StatusCreated, dto.ToInvoiceResponse(invoice))
}

// listInvoices godoc
// @Summary List invoices
// @Description Lists the caller's company's invoices, newest first, with token-based pagination and optional status and client filters.
// @Tags invoices
// @Produce json
// @Param status query string false "Filter by status (DRAFT, SENT, UNPAID, PAID, OVERDUE)"
// @Param clientID query string false "Filter by client"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Continuation token from a previous page"
// @Success 200 {object} dto.ListInvoicesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices [get]
func (h *invoiceHandler) listInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	callerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var params dto.ListInvoicesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	invoices, nextToken, err := h.invoiceService.ListInvoices(c.Request.Context(), callerID, params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list invoices")
		return
	}
	c.JSON(http.StatusOK, dto.ToListInvoicesResponse(invoices, nextToken))
}

// getInvoice godoc
// @Summary Get an invoice by ID
// @Description Retrieves an invoice with its line items.
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices/{id} [get]
func (h *invoiceHandler) getInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	callerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	invoice, err := h.invoiceService.GetInvoiceByID(c.Request.Context(), callerID, c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve invoice")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// updateInvoice godoc
// @Summary Update a draft invoice
// @Description Edits a DRAFT invoice. Items, when present, replace the existing line items. Any other status is rejected.
// @Tags invoices
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param invoice body dto.UpdateInvoiceRequest true "Fields to update"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices/{id} [put]
func (h *invoiceHandler) updateInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	callerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	invoice, err := h.invoiceService.UpdateInvoice(c.Request.Context(), callerID, c.Param("id"), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update invoice")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// deleteInvoice godoc
// @Summary Delete a draft invoice
// @Description Removes a DRAFT invoice. Any other status is rejected.
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices/{id} [delete]
func (h *invoiceHandler) deleteInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	callerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), callerID, c.Param("id")); err != nil {
		respondServiceError(c, logger, err, "Failed to delete invoice")
		return
	}

	logger.Info("Invoice deleted", slog.String("invoice_id", c.Param("id")))
	c.Status(http.StatusNoContent)
}

// sendInvoice godoc
// @Summary Send an invoice
// @Description Moves a DRAFT invoice to SENT. Further edits are rejected from then on.
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices/{id}/send [post]
func (h *invoiceHandler) sendInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	callerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	invoice, err := h.invoiceService.SendInvoice(c.Request.Context(), callerID, c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to send invoice")
		return
	}

	logger.Info("Invoice sent", slog.String("invoice_id", invoice.InvoiceID))
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// recordPayment godoc
// @Summary Record a payment on an invoice
// @Description Applies a payment: posts an income transaction to the given cash account, moves its balance and recomputes the invoice's payment state, all in one store transaction.
// @Tags invoices
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param payment body dto.RecordPaymentRequest true "Payment details"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices/{id}/payments [post]
func (h *invoiceHandler) recordPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	callerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	invoice, err := h.invoiceService.RecordPayment(c.Request.Context(), callerID, c.Param("id"), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to record payment")
		return
	}

	logger.Info("Payment recorded", slog.String("invoice_id", invoice.InvoiceID), slog.String("status", string(invoice.Status)))
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// markPaid godoc
// @Summary Mark an invoice as paid
// @Description Settles whatever remains outstanding on the invoice and recomputes its status. No cash account transaction is posted; use the payments endpoint to record money movement.
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} ErrorResponse "Invoice is already paid"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices/{id}/mark-paid [post]
func (h *invoiceHandler) markPaid(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	callerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	invoice, err := h.invoiceService.MarkPaid(c.Request.Context(), callerID, c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to mark invoice paid")
		return
	}

	logger.Info("Invoice marked paid", slog.String("invoice_id", invoice.InvoiceID))
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// sweepOverdue godoc
// @Summary Run the overdue sweep
// @Description Moves every unpaid invoice past its due date to OVERDUE. The sweep also runs on a schedule; this endpoint triggers it on demand. SUPERADMIN only.
// @Tags invoices
// @Produce json
// @Success 200 {object} map[string]int "Number of invoices swept"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices/sweep-overdue [post]
func (h *invoiceHandler) sweepOverdue(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	callerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	caller, err := h.userService.GetUserByID(c.Request.Context(), callerID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to run overdue sweep")
		return
	}
	if caller.Role != domain.RoleSuperadmin {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
		return
	}

	swept, err := h.invoiceService.SweepOverdue(c.Request.Context(), time.Now().UTC())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to run overdue sweep")
		return
	}

	logger.Info("Overdue sweep completed", slog.Int("swept", len(swept)))
	c.JSON(http.StatusOK, gin.H{"swept": len(swept)})
}
