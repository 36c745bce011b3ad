package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/invobook/invoicing_app/internal/core/ports/services"
	"github.com/invobook/invoicing_app/internal/dto"
	"github.com/invobook/invoicing_app/internal/middleware"
)

// reportingHandler handles HTTP requests for dashboard aggregates.
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

// registerReportingRoutes registers routes related to reporting.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := &reportingHandler{reportingService: reportingService}

	reports := rg.Group("/reports")
	{
		reports.GET("/cash-flow", h.monthlyCashFlow)
		reports.GET("/invoice-status", h.invoiceStatusBreakdown)
	}
}

// monthlyCashFlow godoc
// @Summary Monthly cash flow report
// @Description Aggregates the caller's company's income and expense per calendar month. Defaults to the trailing twelve months.
// @Tags reports
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.CashFlowReportResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/cash-flow [get]
func (h *reportingHandler) monthlyCashFlow(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	callerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var params dto.CashFlowParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	rows, err := h.reportingService.MonthlyCashFlow(c.Request.Context(), callerID, params.From, params.To)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build cash flow report")
		return
	}
	c.JSON(http.StatusOK, dto.ToCashFlowReportResponse(rows))
}

// invoiceStatusBreakdown godoc
// @Summary Invoice status breakdown
// @Description Counts the caller's company's invoices per status. Every status appears, zero-filled when empty.
// @Tags reports
// @Produce json
// @Success 200 {object} dto.InvoiceStatusBreakdownResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/invoice-status [get]
func (h *reportingHandler) invoiceStatusBreakdown(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	callerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	rows, err := h.reportingService.InvoiceStatusBreakdown(c.Request.Context(), callerID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build invoice status report")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceStatusBreakdownResponse(rows))
}
