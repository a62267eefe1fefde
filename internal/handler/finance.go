package handler

import (
	"net/http"
	"strconv"

	"motofix/internal/apierror"
	"motofix/internal/dto"
	"motofix/internal/middleware"
	"motofix/internal/policy"
	"motofix/internal/service"

	"github.com/gin-gonic/gin"
)

type ExpensesHandler struct{ svc service.ExpenseService }

func NewExpensesHandler(svc service.ExpenseService) *ExpensesHandler {
	return &ExpensesHandler{svc: svc}
}

// List godoc
// @Summary List expenses
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param start query string false "YYYY-MM-DD, inclusive"
// @Param end query string false "YYYY-MM-DD, inclusive"
// @Success 200 {array} dto.ExpenseResponse
// @Router /api/expenses [get]
func (h *ExpensesHandler) List(c *gin.Context) {
	var filter dto.ExpenseFilter
	if !bindQuery(c, &filter) {
		return
	}
	list, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, list)
}

func (h *ExpensesHandler) Create(c *gin.Context) {
	var req dto.ExpenseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, resp)
}

func (h *ExpensesHandler) Delete(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Reports ──────────────────────────────────────────────────────────────────

type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

// Stats godoc
// @Summary Today's dashboard figures
// @Description Income and expense are null for roles without finance access.
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.DashboardStats
// @Router /api/dashboard/stats [get]
func (h *ReportsHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	if !middleware.Can(c, policy.ViewFinance) {
		stats.IncomeToday = nil
		stats.ExpenseToday = nil
	}
	respond(c, http.StatusOK, stats)
}

func (h *ReportsHandler) Charts(c *gin.Context) {
	year := 0
	if raw := c.Query("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("year must be a number"))
			return
		}
		year = y
	}
	data, err := h.svc.Charts(c.Request.Context(), year)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, data)
}

// ProfitLoss godoc
// @Summary Profit and loss over a date range
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param start query string true "YYYY-MM-DD, inclusive"
// @Param end query string true "YYYY-MM-DD, inclusive"
// @Success 200 {object} dto.ProfitLossResponse
// @Failure 400 {object} apierror.APIError
// @Router /api/reports/profit-loss [get]
func (h *ReportsHandler) ProfitLoss(c *gin.Context) {
	var q dto.ProfitLossQuery
	if !bindQuery(c, &q) {
		return
	}
	resp, err := h.svc.ProfitLoss(c.Request.Context(), q)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, resp)
}
