package handler

import (
	"net/http"

	"motofix/internal/dto"
	"motofix/internal/middleware"
	"motofix/internal/service"

	"github.com/gin-gonic/gin"
)

type SalesHandler struct {
	svc      service.SaleService
	receipts service.ReceiptService
}

func NewSalesHandler(svc service.SaleService, receipts service.ReceiptService) *SalesHandler {
	return &SalesHandler{svc: svc, receipts: receipts}
}

// Record godoc
// @Summary      Record a sale
// @Description  Atomically stores the sale and its line items, decrements product stock and stamps the customer's last service. total_amount is stored as sent.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RecordSaleRequest true "Checkout"
// @Success      201  {object} dto.RecordSaleResponse
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.ValidationError
// @Router       /api/transactions [post]
func (h *SalesHandler) Record(c *gin.Context) {
	var req dto.RecordSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.RecordSale(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, resp)
}

// List godoc
// @Summary      List sales
// @Description  Newest first. Money fields are null for roles without finance access.
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        date  query string false "YYYY-MM-DD"
// @Param        page  query int    false "Page (default 1)"
// @Param        limit query int    false "Page size (default 50, max 200)"
// @Success      200   {array} dto.SaleListItem
// @Router       /api/transactions [get]
func (h *SalesHandler) List(c *gin.Context) {
	var filter dto.SaleFilter
	if !bindQuery(c, &filter) {
		return
	}
	list, meta, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}
	maskSaleMoney(c, list)
	respondList(c, list, meta)
}

func (h *SalesHandler) Get(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	maskSaleDetail(c, resp)
	respond(c, http.StatusOK, resp)
}

// Receipt godoc
// @Summary      Download the PDF receipt of a sale
// @Tags         transactions
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id path string true "Sale UUID"
// @Success      200 {file} file
// @Failure      404 {object} apierror.APIError
// @Router       /api/transactions/{id}/receipt [get]
func (h *SalesHandler) Receipt(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}
	file, err := h.receipts.Receipt(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.FileAttachment(file.Path, file.InvoiceNo+".pdf")
}
