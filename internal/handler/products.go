package handler

import (
	"net/http"
	"strconv"

	"motofix/internal/dto"
	"motofix/internal/middleware"
	"motofix/internal/policy"
	"motofix/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductsHandler struct{ svc service.ProductService }

func NewProductsHandler(svc service.ProductService) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

// List godoc
// @Summary List products
// @Description Filters by name or code substring, category and low stock. buy_price is null for roles without cost access.
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param q query string false "Name or code substring"
// @Param category_id query string false "Category UUID"
// @Param low_stock query bool false "Only products at or below min stock"
// @Success 200 {array} dto.ProductResponse
// @Router /api/products [get]
func (h *ProductsHandler) List(c *gin.Context) {
	var filter dto.ProductFilter
	if !bindQuery(c, &filter) {
		return
	}
	list, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}
	maskProductCosts(c, list)
	respond(c, http.StatusOK, list)
}

func (h *ProductsHandler) Get(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}
	p, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	if !middleware.Can(c, policy.ViewCosts) {
		p.BuyPrice = nil
	}
	respond(c, http.StatusOK, p)
}

// Lookup godoc
// @Summary Look up a product by code
// @Description Checkout lookup, served from a short-lived cache.
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param code path string true "Product code"
// @Success 200 {object} dto.ProductLookupResponse
// @Failure 404 {object} apierror.APIError
// @Router /api/products/code/{code} [get]
func (h *ProductsHandler) Lookup(c *gin.Context) {
	resp, err := h.svc.Lookup(c.Request.Context(), c.Param("code"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, resp)
}

func (h *ProductsHandler) Create(c *gin.Context) {
	var req dto.ProductRequest
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

// Update godoc
// @Summary Update a product
// @Description Stock is set absolutely; a change is recorded as an adjustment movement.
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product UUID"
// @Param body body dto.ProductRequest true "Product"
// @Success 200 {object} dto.ProductResponse
// @Failure 409 {object} apierror.APIError
// @Router /api/products/{id} [put]
func (h *ProductsHandler) Update(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}
	var req dto.ProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, resp)
}

func (h *ProductsHandler) Delete(c *gin.Context) {
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

func (h *ProductsHandler) Movements(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	list, err := h.svc.Movements(c.Request.Context(), id, limit)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, list)
}

// ── Categories ───────────────────────────────────────────────────────────────

type CategoriesHandler struct{ svc service.CategoryService }

func NewCategoriesHandler(svc service.CategoryService) *CategoriesHandler {
	return &CategoriesHandler{svc: svc}
}

func (h *CategoriesHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, list)
}

func (h *CategoriesHandler) Create(c *gin.Context) {
	var req dto.CategoryRequest
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

// ── Workshop services ────────────────────────────────────────────────────────

type WorkshopHandler struct{ svc service.WorkshopService }

func NewWorkshopHandler(svc service.WorkshopService) *WorkshopHandler {
	return &WorkshopHandler{svc: svc}
}

func (h *WorkshopHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, list)
}

func (h *WorkshopHandler) Create(c *gin.Context) {
	var req dto.ServiceRequest
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

func (h *WorkshopHandler) Update(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}
	var req dto.ServiceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, resp)
}

func (h *WorkshopHandler) Delete(c *gin.Context) {
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
