package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"motofix/internal/apierror"
	"motofix/internal/dto"
	"motofix/internal/middleware"
	"motofix/internal/policy"
	"motofix/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	// Report json field names instead of Go field names.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid JSON: "+err.Error()))
		return false
	}
	return runValidation(c, req)
}

// bindQuery is bindAndValidate for query-string parameters.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid query: "+err.Error()))
		return false
	}
	return runValidation(c, req)
}

func runValidation(c *gin.Context, req interface{}) bool {
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return false
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fieldPath(fe)] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// fieldPath drops the struct name prefix: "RecordSaleRequest.items[0].quantity" → "items[0].quantity".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// parseID reads a uuid path parameter, answering 400 when it is malformed.
func parseID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return uuid.Nil, false
	}
	return id, true
}

// respond writes the success envelope.
func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"data": data})
}

func respondList(c *gin.Context, data interface{}, meta *dto.ListMeta) {
	c.JSON(http.StatusOK, gin.H{"data": data, "meta": meta})
}

// errorStatus maps service errors onto HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrEmptySale),
		errors.Is(err, service.ErrInvalidLineItem),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidID),
		errors.Is(err, service.ErrInvalidRange),
		errors.Is(err, service.ErrInvalidPaymentMethod),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrSelfDeactivation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrServiceNotFound),
		errors.Is(err, service.ErrCustomerNotFound),
		errors.Is(err, service.ErrMechanicNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrSaleNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrDuplicateInvoice),
		errors.Is(err, service.ErrDuplicate),
		errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrInUse):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the error envelope for err. Unknown errors are attached to the
// context for ErrorHandler to log and answered with a generic message.
func fail(c *gin.Context, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.AbortWithStatusJSON(status, apierror.New("Internal server error"))
		return
	}
	c.AbortWithStatusJSON(status, apierror.New(err.Error()))
}

// ── response masking ─────────────────────────────────────────────────────────

func maskSaleMoney(c *gin.Context, items []dto.SaleListItem) {
	if middleware.Can(c, policy.ViewFinance) {
		return
	}
	for i := range items {
		items[i].TotalAmount = nil
		items[i].Discount = nil
	}
}

func maskSaleDetail(c *gin.Context, d *dto.SaleDetailResponse) {
	if middleware.Can(c, policy.ViewFinance) {
		return
	}
	d.TotalAmount = nil
	d.Discount = nil
	for i := range d.Items {
		d.Items[i].Price = nil
		d.Items[i].Subtotal = nil
	}
}

func maskProductCosts(c *gin.Context, items []dto.ProductResponse) {
	if middleware.Can(c, policy.ViewCosts) {
		return
	}
	for i := range items {
		items[i].BuyPrice = nil
	}
}
