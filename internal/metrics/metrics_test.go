package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware_CountsByRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/api/products/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/products/:id", "204"))
	for _, id := range []string{"a", "b"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products/"+id, nil))
	}
	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/products/:id", "204"))
	assert.Equal(t, 2.0, after-before)
}

func TestObserveSale(t *testing.T) {
	before := testutil.ToFloat64(salesRecorded.WithLabelValues("QRIS"))
	beforeAmount := testutil.ToFloat64(salesAmount)

	ObserveSale("QRIS", decimal.NewFromInt(150000))

	assert.Equal(t, 1.0, testutil.ToFloat64(salesRecorded.WithLabelValues("QRIS"))-before)
	assert.Equal(t, 150000.0, testutil.ToFloat64(salesAmount)-beforeAmount)
}

func TestHandler_ExposesCollectors(t *testing.T) {
	SetLowStock(3)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/metrics", Handler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "motofix_low_stock_products 3"))
}
