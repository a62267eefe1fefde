package service

import "errors"

// Sentinel errors returned by the services. Handlers map them to HTTP status
// codes with errors.Is; every other error is a 500.
var (
	// Validation (400)
	ErrEmptySale            = errors.New("sale has no line items")
	ErrInvalidLineItem      = errors.New("invalid line item")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidID            = errors.New("invalid id")
	ErrInvalidRange         = errors.New("invalid date range")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidRole          = errors.New("invalid role")

	// Missing references (404)
	ErrNotFound         = errors.New("not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrServiceNotFound  = errors.New("service not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrMechanicNotFound = errors.New("mechanic not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrSaleNotFound     = errors.New("sale not found")

	// Conflicts (409)
	ErrDuplicateInvoice  = errors.New("invoice number already used")
	ErrDuplicate         = errors.New("already exists")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInUse             = errors.New("still referenced by other records")

	// Auth (401 / 403)
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrSelfDeactivation   = errors.New("cannot deactivate your own account")
)
