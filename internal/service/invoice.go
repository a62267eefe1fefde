package service

import (
	"context"
	"fmt"
	"time"

	"motofix/internal/config"
	"motofix/internal/repository"
)

// InvoiceGenerator issues the human-readable invoice number of a sale. It runs
// inside the sale transaction so a sequence draw and the insert that uses it
// share one unit of work.
type InvoiceGenerator interface {
	Next(ctx context.Context, tx repository.SaleTx, now time.Time) (string, error)
}

// NewInvoiceGenerator picks the generator for an INVOICE_STRATEGY value.
// Unknown values fall back to the sequence generator.
func NewInvoiceGenerator(strategy string) InvoiceGenerator {
	if strategy == config.InvoiceStrategyTimestamp {
		return TimestampInvoices{}
	}
	return SequenceInvoices{}
}

// SequenceInvoices formats INV-YYYYMMDD-000042 from a database sequence.
// Sequence values are never handed out twice, so concurrent checkouts cannot
// collide.
type SequenceInvoices struct{}

func (SequenceInvoices) Next(ctx context.Context, tx repository.SaleTx, now time.Time) (string, error) {
	n, err := tx.NextInvoiceSeq(ctx)
	if err != nil {
		return "", fmt.Errorf("next invoice number: %w", err)
	}
	return fmt.Sprintf("INV-%s-%06d", now.Format("20060102"), n), nil
}

// TimestampInvoices formats INV-<unix millis>. Two sales in the same
// millisecond get the same number; the unique index rejects the second one
// with ErrDuplicateInvoice.
type TimestampInvoices struct{}

func (TimestampInvoices) Next(_ context.Context, _ repository.SaleTx, now time.Time) (string, error) {
	return fmt.Sprintf("INV-%d", now.UnixMilli()), nil
}
