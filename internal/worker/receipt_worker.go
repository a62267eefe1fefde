package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"motofix/internal/dto"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReceiptRenderer loads a sale and writes its PDF receipt.
type ReceiptRenderer interface {
	RenderReceipt(ctx context.Context, saleID uuid.UUID) (*dto.ReceiptFile, error)
}

// ErrSaleNotFound lets a renderer tell the worker the job can never succeed.
var ErrSaleNotFound = errors.New("sale not found")

// ReceiptWorker renders the receipt of a committed sale and, when the
// customer has an e-mail address and mail is enabled, queues the e-mail.
type ReceiptWorker struct {
	renderer    ReceiptRenderer
	dispatcher  *Dispatcher
	mailEnabled bool
}

func NewReceiptWorker(renderer ReceiptRenderer, dispatcher *Dispatcher, mailEnabled bool) *ReceiptWorker {
	return &ReceiptWorker{renderer: renderer, dispatcher: dispatcher, mailEnabled: mailEnabled}
}

func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ReceiptJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return permanent("invalid receipt payload: %v", err)
	}
	saleID, err := uuid.Parse(payload.SaleID)
	if err != nil {
		return permanent("invalid sale_id %q", payload.SaleID)
	}

	receipt, err := w.renderer.RenderReceipt(ctx, saleID)
	if err != nil {
		if errors.Is(err, ErrSaleNotFound) {
			return permanent("sale %s not found", saleID)
		}
		return fmt.Errorf("render receipt: %w", err)
	}
	log.Info().Str("sale_id", payload.SaleID).Str("pdf", receipt.Path).Msg("receipt_worker: receipt rendered")

	if !w.mailEnabled || receipt.CustomerEmail == nil || *receipt.CustomerEmail == "" {
		return nil
	}
	job := EmailJobPayload{
		ToEmail: *receipt.CustomerEmail,
		Subject: fmt.Sprintf("Your receipt %s", receipt.InvoiceNo),
		Body: fmt.Sprintf("Hi %s,\n\nThank you for your visit. Your receipt %s is attached.\nTotal: %s\n",
			receipt.CustomerName, receipt.InvoiceNo, receipt.Total.StringFixed(0)),
		PDFPath: receipt.Path,
	}
	if err := w.dispatcher.EnqueueEmail(ctx, job); err != nil {
		// The receipt exists; a lost e-mail is not worth re-rendering for.
		log.Warn().Err(err).Str("sale_id", payload.SaleID).Msg("receipt_worker: failed to enqueue email")
	}
	return nil
}
