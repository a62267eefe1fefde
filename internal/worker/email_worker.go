package worker

import (
	"context"
	"encoding/json"

	"motofix/internal/infra"

	"github.com/rs/zerolog/log"
)

type EmailJobPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	PDFPath string `json:"pdf_path"`
}

// ReceiptMailer is satisfied by *infra.Mailer.
type ReceiptMailer interface {
	SendReceipt(to, subject, body, pdfPath string) error
}

// EmailWorker sends receipt e-mails through a circuit breaker so a dead SMTP
// relay fails fast instead of tying up every worker.
type EmailWorker struct {
	mailer  ReceiptMailer
	breaker *infra.Breaker
}

func NewEmailWorker(mailer ReceiptMailer, breaker *infra.Breaker) *EmailWorker {
	return &EmailWorker{mailer: mailer, breaker: breaker}
}

func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return permanent("invalid email payload: %v", err)
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email, skipping")
		return nil
	}

	err := w.breaker.Execute(func() error {
		return w.mailer.SendReceipt(payload.ToEmail, payload.Subject, payload.Body, payload.PDFPath)
	})
	if err != nil {
		log.Error().Err(err).Str("to", payload.ToEmail).Msg("email_worker: send failed")
		return err
	}
	log.Info().Str("to", payload.ToEmail).Msg("email_worker: receipt sent")
	return nil
}
