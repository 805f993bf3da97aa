package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"paylink/internal/mailer"
	"paylink/internal/models"
	"paylink/internal/receipt"
	"paylink/shared/pkg/metrics"
)

type ReceiptOptions struct {
	Brand       string
	SellerEmail string
	From        string
	FromName    string
}

type ReceiptService struct {
	renderer *receipt.Renderer
	mailer   mailer.Service
	guard    ReceiptGuard
	opts     ReceiptOptions
	logger   *zap.Logger
	now      func() time.Time
}

func NewReceiptService(renderer *receipt.Renderer, m mailer.Service, guard ReceiptGuard, opts ReceiptOptions, logger *zap.Logger) *ReceiptService {
	return &ReceiptService{
		renderer: renderer,
		mailer:   m,
		guard:    guard,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
	}
}

// Send renders a PDF receipt and mails it to the seller and, when known, the
// buyer. Repeated deliveries for the same session are suppressed.
func (s *ReceiptService) Send(ctx context.Context, sess *models.Session, rec models.SalesRecord) error {
	recipients := s.recipients(rec.Email)
	if len(recipients) == 0 {
		s.logger.Debug("no receipt recipients", zap.String("session_id", sess.ID))
		return nil
	}

	key := "receipt:" + sess.ID
	claimed, err := s.guard.Claim(ctx, key)
	if err != nil {
		s.logger.Warn("receipt guard unavailable, sending anyway",
			zap.Error(err),
			zap.String("session_id", sess.ID))
		claimed = true
	}
	if !claimed {
		metrics.Receipts.WithLabelValues(metrics.OutcomeSuppressed).Inc()
		s.logger.Info("receipt already sent for session", zap.String("session_id", sess.ID))
		return nil
	}

	pdf, err := s.renderer.Render(receipt.Receipt{
		Number:        strings.ToUpper(uuid.NewString()[:8]),
		Brand:         s.opts.Brand,
		IssuedAt:      s.now(),
		SessionID:     sess.ID,
		Nickname:      rec.Nickname,
		Email:         rec.Email,
		Phone:         rec.Phone,
		Description:   rec.Description,
		Amount:        rec.Amount,
		Currency:      sess.Currency,
		PaymentMethod: sess.PaymentMethod,
	})
	if err != nil {
		s.release(ctx, key)
		metrics.Receipts.WithLabelValues(metrics.OutcomeError).Inc()
		return err
	}

	var errs []error
	sent := 0
	for _, to := range recipients {
		err := s.mailer.Send(ctx, mailer.Email{
			FromName: s.opts.FromName,
			From:     s.opts.From,
			To:       []string{to},
			Subject:  fmt.Sprintf("%s - %s", s.opts.Brand, rec.Description),
			TextBody: fmt.Sprintf("Pagamento ricevuto.\n\n%s\nImporto: %s %s\nSessione: %s\n\nIn allegato la ricevuta in PDF.\n",
				rec.Description, rec.Amount, strings.ToUpper(sess.Currency), sess.ID),
			Attachments: []mailer.Attachment{
				{Filename: "ricevuta-" + sess.ID + ".pdf", ContentType: "application/pdf", Data: pdf},
			},
		})
		if err != nil {
			metrics.Receipts.WithLabelValues(metrics.OutcomeError).Inc()
			errs = append(errs, fmt.Errorf("send receipt to %s: %w", to, err))
			continue
		}
		metrics.Receipts.WithLabelValues(metrics.OutcomeOK).Inc()
		sent++
	}

	if sent == 0 {
		s.release(ctx, key)
	}
	return errors.Join(errs...)
}

func (s *ReceiptService) recipients(buyer string) []string {
	var out []string
	if s.opts.SellerEmail != "" {
		out = append(out, s.opts.SellerEmail)
	}
	if buyer != "" && !strings.EqualFold(buyer, s.opts.SellerEmail) {
		out = append(out, buyer)
	}
	return out
}

func (s *ReceiptService) release(ctx context.Context, key string) {
	if err := s.guard.Release(ctx, key); err != nil {
		s.logger.Warn("failed to release receipt claim", zap.Error(err), zap.String("key", key))
	}
}
