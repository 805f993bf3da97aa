package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"

	"paylink/internal/models"
	"paylink/internal/normalize"
	"paylink/internal/provider"
	"paylink/shared/pkg/apperr"
	"paylink/shared/pkg/metrics"
)

const (
	EventCheckoutSessionCompleted = "checkout.session.completed"

	fallbackDescription = "Prodotto"
)

// ReceiptSender delivers the receipt for a completed session.
type ReceiptSender interface {
	Send(ctx context.Context, sess *models.Session, rec models.SalesRecord) error
}

type WebhookResult struct {
	EventID   string
	EventType string
	Verified  bool
	Handled   bool
	SessionID string
}

type WebhookService struct {
	provider provider.Provider
	sales    SalesLog
	receipts ReceiptSender // nil when receipts are disabled
	secret   string
	logger   *zap.Logger
	now      func() time.Time
}

func NewWebhookService(p provider.Provider, sales SalesLog, receipts ReceiptSender, secret string, logger *zap.Logger) *WebhookService {
	return &WebhookService{
		provider: p,
		sales:    sales,
		receipts: receipts,
		secret:   secret,
		logger:   logger,
		now:      time.Now,
	}
}

// Insecure reports whether events are accepted without a signature check.
func (s *WebhookService) Insecure() bool {
	return s.secret == ""
}

// Handle authenticates and processes one delivery. Only authentication and
// parse failures are returned; everything after that is logged.
func (s *WebhookService) Handle(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	event, err := s.parse(payload, signature)
	if err != nil {
		return nil, err
	}

	res := &WebhookResult{
		EventID:   event.ID,
		EventType: string(event.Type),
		Verified:  !s.Insecure(),
	}
	metrics.WebhookEvents.WithLabelValues(res.EventType, strconv.FormatBool(res.Verified)).Inc()

	log := s.logger.With(
		zap.String("event_id", res.EventID),
		zap.String("event_type", res.EventType),
		zap.Bool("verified", res.Verified))
	if !res.Verified {
		log.Warn("processing unsigned webhook event; set STRIPE_WEBHOOK_SECRET to verify deliveries")
	}

	if res.EventType != EventCheckoutSessionCompleted {
		log.Debug("webhook event ignored")
		return res, nil
	}

	res.SessionID = objectID(event)
	if res.SessionID == "" {
		log.Warn("completed event without session id")
		return res, nil
	}
	res.Handled = true
	s.recordCompletion(ctx, log.With(zap.String("session_id", res.SessionID)), res.SessionID)

	return res, nil
}

func (s *WebhookService) parse(payload []byte, signature string) (stripe.Event, error) {
	if s.Insecure() {
		var event stripe.Event
		if err := json.Unmarshal(payload, &event); err != nil {
			return stripe.Event{}, &apperr.AppError{Kind: apperr.InvalidInput, PublicMsg: "Webhook error: invalid payload", Err: err}
		}
		return event, nil
	}

	event, err := webhook.ConstructEventWithOptions(payload, signature, s.secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		metrics.WebhookEvents.WithLabelValues("unknown", "rejected").Inc()
		s.logger.Warn("webhook signature verification failed", zap.Error(err))
		return stripe.Event{}, &apperr.AppError{
			Kind:      apperr.Unauthorized,
			PublicMsg: fmt.Sprintf("Webhook error: %s", err.Error()),
			Err:       err,
		}
	}
	return event, nil
}

func (s *WebhookService) recordCompletion(ctx context.Context, log *zap.Logger, sessionID string) {
	sess, err := s.provider.GetSession(ctx, sessionID)
	if err != nil {
		log.Warn("failed to refetch completed session", zap.Error(err))
		return
	}

	rec := models.SalesRecord{
		Timestamp:   s.now(),
		Nickname:    sess.Metadata[models.MetaNickname],
		Description: describeOrDefault(sess),
		Amount:      normalize.FormatMinor(sess.AmountMinor()),
		Phone:       sess.Metadata[models.MetaPhone],
		Email:       sess.CustomerEmail,
		SessionID:   sess.ID,
		URL:         sess.URL,
	}

	if err := s.sales.Append(ctx, rec); err != nil {
		metrics.SalesLogAppends.WithLabelValues("webhook", metrics.OutcomeError).Inc()
		log.Warn("failed to append sales record", zap.Error(err))
	} else {
		metrics.SalesLogAppends.WithLabelValues("webhook", metrics.OutcomeOK).Inc()
		log.Info("payment recorded",
			zap.String("description", rec.Description),
			zap.String("amount", rec.Amount))
	}

	if s.receipts == nil {
		return
	}
	if err := s.receipts.Send(ctx, sess, rec); err != nil {
		log.Warn("failed to send receipt", zap.Error(err))
	}
}

// describe picks the first line item label, then the stashed description.
func describe(sess *models.Session) string {
	if sess.LineItemDescription != "" {
		return sess.LineItemDescription
	}
	return sess.Metadata[models.MetaDescription]
}

func describeOrDefault(sess *models.Session) string {
	if d := describe(sess); d != "" {
		return d
	}
	return fallbackDescription
}

func objectID(event stripe.Event) string {
	if event.Data == nil {
		return ""
	}
	if id, ok := event.Data.Object["id"].(string); ok {
		return id
	}
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(event.Data.Raw, &obj); err != nil {
		return ""
	}
	return obj.ID
}
