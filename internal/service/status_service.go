package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"paylink/internal/models"
	"paylink/internal/normalize"
	"paylink/internal/provider"
	"paylink/shared/pkg/apperr"
	"paylink/shared/pkg/metrics"
)

type StatusService struct {
	provider  provider.Provider
	dashboard provider.DashboardLinks
	logger    *zap.Logger
}

func NewStatusService(p provider.Provider, dashboard provider.DashboardLinks, logger *zap.Logger) *StatusService {
	return &StatusService{
		provider:  p,
		dashboard: dashboard,
		logger:    logger,
	}
}

// Reconcile fetches the current provider state of a session and summarises it.
func (s *StatusService) Reconcile(ctx context.Context, sessionID string) (*models.SessionStatusResponse, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		metrics.StatusLookups.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return nil, apperr.InvalidInputErr("session_id mancante")
	}

	sess, err := s.provider.GetSession(ctx, sessionID)
	if err != nil {
		metrics.StatusLookups.WithLabelValues(metrics.OutcomeError).Inc()
		s.logger.Error("failed to retrieve checkout session",
			zap.Error(err),
			zap.String("session_id", sessionID))
		return nil, apperr.UpstreamErr(provider.ErrorMessage(err), err)
	}
	metrics.StatusLookups.WithLabelValues(metrics.OutcomeOK).Inc()

	currency := sess.Currency
	if currency == "" {
		currency = "eur"
	}

	return &models.SessionStatusResponse{
		SessionStatus:     string(sess.Status),
		PaymentStatus:     optional(sess.PaymentStatus),
		Amount:            normalize.FormatMinor(sess.AmountMinor()),
		Currency:          currency,
		ChargeID:          optional(sess.ChargeID),
		CustomerEmail:     optional(sess.CustomerEmail),
		Phone:             optional(sess.Metadata[models.MetaPhone]),
		Nickname:          optional(sess.Metadata[models.MetaNickname]),
		Description:       optional(describe(sess)),
		PaymentMethod:     optional(sess.PaymentMethod),
		StripePaymentLink: optional(s.dashboard.PaymentURL(sess.ChargeID)),
		DashboardFallback: s.dashboard.PaymentsURL(),
	}, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
