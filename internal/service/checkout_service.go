package service

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"go.uber.org/zap"

	"paylink/internal/models"
	"paylink/internal/normalize"
	"paylink/internal/provider"
	"paylink/shared/pkg/apperr"
	"paylink/shared/pkg/metrics"
)

const (
	sessionIDPlaceholder = "{CHECKOUT_SESSION_ID}"
	manualEntryURL       = "-"
)

// SalesLog is the append-only record of issued and completed checkouts.
type SalesLog interface {
	Append(ctx context.Context, rec models.SalesRecord) error
}

type CheckoutOptions struct {
	BaseURL            string
	FrontendSuccessURL string
	Currency           string
	Locale             string
	PaymentMethods     []string
	DefaultCountryCode string
	AdminToken         string
}

type CheckoutService struct {
	provider provider.Provider
	sales    SalesLog
	opts     CheckoutOptions
	logger   *zap.Logger
	now      func() time.Time
}

func NewCheckoutService(p provider.Provider, sales SalesLog, opts CheckoutOptions, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{
		provider: p,
		sales:    sales,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
	}
}

// Create validates the purchase, opens a hosted checkout session and records
// the issuance in the sales log.
func (s *CheckoutService) Create(ctx context.Context, req *models.CreateCheckoutRequest) (*models.CreateCheckoutResponse, error) {
	description := strings.TrimSpace(req.Description)
	if description == "" {
		metrics.CheckoutSessions.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return nil, apperr.InvalidInputErr("Dati non validi (descrizione)")
	}

	amount, err := normalize.ParseAmount(string(req.Amount))
	if err != nil {
		metrics.CheckoutSessions.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return nil, &apperr.AppError{Kind: apperr.InvalidInput, PublicMsg: "Dati non validi (importo)", Err: err}
	}
	minor := normalize.ToMinorUnits(amount)

	email := strings.TrimSpace(req.Email)
	phone := normalize.NormalizePhone(req.Phone, s.opts.DefaultCountryCode)
	nickname := strings.TrimSpace(req.Nickname)

	session, err := s.provider.CreateSession(ctx, models.CreateSessionParams{
		AmountMinor:        minor,
		Currency:           s.opts.Currency,
		Locale:             s.opts.Locale,
		Description:        description,
		PaymentMethodTypes: s.opts.PaymentMethods,
		CustomerEmail:      email,
		Metadata: map[string]string{
			models.MetaNickname:    nickname,
			models.MetaPhone:       phone,
			models.MetaDescription: description,
		},
		SuccessURL: s.successURL(),
		CancelURL:  s.opts.BaseURL + "/cancel.html",
	})
	if err != nil {
		metrics.CheckoutSessions.WithLabelValues(metrics.OutcomeError).Inc()
		s.logger.Error("failed to create checkout session",
			zap.Error(err),
			zap.Int64("amount_minor", minor))
		return nil, apperr.UpstreamErr(provider.ErrorMessage(err), err)
	}
	metrics.CheckoutSessions.WithLabelValues(metrics.OutcomeOK).Inc()

	rec := models.SalesRecord{
		Timestamp:   s.now(),
		Nickname:    nickname,
		Description: description,
		Amount:      normalize.FormatMinor(minor),
		Phone:       phone,
		Email:       email,
		SessionID:   session.ID,
		URL:         session.URL,
	}
	if err := s.sales.Append(ctx, rec); err != nil {
		metrics.SalesLogAppends.WithLabelValues("issuance", metrics.OutcomeError).Inc()
		s.logger.Error("failed to append sales record",
			zap.Error(err),
			zap.String("session_id", session.ID))
		return nil, apperr.Wrap(err)
	}
	metrics.SalesLogAppends.WithLabelValues("issuance", metrics.OutcomeOK).Inc()

	s.logger.Info("checkout session created",
		zap.String("session_id", session.ID),
		zap.String("amount", rec.Amount),
		zap.String("nickname", nickname))

	return &models.CreateCheckoutResponse{URL: session.URL, SessionID: session.ID}, nil
}

// RegisterPayment records a payment the seller confirmed by hand. token is the
// header value; the body field is used when the header is empty.
func (s *CheckoutService) RegisterPayment(ctx context.Context, req *models.RegisterPaymentRequest, token string) error {
	if err := s.Authorize(token, req.AdminToken); err != nil {
		return err
	}

	sessionID := strings.TrimSpace(req.SessionID)
	description := strings.TrimSpace(req.Description)
	if sessionID == "" || description == "" || strings.TrimSpace(string(req.Amount)) == "" {
		return apperr.InvalidInputErr("Dati incompleti")
	}
	amount, err := normalize.ParseAmount(string(req.Amount))
	if err != nil {
		return &apperr.AppError{Kind: apperr.InvalidInput, PublicMsg: "Dati non validi (importo)", Err: err}
	}

	rec := models.SalesRecord{
		Timestamp:   s.now(),
		Nickname:    strings.TrimSpace(req.Nickname),
		Description: description,
		Amount:      amount.StringFixed(2),
		Phone:       normalize.NormalizePhone(req.Phone, s.opts.DefaultCountryCode),
		Email:       strings.TrimSpace(req.Email),
		SessionID:   sessionID,
		URL:         manualEntryURL,
	}
	if err := s.sales.Append(ctx, rec); err != nil {
		metrics.SalesLogAppends.WithLabelValues("manual", metrics.OutcomeError).Inc()
		return apperr.Wrap(err)
	}
	metrics.SalesLogAppends.WithLabelValues("manual", metrics.OutcomeOK).Inc()

	s.logger.Info("payment registered manually",
		zap.String("session_id", sessionID),
		zap.String("amount", rec.Amount))
	return nil
}

// Authorize checks the admin token, preferring the header value over the body value.
func (s *CheckoutService) Authorize(headerToken, bodyToken string) error {
	if s.opts.AdminToken == "" {
		return &apperr.AppError{Kind: apperr.Internal, PublicMsg: "ADMIN_TOKEN not configured on server"}
	}
	token := headerToken
	if token == "" {
		token = bodyToken
	}
	if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(s.opts.AdminToken)) != 1 {
		return apperr.UnauthorizedErr("Unauthorized")
	}
	return nil
}

func (s *CheckoutService) successURL() string {
	target := s.opts.FrontendSuccessURL
	if target == "" {
		target = s.opts.BaseURL + "/success.html"
	}
	sep := "?"
	if strings.Contains(target, "?") {
		sep = "&"
	}
	return target + sep + "session_id=" + sessionIDPlaceholder
}
