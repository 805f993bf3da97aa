package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Metadata keys stashed on the provider session. They are the keys the seller
// already sees in the provider dashboard, so they stay stable.
const (
	MetaNickname    = "nickname"
	MetaPhone       = "telefono"
	MetaDescription = "descrizione"
)

// FlexString accepts either a JSON string or a JSON number. Forms send the
// amount as typed text, scripts often send a number.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number: %w", err)
	}
	*f = FlexString(n.String())
	return nil
}

type CreateCheckoutRequest struct {
	Description string     `json:"descrizione"`
	Amount      FlexString `json:"importoEuro"`
	Email       string     `json:"email" binding:"omitempty,email"`
	Phone       string     `json:"telefono"`
	Nickname    string     `json:"nickname"`
}

type CreateCheckoutResponse struct {
	URL       string `json:"url"`
	SessionID string `json:"sessionId"`
}

type SessionStatusResponse struct {
	SessionStatus     string  `json:"sessionStatus"`
	PaymentStatus     *string `json:"paymentStatus"`
	Amount            string  `json:"amount"`
	Currency          string  `json:"currency"`
	ChargeID          *string `json:"chargeId"`
	CustomerEmail     *string `json:"customer_email"`
	Phone             *string `json:"phone"`
	Nickname          *string `json:"nickname"`
	Description       *string `json:"description"`
	PaymentMethod     *string `json:"paymentMethod"`
	StripePaymentLink *string `json:"stripePaymentLink"`
	DashboardFallback string  `json:"dashboardPaymentsLink"`
}

type RegisterPaymentRequest struct {
	SessionID   string     `json:"sessionId"`
	Nickname    string     `json:"nickname"`
	Description string     `json:"descrizione"`
	Amount      FlexString `json:"importoEuro"`
	Phone       string     `json:"telefono"`
	Email       string     `json:"email"`
	AdminToken  string     `json:"admin_token"`
}

type SessionStatus string

const (
	SessionStatusOpen     SessionStatus = "open"
	SessionStatusComplete SessionStatus = "complete"
	SessionStatusExpired  SessionStatus = "expired"
)

// Session is the part of a provider checkout session this service cares about.
type Session struct {
	ID                  string
	URL                 string
	Status              SessionStatus
	PaymentStatus       string // payment intent status, empty before any payment attempt
	PaymentIntentID     string
	ChargeID            string
	PaymentMethod       string
	AmountTotal         int64
	AmountSubtotal      int64
	Currency            string
	CustomerEmail       string
	LineItemDescription string
	Metadata            map[string]string
}

// AmountMinor returns the total, falling back to the subtotal.
func (s *Session) AmountMinor() int64 {
	if s.AmountTotal != 0 {
		return s.AmountTotal
	}
	return s.AmountSubtotal
}

type CreateSessionParams struct {
	AmountMinor        int64
	Currency           string
	Locale             string
	Description        string
	PaymentMethodTypes []string
	CustomerEmail      string
	Metadata           map[string]string
	SuccessURL         string
	CancelURL          string
}

// SalesRecord is one row of the append-only sales log.
type SalesRecord struct {
	Timestamp   time.Time
	Nickname    string
	Description string
	Amount      string
	Phone       string
	Email       string
	SessionID   string
	URL         string
}
