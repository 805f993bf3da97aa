package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v76"

	"paylink/internal/models"
)

// Provider is the hosted-checkout capability this service depends on.
type Provider interface {
	CreateSession(ctx context.Context, params models.CreateSessionParams) (*models.Session, error)
	// GetSession returns the session with payment intent, charge and line items resolved.
	GetSession(ctx context.Context, id string) (*models.Session, error)
}

// ErrorMessage extracts the provider's human readable message from err.
func ErrorMessage(err error) string {
	var se *stripe.Error
	if errors.As(err, &se) && se.Msg != "" {
		return se.Msg
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

const dashboardHost = "https://dashboard.stripe.com"

// DashboardLinks builds links into the provider dashboard. They are a
// convenience for the seller and never used for anything else.
type DashboardLinks struct {
	AccountID string
	Live      bool
}

func (d DashboardLinks) prefix() string {
	var b strings.Builder
	b.WriteString(dashboardHost)
	if d.AccountID != "" {
		b.WriteString("/")
		b.WriteString(d.AccountID)
	}
	if !d.Live {
		b.WriteString("/test")
	}
	return b.String()
}

// PaymentURL links to a single charge, or returns "" if chargeID is unknown.
func (d DashboardLinks) PaymentURL(chargeID string) string {
	if chargeID == "" {
		return ""
	}
	return fmt.Sprintf("%s/payments/%s", d.prefix(), chargeID)
}

// PaymentsURL links to the payments list.
func (d DashboardLinks) PaymentsURL() string {
	return d.prefix() + "/payments"
}
