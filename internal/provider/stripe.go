package provider

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"paylink/internal/models"
)

type StripeProvider struct {
	api *client.API
}

func NewStripeProvider(secretKey string) *StripeProvider {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProvider{api: api}
}

func (p *StripeProvider) CreateSession(ctx context.Context, in models.CreateSessionParams) (*models.Session, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice(in.PaymentMethodTypes),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(in.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(in.Description),
					},
					UnitAmount: stripe.Int64(in.AmountMinor),
				},
			},
		},
		SuccessURL: stripe.String(in.SuccessURL),
		CancelURL:  stripe.String(in.CancelURL),
	}
	params.Context = ctx

	if in.Locale != "" {
		params.Locale = stripe.String(in.Locale)
	}
	if in.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(in.CustomerEmail)
	}
	for k, v := range in.Metadata {
		params.AddMetadata(k, v)
	}

	s, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe create checkout session: %w", err)
	}
	return toSession(s), nil
}

func (p *StripeProvider) GetSession(ctx context.Context, id string) (*models.Session, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	params.AddExpand("payment_intent")
	params.AddExpand("payment_intent.latest_charge")
	params.AddExpand("line_items")

	s, err := p.api.CheckoutSessions.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("stripe retrieve checkout session %s: %w", id, err)
	}
	return toSession(s), nil
}

func toSession(s *stripe.CheckoutSession) *models.Session {
	out := &models.Session{
		ID:             s.ID,
		URL:            s.URL,
		Status:         models.SessionStatus(s.Status),
		AmountTotal:    s.AmountTotal,
		AmountSubtotal: s.AmountSubtotal,
		Currency:       string(s.Currency),
		CustomerEmail:  s.CustomerEmail,
		Metadata:       s.Metadata,
	}

	if s.CustomerDetails != nil && s.CustomerDetails.Email != "" {
		out.CustomerEmail = s.CustomerDetails.Email
	}
	if s.LineItems != nil && len(s.LineItems.Data) > 0 {
		out.LineItemDescription = s.LineItems.Data[0].Description
	}

	if pi := s.PaymentIntent; pi != nil {
		out.PaymentIntentID = pi.ID
		out.PaymentStatus = string(pi.Status)
		if ch := pi.LatestCharge; ch != nil {
			out.ChargeID = ch.ID
			if ch.PaymentMethodDetails != nil {
				out.PaymentMethod = string(ch.PaymentMethodDetails.Type)
			}
		}
		if out.PaymentMethod == "" && len(pi.PaymentMethodTypes) == 1 {
			out.PaymentMethod = pi.PaymentMethodTypes[0]
		}
	}

	return out
}
