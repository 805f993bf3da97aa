package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"

	"paylink/internal/models"
	"paylink/shared/pkg/apperr"
)

func TestCreateCheckout(t *testing.T) {
	svc, fake, sales := newTestCheckout(t)

	resp, err := svc.Create(context.Background(), &models.CreateCheckoutRequest{
		Description: "  Lampada ",
		Amount:      "25.00",
		Email:       "buyer@example.com",
		Phone:       "333-1234567",
		Nickname:    "bottega",
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_0001", resp.SessionID)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_0001", resp.URL)

	require.Len(t, fake.Created, 1)
	p := fake.Created[0]
	assert.Equal(t, int64(2500), p.AmountMinor)
	assert.Equal(t, "eur", p.Currency)
	assert.Equal(t, "it", p.Locale)
	assert.Equal(t, "Lampada", p.Description)
	assert.Equal(t, []string{"klarna", "card"}, p.PaymentMethodTypes)
	assert.Equal(t, "buyer@example.com", p.CustomerEmail)
	assert.Equal(t, "http://localhost:3000/success.html?session_id={CHECKOUT_SESSION_ID}", p.SuccessURL)
	assert.Equal(t, "http://localhost:3000/cancel.html", p.CancelURL)
	assert.Equal(t, map[string]string{
		models.MetaNickname:    "bottega",
		models.MetaPhone:       "+393331234567",
		models.MetaDescription: "Lampada",
	}, p.Metadata)

	rows := sales.rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "Lampada", rows[0].Description)
	assert.Equal(t, "25.00", rows[0].Amount)
	assert.Equal(t, "+393331234567", rows[0].Phone)
	assert.Equal(t, resp.SessionID, rows[0].SessionID)
	assert.Equal(t, resp.URL, rows[0].URL)
}

func TestCreateCheckoutRoundsAmount(t *testing.T) {
	tests := []struct {
		amount models.FlexString
		want   int64
	}{
		{amount: "19,90", want: 1990},
		{amount: "€ 10,005", want: 1001},
		{amount: "1.234,56", want: 123456},
		{amount: "7", want: 700},
	}

	for _, tt := range tests {
		t.Run(string(tt.amount), func(t *testing.T) {
			svc, fake, _ := newTestCheckout(t)
			_, err := svc.Create(context.Background(), &models.CreateCheckoutRequest{Description: "x", Amount: tt.amount})
			require.NoError(t, err)
			assert.Equal(t, tt.want, fake.Created[0].AmountMinor)
		})
	}
}

func TestCreateCheckoutFrontendSuccessURL(t *testing.T) {
	svc, fake, _ := newTestCheckout(t)
	svc.opts.FrontendSuccessURL = "https://shop.example.com/pay.html?lang=it"

	_, err := svc.Create(context.Background(), &models.CreateCheckoutRequest{Description: "x", Amount: "1"})
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example.com/pay.html?lang=it&session_id={CHECKOUT_SESSION_ID}", fake.Created[0].SuccessURL)
}

func TestCreateCheckoutInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		req  models.CreateCheckoutRequest
	}{
		{name: "empty description", req: models.CreateCheckoutRequest{Description: "   ", Amount: "10"}},
		{name: "missing amount", req: models.CreateCheckoutRequest{Description: "Lampada"}},
		{name: "non numeric amount", req: models.CreateCheckoutRequest{Description: "Lampada", Amount: "abc"}},
		{name: "zero amount", req: models.CreateCheckoutRequest{Description: "Lampada", Amount: "0,00"}},
		{name: "negative amount", req: models.CreateCheckoutRequest{Description: "Lampada", Amount: "-5"}},
		{name: "amount overflowing cents", req: models.CreateCheckoutRequest{Description: "Lampada", Amount: "184467440737095516,17"}},
		{name: "amount above checkout limit", req: models.CreateCheckoutRequest{Description: "Lampada", Amount: "1000000"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, fake, sales := newTestCheckout(t)

			_, err := svc.Create(context.Background(), &tt.req)
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.InvalidInput))
			assert.Equal(t, 0, fake.CreateCalls())
			assert.Empty(t, sales.rows())
		})
	}
}

func TestCreateCheckoutProviderFailure(t *testing.T) {
	svc, fake, sales := newTestCheckout(t)
	fake.CreateErr = &stripe.Error{Msg: "Invalid currency"}

	_, err := svc.Create(context.Background(), &models.CreateCheckoutRequest{Description: "x", Amount: "1"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Upstream))
	assert.Equal(t, "Invalid currency", apperr.PublicMessage(err))
	assert.Equal(t, 1, fake.CreateCalls())
	assert.Empty(t, sales.rows())
}

func TestCreateCheckoutSalesLogFailure(t *testing.T) {
	svc, _, sales := newTestCheckout(t)
	sales.err = errors.New("disk full")

	_, err := svc.Create(context.Background(), &models.CreateCheckoutRequest{Description: "x", Amount: "1"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Internal))
}

func TestRegisterPayment(t *testing.T) {
	valid := models.RegisterPaymentRequest{
		SessionID:   "cs_manual",
		Description: "Lampada",
		Amount:      "25",
		Phone:       "0039 333 1234567",
	}

	tests := []struct {
		name        string
		adminToken  string
		header      string
		bodyToken   string
		req         models.RegisterPaymentRequest
		wantKind    apperr.Kind
		wantRecords int
	}{
		{name: "token not configured", adminToken: "", header: "x", req: valid, wantKind: apperr.Internal},
		{name: "missing token", adminToken: "s3cret", req: valid, wantKind: apperr.Unauthorized},
		{name: "wrong token", adminToken: "s3cret", header: "nope", req: valid, wantKind: apperr.Unauthorized},
		{name: "header token", adminToken: "s3cret", header: "s3cret", req: valid, wantRecords: 1},
		{name: "body token", adminToken: "s3cret", bodyToken: "s3cret", req: valid, wantRecords: 1},
		{name: "header wins over body", adminToken: "s3cret", header: "nope", bodyToken: "s3cret", req: valid, wantKind: apperr.Unauthorized},
		{name: "incomplete", adminToken: "s3cret", header: "s3cret", req: models.RegisterPaymentRequest{SessionID: "cs_1", Amount: "5"}, wantKind: apperr.InvalidInput},
		{name: "bad amount", adminToken: "s3cret", header: "s3cret", req: models.RegisterPaymentRequest{SessionID: "cs_1", Description: "x", Amount: "abc"}, wantKind: apperr.InvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, sales := newTestCheckout(t)
			svc.opts.AdminToken = tt.adminToken

			req := tt.req
			req.AdminToken = tt.bodyToken
			err := svc.RegisterPayment(context.Background(), &req, tt.header)

			if tt.wantKind != "" {
				require.Error(t, err)
				assert.True(t, apperr.Is(err, tt.wantKind), "got %v", err)
			} else {
				require.NoError(t, err)
			}
			assert.Len(t, sales.rows(), tt.wantRecords)
		})
	}
}

func TestRegisterPaymentRecord(t *testing.T) {
	svc, _, sales := newTestCheckout(t)

	err := svc.RegisterPayment(context.Background(), &models.RegisterPaymentRequest{
		SessionID:   "cs_manual",
		Description: "Lampada",
		Amount:      "25,5",
		Phone:       "0039 333 1234567",
		Nickname:    "bottega",
	}, "s3cret")
	require.NoError(t, err)

	rows := sales.rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "-", rows[0].URL)
	assert.Equal(t, "25.50", rows[0].Amount)
	assert.Equal(t, "+393331234567", rows[0].Phone)
	assert.Equal(t, "cs_manual", rows[0].SessionID)
}
