package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"paylink/internal/mailer"
	"paylink/internal/models"
	"paylink/internal/provider/providertest"
	"paylink/internal/receipt"
	"paylink/shared/pkg/apperr"
)

const testWebhookSecret = "whsec_test"

type webhookFixture struct {
	svc   *WebhookService
	fake  *providertest.Fake
	sales *memorySales
	mail  *mailer.Mock
}

func newWebhookFixture(t *testing.T, secret string) *webhookFixture {
	t.Helper()
	fake := providertest.New()
	sales := &memorySales{}
	mail := &mailer.Mock{}
	receipts := NewReceiptService(receipt.NewRenderer(nil), mail, NewMemoryReceiptGuard(time.Hour), ReceiptOptions{
		Brand:       "Ricevuta di pagamento",
		SellerEmail: "seller@example.com",
		From:        "no-reply@example.com",
	}, zap.NewNop())

	return &webhookFixture{
		svc:   NewWebhookService(fake, sales, receipts, secret, zap.NewNop()),
		fake:  fake,
		sales: sales,
		mail:  mail,
	}
}

func TestWebhookCompletedSigned(t *testing.T) {
	f := newWebhookFixture(t, testWebhookSecret)
	id := issueSession(t, f.fake, "Lampada", 2500, "buyer@example.com")
	f.fake.Complete(id, "card")

	payload := eventPayload(EventCheckoutSessionCompleted, id)
	res, err := f.svc.Handle(context.Background(), payload, signPayload(testWebhookSecret, payload, time.Now()))
	require.NoError(t, err)

	assert.True(t, res.Verified)
	assert.True(t, res.Handled)
	assert.Equal(t, id, res.SessionID)

	rows := f.sales.rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "Lampada", rows[0].Description)
	assert.Equal(t, "25.00", rows[0].Amount)
	assert.Equal(t, "+393331234567", rows[0].Phone)
	assert.Equal(t, "bottega", rows[0].Nickname)
	assert.Equal(t, "buyer@example.com", rows[0].Email)

	sent := f.mail.Messages()
	require.Len(t, sent, 2)
	assert.Equal(t, []string{"seller@example.com"}, sent[0].To)
	assert.Equal(t, []string{"buyer@example.com"}, sent[1].To)
	require.Len(t, sent[0].Attachments, 1)
	assert.Equal(t, "application/pdf", sent[0].Attachments[0].ContentType)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	tests := []struct {
		name      string
		signature func(payload []byte) string
	}{
		{name: "missing header", signature: func([]byte) string { return "" }},
		{name: "wrong secret", signature: func(p []byte) string { return signPayload("whsec_other", p, time.Now()) }},
		{name: "garbage header", signature: func([]byte) string { return "not-a-signature" }},
		{name: "too old", signature: func(p []byte) string { return signPayload(testWebhookSecret, p, time.Now().Add(-time.Hour)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newWebhookFixture(t, testWebhookSecret)
			id := issueSession(t, f.fake, "Lampada", 2500, "")
			f.fake.Complete(id, "card")

			payload := eventPayload(EventCheckoutSessionCompleted, id)
			_, err := f.svc.Handle(context.Background(), payload, tt.signature(payload))
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.Unauthorized))
			assert.Empty(t, f.sales.rows())
			assert.Equal(t, 0, f.fake.GetCalls)
		})
	}
}

func TestWebhookTamperedPayload(t *testing.T) {
	f := newWebhookFixture(t, testWebhookSecret)
	id := issueSession(t, f.fake, "Lampada", 2500, "")

	payload := eventPayload(EventCheckoutSessionCompleted, id)
	sig := signPayload(testWebhookSecret, payload, time.Now())
	tampered := eventPayload(EventCheckoutSessionCompleted, "cs_someone_else")

	_, err := f.svc.Handle(context.Background(), tampered, sig)
	assert.True(t, apperr.Is(err, apperr.Unauthorized))
	assert.Empty(t, f.sales.rows())
}

func TestWebhookIgnoresOtherEvents(t *testing.T) {
	f := newWebhookFixture(t, testWebhookSecret)

	payload := eventPayload("payment_intent.created", "pi_1")
	res, err := f.svc.Handle(context.Background(), payload, signPayload(testWebhookSecret, payload, time.Now()))
	require.NoError(t, err)
	assert.False(t, res.Handled)
	assert.Equal(t, "payment_intent.created", res.EventType)
	assert.Empty(t, f.sales.rows())
	assert.Equal(t, 0, f.fake.GetCalls)
}

func TestWebhookInsecureMode(t *testing.T) {
	f := newWebhookFixture(t, "")
	assert.True(t, f.svc.Insecure())
	id := issueSession(t, f.fake, "Lampada", 2500, "")
	f.fake.Complete(id, "card")

	res, err := f.svc.Handle(context.Background(), eventPayload(EventCheckoutSessionCompleted, id), "")
	require.NoError(t, err)
	assert.False(t, res.Verified)
	assert.True(t, res.Handled)
	assert.Len(t, f.sales.rows(), 1)

	_, err = f.svc.Handle(context.Background(), []byte("{not json"), "")
	assert.True(t, apperr.Is(err, apperr.InvalidInput))
	assert.Len(t, f.sales.rows(), 1)
}

func TestWebhookReplayAppendsPerDelivery(t *testing.T) {
	f := newWebhookFixture(t, testWebhookSecret)
	id := issueSession(t, f.fake, "Lampada", 2500, "buyer@example.com")
	f.fake.Complete(id, "card")

	payload := eventPayload(EventCheckoutSessionCompleted, id)
	for i := 0; i < 3; i++ {
		_, err := f.svc.Handle(context.Background(), payload, signPayload(testWebhookSecret, payload, time.Now()))
		require.NoError(t, err)
	}

	assert.Len(t, f.sales.rows(), 3)
	// seller + buyer, once
	assert.Len(t, f.mail.Messages(), 2)
}

func TestWebhookSwallowsDownstreamFailures(t *testing.T) {
	t.Run("refetch fails", func(t *testing.T) {
		f := newWebhookFixture(t, "")
		f.fake.GetErr = errors.New("provider down")

		res, err := f.svc.Handle(context.Background(), eventPayload(EventCheckoutSessionCompleted, "cs_x"), "")
		require.NoError(t, err)
		assert.True(t, res.Handled)
		assert.Empty(t, f.sales.rows())
	})

	t.Run("append fails", func(t *testing.T) {
		f := newWebhookFixture(t, "")
		id := issueSession(t, f.fake, "Lampada", 2500, "")
		f.sales.err = errors.New("read-only file system")

		_, err := f.svc.Handle(context.Background(), eventPayload(EventCheckoutSessionCompleted, id), "")
		require.NoError(t, err)
	})

	t.Run("mail fails", func(t *testing.T) {
		f := newWebhookFixture(t, "")
		id := issueSession(t, f.fake, "Lampada", 2500, "")
		f.mail.Err = errors.New("smtp: 421")

		_, err := f.svc.Handle(context.Background(), eventPayload(EventCheckoutSessionCompleted, id), "")
		require.NoError(t, err)
		assert.Len(t, f.sales.rows(), 1)
	})
}

func TestDescribeOrDefault(t *testing.T) {
	assert.Equal(t, "Lampada", describeOrDefault(&models.Session{LineItemDescription: "Lampada", Metadata: map[string]string{models.MetaDescription: "other"}}))
	assert.Equal(t, "Sedia", describeOrDefault(&models.Session{Metadata: map[string]string{models.MetaDescription: "Sedia"}}))
	assert.Equal(t, "Prodotto", describeOrDefault(&models.Session{}))
}
