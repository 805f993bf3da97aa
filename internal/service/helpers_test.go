package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"paylink/internal/models"
	"paylink/internal/provider/providertest"
)

type memorySales struct {
	mu      sync.Mutex
	records []models.SalesRecord
	err     error
}

func (m *memorySales) Append(_ context.Context, rec models.SalesRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, rec)
	return nil
}

func (m *memorySales) rows() []models.SalesRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.SalesRecord, len(m.records))
	copy(out, m.records)
	return out
}

func testCheckoutOptions() CheckoutOptions {
	return CheckoutOptions{
		BaseURL:            "http://localhost:3000",
		Currency:           "eur",
		Locale:             "it",
		PaymentMethods:     []string{"klarna", "card"},
		DefaultCountryCode: "39",
		AdminToken:         "s3cret",
	}
}

func newTestCheckout(t *testing.T) (*CheckoutService, *providertest.Fake, *memorySales) {
	t.Helper()
	fake := providertest.New()
	sales := &memorySales{}
	svc := NewCheckoutService(fake, sales, testCheckoutOptions(), zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }
	return svc, fake, sales
}

// issueSession creates a session through the fake provider and returns its id.
func issueSession(t *testing.T, fake *providertest.Fake, description string, minor int64, email string) string {
	t.Helper()
	s, err := fake.CreateSession(context.Background(), models.CreateSessionParams{
		AmountMinor:   minor,
		Currency:      "eur",
		Description:   description,
		CustomerEmail: email,
		Metadata: map[string]string{
			models.MetaNickname:    "bottega",
			models.MetaPhone:       "+393331234567",
			models.MetaDescription: description,
		},
	})
	require.NoError(t, err)
	return s.ID
}

func eventPayload(eventType, objectID string) []byte {
	return []byte(fmt.Sprintf(`{
  "id": "evt_%s",
  "object": "event",
  "api_version": "2023-10-16",
  "type": %q,
  "data": {"object": {"id": %q, "object": "checkout.session"}}
}`, objectID, eventType, objectID))
}

func signPayload(secret string, payload []byte, at time.Time) string {
	ts := at.Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(fmt.Sprintf("%d.%s", ts, payload)))
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}
