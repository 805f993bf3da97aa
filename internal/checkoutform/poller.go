package checkoutform

import (
	"context"
	"time"

	"paylink/internal/models"
)

// DefaultSchedule checks right away, then twice more over about fifteen seconds.
var DefaultSchedule = []time.Duration{0, 7 * time.Second, 15 * time.Second}

type Poller struct {
	api      CheckoutAPI
	schedule []time.Duration
}

// NewPoller polls at the given offsets from the start. A nil schedule means DefaultSchedule.
func NewPoller(api CheckoutAPI, schedule []time.Duration) *Poller {
	if schedule == nil {
		schedule = DefaultSchedule
	}
	return &Poller{api: api, schedule: schedule}
}

// Poll calls fn with every lookup result until the schedule runs out, the
// payment reaches a final state or ctx is done. It returns the last status seen.
func (p *Poller) Poll(ctx context.Context, sessionID string, fn func(*models.SessionStatusResponse, error)) (*models.SessionStatusResponse, error) {
	start := time.Now()
	var last *models.SessionStatusResponse

	for _, offset := range p.schedule {
		if wait := offset - time.Since(start); wait > 0 {
			t := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				t.Stop()
				return last, ctx.Err()
			case <-t.C:
			}
		}

		st, err := p.api.SessionStatus(ctx, sessionID)
		if fn != nil {
			fn(st, err)
		}
		if err == nil {
			last = st
			if IsFinal(st) {
				return last, nil
			}
		}
	}
	return last, nil
}

// IsFinal reports whether status will not change any more.
func IsFinal(st *models.SessionStatusResponse) bool {
	if st == nil {
		return false
	}
	if st.SessionStatus == string(models.SessionStatusExpired) {
		return true
	}
	if st.PaymentStatus == nil {
		return false
	}
	switch *st.PaymentStatus {
	case "succeeded", "canceled":
		return true
	}
	return false
}
