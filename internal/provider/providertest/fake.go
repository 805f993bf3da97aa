// Package providertest offers an in-memory payment provider for tests.
package providertest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"paylink/internal/models"
)

var ErrNotFound = errors.New("no such checkout session")

type Fake struct {
	mu       sync.Mutex
	seq      int
	sessions map[string]*models.Session

	// Created holds every CreateSession call in order.
	Created []models.CreateSessionParams
	// GetCalls counts GetSession calls.
	GetCalls int

	// CreateErr and GetErr, when set, are returned by the next calls.
	CreateErr error
	GetErr    error
}

func New() *Fake {
	return &Fake{sessions: make(map[string]*models.Session)}
}

func (f *Fake) CreateSession(_ context.Context, p models.CreateSessionParams) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Created = append(f.Created, p)
	if f.CreateErr != nil {
		return nil, f.CreateErr
	}

	f.seq++
	id := fmt.Sprintf("cs_test_%04d", f.seq)
	meta := make(map[string]string, len(p.Metadata))
	for k, v := range p.Metadata {
		meta[k] = v
	}
	s := &models.Session{
		ID:                  id,
		URL:                 "https://checkout.stripe.com/c/pay/" + id,
		Status:              models.SessionStatusOpen,
		AmountTotal:         p.AmountMinor,
		AmountSubtotal:      p.AmountMinor,
		Currency:            p.Currency,
		CustomerEmail:       p.CustomerEmail,
		LineItemDescription: p.Description,
		Metadata:            meta,
	}
	f.sessions[id] = s

	cp := *s
	return &cp, nil
}

func (f *Fake) GetSession(_ context.Context, id string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.GetCalls++
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	s, ok := f.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	cp := *s
	return &cp, nil
}

// Complete simulates the buyer paying with method.
func (f *Fake) Complete(id, method string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := f.sessions[id]
	s.Status = models.SessionStatusComplete
	s.PaymentStatus = "succeeded"
	s.PaymentIntentID = "pi_" + id
	s.ChargeID = "ch_" + id
	s.PaymentMethod = method
}

// Expire simulates the hosted page timing out.
func (f *Fake) Expire(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sessions[id].Status = models.SessionStatusExpired
}

func (f *Fake) CreateCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Created)
}
