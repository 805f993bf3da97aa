package checkoutform

import (
	"context"
	"errors"
	"sync"

	"paylink/internal/models"
)

type fakeAPI struct {
	mu        sync.Mutex
	created   []models.CreateCheckoutRequest
	createErr error
	statuses  []*models.SessionStatusResponse // returned in order, last one repeats
	statusErr error
	calls     int

	// when set, CreateCheckout signals entered and waits for release
	entered chan struct{}
	release chan struct{}
}

func (a *fakeAPI) CreateCheckout(_ context.Context, req models.CreateCheckoutRequest) (*models.CreateCheckoutResponse, error) {
	if a.release != nil {
		a.entered <- struct{}{}
		<-a.release
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.created = append(a.created, req)
	if a.createErr != nil {
		return nil, a.createErr
	}
	return &models.CreateCheckoutResponse{URL: "https://checkout.stripe.com/c/pay/cs_1", SessionID: "cs_1"}, nil
}

func (a *fakeAPI) SessionStatus(_ context.Context, _ string) (*models.SessionStatusResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	if a.statusErr != nil {
		return nil, a.statusErr
	}
	if len(a.statuses) == 0 {
		return nil, errors.New("no status configured")
	}
	i := a.calls - 1
	if i >= len(a.statuses) {
		i = len(a.statuses) - 1
	}
	return a.statuses[i], nil
}

func (a *fakeAPI) createCalls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.created)
}

func (a *fakeAPI) statusCalls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

type fakeWindow struct {
	navigated []string
	closed    bool
	navErr    error
}

func (w *fakeWindow) Navigate(url string) error {
	if w.navErr != nil {
		return w.navErr
	}
	w.navigated = append(w.navigated, url)
	return nil
}

func (w *fakeWindow) Closed() bool { return w.closed }

func (w *fakeWindow) Close() error {
	w.closed = true
	return nil
}

type fakeOpener struct {
	win        *fakeWindow
	prepareErr error
	opened     []string
}

func (o *fakeOpener) Prepare() (Window, error) {
	if o.prepareErr != nil {
		return nil, o.prepareErr
	}
	o.win = &fakeWindow{}
	return o.win, nil
}

func (o *fakeOpener) Open(url string) error {
	o.opened = append(o.opened, url)
	return nil
}

func strPtr(s string) *string { return &s }
