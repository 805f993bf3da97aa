package checkoutform

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"paylink/internal/models"
	"paylink/internal/normalize"
)

var (
	ErrBusy   = errors.New("a checkout link is already being created")
	ErrNoLink = errors.New("no checkout link yet")
)

// Form owns one view model and moves it through the submission lifecycle.
type Form struct {
	api         CheckoutAPI
	opener      Opener
	contacts    *Contacts
	countryCode string
	logger      *zap.Logger

	mu       sync.Mutex
	vm       ViewModel
	onChange func(ViewModel)
}

// NewForm wires a form. contacts may be nil.
func NewForm(api CheckoutAPI, opener Opener, contacts *Contacts, countryCode string, logger *zap.Logger) *Form {
	return &Form{
		api:         api,
		opener:      opener,
		contacts:    contacts,
		countryCode: countryCode,
		logger:      logger,
		vm:          ViewModel{Phase: PhaseIdle},
	}
}

// OnChange registers fn to be called after every event.
func (f *Form) OnChange(fn func(ViewModel)) {
	f.mu.Lock()
	f.onChange = fn
	f.mu.Unlock()
}

func (f *Form) View() ViewModel {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.vm
}

func (f *Form) Dispatch(ev Event) ViewModel {
	f.mu.Lock()
	f.vm = Reduce(f.vm, ev)
	vm, fn := f.vm, f.onChange
	f.mu.Unlock()

	if fn != nil {
		fn(vm)
	}
	return vm
}

// Submit validates in, creates the checkout link and opens the messaging app.
func (f *Form) Submit(ctx context.Context, in Input) (ViewModel, error) {
	if vm, ok := f.begin(in); !ok {
		return vm, ErrBusy
	}

	if fe := Validate(in); fe != nil {
		return f.Dispatch(Failed{Err: fe, Fields: fe}), fe
	}

	// Reserve the window before the network call; it is either redirected or closed below.
	win, err := f.opener.Prepare()
	if err != nil {
		f.logger.Warn("could not prepare window, will open a new one", zap.Error(err))
		win = nil
	}

	phone := normalize.NormalizePhone(in.Phone, f.countryCode)
	description := strings.TrimSpace(in.Description)

	resp, err := f.api.CreateCheckout(ctx, models.CreateCheckoutRequest{
		Description: description,
		Amount:      models.FlexString(strings.TrimSpace(in.Amount)),
		Email:       strings.TrimSpace(in.Email),
		Phone:       phone,
		Nickname:    strings.TrimSpace(in.Nickname),
	})
	if err != nil {
		if win != nil {
			_ = win.Close()
		}
		return f.Dispatch(Failed{Err: err}), err
	}

	link := DeepLink(in.Channel, phone, Message(description, in.Amount, resp.URL))
	if err := f.deliver(win, link); err != nil {
		f.logger.Warn("could not open messaging app", zap.Error(err))
	}

	vm := f.Dispatch(LinkCreated{URL: resp.URL, SessionID: resp.SessionID, DeepLink: link})

	if f.contacts != nil {
		err := f.contacts.Upsert(Contact{
			Phone: phone,
			Name:  strings.TrimSpace(in.Nickname),
			Email: strings.TrimSpace(in.Email),
		})
		if err != nil {
			f.logger.Warn("could not update contacts", zap.Error(err))
		}
	}

	return vm, nil
}

// begin moves the form into the creating phase unless a submission is
// already in flight.
func (f *Form) begin(in Input) (ViewModel, bool) {
	f.mu.Lock()
	if f.vm.Phase == PhaseCreating {
		vm := f.vm
		f.mu.Unlock()
		return vm, false
	}
	f.vm = Reduce(f.vm, Submitted{Input: in})
	vm, fn := f.vm, f.onChange
	f.mu.Unlock()

	if fn != nil {
		fn(vm)
	}
	return vm, true
}

// deliver redirects the reserved window, or opens a fresh one if it is gone.
func (f *Form) deliver(win Window, link string) error {
	if win != nil && !win.Closed() {
		if err := win.Navigate(link); err == nil {
			return nil
		}
	}
	return f.opener.Open(link)
}

// OpenCheckout opens the checkout page itself.
func (f *Form) OpenCheckout() error {
	vm := f.View()
	if vm.CheckoutURL == "" {
		return ErrNoLink
	}
	return f.opener.Open(vm.CheckoutURL)
}

// Resend opens the message again, possibly on another channel.
func (f *Form) Resend(ch Channel) (string, error) {
	vm := f.View()
	if vm.CheckoutURL == "" {
		return "", ErrNoLink
	}
	phone := normalize.NormalizePhone(vm.Input.Phone, f.countryCode)
	link := DeepLink(ch, phone, Message(vm.Input.Description, vm.Input.Amount, vm.CheckoutURL))
	return link, f.opener.Open(link)
}

// CheckStatus asks the server for the session state once.
func (f *Form) CheckStatus(ctx context.Context, sessionID string) (ViewModel, error) {
	st, err := f.api.SessionStatus(ctx, sessionID)
	if err != nil {
		return f.Dispatch(Failed{Err: err}), err
	}
	return f.Dispatch(StatusChecked{Status: st}), nil
}

// Watch polls the session and feeds every result into the view model.
func (f *Form) Watch(ctx context.Context, p *Poller, sessionID string) (ViewModel, error) {
	_, err := p.Poll(ctx, sessionID, func(st *models.SessionStatusResponse, err error) {
		if err != nil {
			f.logger.Warn("status check failed", zap.Error(err), zap.String("session_id", sessionID))
			return
		}
		f.Dispatch(StatusChecked{Status: st})
	})
	return f.View(), err
}
