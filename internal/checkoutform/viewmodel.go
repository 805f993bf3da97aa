// Package checkoutform is the seller-side client: it validates a purchase,
// asks the API for a checkout link, hands the link to a messaging app and
// follows the payment status afterwards.
package checkoutform

import (
	"paylink/internal/models"
)

type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseCreating  Phase = "creating"
	PhaseMessaging Phase = "messaging"
	PhaseError     Phase = "error"
)

// ViewModel is everything a front end needs to render the form.
type ViewModel struct {
	Phase       Phase
	Input       Input
	FieldErrors FieldErrors
	Err         string

	CheckoutURL string
	SessionID   string
	DeepLink    string

	Status *models.SessionStatusResponse
}

// Event is one of Submitted, LinkCreated, StatusChecked or Failed.
type Event interface {
	apply(vm ViewModel) ViewModel
}

type Submitted struct {
	Input Input
}

type LinkCreated struct {
	URL       string
	SessionID string
	DeepLink  string
}

type StatusChecked struct {
	Status *models.SessionStatusResponse
}

type Failed struct {
	Err    error
	Fields FieldErrors
}

// Reduce applies ev to vm and returns the new view model. Events that make no
// sense in the current phase leave vm unchanged.
func Reduce(vm ViewModel, ev Event) ViewModel {
	return ev.apply(vm)
}

func (e Submitted) apply(vm ViewModel) ViewModel {
	if vm.Phase == PhaseCreating {
		return vm
	}
	return ViewModel{
		Phase: PhaseCreating,
		Input: e.Input,
	}
}

func (e LinkCreated) apply(vm ViewModel) ViewModel {
	if vm.Phase != PhaseCreating {
		return vm
	}
	vm.Phase = PhaseMessaging
	vm.CheckoutURL = e.URL
	vm.SessionID = e.SessionID
	vm.DeepLink = e.DeepLink
	vm.Err = ""
	vm.FieldErrors = nil
	return vm
}

func (e StatusChecked) apply(vm ViewModel) ViewModel {
	vm.Status = e.Status
	if e.Status != nil && vm.Phase == PhaseError {
		vm.Err = ""
	}
	return vm
}

func (e Failed) apply(vm ViewModel) ViewModel {
	vm.Phase = PhaseError
	vm.FieldErrors = e.Fields
	if e.Err != nil {
		vm.Err = e.Err.Error()
	}
	return vm
}
