package checkoutform

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"paylink/internal/models"
)

func TestReduceLifecycle(t *testing.T) {
	vm := ViewModel{Phase: PhaseIdle}

	vm = Reduce(vm, Submitted{Input: Input{Description: "Lampada"}})
	assert.Equal(t, PhaseCreating, vm.Phase)
	assert.Equal(t, "Lampada", vm.Input.Description)

	// a second submit while creating is ignored
	vm = Reduce(vm, Submitted{Input: Input{Description: "Sedia"}})
	assert.Equal(t, "Lampada", vm.Input.Description)

	vm = Reduce(vm, LinkCreated{URL: "https://pay/x", SessionID: "cs_1", DeepLink: "sms:+39?body=x"})
	assert.Equal(t, PhaseMessaging, vm.Phase)
	assert.Equal(t, "cs_1", vm.SessionID)

	st := &models.SessionStatusResponse{SessionStatus: "open"}
	vm = Reduce(vm, StatusChecked{Status: st})
	assert.Equal(t, PhaseMessaging, vm.Phase)
	assert.Same(t, st, vm.Status)

	vm = Reduce(vm, Submitted{Input: Input{Description: "Sedia"}})
	assert.Equal(t, PhaseCreating, vm.Phase)
	assert.Empty(t, vm.CheckoutURL)
	assert.Nil(t, vm.Status)
}

func TestReduceFailure(t *testing.T) {
	vm := Reduce(ViewModel{Phase: PhaseIdle}, Submitted{})
	vm = Reduce(vm, Failed{Err: errors.New("Errore server"), Fields: FieldErrors{"importo": "Importo non valido."}})

	assert.Equal(t, PhaseError, vm.Phase)
	assert.Equal(t, "Errore server", vm.Err)
	assert.Equal(t, "Importo non valido.", vm.FieldErrors["importo"])

	// a late link for a failed submission does not resurrect it
	vm = Reduce(vm, LinkCreated{URL: "https://pay/x"})
	assert.Equal(t, PhaseError, vm.Phase)
	assert.Empty(t, vm.CheckoutURL)

	vm = Reduce(vm, Submitted{})
	assert.Equal(t, PhaseCreating, vm.Phase)
	assert.Empty(t, vm.Err)
	assert.Nil(t, vm.FieldErrors)
}
