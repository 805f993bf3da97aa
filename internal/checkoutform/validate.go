package checkoutform

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"paylink/internal/normalize"
)

type Channel string

const (
	ChannelWhatsApp Channel = "wa"
	ChannelSMS      Channel = "sms"
)

func ParseChannel(s string) (Channel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "wa", "whatsapp", "":
		return ChannelWhatsApp, nil
	case "sms":
		return ChannelSMS, nil
	default:
		return "", errors.New("channel must be wa or sms")
	}
}

type Input struct {
	Description string
	Amount      string
	Phone       string
	Email       string
	Nickname    string
	Channel     Channel
}

// FieldErrors maps a form field to the message shown next to it.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for _, k := range []string{"descrizione", "importo", "telefono", "email"} {
		if msg, ok := fe[k]; ok {
			parts = append(parts, k+": "+msg)
		}
	}
	return strings.Join(parts, "; ")
}

const (
	minPhoneDigits = 6
	maxPhoneDigits = 15
)

var validate = validator.New()

// Validate checks the form locally before anything is sent.
func Validate(in Input) FieldErrors {
	fe := FieldErrors{}

	if strings.TrimSpace(in.Description) == "" {
		fe["descrizione"] = "Inserisci una descrizione."
	}

	if _, err := normalize.ParseAmount(in.Amount); err != nil {
		switch {
		case errors.Is(err, normalize.ErrEmptyAmount):
			fe["importo"] = "Inserisci un importo."
		case errors.Is(err, normalize.ErrAmountNotPositive):
			fe["importo"] = "L'importo deve essere maggiore di zero."
		default:
			fe["importo"] = "Importo non valido."
		}
	}

	switch n := len(normalize.Digits(in.Phone)); {
	case n == 0:
		fe["telefono"] = "Inserisci un numero di telefono."
	case n < minPhoneDigits || n > maxPhoneDigits:
		fe["telefono"] = "Numero di telefono non valido."
	}

	if email := strings.TrimSpace(in.Email); email != "" {
		if err := validate.Var(email, "email"); err != nil {
			fe["email"] = "Indirizzo email non valido."
		}
	}

	if len(fe) == 0 {
		return nil
	}
	return fe
}
