package checkoutform

import (
	"fmt"
	"net/url"
	"strings"

	"paylink/internal/normalize"
)

// Message is the text sent to the buyer.
func Message(description, amount, checkoutURL string) string {
	display := strings.TrimSpace(amount)
	if d, err := normalize.ParseAmount(amount); err == nil {
		display = strings.Replace(normalize.FormatMinor(normalize.ToMinorUnits(d)), ".", ",", 1)
	}
	return fmt.Sprintf("Ciao! Ecco il link di pagamento per \"%s\" (€%s). %s", strings.TrimSpace(description), display, checkoutURL)
}

// DeepLink builds the messaging app link for phone with text pre-filled.
// phone must already be normalized.
func DeepLink(ch Channel, phone, text string) string {
	switch ch {
	case ChannelSMS:
		return "sms:" + phone + "?body=" + escape(text)
	default:
		return "https://api.whatsapp.com/send?phone=" + escape(normalize.Digits(phone)) + "&text=" + escape(text)
	}
}

func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
