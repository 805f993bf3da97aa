package checkoutform

import (
	"fmt"
	"strings"

	"paylink/internal/models"
)

// RenderStatus formats a status lookup for a terminal.
func RenderStatus(st *models.SessionStatusResponse) string {
	if st == nil {
		return "Nessuno stato disponibile.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Sessione:   %s\n", st.SessionStatus)
	fmt.Fprintf(&b, "Pagamento:  %s\n", deref(st.PaymentStatus, "nessun tentativo"))
	fmt.Fprintf(&b, "Importo:    %s %s\n", st.Amount, strings.ToUpper(st.Currency))
	if st.Description != nil {
		fmt.Fprintf(&b, "Prodotto:   %s\n", *st.Description)
	}
	if st.CustomerEmail != nil {
		fmt.Fprintf(&b, "Cliente:    %s\n", *st.CustomerEmail)
	}
	if st.PaymentMethod != nil {
		fmt.Fprintf(&b, "Metodo:     %s\n", *st.PaymentMethod)
	}
	if st.ChargeID != nil {
		fmt.Fprintf(&b, "Addebito:   %s\n", *st.ChargeID)
	}
	fmt.Fprintf(&b, "Dashboard:  %s\n", deref(st.StripePaymentLink, st.DashboardFallback))
	return b.String()
}

func deref(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
