package order

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Timeline notes are shown to Mexican users as is. Peso amounts use the
// "$3,500.50" convention, which matches the en-US number pattern.
var notePrinter = message.NewPrinter(language.AmericanEnglish)

const (
	noteCreated           = "Solicitud creada"
	noteQuotationAccepted = "Cotización aceptada"
	noteInProgress        = "Servicio en progreso"
	noteCompleted         = "Servicio completado"
	noteCancelled         = "Solicitud cancelada"
)

// FormatMoney renders amount with thousands grouping and at most two decimals.
func FormatMoney(amount decimal.Decimal) string {
	f, _ := amount.Round(2).Float64()
	return notePrinter.Sprintf("$%v", number.Decimal(f, number.MaxFractionDigits(2)))
}

func quotationNote(q Quotation) string {
	return "Cotización enviada: " + FormatMoney(q.Amount())
}

func paymentNote(p Payment) string {
	return notePrinter.Sprintf("Pago recibido: %s (%s)", FormatMoney(p.Amount()), p.Method())
}

func ratingNote(r Rating) string {
	return notePrinter.Sprintf("Servicio calificado: %d/%d", r.Score(), MaxScore)
}

func cancelNote(reason string) string {
	if reason == "" {
		return noteCancelled
	}
	return noteCancelled + ": " + reason
}
