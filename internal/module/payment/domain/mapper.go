package domain

import "fmt"

// NoteProtocol is the label every status note starts with.
const NoteProtocol = "PlatiOnline"

// Outcome is the result of mapping a processor status onto order state.
type Outcome struct {
	PaymentStatus PaymentStatus
	// OrderStatus is nil when the order status must be left untouched.
	OrderStatus *OrderStatus
	Note        string
	// Handled is false for codes the mapping does not know.
	Handled bool
}

type transition struct {
	payment PaymentStatus
	order   *OrderStatus
}

func orderStatus(s OrderStatus) *OrderStatus {
	return &s
}

var codeTransitions = map[TransactionStatusCode]transition{
	CodePendingAuthorized: {PaymentPendingAuthorized, orderStatus(OrderPending)},
	CodeAuthorized:        {PaymentAuthorized, orderStatus(OrderProcessing)},
	CodePendingSettled:    {PaymentPendingSettled, nil},
	CodePendingVoided:     {PaymentPendingVoided, orderStatus(OrderPending)},
	CodeVoided:            {PaymentVoided, orderStatus(OrderCancelled)},
	CodeDeclined:          {PaymentDeclined, orderStatus(OrderCancelled)},
	CodeExpired:           {PaymentExpired, orderStatus(OrderCancelled)},
	CodeError:             {PaymentError, nil},
	CodeOnHold:            {PaymentOnHold, orderStatus(OrderPending)},
}

var settledTransitions = map[SettlementSubCode]transition{
	SubCodePending:      {PaymentPending, orderStatus(OrderPending)},
	SubCodeRefunded:     {PaymentRefunded, orderStatus(OrderCancelled)},
	SubCodeRefused:      {PaymentRefused, orderStatus(OrderCancelled)},
	SubCodeSettledFinal: {PaymentSettled, nil},
}

// Map translates a processor status code, and the settlement sub-code for
// Settled, into the order transition and its audit note. reason is only used
// for the Error note. Map has no side effects.
func Map(code TransactionStatusCode, sub SettlementSubCode, reason string) Outcome {
	var (
		t  transition
		ok bool
	)
	if code == CodeSettled {
		t, ok = settledTransitions[sub]
	} else {
		t, ok = codeTransitions[code]
	}
	if !ok {
		return Outcome{}
	}

	out := Outcome{
		PaymentStatus: t.payment,
		Handled:       true,
		Note:          StatusNote(t.payment),
	}
	if t.order != nil {
		os := *t.order
		out.OrderStatus = &os
	}
	if code == CodeError {
		out.Note = ErrorNote(reason)
	}
	return out
}

// StatusNote formats the audit note for a payment status.
func StatusNote(status PaymentStatus) string {
	return fmt.Sprintf("%s transaction status : %s", NoteProtocol, status)
}

// ErrorNote formats the audit note for a failed authorization.
func ErrorNote(reason string) string {
	return fmt.Sprintf("An error was encountered in %s authorization process: %s", NoteProtocol, reason)
}
