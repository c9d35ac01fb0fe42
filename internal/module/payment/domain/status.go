package domain

import "strconv"

// PaymentStatus represents the payment state of an order as seen by PlatiOnline.
type PaymentStatus string

const (
	PaymentPending           PaymentStatus = "Pending"
	PaymentPendingAuthorized PaymentStatus = "PendingAuthorized"
	PaymentAuthorized        PaymentStatus = "Authorized"
	PaymentPendingSettled    PaymentStatus = "PendingSettled"
	PaymentSettled           PaymentStatus = "Settled"
	PaymentPendingVoided     PaymentStatus = "PendingVoided"
	PaymentVoided            PaymentStatus = "Voided"
	PaymentDeclined          PaymentStatus = "Declined"
	PaymentExpired           PaymentStatus = "Expired"
	PaymentError             PaymentStatus = "Error"
	PaymentOnHold            PaymentStatus = "OnHold"
	PaymentRefunded          PaymentStatus = "Refunded"
	PaymentRefused           PaymentStatus = "Refused"
	PaymentPaid              PaymentStatus = "Paid"
	PaymentUnpaid            PaymentStatus = "Unpaid"
)

// String returns the status name.
func (s PaymentStatus) String() string {
	return string(s)
}

// IsValid reports whether s is one of the known payment statuses.
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentPendingAuthorized, PaymentAuthorized, PaymentPendingSettled,
		PaymentSettled, PaymentPendingVoided, PaymentVoided, PaymentDeclined, PaymentExpired,
		PaymentError, PaymentOnHold, PaymentRefunded, PaymentRefused, PaymentPaid, PaymentUnpaid:
		return true
	}
	return false
}

// OrderStatus represents the fulfilment state of an order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "Pending"
	OrderProcessing OrderStatus = "Processing"
	OrderCancelled  OrderStatus = "Cancelled"
)

// String returns the status name.
func (s OrderStatus) String() string {
	return string(s)
}

// TransactionStatusCode is the numeric transaction status reported by PlatiOnline.
type TransactionStatusCode int

const (
	CodeUnrecognized      TransactionStatusCode = 0
	CodePendingAuthorized TransactionStatusCode = 1
	CodeAuthorized        TransactionStatusCode = 2
	CodePendingSettled    TransactionStatusCode = 3
	CodeSettled           TransactionStatusCode = 5
	CodePendingVoided     TransactionStatusCode = 6
	CodeVoided            TransactionStatusCode = 7
	CodeDeclined          TransactionStatusCode = 8
	CodeExpired           TransactionStatusCode = 9
	CodeError             TransactionStatusCode = 10
	CodeOnHold            TransactionStatusCode = 13
)

// ParseTransactionStatusCode parses the textual code found in protocol messages.
// Anything outside the closed set parses as CodeUnrecognized.
func ParseTransactionStatusCode(s string) TransactionStatusCode {
	n, err := strconv.Atoi(s)
	if err != nil {
		return CodeUnrecognized
	}
	code := TransactionStatusCode(n)
	switch code {
	case CodePendingAuthorized, CodeAuthorized, CodePendingSettled, CodeSettled,
		CodePendingVoided, CodeVoided, CodeDeclined, CodeExpired, CodeError, CodeOnHold:
		return code
	}
	return CodeUnrecognized
}

// SettlementSubCode qualifies a Settled transaction.
type SettlementSubCode int

const (
	SubCodeNone         SettlementSubCode = 0
	SubCodePending      SettlementSubCode = 1
	SubCodeRefunded     SettlementSubCode = 2
	SubCodeRefused      SettlementSubCode = 3
	SubCodeSettledFinal SettlementSubCode = 4
)

// ParseSettlementSubCode parses a settlement sub-code. Empty or unknown
// values parse as SubCodeNone.
func ParseSettlementSubCode(s string) SettlementSubCode {
	n, err := strconv.Atoi(s)
	if err != nil {
		return SubCodeNone
	}
	sub := SettlementSubCode(n)
	switch sub {
	case SubCodePending, SubCodeRefunded, SubCodeRefused, SubCodeSettledFinal:
		return sub
	}
	return SubCodeNone
}

// RelayMethod selects how the processor returns the authorization result.
type RelayMethod string

const (
	// RelayPTOR posts the result through the customer's browser.
	RelayPTOR RelayMethod = "PTOR"
	// RelayS2SPOPage posts server to server and PlatiOnline renders the result page.
	RelayS2SPOPage RelayMethod = "POST_S2S_PO_PAGE"
	// RelayS2SMTPage posts server to server and the merchant renders the result page.
	RelayS2SMTPage RelayMethod = "POST_S2S_MT_PAGE"
)

// IsValid reports whether m is a supported relay method.
func (m RelayMethod) IsValid() bool {
	return m == RelayPTOR || m == RelayS2SPOPage || m == RelayS2SMTPage
}

// TransactMode decides the payment status an order starts with.
type TransactMode string

const (
	TransactPending             TransactMode = "Pending"
	TransactAuthorize           TransactMode = "Authorize"
	TransactAuthorizeAndCapture TransactMode = "AuthorizeAndCapture"
	TransactUnpaid              TransactMode = "Unpaid"
)

// InitialPaymentStatus returns the status a freshly placed order gets.
func (m TransactMode) InitialPaymentStatus() (PaymentStatus, bool) {
	switch m {
	case TransactPending:
		return PaymentPending, true
	case TransactAuthorize:
		return PaymentAuthorized, true
	case TransactAuthorizeAndCapture:
		return PaymentPaid, true
	case TransactUnpaid:
		return PaymentUnpaid, true
	}
	return "", false
}
