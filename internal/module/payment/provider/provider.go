package provider

import (
	"context"
	"fmt"

	"github.com/platipay/server/internal/module/payment/domain"
)

// Gateway is the PlatiOnline protocol codec: it decrypts inbound messages,
// performs signed requests and builds acknowledgments.
type Gateway interface {
	// DecodeAuthorizationResponse decodes the relay message posted back after authorization.
	DecodeAuthorizationResponse(settings domain.MerchantSettings, relayMessage, cryptMessage string) (*AuthorizationResponse, error)

	// DecodeITSN decodes an instant transaction status notification.
	DecodeITSN(settings domain.MerchantSettings, itsnMessage, cryptMessage string) (*ITSNMessage, error)

	// Authorize registers a payment and returns the page the customer is sent to.
	Authorize(ctx context.Context, settings domain.MerchantSettings, req *AuthorizationRequest) (*AuthorizationURLResponse, error)

	// Query asks the processor for the current status of a transaction.
	Query(ctx context.Context, settings domain.MerchantSettings, req *QueryRequest) (*QueryResponse, error)

	// ITSNResponse builds the signed acknowledgment document for an ITSN.
	ITSNResponse(settings domain.MerchantSettings, responseCode, transID string) (string, error)
}

// AuthorizationResponse is the decoded result relayed after authorization.
type AuthorizationResponse struct {
	OrderNumber   string
	StatusCode    domain.TransactionStatusCode
	RawStatusCode string
	ReasonText    string
	TransID       string
	Handshake     bool
}

// ITSNMessage identifies the transaction whose status changed.
type ITSNMessage struct {
	OrderNumber string
	TransID     string
}

// QueryRequest identifies a transaction to look up.
type QueryRequest struct {
	OrderNumber string
	TransID     string
	Website     string
}

// QueryResponse is the processor's answer to a status query.
type QueryResponse struct {
	ErrorCode   string
	ErrorReason string
	OrderNumber string
	TransID     string
	StatusCode  domain.TransactionStatusCode
	SubCode     domain.SettlementSubCode
	RawStatus   string
	RawSubCode  string
}

// Failed reports whether the processor answered with a business error.
func (r *QueryResponse) Failed() bool {
	return r.ErrorCode != "0"
}

// Contact is a person and address block of an authorization request.
type Contact struct {
	FirstName string `xml:"first_name"`
	LastName  string `xml:"last_name"`
	Phone     string `xml:"phone"`
	Email     string `xml:"email"`
	Company   string `xml:"company"`
	Country   string `xml:"country"`
	County    string `xml:"state"`
	City      string `xml:"city"`
	Zip       string `xml:"zip"`
	Address   string `xml:"address"`
}

// PayLink sets the validity of the link the customer can pay through later.
type PayLink struct {
	Days     int    `xml:"daysofvalability,omitempty"`
	ExpireAt string `xml:"expire_date,omitempty"`
	Email    int    `xml:"email2client"`
	SMS      int    `xml:"sms2client"`
}

// PayLinkTimeLayout is the layout of PayLink.ExpireAt.
const PayLinkTimeLayout = "2006-01-02T15:04:05"

// RelayResponse tells the processor how to return the authorization result.
type RelayResponse struct {
	URL          string             `xml:"f_relay_response_url"`
	Method       domain.RelayMethod `xml:"f_relay_method"`
	PostDeclined int                `xml:"f_post_declined"`
	Handshake    int                `xml:"f_relay_handshake"`
}

// AuthorizationRequest is the payment registration sent to the processor.
type AuthorizationRequest struct {
	OrderNumber string        `xml:"f_order_number"`
	Amount      string        `xml:"f_amount"`
	Currency    string        `xml:"f_currency"`
	Language    string        `xml:"f_language"`
	OrderString string        `xml:"f_order_string"`
	Website     string        `xml:"f_website"`
	TestRequest int           `xml:"f_test_request"`
	PayLink     *PayLink      `xml:"paylink,omitempty"`
	CardHolder  Contact       `xml:"card_holder_info"`
	Customer    Contact       `xml:"customer_info"`
	Shipping    Contact       `xml:"shipping_info"`
	Relay       RelayResponse `xml:"transaction_relay_response"`
}

// AuthorizationURLResponse carries the payment page URL or the refusal reason.
type AuthorizationURLResponse struct {
	ErrorCode   string
	ErrorReason string
	RedirectURL string
}

// Failed reports whether the processor refused the registration.
func (r *AuthorizationURLResponse) Failed() bool {
	return r.ErrorCode != "0"
}

// TransportError reports that a request could not complete: network failure,
// an open circuit or a non-200 answer.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("platonline %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
