package domain

// CheckoutCompletedModel is rendered on the page the customer lands on after paying.
type CheckoutCompletedModel struct {
	OrderNumber        string `json:"Order_number"`
	OrderStatus        string `json:"Order_status"`
	PaymentStatus      string `json:"Payment_status"`
	ResponseReasonText string `json:"Response_reason_text"`
}

// Channel names the path a status arrived through.
type Channel string

const (
	ChannelRedirect Channel = "redirect"
	ChannelNotify   Channel = "notify"
	ChannelITSN     Channel = "itsn"
	ChannelQuery    Channel = "query"
)
