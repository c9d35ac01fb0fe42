package order

import (
	"time"

	"github.com/platipay/server/internal/module/payment/domain"
)

// Address is a contact and postal address block of an order.
type Address struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Company   string `json:"company"`
	Country   string `json:"country"`
	County    string `json:"county"`
	City      string `json:"city"`
	Zip       string `json:"zip"`
	Address1  string `json:"address1"`
}

// Order represents a placed store order.
type Order struct {
	ID            int                  `json:"id" gorm:"primaryKey;autoIncrement"`
	StoreID       int                  `json:"store_id" gorm:"not null;default:0;index"`
	CustomerEmail string               `json:"customer_email"`
	Total         float64              `json:"total" gorm:"type:numeric(18,4);not null"`
	Currency      string               `json:"currency" gorm:"type:varchar(3);not null"`
	PaymentStatus domain.PaymentStatus `json:"payment_status" gorm:"type:varchar(32);not null"`
	OrderStatus   domain.OrderStatus   `json:"order_status" gorm:"type:varchar(32);not null"`
	Billing       Address              `json:"billing" gorm:"embedded;embeddedPrefix:billing_"`
	Shipping      Address              `json:"shipping" gorm:"embedded;embeddedPrefix:shipping_"`
	HasShipping   bool                 `json:"has_shipping"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// TableName returns the database table name.
func (Order) TableName() string {
	return "orders"
}

// ShippingAddress returns the shipping address, or nil when the order ships nothing.
func (o *Order) ShippingAddress() *Address {
	if !o.HasShipping {
		return nil
	}
	return &o.Shipping
}

// OrderNote is an append-only audit entry attached to an order.
type OrderNote struct {
	ID                int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID           int       `json:"order_id" gorm:"not null;index"`
	Note              string    `json:"note" gorm:"type:text;not null"`
	DisplayToCustomer bool      `json:"display_to_customer"`
	CreatedOnUTC      time.Time `json:"created_on_utc" gorm:"column:created_on_utc;not null"`
}

// TableName returns the database table name.
func (OrderNote) TableName() string {
	return "order_notes"
}
