package payment

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
	"go.uber.org/zap"

	"github.com/platipay/server/internal/module/order"
	"github.com/platipay/server/internal/module/payment/domain"
	"github.com/platipay/server/internal/module/payment/provider"
)

const (
	// CheckoutCompletedPath is where the customer returns after paying.
	CheckoutCompletedPath = "/PaymentPlatiOnline/CheckoutCompleted"

	maxRedirectURLLength = 2048
	redirectFailedReason = "The payment could not be registered with PlatiOnline"

	defaultCountry   = "Romania"
	noShippingEmail  = "xxx@xxx.com"
	orderStringTempl = "Plata comenzii cu id %d pe site-ul %s"

	// MinOrderAge is how long an order must exist before its payment starts.
	MinOrderAge = 5 * time.Second
)

type checkoutErrorQuery struct {
	OrderID int    `url:"orderId"`
	Error   string `url:"error"`
}

// BeginPayment registers the order with the processor and returns the URL
// the customer is redirected to: the processor's payment page, or the
// checkout-completed page carrying the failure reason. Orders younger than
// MinOrderAge are refused with ErrPaymentTooEarly.
func (s *Service) BeginPayment(ctx context.Context, settings domain.MerchantSettings, orderID int) (string, error) {
	ord, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return "", err
	}
	if s.now().Sub(ord.CreatedAt) < MinOrderAge {
		return "", ErrPaymentTooEarly
	}

	req, err := s.authorizationRequest(settings, ord)
	if err != nil {
		return s.errorRedirect(ord.ID, err.Error()), nil
	}

	resp, err := s.gateway.Authorize(ctx, settings, req)
	if err != nil {
		s.logger.Error("authorization request failed", zap.Int("order_id", ord.ID), zap.Error(err))
		return s.errorRedirect(ord.ID, err.Error()), nil
	}
	if resp.Failed() {
		s.logger.Warn("authorization refused",
			zap.Int("order_id", ord.ID),
			zap.String("error_code", resp.ErrorCode),
			zap.String("error_reason", resp.ErrorReason),
		)
		return s.errorRedirect(ord.ID, resp.ErrorReason), nil
	}

	s.logger.Info("payment registered", zap.Int("order_id", ord.ID))
	return resp.RedirectURL, nil
}

// errorRedirect builds the checkout-completed URL for a failed start. A
// reason that would make the URL too long is replaced by a generic one.
func (s *Service) errorRedirect(orderID int, reason string) string {
	u := checkoutErrorURL(orderID, reason)
	if len(u) > maxRedirectURLLength {
		u = checkoutErrorURL(orderID, redirectFailedReason)
	}
	return u
}

func checkoutErrorURL(orderID int, reason string) string {
	v, err := query.Values(checkoutErrorQuery{OrderID: orderID, Error: reason})
	if err != nil {
		return CheckoutCompletedPath + "?orderId=" + strconv.Itoa(orderID)
	}
	return CheckoutCompletedPath + "?" + v.Encode()
}

func (s *Service) authorizationRequest(settings domain.MerchantSettings, ord *order.Order) (*provider.AuthorizationRequest, error) {
	currency, amount, err := s.chargeAmount(settings, ord)
	if err != nil {
		return nil, err
	}

	store := settings.StoreLocation()
	handshake := 0
	if settings.RelayMethod != domain.RelayPTOR {
		handshake = 1
	}

	req := &provider.AuthorizationRequest{
		OrderNumber: strconv.Itoa(ord.ID),
		Amount:      fmt.Sprintf("%.2f", amount),
		Currency:    currency,
		Language:    provider.OrDash(strings.ToLower(settings.Language)),
		OrderString: fmt.Sprintf(orderStringTempl, ord.ID, store),
		Website:     provider.Website(store),
		TestRequest: boolToInt(settings.TestMode),
		PayLink:     s.payLink(settings),
		CardHolder:  contact(&ord.Billing),
		Customer:    contact(&ord.Billing),
		Shipping:    shippingContact(ord.ShippingAddress()),
		Relay: provider.RelayResponse{
			URL:          store + strings.TrimPrefix(settings.RelayResponseURL, "/"),
			Method:       settings.RelayMethod,
			PostDeclined: 1,
			Handshake:    handshake,
		},
	}
	return req, nil
}

// chargeAmount picks the order currency when it is accepted, otherwise the
// fallback currency with the total converted.
func (s *Service) chargeAmount(settings domain.MerchantSettings, ord *order.Order) (string, float64, error) {
	currency := strings.ToUpper(ord.Currency)
	if settings.AcceptsCurrency(currency) {
		return currency, ord.Total, nil
	}

	target := strings.ToUpper(settings.FallbackCurrency)
	if s.converter == nil {
		return "", 0, fmt.Errorf("%w: %s", ErrUnknownCurrency, target)
	}
	amount, err := s.converter.Convert(ord.Total, currency, target)
	if err != nil {
		return "", 0, err
	}
	return target, amount, nil
}

func (s *Service) payLink(settings domain.MerchantSettings) *provider.PayLink {
	link := &provider.PayLink{
		Email: boolToInt(settings.PayLinkEmail),
		SMS:   boolToInt(settings.PayLinkSMS),
	}
	switch {
	case settings.PayLinkDays > 0:
		link.Days = settings.PayLinkDays
	case settings.PayLinkExpiresAt != nil && settings.PayLinkExpiresAt.After(s.now()):
		link.ExpireAt = settings.PayLinkExpiresAt.Format(provider.PayLinkTimeLayout)
	default:
		return nil
	}
	return link
}

func contact(a *order.Address) provider.Contact {
	country := provider.OrDash(a.Country)
	if country == "-" {
		country = defaultCountry
	}
	return provider.Contact{
		FirstName: provider.OrDash(a.FirstName),
		LastName:  provider.OrDash(a.LastName),
		Phone:     provider.PhoneOrPlaceholder(provider.OrDash(a.Phone)),
		Email:     provider.OrDash(a.Email),
		Company:   provider.OrDash(a.Company),
		Country:   country,
		County:    provider.OrDash(a.County),
		City:      provider.OrDash(a.City),
		Zip:       provider.OrDash(a.Zip),
		Address:   provider.OrDash(a.Address1),
	}
}

func shippingContact(a *order.Address) provider.Contact {
	if a == nil {
		return provider.Contact{
			FirstName: "-",
			LastName:  "-",
			Phone:     provider.PhoneOrPlaceholder(""),
			Email:     noShippingEmail,
			Company:   "-",
			Country:   defaultCountry,
			County:    "-",
			City:      "-",
			Zip:       "-",
			Address:   "-",
		}
	}
	return contact(a)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
