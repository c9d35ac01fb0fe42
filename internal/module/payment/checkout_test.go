package payment

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/platipay/server/internal/module/order"
	"github.com/platipay/server/internal/module/payment/domain"
	"github.com/platipay/server/internal/module/payment/provider"
)

func captureAuthorize(f *fixture, resp *provider.AuthorizationURLResponse, err error) *provider.AuthorizationRequest {
	captured := &provider.AuthorizationRequest{}
	f.gateway.On("Authorize", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			*captured = *args.Get(2).(*provider.AuthorizationRequest)
		}).
		Return(resp, err)
	return captured
}

func TestService_BeginPayment_BuildsRequest(t *testing.T) {
	o := pendingOrder(5)
	o.Billing = order.Address{
		FirstName: "Ana",
		LastName:  "Pop",
		Email:     "ana@example.ro",
		Phone:     "0721",
		City:      "Cluj",
		Address1:  "Str. Lunga 1",
	}
	f := newFixture(o)
	req := captureAuthorize(f, &provider.AuthorizationURLResponse{ErrorCode: "0", RedirectURL: "https://pay"}, nil)

	settings := testSettings()
	settings.TestMode = true
	settings.RelayMethod = domain.RelayS2SMTPage

	redirect, err := f.service.BeginPayment(context.Background(), settings, 5)
	require.NoError(t, err)
	assert.Equal(t, "https://pay", redirect)

	assert.Equal(t, "5", req.OrderNumber)
	assert.Equal(t, "150.00", req.Amount)
	assert.Equal(t, "RON", req.Currency)
	assert.Equal(t, "ro", req.Language)
	assert.Equal(t, 1, req.TestRequest)
	assert.Equal(t, "shop.example.ro/", req.Website)
	assert.Equal(t, "Plata comenzii cu id 5 pe site-ul https://www.shop.example.ro/", req.OrderString)
	assert.Nil(t, req.PayLink)

	assert.Equal(t, "Ana", req.CardHolder.FirstName)
	assert.Equal(t, "0000000000", req.CardHolder.Phone)
	assert.Equal(t, "-", req.CardHolder.Company)
	assert.Equal(t, "Romania", req.CardHolder.Country)
	assert.Equal(t, req.CardHolder, req.Customer)

	assert.Equal(t, "xxx@xxx.com", req.Shipping.Email)
	assert.Equal(t, "-", req.Shipping.FirstName)

	assert.Equal(t, "https://www.shop.example.ro/PaymentPlatiOnline/CheckoutCompleted", req.Relay.URL)
	assert.Equal(t, domain.RelayS2SMTPage, req.Relay.Method)
	assert.Equal(t, 1, req.Relay.Handshake)
}

func TestService_BeginPayment_ShippingAddress(t *testing.T) {
	o := pendingOrder(5)
	o.HasShipping = true
	o.Shipping = order.Address{FirstName: "Ion", Phone: "0721000111", Country: "Moldova"}
	f := newFixture(o)
	req := captureAuthorize(f, &provider.AuthorizationURLResponse{ErrorCode: "0"}, nil)

	_, err := f.service.BeginPayment(context.Background(), testSettings(), 5)
	require.NoError(t, err)

	assert.Equal(t, "Ion", req.Shipping.FirstName)
	assert.Equal(t, "0721000111", req.Shipping.Phone)
	assert.Equal(t, "Moldova", req.Shipping.Country)
	assert.Equal(t, 0, req.Relay.Handshake)
}

func TestService_BeginPayment_FallbackCurrency(t *testing.T) {
	o := pendingOrder(5)
	o.Total = 100
	o.Currency = "gbp"
	f := newFixture(o)
	req := captureAuthorize(f, &provider.AuthorizationURLResponse{ErrorCode: "0"}, nil)

	settings := testSettings()
	settings.FallbackCurrency = "EUR"

	_, err := f.service.BeginPayment(context.Background(), settings, 5)
	require.NoError(t, err)
	assert.Equal(t, "EUR", req.Currency)
	assert.Equal(t, "80.00", req.Amount)
}

func TestService_BeginPayment_UnknownRate(t *testing.T) {
	o := pendingOrder(5)
	o.Currency = "CHF"
	f := newFixture(o)

	redirect, err := f.service.BeginPayment(context.Background(), testSettings(), 5)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(redirect, CheckoutCompletedPath+"?"))
	assert.Contains(t, redirect, "orderId=5")
	f.gateway.AssertNotCalled(t, "Authorize", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_BeginPayment_PayLink(t *testing.T) {
	expires := time.Date(2030, 1, 2, 15, 4, 5, 0, time.UTC)
	tests := []struct {
		name     string
		days     int
		expires  *time.Time
		wantDays int
		wantAt   string
	}{
		{name: "days", days: 3, wantDays: 3},
		{name: "expiry", expires: &expires, wantAt: "2030-01-02T15:04:05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(pendingOrder(5))
			req := captureAuthorize(f, &provider.AuthorizationURLResponse{ErrorCode: "0"}, nil)

			settings := testSettings()
			settings.PayLinkDays = tt.days
			settings.PayLinkExpiresAt = tt.expires
			settings.PayLinkEmail = true

			_, err := f.service.BeginPayment(context.Background(), settings, 5)
			require.NoError(t, err)
			require.NotNil(t, req.PayLink)
			assert.Equal(t, tt.wantDays, req.PayLink.Days)
			assert.Equal(t, tt.wantAt, req.PayLink.ExpireAt)
			assert.Equal(t, 1, req.PayLink.Email)
			assert.Equal(t, 0, req.PayLink.SMS)
		})
	}
}

func TestService_BeginPayment_Failures(t *testing.T) {
	tests := []struct {
		name       string
		resp       *provider.AuthorizationURLResponse
		err        error
		wantReason string
	}{
		{
			name:       "refused",
			resp:       &provider.AuthorizationURLResponse{ErrorCode: "3", ErrorReason: "Merchant inactive"},
			wantReason: "Merchant inactive",
		},
		{
			name:       "transport",
			err:        &provider.TransportError{Op: "authorize", Err: errors.New("circuit breaker is open")},
			wantReason: "platonline authorize: circuit breaker is open",
		},
		{
			name:       "reason too long for a URL",
			resp:       &provider.AuthorizationURLResponse{ErrorCode: "1", ErrorReason: strings.Repeat("x", 3000)},
			wantReason: redirectFailedReason,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(pendingOrder(5))
			captureAuthorize(f, tt.resp, tt.err)

			redirect, err := f.service.BeginPayment(context.Background(), testSettings(), 5)
			require.NoError(t, err)
			assert.LessOrEqual(t, len(redirect), maxRedirectURLLength)

			u, err := url.Parse(redirect)
			require.NoError(t, err)
			assert.Equal(t, CheckoutCompletedPath, u.Path)
			assert.Equal(t, "5", u.Query().Get("orderId"))
			assert.Equal(t, tt.wantReason, u.Query().Get("error"))
		})
	}
}

func TestService_BeginPayment_OrderNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.service.BeginPayment(context.Background(), testSettings(), 99)
	assert.True(t, IsOrderNotFound(err))
}

func TestService_BeginPayment_TooEarly(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		age     time.Duration
		wantErr bool
	}{
		{"just placed", 0, true},
		{"four seconds old", 4 * time.Second, true},
		{"five seconds old", MinOrderAge, false},
		{"an hour old", time.Hour, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := pendingOrder(5)
			o.CreatedAt = now.Add(-tt.age)
			f := newFixture(o)
			f.service.now = func() time.Time { return now }
			f.gateway.On("Authorize", mock.Anything, mock.Anything, mock.Anything).
				Return(&provider.AuthorizationURLResponse{ErrorCode: "0", RedirectURL: "https://pay"}, nil)

			redirect, err := f.service.BeginPayment(context.Background(), testSettings(), 5)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrPaymentTooEarly)
				assert.Empty(t, redirect)
				f.gateway.AssertNotCalled(t, "Authorize", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "https://pay", redirect)
		})
	}
}

func TestRateTable_Convert(t *testing.T) {
	rt := NewRateTable(map[string]float64{"ron": 1, "EUR": 0.2})

	got, err := rt.Convert(50, "RON", "eur")
	require.NoError(t, err)
	assert.Equal(t, 10.0, got)

	got, err = rt.Convert(12.5, "USD", "USD")
	require.NoError(t, err)
	assert.Equal(t, 12.5, got)

	_, err = rt.Convert(1, "RON", "JPY")
	assert.ErrorIs(t, err, ErrUnknownCurrency)
}
