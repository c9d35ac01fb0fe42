package domain

import (
	"errors"
	"strings"
	"time"
)

// MaskedSecret replaces key material in printable copies.
const MaskedSecret = "********"

// ErrPayLinkConflict is returned when both pay-link validity forms are set.
var ErrPayLinkConflict = errors.New("pay link validity accepts either a day count or an expiry date, not both")

// MerchantSettings is the credential and behaviour bundle for one store.
// It is loaded once per request and treated as read-only.
type MerchantSettings struct {
	MerchantID       string       `json:"merchant_id"`
	PublicKey        string       `json:"public_key"`
	PrivateKey       string       `json:"private_key"`
	IVAuth           string       `json:"iv_auth"`
	IVItsn           string       `json:"iv_itsn"`
	RelayResponseURL string       `json:"relay_response_url"`
	RelayMethod      RelayMethod  `json:"relay_method"`
	AcceptRON        bool         `json:"accept_ron"`
	AcceptEUR        bool         `json:"accept_eur"`
	AcceptUSD        bool         `json:"accept_usd"`
	FallbackCurrency string       `json:"fallback_currency"`
	TestMode         bool         `json:"test_mode"`
	SSL              bool         `json:"ssl"`
	LogPath          string       `json:"log_path"`
	TransactMode     TransactMode `json:"transact_mode"`
	PayLinkDays      int          `json:"pay_link_days"`
	PayLinkExpiresAt *time.Time   `json:"pay_link_expires_at,omitempty"`
	PayLinkEmail     bool         `json:"pay_link_email"`
	PayLinkSMS       bool         `json:"pay_link_sms"`
	StoreHost        string       `json:"store_host"`
	Language         string       `json:"language"`
}

// ValidatePayLink rejects a day count combined with an expiry still in the future.
func (s MerchantSettings) ValidatePayLink(now time.Time) error {
	if s.PayLinkDays > 0 && s.PayLinkExpiresAt != nil && s.PayLinkExpiresAt.After(now) {
		return ErrPayLinkConflict
	}
	return nil
}

// StoreLocation returns the store root URL with a trailing slash.
func (s MerchantSettings) StoreLocation() string {
	host := strings.TrimSuffix(s.StoreHost, "/")
	scheme := "http://"
	if s.SSL {
		scheme = "https://"
	}
	return scheme + host + "/"
}

// AcceptsCurrency reports whether the gateway is enabled for the ISO code.
func (s MerchantSettings) AcceptsCurrency(code string) bool {
	switch strings.ToUpper(code) {
	case "RON":
		return s.AcceptRON
	case "EUR":
		return s.AcceptEUR
	case "USD":
		return s.AcceptUSD
	}
	return false
}

// Masked returns a copy safe to print, with key material hidden.
func (s MerchantSettings) Masked() MerchantSettings {
	mask := func(v string) string {
		if v == "" {
			return ""
		}
		return MaskedSecret
	}
	s.PrivateKey = mask(s.PrivateKey)
	s.PublicKey = mask(s.PublicKey)
	s.IVAuth = mask(s.IVAuth)
	s.IVItsn = mask(s.IVItsn)
	return s
}
