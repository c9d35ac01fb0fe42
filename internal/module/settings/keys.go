package settings

import (
	"fmt"
	"strconv"
	"time"

	"github.com/platipay/server/internal/module/payment/domain"
	"github.com/platipay/server/internal/shared/config"
)

// Setting names.
const (
	KeyMerchantID       = "platonline.merchant_id"
	KeyPublicKey        = "platonline.public_key"
	KeyPrivateKey       = "platonline.private_key"
	KeyIVAuth           = "platonline.iv_auth"
	KeyIVItsn           = "platonline.iv_itsn"
	KeyRelayResponseURL = "platonline.relay_response_url"
	KeyRelayMethod      = "platonline.relay_method"
	KeyAcceptRON        = "platonline.accept_ron"
	KeyAcceptEUR        = "platonline.accept_eur"
	KeyAcceptUSD        = "platonline.accept_usd"
	KeyFallbackCurrency = "platonline.fallback_currency"
	KeyTestMode         = "platonline.test_mode"
	KeySSL              = "platonline.ssl"
	KeyLogPath          = "platonline.log_path"
	KeyTransactMode     = "platonline.transact_mode"
	KeyPayLinkDays      = "platonline.pay_link_days"
	KeyPayLinkExpiresAt = "platonline.pay_link_expires_at"
	KeyPayLinkEmail     = "platonline.pay_link_email"
	KeyPayLinkSMS       = "platonline.pay_link_sms"
	KeyStoreHost        = "platonline.store_host"
	KeyLanguage         = "platonline.language"
)

// secretKeys are never returned in clear by the admin API.
var secretKeys = map[string]bool{
	KeyPublicKey:  true,
	KeyPrivateKey: true,
	KeyIVAuth:     true,
	KeyIVItsn:     true,
}

var payLinkKeys = map[string]bool{
	KeyPayLinkDays:      true,
	KeyPayLinkExpiresAt: true,
}

type field struct {
	key string
	get func(s *domain.MerchantSettings) string
	set func(s *domain.MerchantSettings, v string) error
}

func stringField(key string, ptr func(*domain.MerchantSettings) *string) field {
	return field{
		key: key,
		get: func(s *domain.MerchantSettings) string { return *ptr(s) },
		set: func(s *domain.MerchantSettings, v string) error {
			*ptr(s) = v
			return nil
		},
	}
}

func boolField(key string, ptr func(*domain.MerchantSettings) *bool) field {
	return field{
		key: key,
		get: func(s *domain.MerchantSettings) string { return strconv.FormatBool(*ptr(s)) },
		set: func(s *domain.MerchantSettings, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return err
			}
			*ptr(s) = b
			return nil
		},
	}
}

func intField(key string, ptr func(*domain.MerchantSettings) *int) field {
	return field{
		key: key,
		get: func(s *domain.MerchantSettings) string { return strconv.Itoa(*ptr(s)) },
		set: func(s *domain.MerchantSettings, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return err
			}
			*ptr(s) = n
			return nil
		},
	}
}

var fields = []field{
	stringField(KeyMerchantID, func(s *domain.MerchantSettings) *string { return &s.MerchantID }),
	stringField(KeyPublicKey, func(s *domain.MerchantSettings) *string { return &s.PublicKey }),
	stringField(KeyPrivateKey, func(s *domain.MerchantSettings) *string { return &s.PrivateKey }),
	stringField(KeyIVAuth, func(s *domain.MerchantSettings) *string { return &s.IVAuth }),
	stringField(KeyIVItsn, func(s *domain.MerchantSettings) *string { return &s.IVItsn }),
	stringField(KeyRelayResponseURL, func(s *domain.MerchantSettings) *string { return &s.RelayResponseURL }),
	{
		key: KeyRelayMethod,
		get: func(s *domain.MerchantSettings) string { return string(s.RelayMethod) },
		set: func(s *domain.MerchantSettings, v string) error {
			m := domain.RelayMethod(v)
			if !m.IsValid() {
				return fmt.Errorf("unknown relay method %q", v)
			}
			s.RelayMethod = m
			return nil
		},
	},
	boolField(KeyAcceptRON, func(s *domain.MerchantSettings) *bool { return &s.AcceptRON }),
	boolField(KeyAcceptEUR, func(s *domain.MerchantSettings) *bool { return &s.AcceptEUR }),
	boolField(KeyAcceptUSD, func(s *domain.MerchantSettings) *bool { return &s.AcceptUSD }),
	stringField(KeyFallbackCurrency, func(s *domain.MerchantSettings) *string { return &s.FallbackCurrency }),
	boolField(KeyTestMode, func(s *domain.MerchantSettings) *bool { return &s.TestMode }),
	boolField(KeySSL, func(s *domain.MerchantSettings) *bool { return &s.SSL }),
	stringField(KeyLogPath, func(s *domain.MerchantSettings) *string { return &s.LogPath }),
	{
		key: KeyTransactMode,
		get: func(s *domain.MerchantSettings) string { return string(s.TransactMode) },
		set: func(s *domain.MerchantSettings, v string) error {
			m := domain.TransactMode(v)
			if _, ok := m.InitialPaymentStatus(); !ok {
				return fmt.Errorf("unknown transact mode %q", v)
			}
			s.TransactMode = m
			return nil
		},
	},
	intField(KeyPayLinkDays, func(s *domain.MerchantSettings) *int { return &s.PayLinkDays }),
	{
		key: KeyPayLinkExpiresAt,
		get: func(s *domain.MerchantSettings) string {
			if s.PayLinkExpiresAt == nil {
				return ""
			}
			return s.PayLinkExpiresAt.UTC().Format(time.RFC3339)
		},
		set: func(s *domain.MerchantSettings, v string) error {
			if v == "" {
				s.PayLinkExpiresAt = nil
				return nil
			}
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				return err
			}
			s.PayLinkExpiresAt = &t
			return nil
		},
	},
	boolField(KeyPayLinkEmail, func(s *domain.MerchantSettings) *bool { return &s.PayLinkEmail }),
	boolField(KeyPayLinkSMS, func(s *domain.MerchantSettings) *bool { return &s.PayLinkSMS }),
	stringField(KeyStoreHost, func(s *domain.MerchantSettings) *string { return &s.StoreHost }),
	stringField(KeyLanguage, func(s *domain.MerchantSettings) *string { return &s.Language }),
}

// Keys returns every setting name in a stable order.
func Keys() []string {
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.key
	}
	return keys
}

func encode(s domain.MerchantSettings) map[string]string {
	values := make(map[string]string, len(fields))
	for _, f := range fields {
		values[f.key] = f.get(&s)
	}
	return values
}

// apply overlays stored values on base. Unknown names are ignored.
func apply(base domain.MerchantSettings, values map[string]string) (domain.MerchantSettings, error) {
	for _, f := range fields {
		v, ok := values[f.key]
		if !ok {
			continue
		}
		if err := f.set(&base, v); err != nil {
			return base, fmt.Errorf("%w: %s: %v", ErrInvalidSetting, f.key, err)
		}
	}
	return base, nil
}

// DefaultsFromConfig builds the settings every store starts from.
func DefaultsFromConfig(cfg config.PlatiOnlineConfig) domain.MerchantSettings {
	return domain.MerchantSettings{
		MerchantID:       cfg.MerchantID,
		PublicKey:        cfg.PublicKey,
		PrivateKey:       cfg.PrivateKey,
		IVAuth:           cfg.IVAuth,
		IVItsn:           cfg.IVItsn,
		RelayResponseURL: cfg.RelayResponseURL,
		RelayMethod:      domain.RelayMethod(cfg.RelayMethod),
		AcceptRON:        cfg.AcceptRON,
		AcceptEUR:        cfg.AcceptEUR,
		AcceptUSD:        cfg.AcceptUSD,
		FallbackCurrency: cfg.FallbackCurrency,
		TestMode:         cfg.TestMode,
		SSL:              cfg.SSL,
		LogPath:          cfg.LogPath,
		TransactMode:     domain.TransactMode(cfg.TransactMode),
		PayLinkDays:      cfg.PayLinkDays,
		StoreHost:        cfg.StoreHost,
		Language:         cfg.Language,
	}
}
