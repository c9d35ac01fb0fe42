package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/platipay/server/internal/module/payment/domain"
)

// MaskedValue stands in for secrets in admin responses. Saving it keeps the stored value.
const MaskedValue = domain.MaskedSecret

// Service loads and saves merchant settings with per-store override.
type Service struct {
	repo     Repository
	cache    Cache
	defaults domain.MerchantSettings
	now      func() time.Time
	logger   *zap.Logger
}

// NewService creates a new settings service.
func NewService(repo Repository, cache Cache, defaults domain.MerchantSettings, logger *zap.Logger) *Service {
	if cache == nil {
		cache = NewNoopCache()
	}
	return &Service{
		repo:     repo,
		cache:    cache,
		defaults: defaults,
		now:      time.Now,
		logger:   logger,
	}
}

// Load returns the settings in effect for storeID: configured defaults,
// then default scope rows, then the store's own rows.
func (s *Service) Load(ctx context.Context, storeID int) (domain.MerchantSettings, error) {
	if storeID < 0 {
		return domain.MerchantSettings{}, ErrInvalidStore
	}

	cached, err := s.cache.Get(ctx, storeID)
	if err != nil {
		s.logger.Warn("settings cache read failed", zap.Int("store_id", storeID), zap.Error(err))
	}
	if cached != nil {
		return *cached, nil
	}

	merged := s.defaults
	scopes := []int{DefaultStoreID}
	if storeID != DefaultStoreID {
		scopes = append(scopes, storeID)
	}
	for _, scope := range scopes {
		values, err := s.values(ctx, scope)
		if err != nil {
			return domain.MerchantSettings{}, err
		}
		merged, err = apply(merged, values)
		if err != nil {
			return domain.MerchantSettings{}, err
		}
	}

	if err := s.cache.Set(ctx, storeID, merged); err != nil {
		s.logger.Warn("settings cache write failed", zap.Int("store_id", storeID), zap.Error(err))
	}
	return merged, nil
}

// Overrides reports which settings storeID defines itself.
func (s *Service) Overrides(ctx context.Context, storeID int) (map[string]bool, error) {
	overrides := make(map[string]bool)
	if storeID == DefaultStoreID {
		return overrides, nil
	}
	values, err := s.values(ctx, storeID)
	if err != nil {
		return nil, err
	}
	for name := range values {
		overrides[name] = true
	}
	return overrides, nil
}

// Save stores the settings for storeID. For a store other than the default
// scope only the names flagged in overrides are stored, the rest fall back
// to the default scope. When both pay-link forms are set everything else is
// still saved and domain.ErrPayLinkConflict is returned.
func (s *Service) Save(ctx context.Context, storeID int, in domain.MerchantSettings, overrides map[string]bool) error {
	if storeID < 0 {
		return ErrInvalidStore
	}

	current, err := s.Load(ctx, storeID)
	if err != nil {
		return err
	}
	values := encode(in)
	stored := encode(current)
	for key := range secretKeys {
		if values[key] == MaskedValue {
			values[key] = stored[key]
		}
	}
	if _, err := apply(domain.MerchantSettings{}, values); err != nil {
		return err
	}

	payLinkErr := in.ValidatePayLink(s.now())

	upserts := make(map[string]string, len(values))
	var deletes []string
	for _, key := range Keys() {
		if payLinkErr != nil && payLinkKeys[key] {
			continue
		}
		if storeID != DefaultStoreID && !overrides[key] {
			deletes = append(deletes, key)
			continue
		}
		upserts[key] = values[key]
	}

	if err := s.repo.Save(ctx, storeID, upserts, deletes); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	if err := s.cache.Clear(ctx); err != nil {
		s.logger.Warn("settings cache clear failed", zap.Error(err))
	}

	s.logger.Info("settings saved",
		zap.Int("store_id", storeID),
		zap.Int("stored", len(upserts)),
		zap.Int("inherited", len(deletes)),
	)

	if payLinkErr != nil {
		s.logger.Warn("pay link settings rejected", zap.Int("store_id", storeID), zap.Error(payLinkErr))
		return payLinkErr
	}
	return nil
}

func (s *Service) values(ctx context.Context, storeID int) (map[string]string, error) {
	rows, err := s.repo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("list settings for store %d: %w", storeID, err)
	}
	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.Name] = row.Value
	}
	return values, nil
}

// IsPayLinkConflict reports whether err is the pay-link validation error.
func IsPayLinkConflict(err error) bool {
	return errors.Is(err, domain.ErrPayLinkConflict)
}
