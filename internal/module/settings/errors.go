package settings

import "errors"

// Module errors.
var (
	ErrInvalidSetting = errors.New("invalid setting")
	ErrInvalidStore   = errors.New("invalid store")
	ErrNoCacheKey     = errors.New("settings cache key is not configured")
)
