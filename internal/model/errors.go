package model

import "errors"

// Adapters wrap transport and payload failures with these so callers can
// classify them with errors.Is.
var (
	ErrFeedUnavailable = errors.New("price feed unavailable")
	ErrNotifyFailure   = errors.New("notification delivery failed")
)
