package services

import "errors"

var (
	// ErrPoolExhausted means no item is available anywhere in the
	// configured pool. Fatal for the current draw; never retried inside
	// the item selector.
	ErrPoolExhausted = errors.New("no items available in pool")

	// ErrInvalidConfig means the pool configuration or the pity
	// bookkeeping derived from it is inconsistent.
	ErrInvalidConfig = errors.New("invalid pool configuration")

	// ErrPoolDisabled means the pool exists but is not enabled for draws.
	ErrPoolDisabled = errors.New("pool is disabled")
)
