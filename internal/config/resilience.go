package config

import (
	"time"

	"purchasing_manager/internal/retry"
)

type ResilienceConfig struct {
	SheetRead   retry.Config
	SheetWrite  retry.Config
	WebhookSend retry.Config
}

var DefaultResilienceConfig = ResilienceConfig{
	SheetRead: retry.Config{
		MaxRetries: 3,
		BaseDelay:  2 * time.Second,
		MaxDelay:   30 * time.Second,
		Timeout:    15 * time.Second,
	},
	// Writes get a single retry only: repeating a write after an ambiguous
	// failure widens the window in which a concurrent operator's changes
	// could be clobbered.
	SheetWrite: retry.Config{
		MaxRetries: 1,
		BaseDelay:  2 * time.Second,
		MaxDelay:   10 * time.Second,
		Timeout:    15 * time.Second,
	},
	// Webhook delivery is at-most-once per channel per transition.
	WebhookSend: retry.Config{
		MaxRetries: 0,
		BaseDelay:  1 * time.Second,
		MaxDelay:   1 * time.Second,
		Timeout:    10 * time.Second,
	},
}
