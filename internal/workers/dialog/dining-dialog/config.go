// internal/workers/dialog/dining-dialog/config.go
package diningdialog

import (
	"time"

	"dining-concierge/internal/common/config"
)

type Config struct {
	Timeout time.Duration
	// MaxLocationAttempts bounds rejected Location entries per session. 0 means unbounded.
	MaxLocationAttempts int
}

func LoadConfig(cfg *config.Config) *Config {
	c := &Config{
		Timeout:             5 * time.Second,
		MaxLocationAttempts: 0,
	}
	if cfg == nil {
		return c
	}
	if cfg.Dialog.Timeout > 0 {
		c.Timeout = config.GetDuration(cfg.Dialog.Timeout)
	}
	c.MaxLocationAttempts = cfg.Dialog.MaxLocationAttempts
	return c
}
