package processsuggestion

import (
	"time"

	"dining-concierge/internal/common/config"
)

type Config struct {
	// MaxCandidates caps the search pool per cuisine.
	MaxCandidates int
	SampleSize    int
	PollWait      time.Duration
	IdleInterval  time.Duration
	DrainBatch    int
	Timeout       time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	c := &Config{
		MaxCandidates: 50,
		SampleSize:    3,
		PollWait:      5 * time.Second,
		IdleInterval:  time.Second,
		DrainBatch:    10,
		Timeout:       30 * time.Second,
	}
	if cfg == nil {
		return c
	}

	if cfg.Suggestions.MaxCandidates > 0 {
		c.MaxCandidates = cfg.Suggestions.MaxCandidates
	}
	if cfg.Suggestions.SampleSize > 0 {
		c.SampleSize = cfg.Suggestions.SampleSize
	}
	c.PollWait = time.Duration(cfg.AWS.SQS.WaitSeconds) * time.Second
	if cfg.Suggestions.IdleInterval > 0 {
		c.IdleInterval = config.GetDuration(cfg.Suggestions.IdleInterval)
	}
	if cfg.Suggestions.DrainBatch > 0 {
		c.DrainBatch = cfg.Suggestions.DrainBatch
	}
	if w, ok := cfg.Workers[DrainTaskType]; ok && w.Timeout > 0 {
		c.Timeout = config.GetDuration(w.Timeout)
	}
	return c
}
