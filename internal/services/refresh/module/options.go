package module

import (
	"time"

	"campaigntracker/internal/platform/config"
	"campaigntracker/internal/services/refresh/service"
)

// Options holds configuration settings for the refresh module
type Options struct {
	Schedule         string
	Gap              time.Duration
	RunOnStart       bool
	EnableLeases     bool
	LeaseTTL         time.Duration
	StatementTimeout time.Duration
}

// FromConfig reads CORE_REFRESH_* settings
func FromConfig(cfg config.Conf) Options {
	rc := cfg.Prefix("CORE_REFRESH_")
	return Options{
		Schedule:         rc.MayString("SCHEDULE", service.DefaultSchedule),
		Gap:              rc.MayDuration("GAP", 2*time.Second),
		RunOnStart:       rc.MayBool("RUN_ON_START", true),
		EnableLeases:     rc.MayBool("LEASES", true),
		LeaseTTL:         rc.MayDuration("LEASE_TTL", 2*time.Hour),
		StatementTimeout: rc.MayDuration("STATEMENT_TIMEOUT", 5*time.Second),
	}
}
