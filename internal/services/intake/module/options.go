package module

import (
	"time"

	"campaigntracker/internal/platform/config"
)

// Options holds configuration settings for the intake module
type Options struct {
	ChannelID        string
	IgnoreAuthors    []string
	MaxRetries       int
	RetryDelay       time.Duration
	NotifyNoCampaign bool
}

// FromConfig reads CORE_INTAKE_* settings; the channel comes from the chat adapter
func FromConfig(cfg config.Conf) Options {
	ic := cfg.Prefix("CORE_INTAKE_")
	return Options{
		IgnoreAuthors:    ic.MayCSV("IGNORE_AUTHORS", []string{"CorrectionBot"}),
		MaxRetries:       ic.MayInt("MAX_RETRIES", 3),
		RetryDelay:       ic.MayDuration("RETRY_DELAY", time.Second),
		NotifyNoCampaign: ic.MayBool("NOTIFY_NO_CAMPAIGN", false),
	}
}
