// Package modkit provides module wiring and core deps
package modkit

import (
	"campaigntracker/internal/modkit/repokit"
	"campaigntracker/internal/platform/config"
	"campaigntracker/internal/platform/logger"
	"campaigntracker/internal/platform/store"
)

// Deps holds core dependencies passed to modules; CH and RDS are nil when disabled
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse
	RDS store.KV
}

// FromStore fills the store seams of Deps from an opened store
func FromStore(cfg config.Conf, s *store.Store) Deps {
	d := Deps{Cfg: cfg}
	if s == nil {
		return d
	}
	d.Log = s.Log
	d.PG = s.PG
	d.CH = s.CH
	d.RDS = s.RDS
	return d
}
