// Package module defines the minimal contract for a modkit module and port lookups
package module

import (
	phttp "campaigntracker/internal/platform/net/http"
)

// Module is the contract modkit composes; it lives apart from modkit so a
// module exporting its own ports type does not import-cycle
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
