package modkit

import (
	phttp "campaigntracker/internal/platform/net/http"
)

// Module is the common surface for API modules that can mount routes and expose ports
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}

// Base implements Module over a Built; service modules embed it
type Base struct{ Built }

// NewBase builds a Base from defaults followed by caller options
func NewBase(defaults []Option, opts ...Option) Base {
	return Base{Built: Build(append(defaults, opts...)...)}
}

// Name returns the module name
func (b Base) Name() string { return b.ModuleName() }

// Ports returns the module's port set
func (b Base) Ports() any { return b.Built.Ports }
