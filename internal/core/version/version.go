// Package version reports build information for the tracker binaries
package version

// BuildInfo holds version information about the service build
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Set via -ldflags "-X 'campaigntracker/internal/core/version.version=v0.1.0'
// -X 'campaigntracker/internal/core/version.commit=abcd' -X 'campaigntracker/internal/core/version.date=2025-09-02'"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Info returns the build information for service
func Info(service string) BuildInfo {
	if service == "" {
		service = "tracker"
	}
	return BuildInfo{
		Service: service,
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}
