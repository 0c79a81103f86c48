// Package version reports what build is running
package version

// BuildInfo describes the running binary
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info returns the build information stamped with -ldflags, for example
// -X 'tdsdesk/internal/core/version.version=v0.1.0' -X 'tdsdesk/internal/core/version.commit=abcd'
func Info() BuildInfo {
	return BuildInfo{
		Service: service,
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

// String renders service@version (commit)
func (b BuildInfo) String() string {
	return b.Service + "@" + b.Version + " (" + b.Commit + ")"
}

var (
	service = "tdsdesk"
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
