// Package version exposes build information for the service binaries.
//
// The values are set at build time via -ldflags, e.g.
//
//	go build -ldflags "-X github.com/certs365/certify-server/internal/version.version=v1.2.0"
package version

// set via -ldflags at build time
var (
	version   = "dev"
	buildDate = "unknown"
	gitCommit = "unknown"
)

// Info holds the build information for the running binary.
type Info struct {
	Version   string `json:"version"`
	BuildDate string `json:"build_date"`
	GitCommit string `json:"git_commit"`
}

// Get returns the build information for the running binary.
func Get() Info {
	return Info{
		Version:   version,
		BuildDate: buildDate,
		GitCommit: gitCommit,
	}
}
