package buildinfo

// These variables will be set at build time using ldflags, e.g.
//
//	go build -ldflags "-X nsquery/internal/buildinfo.Version=1.2.0 -X nsquery/internal/buildinfo.Commit=$(git rev-parse --short HEAD)"
var (
	Version = "dev"
	Commit  = ""
)

// UserAgent is sent with every request to the ERP.
func UserAgent() string {
	return "nsquery/" + Version
}

// String describes the build for the version command
func String() string {
	if Commit == "" {
		return Version
	}
	return Version + " (" + Commit + ")"
}
