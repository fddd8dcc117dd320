package revshare

// Version is the release of the ledger. Release builds override it with
// -ldflags "-X github.com/iov-one/revshare.Version=...".
var Version = "v0.1.0-dev"

// GitCommit set by build flags
var GitCommit = ""

// VersionString is the string to be displayed.
func VersionString() string {
	if GitCommit != "" {
		return Version + " " + GitCommit
	}
	return Version
}
