package version

import (
	"fmt"
	"time"
)

// version reported by development builds
const dev = "v0.1.0-dev"

// Provisioned by ldflags
var (
	version    string
	commitHash string
	buildDate  string
)

type Info struct {
	Version string `json:"version"`
	Hash    string `json:"hash"`
	Date    string `json:"date"`
}

func init() {
	if version == "" {
		version = dev
	}
	if commitHash == "" {
		commitHash = "unknown"
	}
	if buildDate == "" {
		buildDate = time.Now().UTC().Format(time.RFC3339)
	}
}

// Full returns the version, commit hash and build date of the binary.
func Full() *Info {
	return &Info{
		Version: version,
		Hash:    commitHash,
		Date:    buildDate,
	}
}

func (i *Info) String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", i.Version, i.Hash, i.Date)
}
