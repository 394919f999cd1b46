// Package buildinfo exposes values stamped at link time, e.g.
//
//	go build -ldflags "-X github.com/dmitrijs2005/hrportal/internal/buildinfo.buildVersion=1.2.0"
package buildinfo

import (
	"fmt"
	"io"
)

const notAvailable = "N/A"

var (
	buildVersion = notAvailable
	buildDate    = notAvailable
	buildCommit  = notAvailable
)

// Version returns the stamped version, or "" when none was set.
func Version() string {
	if buildVersion == notAvailable {
		return ""
	}
	return buildVersion
}

func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", buildVersion)
	fmt.Fprintf(w, "Build date: %s\n", buildDate)
	fmt.Fprintf(w, "Build commit: %s\n", buildCommit)
}
