// Package buildinfo reports the provenance of the running binary from the
// metadata the toolchain embeds, so that any result table can be traced back
// to the exact commit that produced it.
package buildinfo

import (
	"fmt"
	"os"
	"runtime/debug"
)

type Info struct {
	Main       string
	GoVersion  string
	Commit     string
	CommitTime string
	Dirty      bool
}

func (i Info) String() string {
	dirty := ""
	if i.Dirty {
		dirty = " (working tree was dirty)"
	}

	return fmt.Sprintf("%s built with %s from commit %s at %s%s", i.Main, i.GoVersion, i.Commit, i.CommitTime, dirty)
}

func Get() Info {
	out := Info{}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return out
	}

	out.Main = bi.Path
	out.GoVersion = bi.GoVersion
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			out.Commit = s.Value
		case "vcs.time":
			out.CommitTime = s.Value
		case "vcs.modified":
			out.Dirty = s.Value == "true"
		}
	}

	return out
}

// Print writes the provenance line to stderr so it rides along with the log
// output rather than polluting any table written to stdout.
func Print() {
	fmt.Fprintln(os.Stderr, Get())
}
