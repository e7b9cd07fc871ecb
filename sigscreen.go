// Package sigscreen holds small helpers shared by the sigscreen library
// packages and command-line tools.
package sigscreen

import (
	"io"
	"log"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/csimplestring/go-csv/detector"
)

// ExpandHome resolves a leading ~/ against the current user's home directory
// so flag values can be written shell-style. Anything else passes through
// untouched.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}

	usr, err := user.Current()
	if err != nil {
		log.Fatalln(pfx.Err(err))
	}

	return filepath.Join(usr.HomeDir, path[2:])
}

// DetermineDelimiter sniffs the rune most likely separating the reader's
// columns. Expression tables arrive as both comma- and tab-separated text;
// when the sniff is inconclusive the loaders fall back to tab, the
// convention every other format in this pipeline (GCT, GMT, model tables)
// already uses.
func DetermineDelimiter(r io.Reader) rune {
	candidates := detector.New().DetectDelimiter(r, '"')
	if len(candidates) == 0 {
		return '\t'
	}

	return rune(candidates[0][0])
}
