// Package gsea bridges the pipeline to an externally installed GSEA
// distribution: it serializes expression data, phenotype labels, and gene
// sets into GSEA's text formats, invokes the tool as a subprocess, and
// parses its result reports back for comparison with the internal analysis.
package gsea

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/carbocation/pfx"
)

// WorkDir is an explicit handle on the directory where bridge files are
// written and where the tool deposits its results. It exists so that no
// stage ever relies on the process working directory, and so cleanup is a
// single scoped call on every exit path.
type WorkDir struct {
	Path string

	created bool
}

// NewWorkDir creates (or adopts) the directory at path. Cleanup removes the
// directory only when this call created it; pre-existing directories are
// left in place so cached tool results survive.
func NewWorkDir(path string) (*WorkDir, error) {
	if path == "" {
		return nil, pfx.Err(fmt.Errorf("empty working directory path"))
	}

	created := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(path, 0o755); err != nil {
			return nil, pfx.Err(err)
		}
		created = true
	} else if err != nil {
		return nil, pfx.Err(err)
	}

	return &WorkDir{Path: path, created: created}, nil
}

// File returns the path of name inside the working directory.
func (wd *WorkDir) File(name string) string {
	return filepath.Join(wd.Path, name)
}

// Create opens a new file inside the working directory for writing.
func (wd *WorkDir) Create(name string) (*os.File, error) {
	f, err := os.Create(wd.File(name))
	if err != nil {
		return nil, pfx.Err(err)
	}

	return f, nil
}

// Cleanup removes the directory tree if this WorkDir created it.
func (wd *WorkDir) Cleanup() error {
	if !wd.created {
		return nil
	}

	return pfx.Err(os.RemoveAll(wd.Path))
}
