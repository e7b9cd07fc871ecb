package gsea

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunnerArgs(t *testing.T) {
	r := Runner{JarPath: "/opt/gsea/gsea.jar"}
	args := r.Args(Config{
		ExpressionPath: "e.txt",
		CLSPath:        "p.cls",
		GMTPath:        "g.gmt",
		OutDir:         "out",
		Label:          "thyroid",
	})

	assert.Contains(t, args, "xtools.gsea.Gsea")
	assert.Contains(t, args, "-rpt_label")
	assert.Contains(t, args, "thyroid")
	// Unset permutations fall back to the tool default of 1000.
	assert.Contains(t, args, "1000")
}

func TestRunRequiresJar(t *testing.T) {
	err := Runner{}.Run(context.Background(), Config{})
	assert.True(t, errors.Is(err, ErrToolFailed), "got %v", err)
}

func TestRunFailure(t *testing.T) {
	// A java binary that does not exist fails fast with ErrToolFailed.
	r := Runner{Java: "/nonexistent/java-binary", JarPath: "x.jar"}
	err := r.Run(context.Background(), Config{})
	assert.True(t, errors.Is(err, ErrToolFailed), "got %v", err)
}

func TestRunTimeout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on a unix sleep binary")
	}

	// Stand in a sleeping script for java: the deadline must surface as
	// ErrToolTimeout, not a generic failure.
	script := filepath.Join(t.TempDir(), "fake-java")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nsleep 5\n"), 0o755))

	r := Runner{Java: script, JarPath: "x.jar", Timeout: 50 * time.Millisecond}
	start := time.Now()
	err := r.Run(context.Background(), Config{})
	require.Error(t, err)

	assert.True(t, errors.Is(err, ErrToolTimeout), "got %v", err)
	assert.Less(t, time.Since(start), 3*time.Second)
}
