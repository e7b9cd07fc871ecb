package gsea

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"time"
)

// Failure kinds for the subprocess stage. Callers branch on these with
// errors.Is; everything else about a failure rides along in the wrapped
// message, including the tool's combined output.
var (
	ErrToolFailed  = errors.New("gsea: tool invocation failed")
	ErrToolTimeout = errors.New("gsea: tool did not complete before the deadline")
)

// Runner invokes a locally installed GSEA distribution.
type Runner struct {
	// Java is the java executable; defaults to "java" on the PATH.
	Java string
	// JarPath locates gsea.jar.
	JarPath string
	// Timeout bounds the subprocess. The original analysis blocked forever
	// on GSEA; here a hung tool becomes ErrToolTimeout instead.
	Timeout time.Duration
}

// Config describes one GSEA run over the serialized bridge files.
type Config struct {
	ExpressionPath string
	CLSPath        string
	GMTPath        string
	OutDir         string
	Label          string
	Permutations   int
}

// Args builds the GSEA command line for cfg.
func (r Runner) Args(cfg Config) []string {
	perms := cfg.Permutations
	if perms <= 0 {
		perms = 1000
	}

	return []string{
		"-cp", r.JarPath, "xtools.gsea.Gsea",
		"-res", cfg.ExpressionPath,
		"-cls", cfg.CLSPath,
		"-gmx", cfg.GMTPath,
		"-out", cfg.OutDir,
		"-rpt_label", cfg.Label,
		"-nperm", strconv.Itoa(perms),
		"-permute", "phenotype",
		"-collapse", "false",
		"-gui", "false",
	}
}

// Run executes GSEA and blocks until it exits or the timeout elapses.
func (r Runner) Run(ctx context.Context, cfg Config) error {
	if r.JarPath == "" {
		return fmt.Errorf("%w: no jar path configured", ErrToolFailed)
	}

	java := r.Java
	if java == "" {
		java = "java"
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, java, r.Args(cfg)...)
	// GSEA's launcher wraps java in a shell, so killing the direct child can
	// leave a grandchild holding the output pipes. WaitDelay bounds how long
	// the collection of output is allowed to outlive the kill.
	cmd.WaitDelay = time.Second
	out, err := cmd.CombinedOutput()

	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("%w after %s: %s", ErrToolTimeout, r.Timeout, tail(out))
	}
	if err != nil {
		return fmt.Errorf("%w: %v: %s", ErrToolFailed, err, tail(out))
	}

	return nil
}

// tail keeps error messages readable when the tool dumps pages of output.
func tail(out []byte) string {
	const keep = 2048
	if len(out) > keep {
		out = out[len(out)-keep:]
	}

	return string(out)
}
