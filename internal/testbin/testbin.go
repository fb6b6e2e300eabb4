// Package testbin builds test binaries that keep their symbol table.
//
// Binaries run by go test are linked without symbols, so tests that disassemble
// compiled functions build a second copy with go test -c and inspect that one.
package testbin

import (
	"os/exec"
	"path"
	"path/filepath"
	"testing"
)

// Build compiles the test binary of pkg without running it and returns its path.
// The binary is removed when tb finishes.
func Build(tb testing.TB, pkg string) string {
	tb.Helper()

	// go test places GOROOT/bin first in PATH
	goTool, err := exec.LookPath("go")
	if err != nil {
		tb.Skipf("go tool not available: %s", err)
	}

	out := filepath.Join(tb.TempDir(), path.Base(pkg)+".test")
	//nolint:gosec
	cmd := exec.Command(goTool, "test", "-c", "-o", out, pkg)
	if output, err := cmd.CombinedOutput(); err != nil {
		tb.Fatalf("go test -c %s: %s\n%s", pkg, err, output)
	}
	return out
}
