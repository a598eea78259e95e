// Package ffmpeg wraps interaction with the external ffmpeg tool: checking
// that it is installed, probing encoder capabilities, and parsing its
// progress output.
package ffmpeg

import (
	"fmt"
	"os/exec"
	"strings"
)

// runCommand executes a command and returns its combined output. Declared as
// a variable so capability probes can be stubbed in tests.
var runCommand = func(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

// CheckInstalled verifies that ffmpeg is available on PATH.
//
// A missing tool is fatal at startup; the returned error is reported once
// and the program exits.
func CheckInstalled() error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}
	if _, err := runCommand("ffmpeg", "-version"); err != nil {
		return fmt.Errorf("ffmpeg is not runnable: %w", err)
	}
	return nil
}

// DetectNVENC reports whether the installed ffmpeg build exposes an NVENC
// hardware encoder. It lists the available encoders and text-searches the
// output; acceleration flags are only safe to add when this returns true.
func DetectNVENC() bool {
	output, err := runCommand("ffmpeg", "-encoders")
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(string(output)), "nvenc")
}
