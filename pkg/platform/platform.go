// Package platform maps the host operating system and CPU architecture to
// the release target triple identifying the correct pre-built binary.
package platform

import (
	"fmt"
	"runtime"
)

// Target identifies one supported build artifact.
type Target struct {
	OS     string
	Arch   string
	Triple string
}

// supported is the exact matrix of published build targets. Matching is
// case-sensitive on the OS name; anything outside the matrix is a terminal
// error, never a best-effort fallback.
var supported = []Target{
	{OS: "Linux", Arch: "x86_64", Triple: "x86_64-unknown-linux-gnu"},
	{OS: "Darwin", Arch: "x86_64", Triple: "x86_64-apple-darwin"},
	{OS: "Darwin", Arch: "arm64", Triple: "aarch64-apple-darwin"},
}

// Host reports the running machine's OS name and architecture using the
// same naming the release targets use (uname-style). Values outside the
// supported matrix pass through unchanged so Resolve can name them in its
// error.
func Host() (osName, arch string) {
	osName = runtime.GOOS
	switch osName {
	case "linux":
		osName = "Linux"
	case "darwin":
		osName = "Darwin"
	}

	arch = runtime.GOARCH
	switch arch {
	case "amd64":
		arch = "x86_64"
	case "arm64":
		arch = "arm64"
	}
	return osName, arch
}

// Resolve returns the target for the given OS name and architecture, or a
// terminal error naming whichever of the two is unsupported.
func Resolve(osName, arch string) (Target, error) {
	osKnown := false
	for _, t := range supported {
		if t.OS != osName {
			continue
		}
		osKnown = true
		if t.Arch == arch {
			return t, nil
		}
	}

	if !osKnown {
		return Target{}, fmt.Errorf("unsupported operating system: %s; download a pre-built binary manually from the project's releases page", osName)
	}
	return Target{}, fmt.Errorf("unsupported architecture %s on %s; download a pre-built binary manually from the project's releases page", arch, osName)
}
