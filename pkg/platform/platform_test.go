package platform

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		osName     string
		arch       string
		wantTriple string
		wantErr    string
	}{
		{
			name:       "linux x86_64",
			osName:     "Linux",
			arch:       "x86_64",
			wantTriple: "x86_64-unknown-linux-gnu",
		},
		{
			name:       "darwin x86_64",
			osName:     "Darwin",
			arch:       "x86_64",
			wantTriple: "x86_64-apple-darwin",
		},
		{
			name:       "darwin arm64",
			osName:     "Darwin",
			arch:       "arm64",
			wantTriple: "aarch64-apple-darwin",
		},
		{
			name:    "windows is unsupported",
			osName:  "Windows",
			arch:    "x86_64",
			wantErr: "unsupported operating system: Windows",
		},
		{
			name:    "os matching is case-sensitive",
			osName:  "linux",
			arch:    "x86_64",
			wantErr: "unsupported operating system: linux",
		},
		{
			name:    "linux arm64 is unsupported",
			osName:  "Linux",
			arch:    "arm64",
			wantErr: "unsupported architecture arm64 on Linux",
		},
		{
			name:    "darwin 386 is unsupported",
			osName:  "Darwin",
			arch:    "386",
			wantErr: "unsupported architecture 386 on Darwin",
		},
		{
			name:    "empty os",
			osName:  "",
			arch:    "x86_64",
			wantErr: "unsupported operating system",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := Resolve(tt.osName, tt.arch)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Empty(t, target.Triple)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.osName, target.OS)
			assert.Equal(t, tt.arch, target.Arch)
			assert.Equal(t, tt.wantTriple, target.Triple)
		})
	}
}

func TestResolveErrorsMentionManualDownload(t *testing.T) {
	_, err := Resolve("FreeBSD", "x86_64")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "manually")
}

func TestHost(t *testing.T) {
	osName, arch := Host()

	switch runtime.GOOS {
	case "linux":
		assert.Equal(t, "Linux", osName)
	case "darwin":
		assert.Equal(t, "Darwin", osName)
	default:
		assert.Equal(t, runtime.GOOS, osName)
	}

	switch runtime.GOARCH {
	case "amd64":
		assert.Equal(t, "x86_64", arch)
	case "arm64":
		assert.Equal(t, "arm64", arch)
	default:
		assert.Equal(t, runtime.GOARCH, arch)
	}
}
