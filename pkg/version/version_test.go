package version

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TomBedinoVT/dockerops-manager/pkg/config"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   string
		ok     bool
	}{
		{
			name:   "simple",
			output: "DockerOps CLI v1.2.0\n",
			want:   "1.2.0",
			ok:     true,
		},
		{
			name:   "marker on later line",
			output: "some banner\nDockerOps CLI v0.3.1\ncopyright\n",
			want:   "0.3.1",
			ok:     true,
		},
		{
			name:   "trailing whitespace trimmed",
			output: "DockerOps CLI v2.0.0   \n",
			want:   "2.0.0",
			ok:     true,
		},
		{
			name:   "missing marker",
			output: "dockerops 1.2.0\n",
			ok:     false,
		},
		{
			name:   "empty output",
			output: "",
			ok:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.output, "DockerOps CLI v")
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCurrentMissingBinary(t *testing.T) {
	cfg := config.New()
	cfg.BinaryPath = filepath.Join(t.TempDir(), "dockerops")

	_, ok := Current(context.Background(), cfg)
	assert.False(t, ok)
}

func TestCurrentWithFakeBinary(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake binary")
	}

	cfg := config.New()
	cfg.BinaryPath = filepath.Join(t.TempDir(), "dockerops")
	script := "#!/bin/sh\necho 'DockerOps CLI v1.4.2'\n"
	require.NoError(t, os.WriteFile(cfg.BinaryPath, []byte(script), 0755))

	v, ok := Current(context.Background(), cfg)
	assert.True(t, ok)
	assert.Equal(t, "1.4.2", v)
}

func TestCurrentExecFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake binary")
	}

	cfg := config.New()
	cfg.BinaryPath = filepath.Join(t.TempDir(), "dockerops")
	script := "#!/bin/sh\nexit 3\n"
	require.NoError(t, os.WriteFile(cfg.BinaryPath, []byte(script), 0755))

	_, ok := Current(context.Background(), cfg)
	assert.False(t, ok)
}

func TestCurrentTimeout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake binary")
	}

	cfg := config.New()
	cfg.BinaryPath = filepath.Join(t.TempDir(), "dockerops")
	cfg.VersionTimeout = 100 * time.Millisecond
	script := "#!/bin/sh\nsleep 5\necho 'DockerOps CLI v9.9.9'\n"
	require.NoError(t, os.WriteFile(cfg.BinaryPath, []byte(script), 0755))

	start := time.Now()
	_, ok := Current(context.Background(), cfg)
	assert.False(t, ok)
	assert.Less(t, time.Since(start), 3*time.Second)
}
