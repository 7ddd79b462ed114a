// Package platform resolves the host operating system and CPU
// architecture into the canonical identifiers used in release asset names.
package platform

import (
	"context"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"
)

// Platform is the canonical (os, arch) pair used to pick a release asset.
// It is immutable once resolved.
type Platform struct {
	OS   string
	Arch string
}

// osNames maps host-reported OS identifiers to release naming.
var osNames = map[string]string{
	"linux":   "linux",
	"darwin":  "macos",
	"windows": "windows",
}

// archNames maps kernel machine strings to release naming.
var archNames = map[string]string{
	"x86_64":  "x86_64",
	"amd64":   "x86_64",
	"aarch64": "aarch64",
	"arm64":   "aarch64",
	"armv7l":  "armv7",
	"armv6l":  "armv6",
}

// Resolve introspects the host and maps its identifiers through the
// fixed naming tables. Unmapped values pass through unchanged so new
// platforms degrade to the raw reported string instead of failing.
func Resolve(ctx context.Context) Platform {
	machine, err := host.KernelArch()
	if err != nil || machine == "" {
		// Host introspection is best-effort; the compile-time arch is
		// a mapped table key on the platforms that matter.
		machine = runtime.GOARCH
	}

	return Platform{
		OS:   MapOS(runtime.GOOS),
		Arch: MapArch(machine),
	}
}

// MapOS canonicalizes a host-reported OS name, falling back to the input.
func MapOS(name string) string {
	if mapped, ok := osNames[name]; ok {
		return mapped
	}
	return name
}

// MapArch canonicalizes a machine string, falling back to the input.
func MapArch(machine string) string {
	if mapped, ok := archNames[machine]; ok {
		return mapped
	}
	return machine
}

// String returns the os-arch form used in asset names.
func (p Platform) String() string {
	return p.OS + "-" + p.Arch
}
