//go:build !linux && !darwin && !windows

package platform

// There is no native variant for this target. The identifier below is left
// undefined so that the build fails naming the supported systems.
var _ = osbridge_requires_linux_darwin_or_windows

//nolint:gochecknoglobals
var current Native

func nativeCapabilities() Capabilities {
	return Capabilities{}
}
