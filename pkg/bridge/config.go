// Package bridge contains the process chassis shared by both ABI bridges:
// socket group construction, foreign host spawn and handshake, the startup
// watchdog, and orderly teardown.
package bridge

// Config is the immutable per-plugin configuration record handed to the
// core by the collaborator that parsed it. The core never reads
// configuration files itself.
type Config struct {
	// HideDAW makes the bridge answer host-identity callbacks with canned
	// strings, for plugins with DAW-specific workarounds that misbehave
	// under the compatibility layer.
	HideDAW bool
	// Prefer32Bit selects the 32-bit foreign library when a plugin ships
	// both architectures.
	Prefer32Bit bool
	// CompatFlags carries opaque compatibility toggles passed through to
	// the foreign host verbatim.
	CompatFlags map[string]string
}

// ProductNameOverride is reported instead of the host's product name when
// HideDAW is enabled.
const ProductNameOverride = "Get yabridge'd"

// VendorNameOverride is reported instead of the host's vendor name when
// HideDAW is enabled.
const VendorNameOverride = "yabridge"
