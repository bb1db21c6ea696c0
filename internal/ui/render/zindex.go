package render

// Z-index constants for layered rendering. Higher values render on top.
const (
	// ZBase is for the page underneath every overlay.
	ZBase = 0

	// ZStatus is for the status line and the event log.
	ZStatus = 10

	// ZOverlay is the Z of the first overlay. Each nested overlay adds
	// ZOverlayStep so its border and content land above its parent.
	ZOverlay = 100

	ZOverlayStep = 10
)

// OverlayZ returns the Z-index of an overlay opened at depth.
func OverlayZ(depth int) int {
	return ZOverlay + depth*ZOverlayStep
}
