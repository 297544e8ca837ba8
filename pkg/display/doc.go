// Package display defines the platform boundary for dual-screen layout.
//
// An [Adapter] reports raw device state: whether content is spanned across
// both screens, the hinge rectangle and screen size in device pixels, the
// current [Rotation] and the density scale. It also fires a change signal
// whenever any of those may have changed. Layout guides consume adapters and
// never talk to platform APIs directly.
//
// # Implementations
//
//   - [Simulator]: an in-memory device driven by setters, used by tests, the
//     scenario runner and the interactive CLI
//   - [Unavailable]: an adapter for hosts with no display service; every read
//     fails so guides fall back to single-pane geometry
//
// # Profiles
//
// A [Profile] describes a device in its natural orientation. Profiles are
// built in ([Builtin], [LookupProfile]) or decoded from TOML ([LoadProfile]):
//
//	name = "surface-duo"
//	density = 2.5
//
//	[screen]
//	width = 2784
//	height = 1800
//
//	[hinge]
//	x = 1350
//	width = 84
//	height = 1800
//
// # Elements
//
// [ElementLocator] is the downstream half of the platform surface: finding an
// element on screen and watching it for layout changes. Layout guides do not
// use it; [NewElementContainer] adapts an element into a container that a
// scoped guide can measure against.
package display
