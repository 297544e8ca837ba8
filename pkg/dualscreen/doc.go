// Package dualscreen derives pane and hinge geometry for dual-screen devices.
//
// UI layout code asks one question on every pass: how many panes do I have,
// and where are they? This package answers it from the raw signals of a
// [display.Adapter] without touching platform APIs during layout.
//
// # Guide
//
// A [Guide] is the single source of truth for one layout context. It reads
// rotation, density, screen size and hinge bounds from the adapter, converts
// pixels to device-independent units once, and derives a [State]:
//
//   - Pane1, Pane2: the usable regions on either side of the hinge, relative
//     to the context. Pane2 is zero when only one pane is usable.
//   - Hinge: the obstruction between them, zero unless it genuinely splits
//     the context into two non-empty panes.
//   - IsLandscape: from the rotation.
//   - Mode: [SinglePane], [DoubleWide] (side by side) or [DoubleTall] (stacked).
//
// The split axis follows the hinge's narrow dimension: a hinge narrower than
// it is tall is a vertical seam and yields side-by-side panes.
//
// A guide recomputes whenever the adapter signals a change, and on demand via
// [Guide.UpdateLayouts]. Subscribers receive exactly one [State] per
// recomputation that changed something; redundant platform signals are
// absorbed.
//
// Adapter failures never reach the caller. A guide whose adapter cannot be
// read reports single-pane geometry over whatever area it can still measure.
//
// # Scoped guides
//
// A guide built [WithContainer] measures panes relative to a [Container]
// instead of the whole screen, so a view covering only the right-hand screen
// sees a single pane while a view stretched across the hinge sees two.
//
// # Info
//
// [Info] is the observable facade most callers use. It mirrors the guide's
// four derived values (SpanningBounds, HingeBounds, IsLandscape, SpanMode)
// and publishes one [Property] notification per value that actually changed.
//
// # Defaults
//
// [Init] registers the platform adapter once at startup; [DefaultGuide] and
// [Current] lazily build the process-wide full-screen guide and info on first
// access. Without Init they fall back to [display.Unavailable].
//
// # Threading
//
// Guides and infos are single-threaded: deliver adapter signals and read
// values from one goroutine (the UI loop). Derivation is synchronous and
// never blocks.
//
// # Example
//
//	sim := display.NewSimulator(profile, display.Spanned())
//	info := dualscreen.NewInfo(dualscreen.NewGuide(sim))
//	defer info.Close()
//
//	info.Subscribe(func(p dualscreen.Property) {
//	    if p == dualscreen.PropSpanMode {
//	        relayout(info.SpanMode(), info.SpanningBounds())
//	    }
//	})
package dualscreen
