// Package pkg provides the libraries behind the dualscreen tool.
//
// # Overview
//
// Dual-screen devices show one app across two displays joined by a hinge.
// The libraries here derive how an app's content splits around that hinge
// and keep the result current as the device rotates, spans or reconfigures.
// The directory is organized into these areas:
//
//  1. [dualscreen] - Layout guide and info facade (pane derivation, change notification)
//  2. [display] - Platform adapter contract, device profiles and a simulator
//  3. [geom] and [event] - Rectangles and the callback feed everything shares
//  4. [scenario] - Scripted replay of device interactions
//  5. [render] - Transition graphs of scenario runs (DOT, SVG, PNG, PDF)
//  6. [errors] and [observability] - Coded errors and instrumentation hooks
//
// # Architecture
//
// The typical data flow:
//
//	Platform display service (or display.Simulator)
//	         ↓
//	    [display] Adapter (hinge, rotation, density, screen size in pixels)
//	         ↓
//	    [dualscreen] Guide (DIP conversion, pane split, change coalescing)
//	         ↓
//	    [dualscreen] Info (per-property notifications)
//
// # Quick Start
//
//	sim := display.NewSimulator(profile, display.Spanned())
//	guide := dualscreen.NewGuide(sim)
//	defer guide.Close()
//
//	info := dualscreen.NewInfo(guide)
//	info.Subscribe(func(p dualscreen.Property) {
//	    fmt.Println(p, "changed")
//	})
//	sim.Rotate()
package pkg
