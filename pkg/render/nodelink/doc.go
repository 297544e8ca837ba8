// Package nodelink renders the span-mode transition graph of a scenario run
// as a node-link diagram.
//
// # Overview
//
// Every distinct layout state a guide passes through during a run becomes a
// box; every change event becomes an arrow labelled with the step number and
// the step that caused it. Spanned states are shaded and the initial state
// has a bold outline.
//
// # Usage
//
//	res, err := scenario.NewRunner(logger).Run(ctx, sc)
//	dot := nodelink.ToDOT(res, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Scope: which guide to draw; an element id or "" for the full screen
//   - Detailed: include pane and hinge rectangles in node labels
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion in the parent package requires librsvg.
package nodelink
