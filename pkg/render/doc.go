// Package render turns scenario runs into diagrams.
//
// # Overview
//
// The [nodelink] subpackage draws the span-mode transition graph of a
// scenario run with Graphviz. This package converts the resulting SVG to
// other formats:
//
//	svg, err := nodelink.RenderSVG(nodelink.ToDOT(res, nodelink.Options{}))
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// Conversion uses the external rsvg-convert tool from librsvg.
package render
