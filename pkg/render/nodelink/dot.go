package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/dualscreen/pkg/dualscreen"
	"github.com/matzehuels/dualscreen/pkg/scenario"
)

// Options configures transition graph rendering.
type Options struct {
	// Scope selects which guide's transitions to draw. Defaults to the
	// full-screen guide.
	Scope string

	// Detailed includes pane and hinge rectangles in node labels.
	// When false, only the span mode and orientation are shown.
	Detailed bool
}

// ToDOT converts a scenario run to Graphviz DOT format. Each distinct state
// the guide passed through becomes a node; each transition becomes an edge
// labelled with the step that caused it. The resulting DOT string can be
// rendered using [RenderSVG].
//
// The initial state is drawn with a bold outline. Repeated transitions
// between the same states are drawn once, with their labels combined.
func ToDOT(res *scenario.Result, opts Options) string {
	scope := opts.Scope
	if scope == "" {
		scope = scenario.DefaultScope
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=18];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	ids := make(map[dualscreen.State]string)
	var states []dualscreen.State
	node := func(s dualscreen.State) string {
		if id, ok := ids[s]; ok {
			return id
		}
		id := fmt.Sprintf("s%d", len(states))
		ids[s] = id
		states = append(states, s)
		return id
	}

	initial, ok := res.Initial[scope]
	if ok {
		node(initial)
	}

	type edgeKey struct{ from, to string }
	var edges []edgeKey
	labels := make(map[edgeKey][]string)
	for _, t := range res.ScopeTransitions(scope) {
		k := edgeKey{node(t.From), node(t.To)}
		if _, seen := labels[k]; !seen {
			edges = append(edges, k)
		}
		labels[k] = append(labels[k], fmt.Sprintf("%d: %s", t.Step, t.Label))
	}

	for i, s := range states {
		attrs := fmtAttrs(s, fmtLabel(s, opts.Detailed), ok && i == 0)
		fmt.Fprintf(&buf, "  %q [%s];\n", ids[s], strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range edges {
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.from, e.to, strings.Join(labels[e], "\n"))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(s dualscreen.State, detailed bool) string {
	orientation := "portrait"
	if s.IsLandscape {
		orientation = "landscape"
	}
	label := s.Mode.String() + "\n" + orientation
	if !detailed {
		return label
	}

	parts := []string{fmt.Sprintf("pane1: %v", s.Pane1)}
	if s.IsSpanned() {
		parts = append(parts, fmt.Sprintf("hinge: %v", s.Hinge), fmt.Sprintf("pane2: %v", s.Pane2))
	}
	return label + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(s dualscreen.State, label string, initial bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if s.IsSpanned() {
		attrs = append(attrs, "fillcolor=lightblue")
	}
	if initial {
		attrs = append(attrs, "penwidth=3")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with
// [render.ToPDF] or [render.ToPNG].
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root tag so the diagram scales from the origin.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
