package vcd

import (
	"sort"
	"strings"

	"github.com/openhwlab/scopedump/internal/trace"
)

// hierarchy is the scope tree reconstructed from dotted tap paths, built
// once per dump. Nodes are keyed by module name; every adjacent pair of
// path segments contributes a parent-child edge, the first segment of each
// path is a root, and the terminal segment owns the tap's signals.
type hierarchy struct {
	children map[string][]string
	roots    []string
	owners   map[string]*trace.Tap
}

// buildHierarchy derives the scope tree from every tap's dotted path.
// Children and roots are sorted so the rendered header is stable.
func buildHierarchy(taps []*trace.Tap) *hierarchy {
	h := &hierarchy{
		children: make(map[string][]string),
		owners:   make(map[string]*trace.Tap),
	}

	childSets := make(map[string]map[string]bool)
	rootSet := make(map[string]bool)

	for _, tap := range taps {
		segments := strings.Split(tap.Path, ".")
		for i := 1; i < len(segments); i++ {
			parent, child := segments[i-1], segments[i]
			if childSets[parent] == nil {
				childSets[parent] = make(map[string]bool)
			}
			childSets[parent][child] = true
		}
		rootSet[segments[0]] = true
		h.owners[segments[len(segments)-1]] = tap
	}

	for parent, set := range childSets {
		children := make([]string, 0, len(set))
		for child := range set {
			children = append(children, child)
		}
		sort.Strings(children)
		h.children[parent] = children
	}

	for root := range rootSet {
		h.roots = append(h.roots, root)
	}
	sort.Strings(h.roots)

	return h
}
