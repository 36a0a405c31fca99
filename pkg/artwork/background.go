package artwork

import (
	"artprep/pkg/cfg"
	"artprep/pkg/geometry"
)

// arenaEntry records a scanned node and the container holding it.
type arenaEntry struct {
	parent *Node
	node   *Node
}

// buildArena lists the root's children and the children of its direct
// <g> children. Deeper nesting isn't scanned: artboard rectangles sit at
// the top of exported documents.
func buildArena(root *Node) []arenaEntry {
	var arena []arenaEntry
	for _, child := range root.Children {
		arena = append(arena, arenaEntry{parent: root, node: child})
		if child.Name() != "g" {
			continue
		}
		for _, grandchild := range child.Children {
			arena = append(arena, arenaEntry{parent: child, node: grandchild})
		}
	}
	return arena
}

func backgroundCandidates(arena []arenaEntry, fills ClassFills) []candidate {
	var candidates []candidate
	for i, entry := range arena {
		kind := kindOf(entry.node)
		if kind == KindOther {
			continue
		}
		candidates = append(candidates, candidate{
			kind: kind,
			fill: ResolveFill(entry.node, fills),
			node: i,
		})
	}
	return candidates
}

// StripBackgrounds removes near-white shapes that cover most of the
// viewport and returns how many were removed.
func StripBackgrounds(root *Node, vp geometry.Viewport, th cfg.Thresholds) int {
	arena := buildArena(root)
	fills := ClassFillsOf(root)

	remove := map[*Node]bool{}
	for _, c := range backgroundCandidates(arena, fills) {
		if c.fill == "" || !IsBackgroundWhite(c.fill, th.NearWhiteChannel) {
			continue
		}
		if isBackgroundGeometry(arena[c.node].node, c.kind, vp, th.BackgroundCoverage) {
			remove[arena[c.node].node] = true
		}
	}
	if len(remove) == 0 {
		return 0
	}

	rebuilt := map[*Node]bool{}
	for _, entry := range arena {
		if rebuilt[entry.parent] {
			continue
		}
		rebuilt[entry.parent] = true
		kept := make([]*Node, 0, len(entry.parent.Children))
		for _, child := range entry.parent.Children {
			if !remove[child] {
				kept = append(kept, child)
			}
		}
		entry.parent.Children = kept
	}
	return len(remove)
}
