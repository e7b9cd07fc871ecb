package selection

import (
	"fmt"
	"sort"

	"github.com/carbocation/pfx"
	"github.com/theodesp/unionfind"
	"gonum.org/v1/gonum/graph/simple"
)

// MaskMatrix holds corrected p-values indexed by (signature, removed
// partner). The diagonal entry is a signature's own unmodified significance;
// the off-diagonal entry (A, B) is A's significance recomputed after
// removing the genes A shares with B.
type MaskMatrix struct {
	ids []string
	p   map[string]map[string]float64
}

// NewMaskMatrix returns an empty matrix.
func NewMaskMatrix() *MaskMatrix {
	return &MaskMatrix{p: make(map[string]map[string]float64)}
}

// Set records the corrected p-value for signature sig with partner removed.
// Use removed == sig for the diagonal.
func (mm *MaskMatrix) Set(sig, removed string, p float64) {
	row, ok := mm.p[sig]
	if !ok {
		row = make(map[string]float64)
		mm.p[sig] = row
		mm.ids = nil
	}
	row[removed] = p
}

// Get returns the recorded p-value, if present.
func (mm *MaskMatrix) Get(sig, removed string) (float64, bool) {
	row, ok := mm.p[sig]
	if !ok {
		return 0, false
	}
	p, ok := row[removed]

	return p, ok
}

// IDs returns all signature names, sorted. Sorted order is what makes every
// downstream decision reproducible.
func (mm *MaskMatrix) IDs() []string {
	if mm.ids == nil {
		for id := range mm.p {
			mm.ids = append(mm.ids, id)
		}
		sort.Strings(mm.ids)
	}

	return mm.ids
}

// Masks reports whether b masks a at the cutoff: a is significant on its
// own, but no longer significant once the genes it shares with b are
// removed. Missing entries never create an edge.
func (mm *MaskMatrix) Masks(b, a string, cutoff float64) bool {
	if a == b {
		return false
	}

	self, ok := mm.Get(a, a)
	if !ok || self > cutoff {
		return false
	}

	marginal, ok := mm.Get(a, b)
	if !ok {
		return false
	}

	return marginal > cutoff
}

// MutualGroups returns the connected components of the symmetric part of
// the masking relation (pairs that mask each other), each sorted, components
// ordered by their first member. Singleton components are omitted. These are
// the clusters the original analysis left as an open question; Eliminate
// resolves them by retaining the smallest ID.
func (mm *MaskMatrix) MutualGroups(cutoff float64) [][]string {
	ids := mm.IDs()
	uf := unionfind.New(len(ids))

	for i, a := range ids {
		for j := i + 1; j < len(ids); j++ {
			b := ids[j]
			if mm.Masks(a, b, cutoff) && mm.Masks(b, a, cutoff) {
				uf.Union(i, j)
			}
		}
	}

	members := make(map[int][]string)
	for i, id := range ids {
		root := uf.Root(i)
		members[root] = append(members[root], id)
	}

	var groups [][]string
	for _, group := range members {
		if len(group) > 1 {
			sort.Strings(group)
			groups = append(groups, group)
		}
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i][0] < groups[j][0] })

	return groups
}

// Elimination is the resolved retained/dropped partition of the candidates.
// MaskedBy maps each dropped signature to the retained signature that masks
// it (or, for a forced cycle break, the retained signature it was collapsed
// under).
type Elimination struct {
	Retained []string
	Dropped  []string
	MaskedBy map[string]string
}

// Eliminate resolves the masking relation into a minimal retained set. The
// relation is built as an explicit directed graph (edge B -> A means B masks
// A) and peeled: any signature not masked by a still-standing signature is
// retained, and everything a retained signature masks is dropped. When only
// cycles remain (mutual masking), the smallest member of a cycle that no
// outside signature masks into is retained to break the deadlock.
//
// The result satisfies: no retained signature masks another retained
// signature, and every dropped signature is masked by a retained one (cycle
// breaks excepted, where the masker recorded is the retained cycle member).
func Eliminate(mm *MaskMatrix, cutoff float64) (Elimination, error) {
	ids := mm.IDs()
	if len(ids) == 0 {
		return Elimination{}, pfx.Err(fmt.Errorf("empty mask matrix"))
	}

	for _, id := range ids {
		if _, ok := mm.Get(id, id); !ok {
			return Elimination{}, pfx.Err(fmt.Errorf("signature %q has no diagonal (self) entry", id))
		}
	}

	g := simple.NewDirectedGraph()
	for i := range ids {
		g.AddNode(simple.Node(i))
	}
	for i, b := range ids {
		for j, a := range ids {
			if i == j {
				continue
			}
			if mm.Masks(b, a, cutoff) {
				g.SetEdge(simple.Edge{F: simple.Node(i), T: simple.Node(j)})
			}
		}
	}

	remaining := make(map[int]bool, len(ids))
	for i := range ids {
		remaining[i] = true
	}

	out := Elimination{MaskedBy: make(map[string]string)}
	retained := make(map[int]bool)

	retire := func(i int, masker int, forced bool) {
		delete(remaining, i)
		if forced {
			retained[i] = true
			out.Retained = append(out.Retained, ids[i])
			return
		}
		out.Dropped = append(out.Dropped, ids[i])
		out.MaskedBy[ids[i]] = ids[masker]
	}

	for len(remaining) > 0 {
		// Sources: remaining nodes with no incoming mask edge from another
		// remaining node.
		var sources []int
		for i := range remaining {
			inMasked := false
			preds := g.To(int64(i))
			for preds.Next() {
				if remaining[int(preds.Node().ID())] {
					inMasked = true
					break
				}
			}
			if !inMasked {
				sources = append(sources, i)
			}
		}
		sort.Ints(sources)

		if len(sources) == 0 {
			// Pure cycle territory. The forced pick must come from a cycle
			// that no remaining signature outside it masks into; otherwise a
			// signature retained later could still mask the pick. Candidates
			// are walked in ascending ID order, so the pick is the smallest
			// member of its cycle.
			order := make([]int, 0, len(remaining))
			for i := range remaining {
				order = append(order, i)
			}
			sort.Slice(order, func(a, b int) bool { return ids[order[a]] < ids[order[b]] })

			pick := -1
			var cycle map[int]bool
			for _, i := range order {
				fwd := reach(g, i, remaining, false)
				back := reach(g, i, remaining, true)
				member := map[int]bool{i: true}
				for j := range remaining {
					if fwd[j] && back[j] {
						member[j] = true
					}
				}
				if cycleMaskedFromOutside(g, member, remaining) {
					continue
				}
				pick, cycle = i, member
				break
			}
			if pick < 0 {
				// Unreachable: the condensation of any finite digraph has a
				// source component.
				return Elimination{}, pfx.Err(fmt.Errorf("no unmasked cycle among %d remaining signatures", len(remaining)))
			}

			retire(pick, 0, true)
			for i := range cycle {
				if i != pick && remaining[i] {
					retire(i, pick, false)
				}
			}

			succs := g.From(int64(pick))
			for succs.Next() {
				t := int(succs.Node().ID())
				if remaining[t] {
					retire(t, pick, false)
				}
			}

			continue
		}

		for _, s := range sources {
			if !remaining[s] {
				continue
			}
			retire(s, 0, true)

			succs := g.From(int64(s))
			for succs.Next() {
				t := int(succs.Node().ID())
				if remaining[t] {
					retire(t, s, false)
				}
			}
		}
	}

	sort.Strings(out.Retained)
	sort.Strings(out.Dropped)

	return out, checkRetained(mm, ids, retained, cutoff)
}

// cycleMaskedFromOutside reports whether any remaining signature outside the
// member set masks into it.
func cycleMaskedFromOutside(g *simple.DirectedGraph, member, remaining map[int]bool) bool {
	for i := range member {
		preds := g.To(int64(i))
		for preds.Next() {
			p := int(preds.Node().ID())
			if remaining[p] && !member[p] {
				return true
			}
		}
	}

	return false
}

// reach returns the remaining nodes reachable from start along mask edges
// (or reverse edges when reverse is set), excluding start itself.
func reach(g *simple.DirectedGraph, start int, remaining map[int]bool, reverse bool) map[int]bool {
	seen := make(map[int]bool)
	queue := []int{start}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		it := g.From(int64(cur))
		if reverse {
			it = g.To(int64(cur))
		}
		for it.Next() {
			t := int(it.Node().ID())
			if t == start || seen[t] || !remaining[t] {
				continue
			}
			seen[t] = true
			queue = append(queue, t)
		}
	}

	return seen
}

func checkRetained(mm *MaskMatrix, ids []string, retained map[int]bool, cutoff float64) error {
	// A forced cycle break could in principle leave a retained pair joined
	// by a mask edge; surface that rather than hiding it.
	for a := range retained {
		for b := range retained {
			if a != b && mm.Masks(ids[a], ids[b], cutoff) {
				return pfx.Err(fmt.Errorf("retained signature %q still masks retained %q after cycle breaking", ids[a], ids[b]))
			}
		}
	}

	return nil
}
