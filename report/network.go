package report

import (
	"fmt"
	"math"
	"sort"

	"github.com/carbocation/pfx"
	"github.com/fogleman/gg"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/sigscreen/sigscreen/sigmodel"
)

// SharedGeneGraph builds an undirected graph over the named signatures with
// an edge wherever two signatures share at least minShared genes; the edge
// weight is the shared gene count. Node IDs index into the returned name
// slice, which is sorted so the graph is independent of input order.
func SharedGeneGraph(model *sigmodel.Model, names []string, minShared int) (*simple.WeightedUndirectedGraph, []string, error) {
	sorted := append([]string{}, names...)
	sort.Strings(sorted)

	sigs := make([]sigmodel.Signature, len(sorted))
	for i, name := range sorted {
		sig, ok := model.Signature(name)
		if !ok {
			return nil, nil, pfx.Err(fmt.Errorf("signature %q is not in the model", name))
		}
		sigs[i] = sig
	}

	g := simple.NewWeightedUndirectedGraph(0, 0)
	for i := range sorted {
		g.AddNode(simple.Node(i))
	}

	for i := range sigs {
		for j := i + 1; j < len(sigs); j++ {
			if n := len(sigs[i].SharedGenes(sigs[j])); n >= minShared {
				g.SetWeightedEdge(simple.WeightedEdge{
					F: simple.Node(i), T: simple.Node(j), W: float64(n),
				})
			}
		}
	}

	return g, sorted, nil
}

// Network renders the shared-gene graph on a circular layout. Edge width
// grows with the shared gene count.
func Network(path string, model *sigmodel.Model, names []string, minShared int) error {
	g, sorted, err := SharedGeneGraph(model, names, minShared)
	if err != nil {
		return err
	}
	if len(sorted) == 0 {
		return pfx.Err(fmt.Errorf("no signatures to draw"))
	}

	const (
		w, h    = 900, 900
		nodeR   = 8.0
		layoutR = 330.0
	)

	cx, cy := float64(w)/2, float64(h)/2
	pos := make([][2]float64, len(sorted))
	for i := range sorted {
		angle := 2 * math.Pi * float64(i) / float64(len(sorted))
		pos[i] = [2]float64{cx + layoutR*math.Cos(angle), cy + layoutR*math.Sin(angle)}
	}

	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	edges := g.WeightedEdges()
	for edges.Next() {
		e := edges.WeightedEdge()
		f, t := int(e.From().ID()), int(e.To().ID())

		dc.SetRGBA(0.3, 0.3, 0.3, 0.7)
		dc.SetLineWidth(math.Min(1+e.Weight()/2, 8))
		dc.DrawLine(pos[f][0], pos[f][1], pos[t][0], pos[t][1])
		dc.Stroke()
	}

	for i, name := range sorted {
		dc.SetRGB(0.86, 0.34, 0.22)
		dc.DrawCircle(pos[i][0], pos[i][1], nodeR)
		dc.Fill()

		dc.SetRGB(0, 0, 0)
		labelX := cx + (layoutR+24)*(pos[i][0]-cx)/layoutR
		labelY := cy + (layoutR+24)*(pos[i][1]-cy)/layoutR
		dc.DrawStringAnchored(name, labelX, labelY, 0.5, 0.5)
	}

	return pfx.Err(dc.SavePNG(path))
}
