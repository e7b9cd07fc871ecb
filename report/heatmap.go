package report

import (
	"fmt"
	"math"

	"github.com/carbocation/pfx"
	"github.com/fogleman/gg"

	"github.com/sigscreen/sigscreen/expression"
)

const (
	heatCellW     = 14
	heatCellH     = 16
	heatLabelW    = 180
	heatMargin    = 20
	heatClassGapW = 6
)

// Heatmap renders the activity matrix as a raster with samples grouped by
// phenotype class and a blue-white-red diverging palette centered on zero.
// NaN activities render gray.
func Heatmap(path string, acts *expression.Matrix, ph expression.Phenotype) error {
	if err := ph.Validate(acts); err != nil {
		return err
	}
	if acts.NGenes() == 0 {
		return pfx.Err(fmt.Errorf("empty activity matrix"))
	}

	first, second := ph.ClassColumns()
	order := append(append([]int{}, first...), second...)

	limit := 0.0
	for _, row := range acts.Data {
		for _, v := range row {
			if !math.IsNaN(v) && math.Abs(v) > limit {
				limit = math.Abs(v)
			}
		}
	}
	if limit == 0 {
		limit = 1
	}

	w := heatLabelW + len(order)*heatCellW + heatClassGapW + 2*heatMargin
	h := len(acts.Genes)*heatCellH + 2*heatMargin + heatCellH

	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	for i, name := range acts.Genes {
		y := float64(heatMargin + i*heatCellH)

		dc.SetRGB(0, 0, 0)
		dc.DrawStringAnchored(name, heatLabelW-6, y+heatCellH/2, 1, 0.35)

		for k, col := range order {
			x := float64(heatLabelW + k*heatCellW)
			if k >= len(first) {
				x += heatClassGapW
			}

			setDivergingColor(dc, acts.Data[i][col], limit)
			dc.DrawRectangle(x, y, heatCellW, heatCellH)
			dc.Fill()
		}
	}

	// Class labels under each block.
	dc.SetRGB(0, 0, 0)
	labelY := float64(heatMargin + len(acts.Genes)*heatCellH + heatCellH/2)
	firstCenter := float64(heatLabelW) + float64(len(first)*heatCellW)/2
	secondCenter := float64(heatLabelW+len(first)*heatCellW+heatClassGapW) + float64(len(second)*heatCellW)/2
	dc.DrawStringAnchored(ph.Classes[0], firstCenter, labelY, 0.5, 0.5)
	dc.DrawStringAnchored(ph.Classes[1], secondCenter, labelY, 0.5, 0.5)

	return pfx.Err(dc.SavePNG(path))
}

// setDivergingColor maps v in [-limit, limit] onto blue-white-red.
func setDivergingColor(dc *gg.Context, v, limit float64) {
	if math.IsNaN(v) {
		dc.SetRGB(0.6, 0.6, 0.6)
		return
	}

	t := v / limit
	if t > 1 {
		t = 1
	}
	if t < -1 {
		t = -1
	}

	if t >= 0 {
		dc.SetRGB(1, 1-t, 1-t)
	} else {
		dc.SetRGB(1+t, 1+t, 1)
	}
}
