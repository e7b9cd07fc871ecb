package report

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"github.com/carbocation/pfx"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/sigscreen/sigscreen/diffact"
)

// Volcano renders effect size against -log10 adjusted p for every finite
// result, highlighting those at or below the significance cutoff.
func Volcano(path string, results []diffact.Result, cutoff float64) error {
	var sigX, sigY, restX, restY []float64

	for _, r := range results {
		if math.IsNaN(r.EffectSize) || math.IsNaN(r.AdjP) || r.AdjP <= 0 {
			continue
		}

		y := -math.Log10(r.AdjP)
		if r.AdjP <= cutoff {
			sigX = append(sigX, r.EffectSize)
			sigY = append(sigY, y)
		} else {
			restX = append(restX, r.EffectSize)
			restY = append(restY, y)
		}
	}

	var series []chart.Series
	if len(restX) >= 2 {
		series = append(series, chart.ContinuousSeries{
			Name:    "not significant",
			XValues: restX,
			YValues: restY,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    3,
				DotColor:    drawing.ColorFromHex("9e9e9e"),
			},
		})
	}
	if len(sigX) >= 2 {
		series = append(series, chart.ContinuousSeries{
			Name:    fmt.Sprintf("adj p <= %g", cutoff),
			XValues: sigX,
			YValues: sigY,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    4,
				DotColor:    drawing.ColorRed,
			},
		})
	}
	if len(series) == 0 {
		return pfx.Err(fmt.Errorf("too few finite results to draw a volcano plot"))
	}

	graph := chart.Chart{
		Width:  1024,
		Height: 768,
		XAxis:  chart.XAxis{Name: "effect size (Cohen's d)"},
		YAxis:  chart.YAxis{Name: "-log10 adjusted p"},
		Series: series,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return pfx.Err(err)
	}

	outFile, err := os.Create(path)
	if err != nil {
		return pfx.Err(err)
	}
	defer outFile.Close()

	if _, err := buffer.WriteTo(outFile); err != nil {
		return pfx.Err(err)
	}

	return nil
}
