package report

import (
	"fmt"
	"sort"

	"github.com/carbocation/pfx"
	"github.com/fogleman/gg"
)

// VennCounts is the three-way split of two string sets.
type VennCounts struct {
	LeftOnly  int
	Shared    int
	RightOnly int
}

// CountVenn splits two identifier sets into left-only, shared, and
// right-only. Duplicates within either input are counted once.
func CountVenn(left, right []string) VennCounts {
	l := make(map[string]bool, len(left))
	for _, v := range left {
		l[v] = true
	}
	r := make(map[string]bool, len(right))
	for _, v := range right {
		r[v] = true
	}

	var c VennCounts
	for v := range l {
		if r[v] {
			c.Shared++
		} else {
			c.LeftOnly++
		}
	}
	c.RightOnly = len(r) - c.Shared

	return c
}

// SharedMembers returns the sorted intersection of the two sets.
func SharedMembers(left, right []string) []string {
	r := make(map[string]bool, len(right))
	for _, v := range right {
		r[v] = true
	}

	seen := make(map[string]bool)
	var out []string
	for _, v := range left {
		if r[v] && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)

	return out
}

// Venn renders a two-circle diagram of the sets with their counts and
// returns the counts.
func Venn(path, leftName, rightName string, left, right []string) (VennCounts, error) {
	c := CountVenn(left, right)

	const (
		w, h   = 640, 420
		radius = 140.0
	)

	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	leftX, rightX, cy := float64(w)/2-radius/2, float64(w)/2+radius/2, float64(h)/2

	dc.SetRGBA(0.85, 0.3, 0.25, 0.45)
	dc.DrawCircle(leftX, cy, radius)
	dc.Fill()

	dc.SetRGBA(0.2, 0.4, 0.8, 0.45)
	dc.DrawCircle(rightX, cy, radius)
	dc.Fill()

	dc.SetRGB(0, 0, 0)
	dc.DrawStringAnchored(fmt.Sprintf("%d", c.LeftOnly), leftX-radius/2, cy, 0.5, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("%d", c.Shared), (leftX+rightX)/2, cy, 0.5, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("%d", c.RightOnly), rightX+radius/2, cy, 0.5, 0.5)
	dc.DrawStringAnchored(leftName, leftX-radius/2, cy-radius-14, 0.5, 0.5)
	dc.DrawStringAnchored(rightName, rightX+radius/2, cy-radius-14, 0.5, 0.5)

	if err := dc.SavePNG(path); err != nil {
		return c, pfx.Err(err)
	}

	return c, nil
}
