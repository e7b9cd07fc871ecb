package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cutoff = 0.05

// buildMatrix fills a MaskMatrix from a dense map of (sig, removed) -> p.
func buildMatrix(entries map[[2]string]float64) *MaskMatrix {
	mm := NewMaskMatrix()
	for k, p := range entries {
		mm.Set(k[0], k[1], p)
	}
	return mm
}

func TestEliminateTwoMaskersOneMasked(t *testing.T) {
	// B masks A and C masks A; B and C do not mask each other.
	mm := buildMatrix(map[[2]string]float64{
		{"A", "A"}: 0.001, {"A", "B"}: 0.5, {"A", "C"}: 0.5,
		{"B", "B"}: 0.001, {"B", "A"}: 0.002, {"B", "C"}: 0.002,
		{"C", "C"}: 0.001, {"C", "A"}: 0.002, {"C", "B"}: 0.002,
	})

	out, err := Eliminate(mm, cutoff)
	require.NoError(t, err)

	assert.Equal(t, []string{"B", "C"}, out.Retained)
	assert.Equal(t, []string{"A"}, out.Dropped)
	assert.Contains(t, []string{"B", "C"}, out.MaskedBy["A"])
}

func TestEliminateMutualMaskingTieBreak(t *testing.T) {
	// A and B mask each other: retain the lexicographically smaller ID.
	mm := buildMatrix(map[[2]string]float64{
		{"A", "A"}: 0.001, {"A", "B"}: 0.9,
		{"B", "B"}: 0.001, {"B", "A"}: 0.9,
	})

	out, err := Eliminate(mm, cutoff)
	require.NoError(t, err)

	assert.Equal(t, []string{"A"}, out.Retained)
	assert.Equal(t, []string{"B"}, out.Dropped)
	assert.Equal(t, "A", out.MaskedBy["B"])
}

func TestEliminateThreeCycle(t *testing.T) {
	// A masks B, B masks C, C masks A: no kernel exists, so the smallest ID
	// is retained and its cycle collapsed under it.
	mm := buildMatrix(map[[2]string]float64{
		{"A", "A"}: 0.001, {"A", "B"}: 0.01, {"A", "C"}: 0.9,
		{"B", "B"}: 0.001, {"B", "A"}: 0.9, {"B", "C"}: 0.01,
		{"C", "C"}: 0.001, {"C", "A"}: 0.01, {"C", "B"}: 0.9,
	})

	out, err := Eliminate(mm, cutoff)
	require.NoError(t, err)

	assert.Equal(t, []string{"A"}, out.Retained)
	assert.Equal(t, []string{"B", "C"}, out.Dropped)
}

func TestEliminateCrossLinkedMutualPairs(t *testing.T) {
	// Two mutual pairs A<->B and C<->D, plus C masking A. Breaking the A<->B
	// deadlock first would retain A while C survives its own pair and still
	// masks A; the break must start at the pair nothing masks into.
	mm := buildMatrix(map[[2]string]float64{
		{"A", "A"}: 0.001, {"A", "B"}: 0.9, {"A", "C"}: 0.9, {"A", "D"}: 0.002,
		{"B", "B"}: 0.001, {"B", "A"}: 0.9, {"B", "C"}: 0.002, {"B", "D"}: 0.002,
		{"C", "C"}: 0.001, {"C", "A"}: 0.002, {"C", "B"}: 0.002, {"C", "D"}: 0.9,
		{"D", "D"}: 0.001, {"D", "A"}: 0.002, {"D", "B"}: 0.002, {"D", "C"}: 0.9,
	})

	out, err := Eliminate(mm, cutoff)
	require.NoError(t, err)

	assert.Equal(t, []string{"B", "C"}, out.Retained)
	assert.Equal(t, []string{"A", "D"}, out.Dropped)
	assert.Equal(t, "C", out.MaskedBy["A"])
	assert.Equal(t, "C", out.MaskedBy["D"])
}

func TestEliminateRetainedNeverMasksRetained(t *testing.T) {
	// A chain: A masks B, B masks C. A and C survive; A does not mask C.
	mm := buildMatrix(map[[2]string]float64{
		{"A", "A"}: 0.001, {"A", "B"}: 0.01, {"A", "C"}: 0.01,
		{"B", "B"}: 0.001, {"B", "A"}: 0.9, {"B", "C"}: 0.01,
		{"C", "C"}: 0.001, {"C", "A"}: 0.01, {"C", "B"}: 0.9,
	})

	out, err := Eliminate(mm, cutoff)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "C"}, out.Retained)
	assert.Equal(t, []string{"B"}, out.Dropped)

	for _, a := range out.Retained {
		for _, b := range out.Retained {
			assert.False(t, mm.Masks(a, b, cutoff), "%s masks retained %s", a, b)
		}
	}

	// Every dropped signature is masked by some retained signature.
	for _, d := range out.Dropped {
		masker := out.MaskedBy[d]
		assert.Contains(t, out.Retained, masker)
	}
}

func TestEliminateInsignificantSignatureIsNeverMasked(t *testing.T) {
	// A's own significance fails the cutoff, so B cannot mask it.
	mm := buildMatrix(map[[2]string]float64{
		{"A", "A"}: 0.2, {"A", "B"}: 0.9,
		{"B", "B"}: 0.001, {"B", "A"}: 0.002,
	})

	out, err := Eliminate(mm, cutoff)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, out.Retained)
	assert.Empty(t, out.Dropped)
}

func TestEliminateRequiresDiagonal(t *testing.T) {
	mm := NewMaskMatrix()
	mm.Set("A", "B", 0.5)

	_, err := Eliminate(mm, cutoff)
	assert.Error(t, err)
}

func TestMutualGroups(t *testing.T) {
	mm := buildMatrix(map[[2]string]float64{
		{"A", "A"}: 0.001, {"A", "B"}: 0.9, {"A", "C"}: 0.01,
		{"B", "B"}: 0.001, {"B", "A"}: 0.9, {"B", "C"}: 0.01,
		{"C", "C"}: 0.001, {"C", "A"}: 0.01, {"C", "B"}: 0.01,
	})

	groups := mm.MutualGroups(cutoff)
	require.Len(t, groups, 1)
	assert.Equal(t, []string{"A", "B"}, groups[0])
}
