package gsea

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigscreen/sigscreen/expression"
)

func TestWriteCLS(t *testing.T) {
	ph := expression.NewPhenotype([]string{"tumor", "tumor", "normal", "tumor", "normal"})

	var sb strings.Builder
	require.NoError(t, WriteCLS(&sb, ph))

	want := "5 2 1\n# tumor normal\ntumor tumor normal tumor normal\n"
	assert.Equal(t, want, sb.String())
}

func TestWriteCLSRejectsNonBinary(t *testing.T) {
	ph := expression.NewPhenotype([]string{"a", "b", "c"})

	var sb strings.Builder
	assert.Error(t, WriteCLS(&sb, ph))
}

func TestCLSRoundTrip(t *testing.T) {
	ph := expression.NewPhenotype([]string{"case", "ctrl", "ctrl", "case"})

	var sb strings.Builder
	require.NoError(t, WriteCLS(&sb, ph))

	back, err := ParseCLS(strings.NewReader(sb.String()))
	require.NoError(t, err)

	assert.Equal(t, ph.Labels, back.Labels)
	assert.Equal(t, ph.Classes, back.Classes)
}

func TestWriteExpressionTXT(t *testing.T) {
	m := expression.NewMatrix([]string{"TP53", "MYC"}, []string{"S1", "S2"})
	m.Data[0] = []float64{0.25, 0.75}
	m.Data[1] = []float64{0.5, 0.125}

	var sb strings.Builder
	require.NoError(t, WriteExpressionTXT(&sb, m))

	want := "NAME\tDESCRIPTION\tS1\tS2\n" +
		"TP53\tna\t0.25\t0.75\n" +
		"MYC\tna\t0.5\t0.125\n"
	assert.Equal(t, want, sb.String())
}
