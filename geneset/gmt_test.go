package geneset

import (
	"reflect"
	"strings"
	"testing"

	"github.com/sigscreen/sigscreen/sigmodel"
)

const smallGMT = "Apoptosis_Pathway\tcurated\tTP53\tBAX\tCASP3\n" +
	"MYC_TARGETS\tna\tMYC\tEGFR\n" +
	"HUGE_SET\tna\tA\tB\tC\tD\tE\tF\n"

func TestParseGMT(t *testing.T) {
	col, err := ParseGMT(strings.NewReader(smallGMT))
	if err != nil {
		t.Fatal(err)
	}

	if len(col.Sets) != 3 {
		t.Fatalf("sets: got %d, want 3", len(col.Sets))
	}
	if col.Sets[0].Name != "Apoptosis_Pathway" || len(col.Sets[0].Genes) != 3 {
		t.Errorf("first set parsed wrong: %+v", col.Sets[0])
	}

	// Lookup is case-folded.
	if _, ok := col.Lookup("APOPTOSIS_PATHWAY"); !ok {
		t.Error("case-folded lookup failed")
	}
	if _, ok := col.Lookup("apoptosis_pathway"); !ok {
		t.Error("lower-case lookup failed")
	}
}

func TestParseGMTRejectsMalformed(t *testing.T) {
	for _, bad := range []string{
		"NAME_ONLY\n",
		"NAME\tdesc\n",
		"NAME\tdesc\t\n",
	} {
		if _, err := ParseGMT(strings.NewReader(bad)); err == nil {
			t.Errorf("accepted malformed GMT %q", bad)
		}
	}
}

// Membership survives a write/read cycle modulo case-folding of set names.
func TestGMTRoundTrip(t *testing.T) {
	col, err := ParseGMT(strings.NewReader(smallGMT))
	if err != nil {
		t.Fatal(err)
	}

	var sb strings.Builder
	if err := WriteGMT(&sb, col); err != nil {
		t.Fatal(err)
	}

	col2, err := ParseGMT(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(col.Membership(), col2.Membership()) {
		t.Errorf("membership changed in round trip:\nbefore %v\nafter  %v", col.Membership(), col2.Membership())
	}
}

func TestFilterSize(t *testing.T) {
	col, err := ParseGMT(strings.NewReader(smallGMT))
	if err != nil {
		t.Fatal(err)
	}

	filtered := col.FilterSize(2, 3)
	if len(filtered.Sets) != 2 {
		t.Fatalf("filtered: got %d sets, want 2", len(filtered.Sets))
	}
	for _, set := range filtered.Sets {
		if set.Name == "HUGE_SET" {
			t.Error("HUGE_SET survived a max size of 3")
		}
	}
}

func TestOverlap(t *testing.T) {
	sig := sigmodel.Signature{
		Name: "P53_SIG",
		Genes: []sigmodel.GeneWeight{
			{Gene: "TP53", Weight: 1}, {Gene: "BAX", Weight: 1}, {Gene: "KRAS", Weight: 1},
		},
	}
	set := GeneSet{Name: "Apoptosis_Pathway", Genes: []string{"TP53", "BAX", "CASP3"}}

	res, err := Overlap(sig, set, 100)
	if err != nil {
		t.Fatal(err)
	}

	if res.Shared != 2 || res.SigOnly != 1 || res.SetOnly != 1 {
		t.Errorf("table: got %d/%d/%d, want 2/1/1", res.Shared, res.SigOnly, res.SetOnly)
	}
	if res.P <= 0 || res.P > 1 {
		t.Errorf("p-value out of range: %v", res.P)
	}
	// 2*96/(1*1) with 96 genes in neither.
	if want := 192.0; res.OddsRatio != want {
		t.Errorf("odds ratio: got %v, want %v", res.OddsRatio, want)
	}

	// A universe smaller than the union is a caller bug, not a silent 2x2.
	if _, err := Overlap(sig, set, 3); err == nil {
		t.Error("expected error for undersized universe")
	}
}
