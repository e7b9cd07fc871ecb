package expression

import "testing"

func TestPhenotypeValidate(t *testing.T) {
	m := NewMatrix([]string{"G1"}, []string{"S1", "S2", "S3", "S4"})

	tests := []struct {
		name    string
		labels  []string
		wantErr bool
	}{
		{"aligned two-class", []string{"ctrl", "ctrl", "case", "case"}, false},
		{"too few labels", []string{"ctrl", "case"}, true},
		{"too many labels", []string{"ctrl", "ctrl", "case", "case", "case"}, true},
		{"one class", []string{"ctrl", "ctrl", "ctrl", "ctrl"}, true},
		{"three classes", []string{"a", "b", "c", "a"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewPhenotype(tt.labels).Validate(m)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSubsetGenes(t *testing.T) {
	m := NewMatrix([]string{"G1", "G2", "G3"}, []string{"S1"})
	m.Data[0] = []float64{1}
	m.Data[1] = []float64{2}
	m.Data[2] = []float64{3}

	sub, err := m.SubsetGenes([]string{"G3", "G1"})
	if err != nil {
		t.Fatal(err)
	}
	if sub.NGenes() != 2 || sub.Data[0][0] != 3 || sub.Data[1][0] != 1 {
		t.Errorf("subset wrong: %+v", sub)
	}

	if _, err := m.SubsetGenes([]string{"G9"}); err == nil {
		t.Error("expected error for missing gene")
	}
}

func TestPhenotypeClassOrderAndCounts(t *testing.T) {
	ph := NewPhenotype([]string{"tumor", "normal", "tumor", "tumor"})

	if ph.Classes[0] != "tumor" || ph.Classes[1] != "normal" {
		t.Errorf("class order: got %v, want [tumor normal]", ph.Classes)
	}

	counts := ph.Counts()
	if counts[0] != 3 || counts[1] != 1 {
		t.Errorf("counts: got %v, want [3 1]", counts)
	}

	first, second := ph.ClassColumns()
	if len(first) != 3 || len(second) != 1 || second[0] != 1 {
		t.Errorf("columns: got %v / %v", first, second)
	}
}
