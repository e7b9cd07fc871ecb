package diffact

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sigscreen/sigscreen/expression"
)

// WelchTester implements Tester with Welch's unequal-variance t-test. Effect
// size is Cohen's d with a pooled standard deviation; the two-sided p-value
// comes from the Student-t distribution at the Welch-Satterthwaite degrees
// of freedom.
type WelchTester struct{}

// Test compares the values between the two phenotype classes. Groups with
// fewer than two finite values yield a null result (p=1, NaN effect) rather
// than an error, so that unscoreable signatures flow through to the selector
// as excluded rows.
func (WelchTester) Test(id string, values []float64, ph expression.Phenotype) (Result, error) {
	g1, g2 := splitByClass(values, ph)

	res := Result{ID: id, P: 1, EffectSize: math.NaN(), N1: len(g1), N2: len(g2)}
	if len(g1) < 2 || len(g2) < 2 {
		return res, nil
	}

	mean1, var1 := stat.MeanVariance(g1, nil)
	mean2, var2 := stat.MeanVariance(g2, nil)
	n1, n2 := float64(len(g1)), float64(len(g2))

	se := math.Sqrt(var1/n1 + var2/n2)
	if se == 0 {
		// Identical constant groups: no evidence either way.
		return res, nil
	}

	res.T = (mean1 - mean2) / se
	res.DF = math.Pow(var1/n1+var2/n2, 2) /
		(math.Pow(var1/n1, 2)/(n1-1) + math.Pow(var2/n2, 2)/(n2-1))

	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: res.DF}
	res.P = 2 * tDist.Survival(math.Abs(res.T))

	pooledSD := math.Sqrt(((n1-1)*var1 + (n2-1)*var2) / (n1 + n2 - 2))
	if pooledSD > 0 {
		res.EffectSize = (mean1 - mean2) / pooledSD
	} else {
		res.EffectSize = 0
	}

	return res, nil
}
