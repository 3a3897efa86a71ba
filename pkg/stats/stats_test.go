package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJaccard(t *testing.T) {
	a := []string{"x", "y", "z"}
	b := []string{"y", "z", "w"}

	// |{y,z}| / |{x,y,z,w}| = 2/4
	assert.InDelta(t, 0.5, Jaccard(a, b), 1e-9)
}

func TestJaccardSymmetric(t *testing.T) {
	a := []string{"analytics", "export", "sso"}
	b := []string{"sso", "audit"}
	assert.Equal(t, Jaccard(a, b), Jaccard(b, a))
}

func TestJaccardEmptySets(t *testing.T) {
	assert.Equal(t, 1.0, Jaccard(nil, nil))
	assert.Equal(t, 0.0, Jaccard([]string{"a"}, nil))
}

func TestJaccardDeduplicates(t *testing.T) {
	assert.InDelta(t, 1.0, Jaccard([]string{"a", "a"}, []string{"a"}), 1e-9)
}

func TestIntersectAndDifference(t *testing.T) {
	a := []string{"x", "y", "z"}
	b := []string{"y", "z", "w"}

	assert.Equal(t, []string{"y", "z"}, Intersect(a, b))
	assert.Equal(t, []string{"x"}, Difference(a, b))
	assert.Equal(t, []string{"w"}, Difference(b, a))
}

func TestTokenize(t *testing.T) {
	tokens := Tokenize("A fast, Cloud-based CRM for teams!")
	assert.Equal(t, []string{"fast", "cloud", "based", "crm", "teams"}, tokens)
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 0.0, Median(nil))
	assert.Equal(t, 100.0, Median([]float64{100, 100, 100, 100, 100}))
	assert.Equal(t, 15.0, Median([]float64{10, 20}))
	assert.Equal(t, 20.0, Median([]float64{30, 10, 20}))
}

func TestMedianDoesNotMutateInput(t *testing.T) {
	in := []float64{3, 1, 2}
	Median(in)
	assert.Equal(t, []float64{3, 1, 2}, in)
}

func TestVariance(t *testing.T) {
	assert.Equal(t, 0.0, Variance([]float64{5}))
	assert.InDelta(t, 2.0, Variance([]float64{1, 2, 3, 4, 5}), 1e-9)
}

func TestCoefficientOfVariation(t *testing.T) {
	assert.Equal(t, 0.0, CoefficientOfVariation(nil))
	cov := CoefficientOfVariation([]float64{100, 200, 300})
	assert.InDelta(t, math.Sqrt(Variance([]float64{100, 200, 300}))/200, cov, 1e-9)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.3, Clamp(0.1, 0.3, 0.95))
	assert.Equal(t, 0.95, Clamp(1.2, 0.3, 0.95))
	assert.Equal(t, 0.5, Clamp(0.5, 0.3, 0.95))
	assert.Equal(t, 1.0, Clamp01(7))
	assert.Equal(t, 0.0, Clamp01(-7))
}

func TestConfidenceRange(t *testing.T) {
	cases := [][]float64{
		nil,
		{0, 0, 0, 0},
		{1, 1, 1, 1},
		{0.9, 0.1, 0.9, 0.1},
		{0.5, 0.6, 0.55, 0.58},
	}
	for _, scores := range cases {
		c := Confidence(scores)
		assert.GreaterOrEqual(t, c, 0.3)
		assert.LessOrEqual(t, c, 0.95)
	}
}

func TestConfidenceRewardsAgreement(t *testing.T) {
	agreeing := Confidence([]float64{0.7, 0.7, 0.7, 0.7})
	scattered := Confidence([]float64{1.0, 0.4, 1.0, 0.4})
	assert.Greater(t, agreeing, scattered)
}
