package sm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeatureKeys(t *testing.T) {
	assert.Equal(t, "s(np,vp)", Feature(nil, "s", []string{"np", "vp"}))
	assert.Equal(t, "s/vp(v)", Feature([]string{"s"}, "vp", []string{"v"}))
	assert.Equal(t, "a/b/c()", Feature([]string{"a", "b"}, "c", nil))
}

func TestWeights(t *testing.T) {
	m := New().
		Weight(Feature(nil, "s", []string{"np", "vp"}), 1.5).
		LeafWeight("N_dog", 0.25)
	assert.Equal(t, 1.5, m.weights["s(np,vp)"])
	assert.Equal(t, 0.25, m.leaves["N_dog"])
	assert.Equal(t, 0.0, m.weights["unknown"])
}
