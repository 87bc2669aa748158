package glass

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pool(positions ...mgl32.Vec3) []Candidate {
	out := make([]Candidate, len(positions))
	for i, p := range positions {
		out[i] = Candidate{Index: i, Position: p}
	}
	return out
}

func TestClassifySixPanes(t *testing.T) {
	// shuffled on purpose so input order cannot leak into the result
	positions := map[Key]mgl32.Vec3{
		RightRear:  {3, 0, -2},
		Windshield: {0, 0, 5},
		LeftRear:   {-3, 0, -2},
		Rear:       {0, 0, -5},
		RightFront: {3, 0, 2},
		LeftFront:  {-3, 0, 2},
	}
	order := []Key{RightRear, Windshield, LeftRear, Rear, RightFront, LeftFront}
	var in []Candidate
	for i, k := range order {
		in = append(in, Candidate{Index: i, Position: positions[k]})
	}

	got := NewClassifier(DefaultAxes).Classify(in)

	require.Len(t, got, 6)
	for i, k := range order {
		assert.Equal(t, i, got[k], "key %s", k)
	}
}

func TestClassifySingleCandidate(t *testing.T) {
	got := NewClassifier(DefaultAxes).Classify(pool(mgl32.Vec3{0, 0, 5}))

	// one surface takes both the windshield and the rear role
	assert.Equal(t, Assignment{Windshield: 0, Rear: 0}, got)
	assert.Equal(t, []Key{Windshield, Rear}, got.Keys())
}

func TestClassifyTwoCandidates(t *testing.T) {
	got := NewClassifier(DefaultAxes).Classify(pool(
		mgl32.Vec3{-3, 0, 2},
		mgl32.Vec3{3, 0, -2},
	))
	assert.Equal(t, Assignment{Windshield: 0, Rear: 1}, got)
}

func TestClassifyEqualDepthKeepsPoolOrder(t *testing.T) {
	got := NewClassifier(DefaultAxes).Classify(pool(
		mgl32.Vec3{0, 0, 1},
		mgl32.Vec3{0, 0, 1},
		mgl32.Vec3{0, 0, 1},
	))
	assert.Equal(t, 0, got[Windshield])
	assert.Equal(t, 0, got[Rear])
	// the two remaining candidates sit on the right (lateral 0 counts as right)
	assert.Equal(t, 1, got[RightFront])
	assert.Equal(t, 2, got[RightRear])
}

func TestClassifyLeftoversFillEmptySlots(t *testing.T) {
	got := NewClassifier(DefaultAxes).Classify(pool(
		mgl32.Vec3{0, 0, 5},   // windshield
		mgl32.Vec3{0, 0, -5},  // rear
		mgl32.Vec3{-3, 0, 2},  // lf
		mgl32.Vec3{-3, 0, 0},  // lr
		mgl32.Vec3{-3, 0, -2}, // third on the left, falls through to rr
		mgl32.Vec3{3, 0, 1},   // rf
	))

	assert.Equal(t, 0, got[Windshield])
	assert.Equal(t, 1, got[Rear])
	assert.Equal(t, 2, got[LeftFront])
	assert.Equal(t, 3, got[LeftRear])
	assert.Equal(t, 5, got[RightFront])
	assert.Equal(t, 4, got[RightRear])
}

func TestClassifyDiscardsOverflow(t *testing.T) {
	var positions []mgl32.Vec3
	for i := 0; i < 9; i++ {
		positions = append(positions, mgl32.Vec3{-1, 0, float32(i)})
	}
	got := NewClassifier(DefaultAxes).Classify(pool(positions...))

	require.Len(t, got, 6)
	seen := map[int]bool{}
	for _, idx := range got {
		assert.False(t, seen[idx], "index %d assigned twice", idx)
		seen[idx] = true
	}
}

func TestClassifyProxyPassThrough(t *testing.T) {
	in := []Candidate{
		{Index: 0, Position: mgl32.Vec3{0, 0, -9}, ProxyKey: Windshield},
		{Index: 1, Position: mgl32.Vec3{0, 0, 9}, ProxyKey: Rear},
		{Index: 2, ProxyKey: LeftFront},
	}
	got := NewClassifier(DefaultAxes).Classify(in)
	assert.Equal(t, Assignment{Windshield: 0, Rear: 1, LeftFront: 2}, got)
}

func TestClassifyEmpty(t *testing.T) {
	assert.Empty(t, NewClassifier(DefaultAxes).Classify(nil))
}

func TestClassifyCustomAxes(t *testing.T) {
	// +X is front, +Z is right
	axes, err := ParseAxes("x", "z")
	require.NoError(t, err)

	got := NewClassifier(axes).Classify(pool(
		mgl32.Vec3{5, 0, 0},
		mgl32.Vec3{-5, 0, 0},
		mgl32.Vec3{2, 0, -3},
		mgl32.Vec3{2, 0, 3},
	))
	assert.Equal(t, Assignment{Windshield: 0, Rear: 1, LeftFront: 2, RightFront: 3}, got)
}

func TestParseAxesRejectsInvalid(t *testing.T) {
	_, err := ParseAxes("z", "z")
	assert.ErrorIs(t, err, ErrInvalidAxes)

	_, err = ParseAxes("w", "x")
	assert.ErrorIs(t, err, ErrInvalidAxes)

	assert.Error(t, Axes{Depth: 3, Lateral: 0}.Validate())
}
